package mapping

import (
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/models"
)

// ToModelTransaction converts the header of a domain Transaction to a model Transaction.
// Entries and logs are stored in their own tables.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		DivisionID:    d.DivisionID,
		Date:          d.Date,
		Description:   d.Description,
		TotalAmount:   d.TotalAmount,
		Status:        string(d.Status),
		VoucherNo:     d.VoucherNo,
		AttachmentURL: d.AttachmentURL,
		Timestamps:    ToModelTimestamps(d.Timestamps),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction without entries
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		DivisionID:    m.DivisionID,
		Date:          m.Date,
		Description:   m.Description,
		TotalAmount:   m.TotalAmount,
		Status:        domain.TransactionStatus(m.Status),
		VoucherNo:     m.VoucherNo,
		AttachmentURL: m.AttachmentURL,
		Timestamps:    ToDomainTimestamps(m.Timestamps),
	}
}

func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		EntryType:     string(d.EntryType),
		Amount:        d.Amount,
		CreatedAt:     d.CreatedAt,
	}
}

func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		EntryType:     domain.EntryType(m.EntryType),
		Amount:        m.Amount,
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainJournalEntrySlice converts a slice of model entries to domain entries
func ToDomainJournalEntrySlice(ms []models.JournalEntry) []domain.JournalEntry {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntry(m)
	}
	return ds
}

func ToModelTransactionLog(d domain.TransactionLog) models.TransactionLog {
	return models.TransactionLog{
		LogID:         d.LogID,
		TransactionID: d.TransactionID,
		ActorID:       d.ActorID,
		Action:        string(d.Action),
		Comment:       d.Comment,
		CreatedAt:     d.CreatedAt,
	}
}

func ToDomainTransactionLog(m models.TransactionLog) domain.TransactionLog {
	return domain.TransactionLog{
		LogID:         m.LogID,
		TransactionID: m.TransactionID,
		ActorID:       m.ActorID,
		Action:        domain.TransactionAction(m.Action),
		Comment:       m.Comment,
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainTransactionLogSlice converts a slice of model logs to domain logs
func ToDomainTransactionLogSlice(ms []models.TransactionLog) []domain.TransactionLog {
	ds := make([]domain.TransactionLog, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionLog(m)
	}
	return ds
}

// ToDomainLedgerEntry converts a joined entry row. Effect is left for the caller to compute.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		JournalEntry:    ToDomainJournalEntry(m.JournalEntry),
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		VoucherNo:       m.VoucherNo,
		DivisionID:      m.DivisionID,
	}
}
