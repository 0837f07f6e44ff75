package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID string          `db:"id"`
	DivisionID    *string         `db:"division_id"` // Nullable
	Date          time.Time       `db:"date"`
	Description   string          `db:"description"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Status        string          `db:"status"`
	VoucherNo     *string         `db:"voucher_no"` // Nullable, unique when set
	AttachmentURL *string         `db:"attachment_url"`
	Timestamps
}

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID       string          `db:"id"`
	TransactionID string          `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	EntryType     string          `db:"entry_type"`
	Amount        decimal.Decimal `db:"amount"`
	CreatedAt     time.Time       `db:"created_at"`
}

// TransactionLog is a row of the transaction_logs table.
type TransactionLog struct {
	LogID         string    `db:"id"`
	TransactionID string    `db:"transaction_id"`
	ActorID       string    `db:"actor_id"`
	Action        string    `db:"action"`
	Comment       *string   `db:"comment"`
	CreatedAt     time.Time `db:"created_at"`
}

// LedgerEntry is a journal entry joined with the header columns of its transaction.
type LedgerEntry struct {
	JournalEntry
	TransactionDate time.Time `db:"transaction_date"`
	Description     string    `db:"description"`
	VoucherNo       *string   `db:"voucher_no"`
	DivisionID      *string   `db:"division_id"`
}
