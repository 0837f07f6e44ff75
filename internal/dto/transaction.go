package dto

import (
	"time"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryRequest is one debit or credit line of a transaction request.
type JournalEntryRequest struct {
	AccountID string           `json:"accountID" binding:"required,uuid"`
	EntryType domain.EntryType `json:"entryType" binding:"required,entry_type"`
	Amount    decimal.Decimal  `json:"amount" binding:"required,decimal_positive"`
}

// TransactionHeaderRequest holds the header fields shared by create and update.
type TransactionHeaderRequest struct {
	Date          Date            `json:"date" binding:"required"`
	Description   string          `json:"description" binding:"max=1000"`
	TotalAmount   decimal.Decimal `json:"totalAmount"` // Optional; defaults to the sum of debits
	DivisionID    *string         `json:"divisionID" binding:"omitempty,uuid"`
	AttachmentURL *string         `json:"attachmentURL" binding:"omitempty,url"`
}

// CreateTransactionRequest defines the data needed to create a transaction in DRAFT.
type CreateTransactionRequest struct {
	TransactionHeaderRequest
	Entries []JournalEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// UpdateTransactionRequest replaces the header and the whole entry set of an editable transaction.
// An omitted divisionID or attachmentURL keeps the stored value.
type UpdateTransactionRequest struct {
	TransactionHeaderRequest
	Entries []JournalEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// WorkflowActionRequest carries the optional comment of a workflow verb.
// Reject and void require it.
type WorkflowActionRequest struct {
	Comment string `json:"comment" binding:"max=1000"`
}

// ToDomainEntries converts entry requests into unsaved domain entries.
func ToDomainEntries(reqs []JournalEntryRequest) []domain.JournalEntry {
	entries := make([]domain.JournalEntry, len(reqs))
	for i, r := range reqs {
		entries[i] = domain.JournalEntry{
			AccountID: r.AccountID,
			EntryType: r.EntryType,
			Amount:    r.Amount,
		}
	}
	return entries
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID   string           `json:"entryID"`
	AccountID string           `json:"accountID"`
	EntryType domain.EntryType `json:"entryType"`
	Amount    decimal.Decimal  `json:"amount"`
}

// TransactionLogResponse defines the data returned for an audit record.
type TransactionLogResponse struct {
	LogID     string                   `json:"logID"`
	ActorID   string                   `json:"actorID"`
	Action    domain.TransactionAction `json:"action"`
	Comment   *string                  `json:"comment"`
	CreatedAt time.Time                `json:"createdAt"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID  string                     `json:"transactionID"`
	DivisionID     *string                    `json:"divisionID"`
	Date           Date                       `json:"date"`
	Description    string                     `json:"description"`
	TotalAmount    decimal.Decimal            `json:"totalAmount"`
	TotalDebits    decimal.Decimal            `json:"totalDebits"`
	TotalCredits   decimal.Decimal            `json:"totalCredits"`
	IsBalanced     bool                       `json:"isBalanced"`
	Status         domain.TransactionStatus   `json:"status"`
	StatusLabel    string                     `json:"statusLabel"`
	VoucherNo      *string                    `json:"voucherNo"`
	AttachmentURL  *string                    `json:"attachmentURL"`
	Entries        []JournalEntryResponse     `json:"entries"`
	Logs           []TransactionLogResponse   `json:"logs,omitempty"`
	AllowedActions []domain.TransactionAction `json:"allowedActions"`
	CreatedAt      time.Time                  `json:"createdAt"`
	UpdatedAt      time.Time                  `json:"updatedAt"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Status     string  `form:"status" binding:"omitempty,oneof=DRAFT PENDING APPROVED REJECTED VOID"`
	DivisionID string  `form:"divisionID" binding:"omitempty,uuid"`
	DateFrom   string  `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string  `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
	Limit      int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken  *string `form:"nextToken"`
}

// ToFilter converts query parameters into a domain filter.
func (p ListTransactionsParams) ToFilter() (domain.TransactionFilter, error) {
	filter := domain.TransactionFilter{Limit: p.Limit, NextToken: p.NextToken}
	if p.Status != "" {
		s := domain.TransactionStatus(p.Status)
		filter.Status = &s
	}
	if p.DivisionID != "" {
		d := p.DivisionID
		filter.DivisionID = &d
	}
	var err error
	if filter.DateFrom, err = parseOptionalDate(p.DateFrom); err != nil {
		return filter, err
	}
	if filter.DateTo, err = parseOptionalDate(p.DateTo); err != nil {
		return filter, err
	}
	return filter, nil
}

// ListTransactionsResponse wraps one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// AllowedActionsResponse lists the workflow verbs available on a transaction.
type AllowedActionsResponse struct {
	TransactionID string                     `json:"transactionID"`
	Status        domain.TransactionStatus   `json:"status"`
	Actions       []domain.TransactionAction `json:"actions"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction, allowed []domain.TransactionAction) TransactionResponse {
	debits, credits := domain.SumEntries(txn.Entries)
	entries := make([]JournalEntryResponse, len(txn.Entries))
	for i, e := range txn.Entries {
		entries[i] = JournalEntryResponse{
			EntryID:   e.EntryID,
			AccountID: e.AccountID,
			EntryType: e.EntryType,
			Amount:    e.Amount,
		}
	}
	if allowed == nil {
		allowed = []domain.TransactionAction{}
	}
	return TransactionResponse{
		TransactionID:  txn.TransactionID,
		DivisionID:     txn.DivisionID,
		Date:           NewDate(txn.Date),
		Description:    txn.Description,
		TotalAmount:    txn.TotalAmount,
		TotalDebits:    debits,
		TotalCredits:   credits,
		IsBalanced:     domain.AmountsBalance(debits, credits),
		Status:         txn.Status,
		StatusLabel:    txn.Status.Label(),
		VoucherNo:      txn.VoucherNo,
		AttachmentURL:  txn.AttachmentURL,
		Entries:        entries,
		Logs:           ToTransactionLogResponses(txn.Logs),
		AllowedActions: allowed,
		CreatedAt:      txn.CreatedAt,
		UpdatedAt:      txn.UpdatedAt,
	}
}

// ToTransactionLogResponses converts audit records to their DTOs.
func ToTransactionLogResponses(logs []domain.TransactionLog) []TransactionLogResponse {
	if len(logs) == 0 {
		return nil
	}
	res := make([]TransactionLogResponse, len(logs))
	for i, l := range logs {
		res[i] = TransactionLogResponse{
			LogID:     l.LogID,
			ActorID:   l.ActorID,
			Action:    l.Action,
			Comment:   l.Comment,
			CreatedAt: l.CreatedAt,
		}
	}
	return res
}
