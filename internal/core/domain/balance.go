package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Equality filter keys accepted by BalanceFilter. They name transaction columns.
const (
	FilterDivisionID    = "division_id"
	FilterVoucherNo     = "voucher_no"
	FilterTransactionID = "id"
)

// BalanceFilter selects which approved transactions contribute to a balance.
// DateFrom and DateTo are inclusive on the transaction date.
type BalanceFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Equals   map[string]string
}

// WithEquals returns a copy of f with an additional equality predicate.
func (f BalanceFilter) WithEquals(key, value string) BalanceFilter {
	eq := make(map[string]string, len(f.Equals)+1)
	for k, v := range f.Equals {
		eq[k] = v
	}
	eq[key] = value
	f.Equals = eq
	return f
}

// WithDateRange returns a copy of f bounded by from and to. Nil leaves a side open.
func (f BalanceFilter) WithDateRange(from, to *time.Time) BalanceFilter {
	f.DateFrom = from
	f.DateTo = to
	return f
}

// BalanceBreakdown is the debit, credit and signed balance of one account.
type BalanceBreakdown struct {
	AccountID string          `json:"accountID"`
	Debits    decimal.Decimal `json:"debits"`
	Credits   decimal.Decimal `json:"credits"`
	Balance   decimal.Decimal `json:"balance"`
}

// AccountBalance pairs an account with its computed balance.
type AccountBalance struct {
	Account Account         `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

// CategorySummary groups account balances under a category.
type CategorySummary struct {
	Category     AccountCategory  `json:"category"`
	TotalBalance decimal.Decimal  `json:"totalBalance"`
	Accounts     []AccountBalance `json:"accounts"`
}

// LedgerEntry is an approved journal entry with the header fields of its transaction.
type LedgerEntry struct {
	JournalEntry
	TransactionDate time.Time `json:"transactionDate"`
	Description     string    `json:"description"`
	VoucherNo       *string   `json:"voucherNo"`
	DivisionID      *string   `json:"divisionID"`
	// Effect is the signed change this entry makes to the account's balance.
	Effect decimal.Decimal `json:"effect"`
}

// EntryTotals holds summed debit and credit amounts for one account.
type EntryTotals struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}
