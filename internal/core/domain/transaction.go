package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest absolute difference between debits and credits
// still treated as balanced.
var BalanceTolerance = decimal.New(1, -2)

// EntryType indicates whether a journal entry is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

func (t EntryType) IsValid() bool {
	return t == Debit || t == Credit
}

// Multiplier is +1 for debits and -1 for credits.
func (t EntryType) Multiplier() int {
	switch t {
	case Debit:
		return 1
	case Credit:
		return -1
	}
	return 0
}

func (t EntryType) Opposite() EntryType {
	switch t {
	case Debit:
		return Credit
	case Credit:
		return Debit
	}
	return ""
}

// Increases reports whether an entry of this type raises the balance of an account in category c.
func (t EntryType) Increases(c AccountCategory) bool {
	return t != "" && t == c.NormalBalance()
}

// TransactionStatus is the approval state of a transaction.
type TransactionStatus string

const (
	Draft    TransactionStatus = "DRAFT"
	Pending  TransactionStatus = "PENDING"
	Approved TransactionStatus = "APPROVED"
	Rejected TransactionStatus = "REJECTED"
	Void     TransactionStatus = "VOID"
)

// TransactionStatuses returns every status value.
func TransactionStatuses() []TransactionStatus {
	return []TransactionStatus{Draft, Pending, Approved, Rejected, Void}
}

func (s TransactionStatus) IsValid() bool {
	switch s {
	case Draft, Pending, Approved, Rejected, Void:
		return true
	}
	return false
}

// AllowedTransitions returns the statuses reachable from s in one step.
func (s TransactionStatus) AllowedTransitions() []TransactionStatus {
	switch s {
	case Draft:
		return []TransactionStatus{Pending}
	case Pending:
		return []TransactionStatus{Approved, Rejected}
	case Approved:
		return []TransactionStatus{Void}
	case Rejected:
		return []TransactionStatus{Pending}
	case Void:
		return nil
	}
	return nil
}

func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range s.AllowedTransitions() {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsEditable is true while entries may still be replaced.
func (s TransactionStatus) IsEditable() bool {
	switch s {
	case Draft, Rejected:
		return true
	case Pending, Approved, Void:
		return false
	}
	return false
}

func (s TransactionStatus) IsFinal() bool {
	switch s {
	case Approved, Void:
		return true
	case Draft, Pending, Rejected:
		return false
	}
	return false
}

// AffectsBalance is true only for statuses whose entries count towards balances.
func (s TransactionStatus) AffectsBalance() bool {
	switch s {
	case Approved:
		return true
	case Draft, Pending, Rejected, Void:
		return false
	}
	return false
}

func (s TransactionStatus) Label() string {
	switch s {
	case Draft:
		return "Draft"
	case Pending:
		return "Pending Approval"
	case Approved:
		return "Approved"
	case Rejected:
		return "Rejected"
	case Void:
		return "Void"
	}
	return string(s)
}

// JournalEntry is a single debit or credit line of a transaction.
type JournalEntry struct {
	EntryID       string          `json:"entryID"`       // Primary Key (UUID)
	TransactionID string          `json:"transactionID"` // FK -> transactions.id
	AccountID     string          `json:"accountID"`     // FK -> accounts.id (restrict on delete)
	EntryType     EntryType       `json:"entryType"`
	Amount        decimal.Decimal `json:"amount"` // Always positive; the sign is carried by EntryType
	CreatedAt     time.Time       `json:"createdAt"`
}

// SignedAmount returns the amount multiplied by the entry type's multiplier.
func (e JournalEntry) SignedAmount() decimal.Decimal {
	return e.Amount.Mul(decimal.NewFromInt(int64(e.EntryType.Multiplier())))
}

// SumEntries totals debit and credit amounts separately.
func SumEntries(entries []JournalEntry) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, e := range entries {
		switch e.EntryType {
		case Debit:
			debits = debits.Add(e.Amount)
		case Credit:
			credits = credits.Add(e.Amount)
		}
	}
	return debits, credits
}

// AmountsBalance reports whether debits and credits agree within BalanceTolerance.
func AmountsBalance(debits, credits decimal.Decimal) bool {
	return debits.Sub(credits).Abs().LessThanOrEqual(BalanceTolerance)
}

// Transaction is a financial event made of balanced journal entries.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	DivisionID    *string           `json:"divisionID"`    // Nullable FK -> divisions.id
	Date          time.Time         `json:"date"`
	Description   string            `json:"description"`
	TotalAmount   decimal.Decimal   `json:"totalAmount"` // Informational; entries are authoritative
	Status        TransactionStatus `json:"status"`
	VoucherNo     *string           `json:"voucherNo"` // Set once, on first approval
	AttachmentURL *string           `json:"attachmentURL"`
	Entries       []JournalEntry    `json:"entries"`
	Logs          []TransactionLog  `json:"logs"` // Most recent first
	Timestamps
}

func (t Transaction) TotalDebits() decimal.Decimal {
	debits, _ := SumEntries(t.Entries)
	return debits
}

func (t Transaction) TotalCredits() decimal.Decimal {
	_, credits := SumEntries(t.Entries)
	return credits
}

// IsBalanced recomputes the double-entry check from the attached entries.
func (t Transaction) IsBalanced() bool {
	return AmountsBalance(SumEntries(t.Entries))
}

func (t Transaction) IsEditable() bool {
	return t.Status.IsEditable()
}

func (t Transaction) CanBeApproved() bool {
	return t.Status.CanTransitionTo(Approved)
}

// AccountIDs returns the distinct account ids referenced by the entries, in first-seen order.
func (t Transaction) AccountIDs() []string {
	return EntryAccountIDs(t.Entries)
}

// EntryAccountIDs returns the distinct account ids referenced by entries, in first-seen order.
func EntryAccountIDs(entries []JournalEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	return ids
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	Status     *TransactionStatus
	DivisionID *string
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	NextToken  *string
}
