package accounting

import (
	"fmt"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MaxAmountScale is the number of fractional digits a stored amount may carry.
const MaxAmountScale = 2

// CalculateBalance applies the normal-balance convention of category to summed debits and credits.
// DEBIT-normal categories (Assets, Expenses) report debits - credits, the rest credits - debits.
func CalculateBalance(category domain.AccountCategory, debits, credits decimal.Decimal) (decimal.Decimal, error) {
	switch category.NormalBalance() {
	case domain.Debit:
		return debits.Sub(credits), nil
	case domain.Credit:
		return credits.Sub(debits), nil
	}
	return decimal.Zero, fmt.Errorf("unknown account category '%s'", category)
}

// CalculateSignedAmount returns the effect of a single entry on the balance of an account in category.
func CalculateSignedAmount(entry domain.JournalEntry, category domain.AccountCategory) (decimal.Decimal, error) {
	if !entry.EntryType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown entry type '%s' for account ID %s", entry.EntryType, entry.AccountID)
	}
	if entry.EntryType.Increases(category) {
		return entry.Amount, nil
	}
	if !category.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account category '%s' encountered for account ID %s", category, entry.AccountID)
	}
	return entry.Amount.Neg(), nil
}

// ValidateEntryAmount checks that amount is positive and has at most MaxAmountScale fractional digits.
func ValidateEntryAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("journal entry amount must be positive, got %s", amount.String())
	}
	if !amount.Equal(amount.Round(MaxAmountScale)) {
		return fmt.Errorf("journal entry amount %s has more than %d decimal places", amount.String(), MaxAmountScale)
	}
	return nil
}
