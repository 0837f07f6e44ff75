package mapping

import (
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:  d.AccountID,
		Code:       d.Code,
		Name:       d.Name,
		Category:   string(d.Category),
		Behavior:   string(d.Behavior),
		Timestamps: ToModelTimestamps(d.Timestamps),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:  m.AccountID,
		Code:       m.Code,
		Name:       m.Name,
		Category:   domain.AccountCategory(m.Category),
		Behavior:   domain.AccountBehavior(m.Behavior),
		Timestamps: ToDomainTimestamps(m.Timestamps),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
