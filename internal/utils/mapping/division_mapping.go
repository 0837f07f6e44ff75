package mapping

import (
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/models"
)

// ToModelDivision converts a domain Division to a model Division
func ToModelDivision(d domain.Division) models.Division {
	return models.Division{
		DivisionID:  d.DivisionID,
		Name:        d.Name,
		Code:        d.Code,
		Description: d.Description,
		IsActive:    d.IsActive,
		Timestamps:  ToModelTimestamps(d.Timestamps),
	}
}

// ToDomainDivision converts a model Division to a domain Division
func ToDomainDivision(m models.Division) domain.Division {
	return domain.Division{
		DivisionID:  m.DivisionID,
		Name:        m.Name,
		Code:        m.Code,
		Description: m.Description,
		IsActive:    m.IsActive,
		Timestamps:  ToDomainTimestamps(m.Timestamps),
	}
}

// ToDomainDivisionSlice converts a slice of model Divisions to a slice of domain Divisions
func ToDomainDivisionSlice(ms []models.Division) []domain.Division {
	ds := make([]domain.Division, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDivision(m)
	}
	return ds
}

func ToModelDivisionAccount(d domain.DivisionAccount) models.DivisionAccount {
	return models.DivisionAccount{
		MappingID:  d.MappingID,
		DivisionID: d.DivisionID,
		AccountID:  d.AccountID,
		AliasName:  d.AliasName,
		IsActive:   d.IsActive,
		Timestamps: ToModelTimestamps(d.Timestamps),
	}
}

// ToDomainDivisionAccount converts a mapping row and, when non-nil, attaches its account.
func ToDomainDivisionAccount(m models.DivisionAccount, account *models.Account) domain.DivisionAccount {
	d := domain.DivisionAccount{
		MappingID:  m.MappingID,
		DivisionID: m.DivisionID,
		AccountID:  m.AccountID,
		AliasName:  m.AliasName,
		IsActive:   m.IsActive,
		Timestamps: ToDomainTimestamps(m.Timestamps),
	}
	if account != nil {
		a := ToDomainAccount(*account)
		d.Account = &a
	}
	return d
}
