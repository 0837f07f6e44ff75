package dto

import (
	"time"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDivisionRequest defines the data needed to create a division.
type CreateDivisionRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Code        string  `json:"code" binding:"required,division_code"`
	Description *string `json:"description"`
}

// UpdateDivisionRequest defines the data allowed for updating a division.
type UpdateDivisionRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// MapAccountRequest maps an account into a division.
type MapAccountRequest struct {
	AccountID string `json:"accountID" binding:"required,uuid"`
	AliasName string `json:"aliasName" binding:"max=255"`
	IsActive  *bool  `json:"isActive"` // Defaults to true
}

// MapAccountsRequest maps several accounts at once.
type MapAccountsRequest struct {
	Accounts []MapAccountRequest `json:"accounts" binding:"required,min=1,dive"`
}

// UpdateAliasRequest renames a mapping.
type UpdateAliasRequest struct {
	AliasName string `json:"aliasName" binding:"required,max=255"`
}

// SetActiveRequest toggles an active flag.
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// CreateTransferRequest moves funds between two mapped accounts of a division.
type CreateTransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required,uuid"`
	ToAccountID   string          `json:"toAccountID" binding:"required,uuid,nefield=FromAccountID"`
	Amount        decimal.Decimal `json:"amount" binding:"required,decimal_positive"`
	Date          Date            `json:"date" binding:"required"`
	Description   string          `json:"description" binding:"max=1000"`
}

// DivisionResponse defines the data returned for a division.
type DivisionResponse struct {
	DivisionID  string    `json:"divisionID"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DivisionAccountResponse defines the data returned for a division mapping.
type DivisionAccountResponse struct {
	MappingID   string                 `json:"mappingID"`
	DivisionID  string                 `json:"divisionID"`
	AccountID   string                 `json:"accountID"`
	Code        string                 `json:"code"`
	DisplayName string                 `json:"displayName"`
	AliasName   string                 `json:"aliasName"`
	Category    domain.AccountCategory `json:"category"`
	Behavior    domain.AccountBehavior `json:"behavior"`
	IsActive    bool                   `json:"isActive"`
}

// DivisionAccountBalanceResponse is a mapping with its division-scoped balance.
type DivisionAccountBalanceResponse struct {
	DivisionAccountResponse
	Debits  decimal.Decimal `json:"debits"`
	Credits decimal.Decimal `json:"credits"`
	Balance decimal.Decimal `json:"balance"`
}

// DivisionSummaryResponse defines the data returned for a division summary.
type DivisionSummaryResponse struct {
	Division         DivisionResponse                 `json:"division"`
	TotalAssets      decimal.Decimal                  `json:"totalAssets"`
	TotalLiabilities decimal.Decimal                  `json:"totalLiabilities"`
	NetPosition      decimal.Decimal                  `json:"netPosition"`
	LiquidBalances   []DivisionAccountBalanceResponse `json:"liquidBalances"`
	Stats            domain.DivisionStats             `json:"stats"`
}

func ToDivisionResponse(d *domain.Division) DivisionResponse {
	return DivisionResponse{
		DivisionID:  d.DivisionID,
		Name:        d.Name,
		Code:        d.Code,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func ToListDivisionResponse(divisions []domain.Division) []DivisionResponse {
	res := make([]DivisionResponse, len(divisions))
	for i := range divisions {
		res[i] = ToDivisionResponse(&divisions[i])
	}
	return res
}

func ToDivisionAccountResponse(m *domain.DivisionAccount) DivisionAccountResponse {
	res := DivisionAccountResponse{
		MappingID:   m.MappingID,
		DivisionID:  m.DivisionID,
		AccountID:   m.AccountID,
		DisplayName: m.DisplayName(),
		AliasName:   m.AliasName,
		IsActive:    m.IsActive,
	}
	if m.Account != nil {
		res.Code = m.Account.Code
		res.Category = m.Account.Category
		res.Behavior = m.Account.Behavior
	}
	return res
}

func ToListDivisionAccountResponse(mappings []domain.DivisionAccount) []DivisionAccountResponse {
	res := make([]DivisionAccountResponse, len(mappings))
	for i := range mappings {
		res[i] = ToDivisionAccountResponse(&mappings[i])
	}
	return res
}

func ToDivisionAccountBalanceResponses(balances []domain.DivisionAccountBalance) []DivisionAccountBalanceResponse {
	res := make([]DivisionAccountBalanceResponse, len(balances))
	for i := range balances {
		b := balances[i]
		res[i] = DivisionAccountBalanceResponse{
			DivisionAccountResponse: ToDivisionAccountResponse(&b.Mapping),
			Debits:                  b.Breakdown.Debits,
			Credits:                 b.Breakdown.Credits,
			Balance:                 b.Breakdown.Balance,
		}
	}
	return res
}

func ToDivisionSummaryResponse(s *domain.DivisionSummary) DivisionSummaryResponse {
	return DivisionSummaryResponse{
		Division:         ToDivisionResponse(&s.Division),
		TotalAssets:      s.TotalAssets,
		TotalLiabilities: s.TotalLiabilities,
		NetPosition:      s.NetPosition,
		LiquidBalances:   ToDivisionAccountBalanceResponses(s.LiquidBalances),
		Stats:            s.Stats,
	}
}
