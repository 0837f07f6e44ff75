package dto

import (
	"time"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code     string                 `json:"code" binding:"required,max=20"`
	Name     string                 `json:"name" binding:"required,max=255"`
	Category domain.AccountCategory `json:"category" binding:"required,oneof=Assets Liabilities Equity Income Expenses"`
	Behavior domain.AccountBehavior `json:"behavior" binding:"omitempty,oneof=FLEXIBLE TRANSIT_ONLY CREDIT_ONLY NON_LIQUID"` // Defaults to FLEXIBLE
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name     *string                 `json:"name" binding:"omitempty,max=255"`
	Category *domain.AccountCategory `json:"category" binding:"omitempty,oneof=Assets Liabilities Equity Income Expenses"`
	Behavior *domain.AccountBehavior `json:"behavior" binding:"omitempty,oneof=FLEXIBLE TRANSIT_ONLY CREDIT_ONLY NON_LIQUID"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string                 `json:"accountID"`
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	Category      domain.AccountCategory `json:"category"`
	Behavior      domain.AccountBehavior `json:"behavior"`
	NormalBalance domain.EntryType       `json:"normalBalance"`
	IsLiquid      bool                   `json:"isLiquid"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Category   string `form:"category" binding:"omitempty,oneof=Assets Liabilities Equity Income Expenses"`
	Behavior   string `form:"behavior" binding:"omitempty,oneof=FLEXIBLE TRANSIT_ONLY CREDIT_ONLY NON_LIQUID"`
	LiquidOnly bool   `form:"liquidOnly"`
}

// ToFilter converts query parameters into a domain filter.
func (p ListAccountsParams) ToFilter() domain.AccountFilter {
	filter := domain.AccountFilter{LiquidOnly: p.LiquidOnly}
	if p.Category != "" {
		c := domain.AccountCategory(p.Category)
		filter.Category = &c
	}
	if p.Behavior != "" {
		b := domain.AccountBehavior(p.Behavior)
		filter.Behavior = &b
	}
	return filter
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		Category:      acc.Category,
		Behavior:      acc.Behavior,
		NormalBalance: acc.NormalBalance(),
		IsLiquid:      acc.IsLiquid(),
		CreatedAt:     acc.CreatedAt,
		UpdatedAt:     acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
