package dto

import (
	"time"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceQueryParams defines the filters accepted by balance endpoints.
type BalanceQueryParams struct {
	DateFrom   string   `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string   `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
	DivisionID string   `form:"divisionID" binding:"omitempty,uuid"`
	VoucherNo  string   `form:"voucherNo" binding:"omitempty,max=20"`
	AccountIDs []string `form:"accountID" binding:"omitempty,dive,uuid"`
}

// ToFilter converts query parameters into a balance filter.
func (p BalanceQueryParams) ToFilter() (domain.BalanceFilter, error) {
	var filter domain.BalanceFilter
	from, err := parseOptionalDate(p.DateFrom)
	if err != nil {
		return filter, err
	}
	to, err := parseOptionalDate(p.DateTo)
	if err != nil {
		return filter, err
	}
	filter = filter.WithDateRange(from, to)
	if p.DivisionID != "" {
		filter = filter.WithEquals(domain.FilterDivisionID, p.DivisionID)
	}
	if p.VoucherNo != "" {
		filter = filter.WithEquals(domain.FilterVoucherNo, p.VoucherNo)
	}
	return filter, nil
}

// BalanceBreakdownResponse defines the data returned for a balance breakdown query.
type BalanceBreakdownResponse struct {
	AccountID string          `json:"accountID"`
	Debits    decimal.Decimal `json:"debits"`
	Credits   decimal.Decimal `json:"credits"`
	Balance   decimal.Decimal `json:"balance"`
}

// AccountBalancesResponse maps account ids to balances.
type AccountBalancesResponse struct {
	Balances map[string]decimal.Decimal `json:"balances"`
}

// AccountBalanceLine is one account inside a category summary.
type AccountBalanceLine struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

// CategorySummaryResponse is one category of the statement-style summary.
type CategorySummaryResponse struct {
	Category     domain.AccountCategory `json:"category"`
	TotalBalance decimal.Decimal        `json:"totalBalance"`
	Accounts     []AccountBalanceLine   `json:"accounts"`
}

// TotalResponse wraps a single aggregated amount.
type TotalResponse struct {
	Total decimal.Decimal `json:"total"`
}

// LedgerEntryResponse is an approved entry with its transaction header.
type LedgerEntryResponse struct {
	EntryID         string           `json:"entryID"`
	TransactionID   string           `json:"transactionID"`
	TransactionDate Date             `json:"transactionDate"`
	Description     string           `json:"description"`
	VoucherNo       *string          `json:"voucherNo"`
	EntryType       domain.EntryType `json:"entryType"`
	Amount          decimal.Decimal  `json:"amount"`
	Effect          decimal.Decimal  `json:"effect"`
	CreatedAt       time.Time        `json:"createdAt"`
}

func ToBalanceBreakdownResponse(b *domain.BalanceBreakdown) BalanceBreakdownResponse {
	return BalanceBreakdownResponse{
		AccountID: b.AccountID,
		Debits:    b.Debits,
		Credits:   b.Credits,
		Balance:   b.Balance,
	}
}

func ToCategorySummaryResponses(summaries []domain.CategorySummary) []CategorySummaryResponse {
	res := make([]CategorySummaryResponse, len(summaries))
	for i, s := range summaries {
		lines := make([]AccountBalanceLine, len(s.Accounts))
		for j, ab := range s.Accounts {
			lines[j] = AccountBalanceLine{
				AccountID: ab.Account.AccountID,
				Code:      ab.Account.Code,
				Name:      ab.Account.Name,
				Balance:   ab.Balance,
			}
		}
		res[i] = CategorySummaryResponse{Category: s.Category, TotalBalance: s.TotalBalance, Accounts: lines}
	}
	return res
}

func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = LedgerEntryResponse{
			EntryID:         e.EntryID,
			TransactionID:   e.TransactionID,
			TransactionDate: NewDate(e.TransactionDate),
			Description:     e.Description,
			VoucherNo:       e.VoucherNo,
			EntryType:       e.EntryType,
			Amount:          e.Amount,
			Effect:          e.Effect,
			CreatedAt:       e.CreatedAt,
		}
	}
	return res
}
