package domain

import "github.com/shopspring/decimal"

// Division is an organizational scope over accounts and transactions.
type Division struct {
	DivisionID  string  `json:"divisionID"`
	Name        string  `json:"name"`
	Code        string  `json:"code"` // Unique, uppercase, up to 10 chars
	Description *string `json:"description"`
	IsActive    bool    `json:"isActive"`
	Timestamps
}

// DivisionAccount maps an account into a division under an optional alias.
type DivisionAccount struct {
	MappingID  string   `json:"mappingID"`
	DivisionID string   `json:"divisionID"`
	AccountID  string   `json:"accountID"`
	AliasName  string   `json:"aliasName"`
	IsActive   bool     `json:"isActive"` // Independent of the division's own flag
	Account    *Account `json:"account,omitempty"`
	Timestamps
}

// DisplayName is the alias when set, else the underlying account name.
func (m DivisionAccount) DisplayName() string {
	if m.AliasName != "" {
		return m.AliasName
	}
	if m.Account != nil {
		return m.Account.Name
	}
	return ""
}

func (m DivisionAccount) IsLiquid() bool {
	return m.Account != nil && m.Account.IsLiquid()
}

// DivisionStats counts a division's transactions by status.
type DivisionStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// DivisionAccountBalance is a mapped account with its division-scoped breakdown.
type DivisionAccountBalance struct {
	Mapping   DivisionAccount  `json:"mapping"`
	Breakdown BalanceBreakdown `json:"breakdown"`
}

// DivisionSummary is the statement-style overview of a division.
type DivisionSummary struct {
	Division         Division                 `json:"division"`
	TotalAssets      decimal.Decimal          `json:"totalAssets"`
	TotalLiabilities decimal.Decimal          `json:"totalLiabilities"`
	NetPosition      decimal.Decimal          `json:"netPosition"`
	LiquidBalances   []DivisionAccountBalance `json:"liquidBalances"`
	Stats            DivisionStats            `json:"stats"`
}
