package handlers_test

import (
	"net/http"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestGetAccountBalances_RepeatedAccountID() {
	first, second := uuid.NewString(), uuid.NewString()
	balances := map[string]decimal.Decimal{
		first:  decimal.NewFromInt(1000),
		second: decimal.NewFromInt(-50),
	}
	suite.mockBalanceService.On("GetAccountBalances", mock.Anything, []string{first, second}, mock.Anything).
		Return(balances, nil).Once()

	w := suite.do(http.MethodGet, "/balances?accountID="+first+"&accountID="+second, nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountBalancesResponse
	suite.decode(w, &res)
	suite.Len(res.Balances, 2)
	suite.True(decimal.NewFromInt(-50).Equal(res.Balances[second]))
}

func (suite *HandlerTestSuite) TestGetAccountBalances_InvalidAccountID() {
	w := suite.do(http.MethodGet, "/balances?accountID=not-a-uuid", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetSummaryByCategory() {
	cash := testAccount("1101", domain.Assets, domain.Flexible)
	summaries := []domain.CategorySummary{
		{
			Category:     domain.Assets,
			TotalBalance: decimal.NewFromInt(700),
			Accounts:     []domain.AccountBalance{{Account: *cash, Balance: decimal.NewFromInt(700)}},
		},
		{Category: domain.Liabilities, TotalBalance: decimal.Zero, Accounts: []domain.AccountBalance{}},
	}
	suite.mockBalanceService.On("GetBalanceSummaryByCategory", mock.Anything, mock.MatchedBy(func(f domain.BalanceFilter) bool {
		return f.DateTo != nil && f.DateTo.Format(dto.DateLayout) == "2024-12-31"
	})).Return(summaries, nil).Once()

	w := suite.do(http.MethodGet, "/balances/summary?dateTo=2024-12-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.CategorySummaryResponse
	suite.decode(w, &res)
	suite.Require().Len(res, 2)
	suite.Equal(domain.Assets, res[0].Category)
	suite.Equal("1101", res[0].Accounts[0].Code)
}

func (suite *HandlerTestSuite) TestTotals() {
	suite.mockBalanceService.On("GetTotalAssets", mock.Anything, mock.Anything).Return(decimal.NewFromInt(900), nil).Once()
	suite.mockBalanceService.On("GetTotalLiabilities", mock.Anything, mock.Anything).Return(decimal.NewFromInt(400), nil).Once()
	suite.mockBalanceService.On("GetEquity", mock.Anything, mock.Anything).Return(decimal.NewFromInt(500), nil).Once()

	for path, want := range map[string]int64{"assets": 900, "liabilities": 400, "equity": 500} {
		w := suite.do(http.MethodGet, "/balances/totals/"+path, nil)
		suite.Equal(http.StatusOK, w.Code, path)
		var res dto.TotalResponse
		suite.decode(w, &res)
		suite.True(decimal.NewFromInt(want).Equal(res.Total), path)
	}
}
