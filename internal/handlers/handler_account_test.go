package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func testAccount(code string, category domain.AccountCategory, behavior domain.AccountBehavior) *domain.Account {
	now := time.Now().UTC()
	return &domain.Account{
		AccountID: uuid.NewString(),
		Code:      code,
		Name:      "Account " + code,
		Category:  category,
		Behavior:  behavior,
		Timestamps: domain.Timestamps{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	account := testAccount("1101", domain.Assets, domain.Flexible)
	req := dto.CreateAccountRequest{Code: "1101", Name: account.Name, Category: domain.Assets}

	suite.mockAccountService.On("CreateAccount", mock.Anything, req).Return(account, nil).Once()

	w := suite.do(http.MethodPost, "/accounts", req)

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.AccountResponse
	suite.decode(w, &res)
	suite.Equal(account.AccountID, res.AccountID)
	suite.Equal(domain.Debit, res.NormalBalance)
	suite.True(res.IsLiquid)
}

func (suite *HandlerTestSuite) TestCreateAccount_InvalidCategory() {
	w := suite.do(http.MethodPost, "/accounts", map[string]string{
		"code":     "1101",
		"name":     "Cash",
		"category": "Assets and more",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorMessage(w), "Invalid request format")
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1101", Name: "Cash", Category: domain.Assets}
	suite.mockAccountService.On("CreateAccount", mock.Anything, req).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.do(http.MethodPost, "/accounts", req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccountByID", mock.Anything, accountID).
		Return(nil, apperrors.NotFoundf("account %s", accountID)).Once()

	w := suite.do(http.MethodGet, "/accounts/"+accountID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(suite.errorMessage(w), accountID)
}

func (suite *HandlerTestSuite) TestGetAccountByCode() {
	account := testAccount("2101", domain.Liabilities, domain.CreditOnly)
	suite.mockAccountService.On("GetAccountByCode", mock.Anything, "2101").Return(account, nil).Once()

	w := suite.do(http.MethodGet, "/accounts/code/2101", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountResponse
	suite.decode(w, &res)
	suite.Equal(domain.Credit, res.NormalBalance)
}

func (suite *HandlerTestSuite) TestListAccounts_LiquidFilter() {
	accounts := []domain.Account{*testAccount("1101", domain.Assets, domain.Flexible)}
	suite.mockAccountService.On("ListAccounts", mock.Anything, mock.MatchedBy(func(f domain.AccountFilter) bool {
		return f.LiquidOnly && f.Category != nil && *f.Category == domain.Assets
	})).Return(accounts, nil).Once()

	w := suite.do(http.MethodGet, "/accounts?category=Assets&liquidOnly=true", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.AccountResponse
	suite.decode(w, &res)
	suite.Len(res, 1)
}

func (suite *HandlerTestSuite) TestDeleteAccount_HasEntries() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("DeleteAccount", mock.Anything, accountID).
		Return(apperrors.Policyf("account %s has journal entries", accountID)).Once()

	w := suite.do(http.MethodDelete, "/accounts/"+accountID, nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteAccount_Success() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("DeleteAccount", mock.Anything, accountID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/accounts/"+accountID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestGetAccountBalance_PassesFilter() {
	accountID := uuid.NewString()
	divisionID := uuid.NewString()
	breakdown := &domain.BalanceBreakdown{
		AccountID: accountID,
		Debits:    decimal.NewFromInt(500),
		Credits:   decimal.NewFromInt(200),
		Balance:   decimal.NewFromInt(300),
	}
	suite.mockBalanceService.On("GetBalanceBreakdown", mock.Anything, accountID, mock.MatchedBy(func(f domain.BalanceFilter) bool {
		return f.DateFrom != nil && f.DateFrom.Format(dto.DateLayout) == "2024-01-01" &&
			f.DateTo == nil &&
			f.Equals[domain.FilterDivisionID] == divisionID
	})).Return(breakdown, nil).Once()

	w := suite.do(http.MethodGet, "/accounts/"+accountID+"/balance?dateFrom=2024-01-01&divisionID="+divisionID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.BalanceBreakdownResponse
	suite.decode(w, &res)
	suite.True(decimal.NewFromInt(300).Equal(res.Balance))
}

func (suite *HandlerTestSuite) TestGetAccountBalance_BadDate() {
	w := suite.do(http.MethodGet, "/accounts/"+uuid.NewString()+"/balance?dateFrom=01-01-2024", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListAccountEntries() {
	accountID := uuid.NewString()
	voucher := "VCH-2024-00001"
	entries := []domain.LedgerEntry{{
		JournalEntry: domain.JournalEntry{
			EntryID:       uuid.NewString(),
			TransactionID: uuid.NewString(),
			AccountID:     accountID,
			EntryType:     domain.Debit,
			Amount:        decimal.NewFromInt(100),
		},
		TransactionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description:     "Iuran",
		VoucherNo:       &voucher,
		Effect:          decimal.NewFromInt(100),
	}}
	suite.mockBalanceService.On("GetAccountEntries", mock.Anything, accountID, mock.Anything).Return(entries, nil).Once()

	w := suite.do(http.MethodGet, "/accounts/"+accountID+"/entries", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res []map[string]any
	suite.decode(w, &res)
	suite.Require().Len(res, 1)
	suite.Equal("2024-03-01", res[0]["transactionDate"])
	suite.Equal(voucher, res[0]["voucherNo"])
}
