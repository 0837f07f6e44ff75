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

func testTransaction(status domain.TransactionStatus, amount int64) *domain.Transaction {
	now := time.Now().UTC()
	txnID := uuid.NewString()
	return &domain.Transaction{
		TransactionID: txnID,
		Date:          time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Description:   "Iuran bulanan",
		TotalAmount:   decimal.NewFromInt(amount),
		Status:        status,
		Entries: []domain.JournalEntry{
			{EntryID: uuid.NewString(), TransactionID: txnID, AccountID: uuid.NewString(), EntryType: domain.Debit, Amount: decimal.NewFromInt(amount)},
			{EntryID: uuid.NewString(), TransactionID: txnID, AccountID: uuid.NewString(), EntryType: domain.Credit, Amount: decimal.NewFromInt(amount)},
		},
		Timestamps: domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
}

func transactionBody(txn *domain.Transaction) map[string]any {
	entries := make([]map[string]any, len(txn.Entries))
	for i, e := range txn.Entries {
		entries[i] = map[string]any{
			"accountID": e.AccountID,
			"entryType": e.EntryType,
			"amount":    e.Amount.String(),
		}
	}
	return map[string]any{
		"date":        txn.Date.Format(dto.DateLayout),
		"description": txn.Description,
		"entries":     entries,
	}
}

func (suite *HandlerTestSuite) TestCreateTransaction_Success() {
	txn := testTransaction(domain.Draft, 250)

	suite.mockTransactionService.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
		return len(req.Entries) == 2 &&
			req.Date.Format(dto.DateLayout) == "2024-05-02" &&
			req.Entries[0].Amount.Equal(decimal.NewFromInt(250))
	})).Return(txn, nil).Once()

	w := suite.do(http.MethodPost, "/transactions", transactionBody(txn))

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.TransactionResponse
	suite.decode(w, &res)
	suite.Equal(txn.TransactionID, res.TransactionID)
	suite.Equal(domain.Draft, res.Status)
	suite.True(res.IsBalanced)
	suite.ElementsMatch([]domain.TransactionAction{domain.ActionSubmit, domain.ActionEdit}, res.AllowedActions)
}

func (suite *HandlerTestSuite) TestCreateTransaction_RejectsBadEntries() {
	txn := testTransaction(domain.Draft, 100)

	cases := map[string]func(body map[string]any){
		"missing entries": func(body map[string]any) { delete(body, "entries") },
		"missing date":    func(body map[string]any) { delete(body, "date") },
		"zero amount": func(body map[string]any) {
			body["entries"].([]map[string]any)[0]["amount"] = "0"
		},
		"three decimals": func(body map[string]any) {
			body["entries"].([]map[string]any)[0]["amount"] = "10.005"
		},
		"unknown entry type": func(body map[string]any) {
			body["entries"].([]map[string]any)[0]["entryType"] = "SIDEWAYS"
		},
	}
	for name, mutate := range cases {
		body := transactionBody(txn)
		mutate(body)
		w := suite.do(http.MethodPost, "/transactions", body)
		suite.Equal(http.StatusBadRequest, w.Code, name)
	}
	suite.mockTransactionService.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateTransaction_UnbalancedFromService() {
	txn := testTransaction(domain.Draft, 100)
	suite.mockTransactionService.On("CreateTransaction", mock.Anything, mock.Anything).
		Return(nil, apperrors.Validationf("transaction is not balanced")).Once()

	w := suite.do(http.MethodPost, "/transactions", transactionBody(txn))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("validation error: transaction is not balanced", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestGetTransaction_IncludesLogs() {
	txn := testTransaction(domain.Pending, 75)
	comment := "ok"
	txn.Logs = []domain.TransactionLog{{
		LogID:         uuid.NewString(),
		TransactionID: txn.TransactionID,
		ActorID:       suite.userID,
		Action:        domain.ActionSubmit,
		Comment:       &comment,
		CreatedAt:     time.Now().UTC(),
	}}
	suite.mockTransactionService.On("GetTransaction", mock.Anything, txn.TransactionID).Return(txn, nil).Once()

	w := suite.do(http.MethodGet, "/transactions/"+txn.TransactionID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.TransactionResponse
	suite.decode(w, &res)
	suite.Len(res.Logs, 1)
	suite.ElementsMatch([]domain.TransactionAction{domain.ActionApprove, domain.ActionReject}, res.AllowedActions)
}

func (suite *HandlerTestSuite) TestListTransactions_Pagination() {
	txns := []domain.Transaction{*testTransaction(domain.Approved, 10), *testTransaction(domain.Approved, 20)}
	next := "bmV4dA=="
	suite.mockTransactionService.On("ListTransactions", mock.Anything, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.Limit == 2 &&
			f.Status != nil && *f.Status == domain.Approved &&
			f.NextToken != nil && *f.NextToken == "cHJldg=="
	})).Return(txns, &next, nil).Once()

	w := suite.do(http.MethodGet, "/transactions?status=APPROVED&limit=2&nextToken=cHJldg==", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListTransactionsResponse
	suite.decode(w, &res)
	suite.Len(res.Transactions, 2)
	suite.Require().NotNil(res.NextToken)
	suite.Equal(next, *res.NextToken)
}

func (suite *HandlerTestSuite) TestListTransactions_InvalidParams() {
	for _, query := range []string{"?limit=0", "?limit=1000", "?status=ARCHIVED", "?dateTo=yesterday"} {
		w := suite.do(http.MethodGet, "/transactions"+query, nil)
		suite.Equal(http.StatusBadRequest, w.Code, query)
	}
}

func (suite *HandlerTestSuite) TestUpdateTransaction_NotEditable() {
	txn := testTransaction(domain.Approved, 100)
	suite.mockTransactionService.On("UpdateTransaction", mock.Anything, txn.TransactionID, mock.Anything).
		Return(nil, apperrors.Policyf("transaction in status APPROVED cannot be edited")).Once()

	w := suite.do(http.MethodPut, "/transactions/"+txn.TransactionID, transactionBody(txn))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestWorkflow_SubmitWithoutBody() {
	txn := testTransaction(domain.Pending, 100)
	suite.mockApprovalService.On("Submit", mock.Anything, txn.TransactionID).Return(txn, nil).Once()

	w := suite.do(http.MethodPost, "/transactions/"+txn.TransactionID+"/submit", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.TransactionResponse
	suite.decode(w, &res)
	suite.Equal(domain.Pending, res.Status)
}

func (suite *HandlerTestSuite) TestWorkflow_ApproveReturnsVoucher() {
	txn := testTransaction(domain.Approved, 100)
	voucher := "VCH-2024-00007"
	txn.VoucherNo = &voucher
	suite.mockApprovalService.On("Approve", mock.Anything, txn.TransactionID).Return(txn, nil).Once()

	w := suite.do(http.MethodPost, "/transactions/"+txn.TransactionID+"/approve", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.TransactionResponse
	suite.decode(w, &res)
	suite.Require().NotNil(res.VoucherNo)
	suite.Equal(voucher, *res.VoucherNo)
	suite.Equal([]domain.TransactionAction{domain.ActionVoid}, res.AllowedActions)
}

func (suite *HandlerTestSuite) TestWorkflow_RejectPassesComment() {
	txn := testTransaction(domain.Rejected, 100)
	suite.mockApprovalService.On("Reject", mock.Anything, txn.TransactionID, "wrong account").Return(txn, nil).Once()

	w := suite.do(http.MethodPost, "/transactions/"+txn.TransactionID+"/reject", dto.WorkflowActionRequest{Comment: "wrong account"})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestWorkflow_ErrorMapping() {
	id := uuid.NewString()
	suite.mockApprovalService.On("Void", mock.Anything, id, "").
		Return(nil, apperrors.Validationf("a comment is required to void")).Once()
	suite.mockApprovalService.On("Approve", mock.Anything, id).
		Return(nil, apperrors.ErrConflict).Once()
	suite.mockApprovalService.On("Submit", mock.Anything, id).
		Return(nil, apperrors.Policyf("cannot submit an APPROVED transaction")).Once()

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPost, "/transactions/"+id+"/void", nil).Code)
	suite.Equal(http.StatusConflict, suite.do(http.MethodPost, "/transactions/"+id+"/approve", nil).Code)
	suite.Equal(http.StatusUnprocessableEntity, suite.do(http.MethodPost, "/transactions/"+id+"/submit", nil).Code)
}

func (suite *HandlerTestSuite) TestGetAllowedActions() {
	txn := testTransaction(domain.Void, 100)
	suite.mockTransactionService.On("GetTransaction", mock.Anything, txn.TransactionID).Return(txn, nil).Once()

	w := suite.do(http.MethodGet, "/transactions/"+txn.TransactionID+"/actions", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.AllowedActionsResponse
	suite.decode(w, &res)
	suite.Equal(domain.Void, res.Status)
	suite.NotNil(res.Actions)
	suite.Empty(res.Actions)
}

func (suite *HandlerTestSuite) TestGetLogs_Empty() {
	id := uuid.NewString()
	suite.mockApprovalService.On("GetLogs", mock.Anything, id).Return([]domain.TransactionLog{}, nil).Once()

	w := suite.do(http.MethodGet, "/transactions/"+id+"/logs", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq("[]", w.Body.String())
}
