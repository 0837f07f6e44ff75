package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for transactions and their approval workflow.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	approvalService    portssvc.ApprovalWorkflowSvc
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, as portssvc.ApprovalWorkflowSvc) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		approvalService:    as,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvcFacade, as portssvc.ApprovalWorkflowSvc) {
	h := newTransactionHandler(ts, as)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.GET("/:id/actions", h.getAllowedActions)
		transactions.GET("/:id/logs", h.getLogs)
		transactions.POST("/:id/submit", h.workflowAction(domain.ActionSubmit))
		transactions.POST("/:id/approve", h.workflowAction(domain.ActionApprove))
		transactions.POST("/:id/reject", h.workflowAction(domain.ActionReject))
		transactions.POST("/:id/void", h.workflowAction(domain.ActionVoid))
	}
}

func (h *transactionHandler) respond(c *gin.Context, status int, txn *domain.Transaction) {
	c.JSON(status, dto.ToTransactionResponse(txn, h.approvalService.GetAllowedActions(*txn)))
}

// createTransaction godoc
// @Summary Create a transaction
// @Description Creates a DRAFT transaction. Debits must equal credits and every account must accept its entry type.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or unbalanced entries"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Entry violates account behavior"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "Invalid request format", err)
		return
	}

	logger.Info("Received request to create transaction", slog.Int("entries", len(req.Entries)))

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", txn.TransactionID))
	h.respond(c, http.StatusCreated, txn)
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Returns the header, entries, audit logs and the workflow verbs currently allowed.
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", c.Param("id")))

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	h.respond(c, http.StatusOK, txn)
}

// listTransactions godoc
// @Summary List transactions
// @Description Newest first, paginated with an opaque nextToken.
// @Tags transactions
// @Produce  json
// @Param   status query string false "Status filter"
// @Param   divisionID query string false "Division filter"
// @Param   dateFrom query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   dateTo query string false "Inclusive end date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	filter, ok := bindTransactionFilter(c, logger)
	if !ok {
		return
	}

	txns, next, err := h.transactionService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, h.toListResponse(txns, next))
}

func bindTransactionFilter(c *gin.Context, logger *slog.Logger) (domain.TransactionFilter, bool) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "Invalid query parameters", err)
		return domain.TransactionFilter{}, false
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondBadRequest(c, logger, "Invalid query parameters", err)
		return domain.TransactionFilter{}, false
	}
	return filter, true
}

func (h *transactionHandler) toListResponse(txns []domain.Transaction, next *string) dto.ListTransactionsResponse {
	res := dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionResponse, len(txns)),
		NextToken:    next,
	}
	for i := range txns {
		res.Transactions[i] = dto.ToTransactionResponse(&txns[i], h.approvalService.GetAllowedActions(txns[i]))
	}
	return res
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Replaces header and entries. Only DRAFT and REJECTED transactions are editable. Status is left unchanged, as are division and attachment when omitted.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Replacement content"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or unbalanced entries"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 422 {object} map[string]string "Transaction is not editable"
// @Security BearerAuth
// @Router /transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	transactionID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", transactionID))

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "Invalid request format", err)
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), transactionID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update transaction")
		return
	}

	logger.Info("Transaction updated successfully")
	h.respond(c, http.StatusOK, txn)
}

// getAllowedActions godoc
// @Summary List workflow verbs allowed on a transaction
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.AllowedActionsResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id}/actions [get]
func (h *transactionHandler) getAllowedActions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", c.Param("id")))

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	actions := h.approvalService.GetAllowedActions(*txn)
	if actions == nil {
		actions = []domain.TransactionAction{}
	}
	c.JSON(http.StatusOK, dto.AllowedActionsResponse{
		TransactionID: txn.TransactionID,
		Status:        txn.Status,
		Actions:       actions,
	})
}

// getLogs godoc
// @Summary Get the audit trail of a transaction
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {array} dto.TransactionLogResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id}/logs [get]
func (h *transactionHandler) getLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", c.Param("id")))

	logs, err := h.approvalService.GetLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve transaction logs")
		return
	}
	res := dto.ToTransactionLogResponses(logs)
	if res == nil {
		res = []dto.TransactionLogResponse{}
	}
	c.JSON(http.StatusOK, res)
}

// workflowAction godoc
// @Summary Run a workflow verb on a transaction
// @Description submit: DRAFT to PENDING. approve: PENDING to APPROVED, assigns the voucher number. reject: PENDING to REJECTED. void: APPROVED to VOID. reject and void require a comment.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   action path string true "submit, approve, reject or void"
// @Param   body body dto.WorkflowActionRequest false "Comment"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Missing comment"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Concurrent status change"
// @Failure 422 {object} map[string]string "Transition not allowed"
// @Security BearerAuth
// @Router /transactions/{id}/{action} [post]
func (h *transactionHandler) workflowAction(action domain.TransactionAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		transactionID := c.Param("id")
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
			slog.String("transaction_id", transactionID),
			slog.String("action", string(action)),
		)

		var req dto.WorkflowActionRequest
		// The body is optional for every verb.
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondBadRequest(c, logger, "Invalid request format", err)
			return
		}

		txn, err := h.runAction(c.Request.Context(), action, transactionID, req.Comment)
		if err != nil {
			respondWithError(c, logger, err, "Failed to apply "+string(action)+" to transaction")
			return
		}

		logger.Info("Workflow action applied", slog.String("status", string(txn.Status)))
		h.respond(c, http.StatusOK, txn)
	}
}

func (h *transactionHandler) runAction(ctx context.Context, action domain.TransactionAction, id, comment string) (*domain.Transaction, error) {
	switch action {
	case domain.ActionSubmit:
		return h.approvalService.Submit(ctx, id)
	case domain.ActionApprove:
		return h.approvalService.Approve(ctx, id)
	case domain.ActionReject:
		return h.approvalService.Reject(ctx, id, comment)
	default:
		return h.approvalService.Void(ctx, id, comment)
	}
}
