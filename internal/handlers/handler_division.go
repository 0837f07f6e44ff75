package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// divisionHandler handles divisions, their account mappings and division-scoped reports.
type divisionHandler struct {
	divisionService     portssvc.DivisionSvc
	mappingService      portssvc.DivisionAccountSvc
	transactionService  portssvc.DivisionTransactionSvc
	balanceService      portssvc.DivisionBalanceSvc
	transactionRenderer *transactionHandler
}

func registerDivisionRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &divisionHandler{
		divisionService:     services.Division,
		mappingService:      services.DivisionAccount,
		transactionService:  services.DivisionTransaction,
		balanceService:      services.DivisionBalance,
		transactionRenderer: newTransactionHandler(services.Transaction, services.Approval),
	}

	divisions := rg.Group("/divisions")
	{
		divisions.POST("", h.createDivision)
		divisions.GET("", h.listDivisions)
		divisions.GET("/code/:code", h.getDivisionByCode)
		divisions.GET("/:id", h.getDivision)
		divisions.PUT("/:id", h.updateDivision)
		divisions.PUT("/:id/active", h.setDivisionActive)

		divisions.GET("/:id/accounts", h.listMappings)
		divisions.POST("/:id/accounts", h.mapAccounts)
		divisions.GET("/:id/accounts/:accountID", h.getMapping)
		divisions.PUT("/:id/accounts/:accountID/alias", h.updateAlias)
		divisions.PUT("/:id/accounts/:accountID/active", h.setMappingActive)
		divisions.DELETE("/:id/accounts/:accountID", h.unmapAccount)

		divisions.POST("/:id/transactions", h.createTransaction)
		divisions.GET("/:id/transactions", h.listTransactions)
		divisions.POST("/:id/transfers", h.createTransfer)
		divisions.GET("/:id/stats", h.getStats)

		divisions.GET("/:id/balances", h.getBalances)
		divisions.GET("/:id/balances/:accountID", h.getAccountBalance)
		divisions.GET("/:id/summary", h.getSummary)
	}
}

func divisionLogger(c *gin.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("division_id", c.Param("id")))
}

// createDivision godoc
// @Summary Create a division
// @Tags divisions
// @Accept  json
// @Produce  json
// @Param   division body dto.CreateDivisionRequest true "Division details"
// @Success 201 {object} dto.DivisionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Division code already exists"
// @Security BearerAuth
// @Router /divisions [post]
func (h *divisionHandler) createDivision(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "Invalid request format", err)
		return
	}

	division, err := h.divisionService.CreateDivision(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create division")
		return
	}

	logger.Info("Division created successfully", slog.String("division_id", division.DivisionID), slog.String("code", division.Code))
	c.JSON(http.StatusCreated, dto.ToDivisionResponse(division))
}

// listDivisions godoc
// @Summary List divisions
// @Tags divisions
// @Produce  json
// @Param   activeOnly query bool false "Only active divisions"
// @Success 200 {array} dto.DivisionResponse
// @Security BearerAuth
// @Router /divisions [get]
func (h *divisionHandler) listDivisions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params struct {
		ActiveOnly bool `form:"activeOnly"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "Invalid query parameters", err)
		return
	}

	divisions, err := h.divisionService.ListDivisions(c.Request.Context(), params.ActiveOnly)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list divisions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDivisionResponse(divisions))
}

// getDivision godoc
// @Summary Get a division
// @Tags divisions
// @Produce  json
// @Param   id path string true "Division ID"
// @Success 200 {object} dto.DivisionResponse
// @Failure 404 {object} map[string]string "Division not found"
// @Security BearerAuth
// @Router /divisions/{id} [get]
func (h *divisionHandler) getDivision(c *gin.Context) {
	logger := divisionLogger(c)

	division, err := h.divisionService.GetDivision(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve division")
		return
	}
	c.JSON(http.StatusOK, dto.ToDivisionResponse(division))
}

// getDivisionByCode godoc
// @Summary Get a division by code
// @Tags divisions
// @Produce  json
// @Param   code path string true "Division code"
// @Success 200 {object} dto.DivisionResponse
// @Failure 404 {object} map[string]string "Division not found"
// @Security BearerAuth
// @Router /divisions/code/{code} [get]
func (h *divisionHandler) getDivisionByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("code", c.Param("code")))

	division, err := h.divisionService.GetDivisionByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve division")
		return
	}
	c.JSON(http.StatusOK, dto.ToDivisionResponse(division))
}

// updateDivision godoc
// @Summary Update a division
// @Description The code is immutable.
// @Tags divisions
// @Accept  json
// @Produce  json
// @Param   id path string true "Division ID"
// @Param   division body dto.UpdateDivisionRequest true "Fields to update"
// @Success 200 {object} dto.DivisionResponse
// @Failure 404 {object} map[string]string "Division not found"
// @Security BearerAuth
// @Router /divisions/{id} [put]
func (h *divisionHandler) updateDivision(c *gin.Context) {
	logger := divisionLogger(c)

	var req dto.UpdateDivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "Invalid request format", err)
		return
	}

	division, err := h.divisionService.UpdateDivision(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update division")
		return
	}
	c.JSON(http.StatusOK, dto.ToDivisionResponse(division))
}

// setDivisionActive godoc
// @Summary Activate or deactivate a division
// @Tags divisions
// @Accept  json
// @Produce  json
// @Param   id path string true "Division ID"
// @Param   body body dto.SetActiveRequest true "Active flag"
// @Success 200 {object} dto.DivisionResponse
// @Security BearerAuth
// @Router /divisions/{id}/active [put]
func (h *divisionHandler) setDivisionActive(c *gin.Context) {
	logger := divisionLogger(c)

	var req dto.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "Invalid request format", err)
		return
	}

	division, err := h.divisionService.SetDivisionActive(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		respondWithError(c, logger, err, "Failed to change division status")
		return
	}
	c.JSON(http.StatusOK, dto.ToDivisionResponse(division))
}

// listMappings godoc
// @Summary List accounts mapped to a division
// @Tags divisions
// @Produce  json
// @Param   id path string true "Division ID"
// @Param   scope query string false "all (default), active or liquid"
// @Success 200 {array} dto.DivisionAccountResponse
// @Security BearerAuth
// @Router /divisions/{id}/accounts [get]
func (h *divisionHandler) listMappings(c *gin.Context) {
	logger := divisionLogger(c)
	ctx := c.Request.Context()
	divisionID := c.Param("id")

	var params struct {
		Scope string `form:"scope" binding:"omitempty,oneof=all active liquid"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "Invalid query parameters", err)
		return
	}

	var (
		mappings []domain.DivisionAccount
		err      error
	)
	switch params.Scope {
	case "active":
		mappings, err = h.mappingService.GetActiveAccounts(ctx, divisionID)
	case "liquid":
		mappings, err = h.mappingService.GetLiquidAccounts(ctx, divisionID)
	default:
		mappings, err = h.mappingService.GetAllMappings(ctx, divisionID)
	}
	if err != nil {
		respondWithError(c, logger, err, "Failed to list division accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDivisionAccountResponse(mappings))
}

// mapAccounts godoc
// @Summary Map accounts into a division
// @Description Inserts new mappings or refreshes alias and active flag of existing ones, all in one transaction.
// @Tags divisions
// @Accept  json
// @Produce  json
// @Param   id path string true "Division ID"
// @Param   body body dto.MapAccountsRequest true "Accounts to map"
// @Success 200 {array} dto.DivisionAccountResponse
// @Failure 404 {object} map[string]string "Division or account not found"
// @Security BearerAuth
// @Router /divisions/{id}/accounts [post]
func (h *divisionHandler) mapAccounts(c *gin.Context) {
	logger := divisionLogger(c)

	var req dto.MapAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "Invalid request format", err)
		return
	}

	mappings, err := h.mappingService.MapAccounts(c.Request.Context(), c.Param("id"), req.Accounts)
	if err != nil {
		respondWithError(c, logger, err, "Failed to map accounts")
		return
	}

	logger.Info("Accounts mapped into division", slog.Int("count", len(mappings)))
	c.JSON(http.StatusOK, dto.ToListDivisionAccountResponse(mappings))
}

// getMapping godoc
// @Summary Get one account mapping of a division
// @Tags divisions
// @Produce  json
// @Param   id path string true "Division ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.DivisionAccountResponse
// @Failure 404 {object} map[string]string "Account is not mapped"
// @Security BearerAuth
// @Router /divisions/{id}/accounts/{accountID} [get]
func (h *divisionHandler) getMapping(c *gin.Context) {
	logger := divisionLogger(c).With(slog.String("account_id", c.Param("accountID")))

	m, err := h.mappingService.GetMapping(c.Request.Context(), c.Param("id"), c.Param("accountID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve division account")
		return
	}
	c.JSON(http.StatusOK, dto.ToDivisionAccountResponse(m))
}

// updateAlias godoc
// @Summary Rename an account inside a division
// @Tags divisions
// @Accept  json
// @Produce  json
// @Param   id path string true "Division ID"
// @Param   accountID path string true "Account ID"
// @Param   body body dto.UpdateAliasRequest true "New alias"
// @Success 200 {object} dto.DivisionAccountResponse
// @Security BearerAuth
// @Router /divisions/{id}/accounts/{accountID}/alias [put]
func (h *divisionHandler) updateAlias(c *gin.Context) {
	logger := divisionLogger(c).With(slog.String("account_id", c.Param("accountID")))

	var req dto.UpdateAliasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "Invalid request format", err)
		return
	}

	m, err := h.mappingService.UpdateAlias(c.Request.Context(), c.Param("id"), c.Param("accountID"), req.AliasName)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update alias")
		return
	}
	c.JSON(http.StatusOK, dto.ToDivisionAccountResponse(m))
}

// setMappingActive godoc
// @Summary Activate or deactivate an account inside a division
// @Tags divisions
// @Accept  json
// @Produce  json
// @Param   id path string true "Division ID"
// @Param   accountID path string true "Account ID"
// @Param   body body dto.SetActiveRequest true "Active flag"
// @Success 200 {object} dto.DivisionAccountResponse
// @Security BearerAuth
// @Router /divisions/{id}/accounts/{accountID}/active [put]
func (h *divisionHandler) setMappingActive(c *gin.Context) {
	logger := divisionLogger(c).With(slog.String("account_id", c.Param("accountID")))

	var req dto.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "Invalid request format", err)
		return
	}

	m, err := h.mappingService.SetMappingActive(c.Request.Context(), c.Param("id"), c.Param("accountID"), *req.IsActive)
	if err != nil {
		respondWithError(c, logger, err, "Failed to change division account status")
		return
	}
	c.JSON(http.StatusOK, dto.ToDivisionAccountResponse(m))
}

// unmapAccount godoc
// @Summary Remove an account from a division
// @Tags divisions
// @Param   id path string true "Division ID"
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account is not mapped"
// @Security BearerAuth
// @Router /divisions/{id}/accounts/{accountID} [delete]
func (h *divisionHandler) unmapAccount(c *gin.Context) {
	logger := divisionLogger(c).With(slog.String("account_id", c.Param("accountID")))

	if err := h.mappingService.UnmapAccount(c.Request.Context(), c.Param("id"), c.Param("accountID")); err != nil {
		respondWithError(c, logger, err, "Failed to unmap account")
		return
	}
	c.Status(http.StatusNoContent)
}

// createTransaction godoc
// @Summary Create a transaction in a division
// @Description Every entry account must be actively mapped to the division.
// @Tags divisions
// @Accept  json
// @Produce  json
// @Param   id path string true "Division ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 422 {object} map[string]string "Account not mapped or division inactive"
// @Security BearerAuth
// @Router /divisions/{id}/transactions [post]
func (h *divisionHandler) createTransaction(c *gin.Context) {
	logger := divisionLogger(c)

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "Invalid request format", err)
		return
	}

	txn, err := h.transactionService.CreateForDivision(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create transaction")
		return
	}

	logger.Info("Division transaction created", slog.String("transaction_id", txn.TransactionID))
	h.transactionRenderer.respond(c, http.StatusCreated, txn)
}

// createTransfer godoc
// @Summary Transfer between two accounts of a division
// @Description Creates a DRAFT transaction debiting the destination and crediting the source.
// @Tags divisions
// @Accept  json
// @Produce  json
// @Param   id path string true "Division ID"
// @Param   transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransactionResponse
// @Security BearerAuth
// @Router /divisions/{id}/transfers [post]
func (h *divisionHandler) createTransfer(c *gin.Context) {
	logger := divisionLogger(c)

	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "Invalid request format", err)
		return
	}

	txn, err := h.transactionService.CreateTransfer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create transfer")
		return
	}

	logger.Info("Division transfer created", slog.String("transaction_id", txn.TransactionID))
	h.transactionRenderer.respond(c, http.StatusCreated, txn)
}

// listTransactions godoc
// @Summary List transactions of a division
// @Tags divisions
// @Produce  json
// @Param   id path string true "Division ID"
// @Param   status query string false "Status filter"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /divisions/{id}/transactions [get]
func (h *divisionHandler) listTransactions(c *gin.Context) {
	logger := divisionLogger(c)

	filter, ok := bindTransactionFilter(c, logger)
	if !ok {
		return
	}

	txns, next, err := h.transactionService.GetDivisionTransactions(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list division transactions")
		return
	}
	c.JSON(http.StatusOK, h.transactionRenderer.toListResponse(txns, next))
}

// getStats godoc
// @Summary Count a division's transactions by status
// @Tags divisions
// @Produce  json
// @Param   id path string true "Division ID"
// @Success 200 {object} domain.DivisionStats
// @Security BearerAuth
// @Router /divisions/{id}/stats [get]
func (h *divisionHandler) getStats(c *gin.Context) {
	logger := divisionLogger(c)

	stats, err := h.transactionService.GetDivisionStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute division stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// getBalances godoc
// @Summary Balances of every account mapped to a division
// @Tags divisions
// @Produce  json
// @Param   id path string true "Division ID"
// @Param   liquidOnly query bool false "Only liquid accounts"
// @Param   dateFrom query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   dateTo query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {array} dto.DivisionAccountBalanceResponse
// @Security BearerAuth
// @Router /divisions/{id}/balances [get]
func (h *divisionHandler) getBalances(c *gin.Context) {
	logger := divisionLogger(c)

	filter, ok := bindBalanceFilter(c, logger)
	if !ok {
		return
	}

	get := h.balanceService.GetDivisionBalances
	if c.Query("liquidOnly") == "true" {
		get = h.balanceService.GetLiquidBalances
	}
	balances, err := get(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		respondWithError(c, logger, err, "Failed to calculate division balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToDivisionAccountBalanceResponses(balances))
}

// getAccountBalance godoc
// @Summary Balance of one account inside a division
// @Tags divisions
// @Produce  json
// @Param   id path string true "Division ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.BalanceBreakdownResponse
// @Failure 404 {object} map[string]string "Account is not mapped"
// @Security BearerAuth
// @Router /divisions/{id}/balances/{accountID} [get]
func (h *divisionHandler) getAccountBalance(c *gin.Context) {
	logger := divisionLogger(c).With(slog.String("account_id", c.Param("accountID")))

	filter, ok := bindBalanceFilter(c, logger)
	if !ok {
		return
	}

	breakdown, err := h.balanceService.GetAccountBalance(c.Request.Context(), c.Param("id"), c.Param("accountID"), filter)
	if err != nil {
		respondWithError(c, logger, err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceBreakdownResponse(breakdown))
}

// getSummary godoc
// @Summary Financial summary of a division
// @Description Total assets, total liabilities, net position, liquid balances and transaction counts.
// @Tags divisions
// @Produce  json
// @Param   id path string true "Division ID"
// @Success 200 {object} dto.DivisionSummaryResponse
// @Security BearerAuth
// @Router /divisions/{id}/summary [get]
func (h *divisionHandler) getSummary(c *gin.Context) {
	logger := divisionLogger(c)

	filter, ok := bindBalanceFilter(c, logger)
	if !ok {
		return
	}

	summary, err := h.balanceService.GetDivisionSummary(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		respondWithError(c, logger, err, "Failed to summarize division")
		return
	}
	c.JSON(http.StatusOK, dto.ToDivisionSummaryResponse(summary))
}
