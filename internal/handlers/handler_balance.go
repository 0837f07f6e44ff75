package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type balanceHandler struct {
	balanceService portssvc.BalanceCalculatorSvc
}

func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceCalculatorSvc) {
	h := &balanceHandler{balanceService: balanceService}

	balances := rg.Group("/balances")
	{
		balances.GET("", h.getAccountBalances)
		balances.GET("/summary", h.getSummaryByCategory)
		balances.GET("/totals/assets", h.total(balanceService.GetTotalAssets, "assets"))
		balances.GET("/totals/liabilities", h.total(balanceService.GetTotalLiabilities, "liabilities"))
		balances.GET("/totals/equity", h.total(balanceService.GetEquity, "equity"))
	}
}

// bindBalanceFilter binds the shared balance query parameters. On failure it has
// already written the 400 response.
func bindBalanceFilter(c *gin.Context, logger *slog.Logger) (domain.BalanceFilter, bool) {
	var params dto.BalanceQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "Invalid query parameters", err)
		return domain.BalanceFilter{}, false
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondBadRequest(c, logger, "Invalid query parameters", err)
		return domain.BalanceFilter{}, false
	}
	return filter, true
}

// getAccountBalances godoc
// @Summary Get balances of several accounts
// @Description Repeat accountID to select accounts. Without it every account is returned.
// @Tags balances
// @Produce json
// @Param   accountID query []string false "Account IDs" collectionFormat(multi)
// @Param   dateFrom query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   dateTo query string false "Inclusive end date (YYYY-MM-DD)"
// @Param   divisionID query string false "Division scope"
// @Success 200 {object} dto.AccountBalancesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /balances [get]
func (h *balanceHandler) getAccountBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.BalanceQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "Invalid query parameters", err)
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondBadRequest(c, logger, "Invalid query parameters", err)
		return
	}

	balances, err := h.balanceService.GetAccountBalances(c.Request.Context(), params.AccountIDs, filter)
	if err != nil {
		respondWithError(c, logger, err, "Failed to calculate balances")
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalancesResponse{Balances: balances})
}

// getSummaryByCategory godoc
// @Summary Get balances grouped by account category
// @Description Categories appear in statement order: ASSET, LIABILITY, EQUITY, INCOME, EXPENSE.
// @Tags balances
// @Produce json
// @Param   dateFrom query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   dateTo query string false "Inclusive end date (YYYY-MM-DD)"
// @Param   divisionID query string false "Division scope"
// @Success 200 {array} dto.CategorySummaryResponse
// @Security BearerAuth
// @Router /balances/summary [get]
func (h *balanceHandler) getSummaryByCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	filter, ok := bindBalanceFilter(c, logger)
	if !ok {
		return
	}

	summaries, err := h.balanceService.GetBalanceSummaryByCategory(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, logger, err, "Failed to summarize balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategorySummaryResponses(summaries))
}

type totalFunc func(ctx context.Context, filter domain.BalanceFilter) (decimal.Decimal, error)

// total godoc
// @Summary Get an aggregated balance total
// @Description One of assets, liabilities or equity (assets minus liabilities).
// @Tags balances
// @Produce json
// @Param   kind path string true "assets, liabilities or equity"
// @Success 200 {object} dto.TotalResponse
// @Security BearerAuth
// @Router /balances/totals/{kind} [get]
func (h *balanceHandler) total(fn totalFunc, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("total", kind))

		filter, ok := bindBalanceFilter(c, logger)
		if !ok {
			return
		}

		amount, err := fn(c.Request.Context(), filter)
		if err != nil {
			respondWithError(c, logger, err, "Failed to calculate "+kind)
			return
		}
		c.JSON(http.StatusOK, dto.TotalResponse{Total: amount})
	}
}
