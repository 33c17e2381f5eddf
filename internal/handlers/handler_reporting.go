package handlers

import (
	"encoding/csv"
	"log/slog"
	"net/http"

	portssvc "github.com/abacusworks/ledger_engine/internal/core/ports/services"
	"github.com/abacusworks/ledger_engine/internal/dto"
	"github.com/abacusworks/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to the trial balance
type reportingHandler struct {
	trialBalance portssvc.TrialBalanceSvc
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(tb portssvc.TrialBalanceSvc) *reportingHandler {
	return &reportingHandler{trialBalance: tb}
}

// registerReportingRoutes registers routes related to the trial balance
func registerReportingRoutes(rg *gin.RouterGroup, tb portssvc.TrialBalanceSvc) {
	h := newReportingHandler(tb)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/trial-balance/export", h.exportTrialBalance)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Aggregates the period's canonical entries into per-class, per-account debit/credit totals
// @Tags reports
// @Produce json
// @Param from query string false "Period start (YYYY-MM-DD)" default(start of current year)
// @Param to query string false "Period end (YYYY-MM-DD)" default(end of current year)
// @Param scope query string false "Ownership scope"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	period, err := parsePeriod(c)
	if err != nil {
		logger.Warn("Invalid period parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.trialBalance.TrialBalance(c.Request.Context(), period)
	if err != nil {
		logger.Error("Failed to generate trial balance report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate trial balance report"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// exportTrialBalance godoc
// @Summary Export trial balance as CSV
// @Description Streams the trial balance in the tabular export layout (class header rows, account rows, grand total)
// @Tags reports
// @Produce text/csv
// @Param from query string false "Period start (YYYY-MM-DD)"
// @Param to query string false "Period end (YYYY-MM-DD)"
// @Param scope query string false "Ownership scope"
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Router /reports/trial-balance/export [get]
func (h *reportingHandler) exportTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	period, err := parsePeriod(c)
	if err != nil {
		logger.Warn("Invalid period parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.trialBalance.TrialBalance(c.Request.Context(), period)
	if err != nil {
		logger.Error("Failed to generate trial balance export", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate trial balance export"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="trial-balance.csv"`)

	writer := csv.NewWriter(c.Writer)
	if err := writer.WriteAll(dto.TrialBalanceTable(report)); err != nil {
		logger.Error("Failed to write trial balance CSV", slog.String("error", err.Error()))
	}
}
