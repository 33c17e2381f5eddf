package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/abacusworks/ledger_engine/internal/apperrors"
	portssvc "github.com/abacusworks/ledger_engine/internal/core/ports/services"
	"github.com/abacusworks/ledger_engine/internal/dto"
	"github.com/abacusworks/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// vatHandler handles HTTP requests for VAT reporting and filing deadlines
type vatHandler struct {
	vat portssvc.VATSvc
}

// newVATHandler creates a new vatHandler
func newVATHandler(vat portssvc.VATSvc) *vatHandler {
	return &vatHandler{vat: vat}
}

// registerVATRoutes registers routes related to VAT reporting
func registerVATRoutes(rg *gin.RouterGroup, vat portssvc.VATSvc) {
	h := newVATHandler(vat)

	vatGroup := rg.Group("/reports/vat")
	{
		vatGroup.GET("", h.getVATReport)
		vatGroup.GET("/deadlines", h.getFilingDeadlines)
		vatGroup.POST("/filings", h.markFiled)
	}
}

// getVATReport godoc
// @Summary Generate VAT report
// @Description Classifies the period's invoices into statutory rate buckets and returns collected versus deductible totals
// @Tags vat
// @Produce json
// @Param from query string false "Period start (YYYY-MM-DD)"
// @Param to query string false "Period end (YYYY-MM-DD)"
// @Param scope query string false "Ownership scope"
// @Success 200 {object} dto.VATReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Router /reports/vat [get]
func (h *vatHandler) getVATReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	period, err := parsePeriod(c)
	if err != nil {
		logger.Warn("Invalid period parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.vat.Report(c.Request.Context(), period)
	if err != nil {
		logger.Error("Failed to generate VAT report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate VAT report"})
		return
	}

	c.JSON(http.StatusOK, dto.ToVATReportResponse(report))
}

// getFilingDeadlines godoc
// @Summary List quarterly filing deadlines
// @Description Returns the four quarterly filing deadlines of a year with their statuses
// @Tags vat
// @Produce json
// @Param year query int false "Reporting year" default(current year)
// @Param scope query string false "Ownership scope"
// @Success 200 {array} dto.FilingDeadlineResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to list deadlines"
// @Router /reports/vat/deadlines [get]
func (h *vatHandler) getFilingDeadlines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number between 2000 and 2100"})
			return
		}
		year = parsed
	}

	deadlines, err := h.vat.FilingDeadlines(c.Request.Context(), year, c.Query("scope"))
	if err != nil {
		logger.Error("Failed to list filing deadlines",
			slog.Int("year", year),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list filing deadlines"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFilingDeadlineResponses(deadlines))
}

// markFiled godoc
// @Summary Mark a quarter as filed
// @Description Records that the VAT return for the given year and quarter has been filed
// @Tags vat
// @Accept json
// @Produce json
// @Param filing body dto.MarkFiledRequest true "Filing details"
// @Success 200 {object} map[string]string "Filing recorded"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to record filing"
// @Router /reports/vat/filings [post]
func (h *vatHandler) markFiled(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.MarkFiledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid filing request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.vat.MarkFiled(c.Request.Context(), req.Year, req.Quarter, req.Scope); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to record VAT filing",
			slog.Int("year", req.Year),
			slog.Int("quarter", req.Quarter),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record VAT filing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Filing recorded"})
}
