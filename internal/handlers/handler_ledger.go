package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/abacusworks/ledger_engine/internal/apperrors"
	portssvc "github.com/abacusworks/ledger_engine/internal/core/ports/services"
	"github.com/abacusworks/ledger_engine/internal/dto"
	"github.com/abacusworks/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests for per-account ledgers
type ledgerHandler struct {
	ledger portssvc.LedgerSvc
}

// newLedgerHandler creates a new ledgerHandler
func newLedgerHandler(ledger portssvc.LedgerSvc) *ledgerHandler {
	return &ledgerHandler{ledger: ledger}
}

// registerLedgerRoutes registers routes related to account ledgers
func registerLedgerRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvc) {
	h := newLedgerHandler(ledger)

	rg.GET("/reports/ledger/:accountCode", h.getAccountLedger)
}

// getAccountLedger godoc
// @Summary Generate an account ledger
// @Description Returns the chronological movement history of one account with a running balance per row
// @Tags ledgers
// @Produce json
// @Param accountCode path string true "Account code"
// @Param from query string false "Period start (YYYY-MM-DD)"
// @Param to query string false "Period end (YYYY-MM-DD)"
// @Param scope query string false "Ownership scope"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate ledger"
// @Router /reports/ledger/{accountCode} [get]
func (h *ledgerHandler) getAccountLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	period, err := parsePeriod(c)
	if err != nil {
		logger.Warn("Invalid period parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accountCode := c.Param("accountCode")
	report, err := h.ledger.AccountLedger(c.Request.Context(), period, accountCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to generate account ledger",
			slog.String("accountCode", accountCode),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate account ledger"})
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerResponse(report))
}
