package handlers

import (
	"fmt"
	"time"

	"github.com/abacusworks/ledger_engine/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// parsePeriod reads the from/to/scope query parameters shared by all report
// endpoints. Missing bounds default to the current calendar year.
func parsePeriod(c *gin.Context) (domain.Period, error) {
	now := time.Now().UTC()
	period := domain.YearPeriod(now.Year(), c.Query("scope"))

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return domain.Period{}, fmt.Errorf("invalid 'from' date %q, use YYYY-MM-DD", fromStr)
		}
		period.From = from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return domain.Period{}, fmt.Errorf("invalid 'to' date %q, use YYYY-MM-DD", toStr)
		}
		// Include the whole end day.
		period.To = to.Add(24*time.Hour - time.Second)
	}
	if period.To.Before(period.From) {
		return domain.Period{}, fmt.Errorf("'to' date must not precede 'from' date")
	}
	return period, nil
}
