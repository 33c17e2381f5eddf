package fieldres_test

import (
	"testing"
	"time"

	"github.com/abacusworks/ledger_engine/internal/utils/fieldres"
	"github.com/stretchr/testify/assert"
)

func TestResolverPriorityOrder(t *testing.T) {
	r := fieldres.New("date_issued", "date_created")

	rec := map[string]any{
		"date_issued":  "2024-03-15",
		"date_created": "2024-01-01",
	}
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), r.Time(rec))

	// First candidate absent, second one wins.
	rec = map[string]any{"date_created": "2024-01-01"}
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), r.Time(rec))
}

func TestResolverDecimal(t *testing.T) {
	r := fieldres.New("amount", "total_amount")

	assert.Equal(t, "1234.56", r.Decimal(map[string]any{"amount": "1234.56"}).String())
	assert.Equal(t, "81", r.Decimal(map[string]any{"amount": float64(81)}).String())
	assert.Equal(t, "500", r.Decimal(map[string]any{"total_amount": 500}).String())

	// Missing or non-numeric values default to zero, never an error.
	assert.True(t, r.Decimal(map[string]any{}).IsZero())
	assert.True(t, r.Decimal(map[string]any{"amount": "not a number"}).IsZero())
	assert.True(t, r.Decimal(map[string]any{"amount": nil}).IsZero())
}

func TestResolverString(t *testing.T) {
	r := fieldres.New("status")
	assert.Equal(t, "paid", r.String(map[string]any{"status": "paid"}))
	assert.Equal(t, "", r.String(map[string]any{}))
}

func TestResolverTimeLayoutsAndPassthrough(t *testing.T) {
	r := fieldres.New("date")
	now := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	assert.Equal(t, now, r.Time(map[string]any{"date": now}))
	assert.Equal(t, now, r.Time(map[string]any{"date": "2024-06-01T12:30:00Z"}))
	assert.Equal(t, time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC),
		r.Time(map[string]any{"date": "2024-06-01 12:30:00"}))
	assert.True(t, r.Time(map[string]any{"date": "junk"}).IsZero())
	assert.True(t, r.Time(map[string]any{}).IsZero())
}
