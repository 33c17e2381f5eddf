package accounting_test

import (
	"testing"

	"github.com/abacusworks/ledger_engine/internal/core/domain"
	"github.com/abacusworks/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSignedAmount(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		name  string
		side  domain.EntrySide
		class domain.AccountClass
		want  string
	}{
		{"debit on debit-normal adds", domain.Debit, domain.ClassAssets, "100"},
		{"credit on debit-normal subtracts", domain.Credit, domain.ClassAssets, "-100"},
		{"debit on credit-normal subtracts", domain.Debit, domain.ClassRevenue, "-100"},
		{"credit on credit-normal adds", domain.Credit, domain.ClassRevenue, "100"},
		{"expense class is debit-normal", domain.Debit, domain.ClassOperatingExpense, "100"},
		{"extraordinary class is debit-normal", domain.Credit, domain.ClassExtraordinary, "-100"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := accounting.SignedAmount(tc.side, tc.class, hundred)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestIsUnbalanced(t *testing.T) {
	assert.False(t, accounting.IsUnbalanced(decimal.NewFromInt(100), decimal.NewFromInt(100)))
	assert.False(t, accounting.IsUnbalanced(decimal.NewFromFloat(100.00), decimal.NewFromFloat(100.01)))
	assert.True(t, accounting.IsUnbalanced(decimal.NewFromFloat(100.00), decimal.NewFromFloat(100.02)))
	assert.True(t, accounting.IsUnbalanced(decimal.NewFromInt(0), decimal.NewFromInt(100)))
}
