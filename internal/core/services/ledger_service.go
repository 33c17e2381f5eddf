package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/abacusworks/ledger_engine/internal/apperrors"
	"github.com/abacusworks/ledger_engine/internal/core/domain"
	portssvc "github.com/abacusworks/ledger_engine/internal/core/ports/services"
	"github.com/abacusworks/ledger_engine/internal/core/taxonomy"
	"github.com/abacusworks/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ledgerService sequences one account's entries chronologically and computes
// the running balance under the account's normal-balance-side convention.
type ledgerService struct {
	BaseService
	materializer portssvc.MaterializerSvc
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(materializer portssvc.MaterializerSvc) portssvc.LedgerSvc {
	return &ledgerService{materializer: materializer}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

// AccountLedger builds the chronological ledger of one account. One filter,
// one sort, one scan. The running balance recurrence does not commute with
// reordering, so the sort must happen before the scan and the full entry set
// is never walked more than once.
func (s *ledgerService) AccountLedger(ctx context.Context, period domain.Period, accountCode string) (*domain.LedgerReport, error) {
	if accountCode == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}

	entries, err := s.materializer.Materialize(ctx, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to materialize entries for ledger",
			slog.String("account_code", accountCode))
		return nil, fmt.Errorf("failed to materialize entries: %w", err)
	}

	account := taxonomy.Lookup(accountCode)
	debitNormal := account.Class.IsDebitNormal()

	scoped := make([]domain.CanonicalEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.AccountCode == accountCode {
			scoped = append(scoped, entry)
		}
	}

	// Oldest first; the materializer hands entries out newest first, so
	// the ledger re-sorts by true chronology. Sequence breaks date ties
	// deterministically.
	sort.SliceStable(scoped, func(i, j int) bool {
		if scoped[i].OccurredAt.Equal(scoped[j].OccurredAt) {
			return scoped[i].Sequence < scoped[j].Sequence
		}
		return scoped[i].OccurredAt.Before(scoped[j].OccurredAt)
	})

	report := &domain.LedgerReport{
		Period:         period,
		AccountCode:    account.Code,
		AccountLabel:   account.Label,
		Class:          account.Class,
		DebitNormal:    debitNormal,
		Rows:           make([]domain.LedgerRow, 0, len(scoped)),
		ClosingBalance: decimal.Zero,
	}

	balance := decimal.Zero
	for _, entry := range scoped {
		balance = balance.Add(accounting.SignedAmount(entry.Side, account.Class, entry.Amount))
		report.Rows = append(report.Rows, domain.LedgerRow{
			CanonicalEntry: entry,
			RunningBalance: balance,
		})
	}
	report.ClosingBalance = balance

	s.LogInfo(ctx, "Account ledger generated",
		slog.String("account_code", accountCode),
		slog.Int("row_count", len(report.Rows)),
		slog.String("closing_balance", report.ClosingBalance.String()))
	return report, nil
}
