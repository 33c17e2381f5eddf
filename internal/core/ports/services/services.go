package services

import (
	"context"

	"github.com/abacusworks/ledger_engine/internal/core/domain"
)

// MaterializerSvc produces the canonical double-entry view of a period.
// Entries are recomputed per call; nothing is persisted.
type MaterializerSvc interface {
	Materialize(ctx context.Context, period domain.Period) ([]domain.CanonicalEntry, error)
}

// TrialBalanceSvc aggregates canonical entries into the per-class,
// per-account trial balance.
type TrialBalanceSvc interface {
	TrialBalance(ctx context.Context, period domain.Period) (*domain.TrialBalanceReport, error)
}

// LedgerSvc builds one account's chronological ledger with running balance.
type LedgerSvc interface {
	AccountLedger(ctx context.Context, period domain.Period, accountCode string) (*domain.LedgerReport, error)
}

// VATSvc classifies invoice tax rates into the fixed buckets and derives the
// statutory declaration and its filing deadlines.
type VATSvc interface {
	Report(ctx context.Context, period domain.Period) (*domain.VATReport, error)
	FilingDeadlines(ctx context.Context, year int, scope string) ([]domain.FilingDeadline, error)
	MarkFiled(ctx context.Context, year, quarter int, scope string) error
}

// ServiceContainer holds instances of all the application services. Handlers
// receive it at route registration time.
type ServiceContainer struct {
	Materializer MaterializerSvc
	TrialBalance TrialBalanceSvc
	Ledger       LedgerSvc
	VAT          VATSvc
}
