package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abacusworks/ledger_engine/internal/apperrors"
	"github.com/abacusworks/ledger_engine/internal/core/domain"
	portsrepo "github.com/abacusworks/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/abacusworks/ledger_engine/internal/core/ports/services"
	"github.com/abacusworks/ledger_engine/internal/utils/fx"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// VATConfig carries the rate table and deadline parameters. It is injected
// rather than hardcoded so historical periods can be computed against the
// rates in force at the time.
type VATConfig struct {
	Buckets []domain.VATBucket
	// Tolerance in percentage points when matching a normalized rate
	// against a bucket's nominal rate.
	RateTolerancePP decimal.Decimal
	// Months between a quarter's end and its filing deadline.
	FilingOffsetMonths int
	// Window before the deadline in which a declaration counts as due soon.
	DueSoonThreshold time.Duration
}

// vatService classifies invoice tax rates into the fixed buckets and derives
// the statutory declaration. It consumes invoices directly, independent of
// the entry materializer.
type vatService struct {
	BaseService
	customers portsrepo.CustomerInvoiceSource
	suppliers portsrepo.SupplierInvoiceSource
	filings   portsrepo.FilingRepository
	converter *fx.Converter
	cfg       VATConfig
	now       func() time.Time
}

// VATServiceOption is a functional option for configuring the VAT service.
type VATServiceOption func(*vatService)

// WithClock overrides the wall clock, used by deadline tests.
func WithClock(now func() time.Time) VATServiceOption {
	return func(s *vatService) {
		s.now = now
	}
}

// NewVATService creates a new VAT service with the provided options.
func NewVATService(
	customers portsrepo.CustomerInvoiceSource,
	suppliers portsrepo.SupplierInvoiceSource,
	filings portsrepo.FilingRepository,
	converter *fx.Converter,
	cfg VATConfig,
	options ...VATServiceOption,
) portssvc.VATSvc {
	svc := &vatService{
		customers: customers,
		suppliers: suppliers,
		filings:   filings,
		converter: converter,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.VATSvc = (*vatService)(nil)

// ClassifyRate buckets a raw tax rate. Rates arrive in two representations
// of the same value (8.1 or 0.081); values at or below 1 are treated as
// fractions and scaled to percent. The normalized value is matched against
// the nominal rates within the configured tolerance; anything unmatched
// falls into the standard bucket.
func ClassifyRate(rate decimal.Decimal, buckets []domain.VATBucket, tolerancePP decimal.Decimal) (domain.VATBucketKey, bool) {
	normalized := NormalizeRate(rate)
	hundred := decimal.NewFromInt(100)

	for _, bucket := range buckets {
		nominalPct := bucket.NominalRate.Mul(hundred)
		if normalized.Sub(nominalPct).Abs().LessThanOrEqual(tolerancePP) {
			return bucket.Key, true
		}
	}
	return domain.VATStandard, false
}

// NormalizeRate converts a tax rate to percentage points: fractions
// (value <= 1) are multiplied by 100, percentages pass through.
func NormalizeRate(rate decimal.Decimal) decimal.Decimal {
	if rate.LessThanOrEqual(decimal.NewFromInt(1)) {
		return rate.Mul(decimal.NewFromInt(100))
	}
	return rate
}

// Report computes the VAT breakdown and statutory form cells for a period.
// Customer and supplier invoices are fetched concurrently; a failing source
// contributes nothing and the report is still produced (partial but correct).
func (s *vatService) Report(ctx context.Context, period domain.Period) (*domain.VATReport, error) {
	var (
		customers []domain.CustomerInvoice
		suppliers []domain.SupplierInvoice
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		invoices, err := s.customers.ListCustomerInvoices(gctx, period)
		if err != nil {
			s.LogWarn(ctx, "Customer invoice source failed, VAT report is partial",
				slog.String("error", err.Error()))
			return nil
		}
		customers = invoices
		return nil
	})
	g.Go(func() error {
		invoices, err := s.suppliers.ListSupplierInvoices(gctx, period)
		if err != nil {
			s.LogWarn(ctx, "Supplier invoice source failed, VAT report is partial",
				slog.String("error", err.Error()))
			return nil
		}
		suppliers = invoices
		return nil
	})
	_ = g.Wait()

	acc := newVATAccumulator(s.cfg.Buckets)

	for _, inv := range customers {
		if !inv.Qualifies() {
			continue
		}
		net := s.converter.Convert(inv.Amount, inv.Currency)
		tax := s.converter.Convert(inv.TaxAmount, inv.Currency)
		key := s.classifyInvoice(ctx, inv.ID, inv.TaxRate, net, tax)
		acc.addCollected(key, net, s.resolveTaxAmount(net, tax, acc.bucket(key)))
	}

	for _, inv := range suppliers {
		if !inv.Qualifies() {
			continue
		}
		net := s.converter.Convert(inv.Amount, inv.Currency)
		tax := s.converter.Convert(inv.TaxAmount, inv.Currency)
		key := s.classifyInvoice(ctx, inv.ID, inv.TaxRate, net, tax)
		acc.addDeductible(key, net, s.resolveTaxAmount(net, tax, acc.bucket(key)))
	}

	report := acc.report(period)
	s.LogInfo(ctx, "VAT report generated",
		slog.Int("customer_invoices", len(customers)),
		slog.Int("supplier_invoices", len(suppliers)),
		slog.String("net_payable", report.NetPayable.String()),
		slog.String("net_credit", report.NetCredit.String()))
	return report, nil
}

// classifyInvoice resolves the effective rate of an invoice and buckets it.
// When the rate field is absent the rate implied by the amounts is used
// instead. An unmatched rate lands in the standard bucket; that can
// misclassify a genuine outlier rate, so it is logged at warn.
func (s *vatService) classifyInvoice(ctx context.Context, invoiceID string, rate, net, tax decimal.Decimal) domain.VATBucketKey {
	effective := rate
	if effective.IsZero() && tax.IsPositive() && net.IsPositive() {
		effective = tax.Div(net)
	}

	key, matched := ClassifyRate(effective, s.cfg.Buckets, s.cfg.RateTolerancePP)
	if !matched && !effective.IsZero() {
		s.LogWarn(ctx, "Unrecognized VAT rate, defaulting to standard bucket",
			slog.String("invoice_id", invoiceID),
			slog.String("rate", effective.String()))
	}
	return key
}

// resolveTaxAmount prefers the explicit tax amount; otherwise the tax is
// derived from the net amount at the bucket's nominal rate.
func (s *vatService) resolveTaxAmount(net, tax decimal.Decimal, bucket domain.VATBucket) decimal.Decimal {
	if tax.IsPositive() {
		return tax
	}
	return net.Mul(bucket.NominalRate)
}

// FilingDeadlines returns the four quarterly deadlines of a year with their
// derived status. The deadline of a quarter is the last day of the month
// FilingOffsetMonths after the quarter's end; the fourth quarter's deadline
// falls in the following calendar year.
func (s *vatService) FilingDeadlines(ctx context.Context, year int, scope string) ([]domain.FilingDeadline, error) {
	filings, err := s.filings.ListFilings(ctx, year, scope)
	if err != nil {
		s.LogError(ctx, err, "Failed to load filing records",
			slog.Int("year", year))
		return nil, fmt.Errorf("failed to load filing records: %w", err)
	}

	filed := make(map[int]bool, len(filings))
	for _, f := range filings {
		filed[f.Quarter] = f.Filed
	}

	now := s.now()
	deadlines := make([]domain.FilingDeadline, 0, 4)
	for quarter := 1; quarter <= 4; quarter++ {
		deadline := s.quarterDeadline(year, quarter)
		deadlines = append(deadlines, domain.FilingDeadline{
			Year:     year,
			Quarter:  quarter,
			Deadline: deadline,
			Filed:    filed[quarter],
			Status:   filingStatus(deadline, filed[quarter], now, s.cfg.DueSoonThreshold),
		})
	}
	return deadlines, nil
}

// quarterDeadline computes the statutory deadline of one quarter. time.Date
// normalizes month overflow, which is what rolls the fourth quarter's
// deadline into the following year.
func (s *vatService) quarterDeadline(year, quarter int) time.Time {
	endMonth := quarter * 3
	// Day 0 of month N+1 is the last day of month N.
	return time.Date(year, time.Month(endMonth+s.cfg.FilingOffsetMonths+1), 0, 23, 59, 59, 0, time.UTC)
}

func filingStatus(deadline time.Time, filed bool, now time.Time, dueSoon time.Duration) domain.FilingStatus {
	switch {
	case filed:
		return domain.FilingFiled
	case now.After(deadline):
		return domain.FilingOverdue
	case deadline.Sub(now) <= dueSoon:
		return domain.FilingDueSoon
	default:
		return domain.FilingNotYetDue
	}
}

// MarkFiled records a quarter's declaration as filed. The upsert is
// idempotent on (year, quarter, scope); concurrent submissions resolve
// last-write-wins. A persistence failure is surfaced but does not touch any
// already-computed report; the action is simply retryable.
func (s *vatService) MarkFiled(ctx context.Context, year, quarter int, scope string) error {
	if quarter < 1 || quarter > 4 {
		return fmt.Errorf("%w: quarter must be between 1 and 4, got %d", apperrors.ErrValidation, quarter)
	}

	filing := domain.VATFiling{
		Year:    year,
		Quarter: quarter,
		Scope:   scope,
		Filed:   true,
		FiledAt: s.now().UTC(),
	}
	if err := s.filings.UpsertFiling(ctx, filing); err != nil {
		s.LogError(ctx, err, "Failed to persist filing status",
			slog.Int("year", year),
			slog.Int("quarter", quarter))
		return fmt.Errorf("%w: %w", apperrors.ErrFilingPersist, err)
	}

	s.LogInfo(ctx, "Quarter marked as filed",
		slog.Int("year", year),
		slog.Int("quarter", quarter),
		slog.String("scope", scope))
	return nil
}

// vatAccumulator gathers per-bucket figures in fixed bucket order.
type vatAccumulator struct {
	order   []domain.VATBucketKey
	buckets map[domain.VATBucketKey]domain.VATBucket
	rows    map[domain.VATBucketKey]*domain.VATBreakdownRow
}

func newVATAccumulator(buckets []domain.VATBucket) *vatAccumulator {
	acc := &vatAccumulator{
		buckets: make(map[domain.VATBucketKey]domain.VATBucket, len(buckets)),
		rows:    make(map[domain.VATBucketKey]*domain.VATBreakdownRow, len(buckets)),
	}
	for _, b := range buckets {
		acc.order = append(acc.order, b.Key)
		acc.buckets[b.Key] = b
		acc.rows[b.Key] = &domain.VATBreakdownRow{
			Bucket:      b,
			TurnoverNet: decimal.Zero,
			Collected:   decimal.Zero,
			Deductible:  decimal.Zero,
		}
	}
	return acc
}

func (a *vatAccumulator) bucket(key domain.VATBucketKey) domain.VATBucket {
	return a.buckets[key]
}

func (a *vatAccumulator) addCollected(key domain.VATBucketKey, net, tax decimal.Decimal) {
	row := a.rows[key]
	row.TurnoverNet = row.TurnoverNet.Add(net)
	row.Collected = row.Collected.Add(tax)
}

func (a *vatAccumulator) addDeductible(key domain.VATBucketKey, net, tax decimal.Decimal) {
	row := a.rows[key]
	row.TurnoverNet = row.TurnoverNet.Add(net)
	row.Deductible = row.Deductible.Add(tax)
}

func (a *vatAccumulator) report(period domain.Period) *domain.VATReport {
	report := &domain.VATReport{
		Period:          period,
		Rows:            make([]domain.VATBreakdownRow, 0, len(a.order)),
		TotalTurnover:   decimal.Zero,
		TotalCollected:  decimal.Zero,
		TotalDeductible: decimal.Zero,
	}
	for _, key := range a.order {
		row := a.rows[key]
		report.Rows = append(report.Rows, *row)
		report.TotalTurnover = report.TotalTurnover.Add(row.TurnoverNet)
		report.TotalCollected = report.TotalCollected.Add(row.Collected)
		report.TotalDeductible = report.TotalDeductible.Add(row.Deductible)
	}

	net := report.TotalCollected.Sub(report.TotalDeductible)
	if net.IsPositive() {
		report.NetPayable = net
		report.NetCredit = decimal.Zero
	} else {
		report.NetPayable = decimal.Zero
		report.NetCredit = net.Neg()
	}
	return report
}
