package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abacusworks/ledger_engine/internal/apperrors"
	"github.com/abacusworks/ledger_engine/internal/core/domain"
	portsrepo "github.com/abacusworks/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/abacusworks/ledger_engine/internal/core/ports/services"
	"github.com/abacusworks/ledger_engine/internal/core/services"
	"github.com/abacusworks/ledger_engine/internal/core/taxonomy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock filing repository ---

type MockFilingRepository struct {
	mock.Mock
}

var _ portsrepo.FilingRepository = (*MockFilingRepository)(nil)

func (m *MockFilingRepository) UpsertFiling(ctx context.Context, filing domain.VATFiling) error {
	args := m.Called(ctx, filing)
	return args.Error(0)
}

func (m *MockFilingRepository) ListFilings(ctx context.Context, year int, scope string) ([]domain.VATFiling, error) {
	args := m.Called(ctx, year, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VATFiling), args.Error(1)
}

// --- Helpers ---

func testVATConfig() services.VATConfig {
	return services.VATConfig{
		Buckets:            taxonomy.DefaultVATBuckets(),
		RateTolerancePP:    decimal.NewFromFloat(0.5),
		FilingOffsetMonths: 2,
		DueSoonThreshold:   30 * 24 * time.Hour,
	}
}

func buildVATService(customers *MockCustomerInvoiceSource, suppliers *MockSupplierInvoiceSource, filings *MockFilingRepository, options ...services.VATServiceOption) portssvc.VATSvc {
	return services.NewVATService(customers, suppliers, filings, chfConverter(), testVATConfig(), options...)
}

func bucketRow(t *testing.T, report *domain.VATReport, key domain.VATBucketKey) domain.VATBreakdownRow {
	t.Helper()
	for _, row := range report.Rows {
		if row.Bucket.Key == key {
			return row
		}
	}
	t.Fatalf("bucket %s not found in report", key)
	return domain.VATBreakdownRow{}
}

// --- Rate classification ---

func TestClassifyRateBothRepresentations(t *testing.T) {
	cfg := testVATConfig()

	fraction, ok := services.ClassifyRate(decimal.NewFromFloat(0.081), cfg.Buckets, cfg.RateTolerancePP)
	require.True(t, ok)
	percentage, ok := services.ClassifyRate(decimal.NewFromFloat(8.1), cfg.Buckets, cfg.RateTolerancePP)
	require.True(t, ok)

	assert.Equal(t, domain.VATStandard, fraction)
	assert.Equal(t, domain.VATStandard, percentage)
}

func TestClassifyRateToleranceAndBuckets(t *testing.T) {
	cfg := testVATConfig()

	tests := []struct {
		rate    float64
		want    domain.VATBucketKey
		matched bool
	}{
		{2.6, domain.VATReduced, true},
		{0.026, domain.VATReduced, true},
		{3.8, domain.VATLodging, true},
		{8.4, domain.VATStandard, true},  // inside tolerance
		{7.7, domain.VATStandard, true},  // inside tolerance
		{20.0, domain.VATStandard, false}, // outlier defaults to standard
		{5.5, domain.VATStandard, false},
	}
	for _, tc := range tests {
		key, matched := services.ClassifyRate(decimal.NewFromFloat(tc.rate), cfg.Buckets, cfg.RateTolerancePP)
		assert.Equal(t, tc.want, key, "rate %v", tc.rate)
		assert.Equal(t, tc.matched, matched, "rate %v", tc.rate)
	}
}

// --- Report ---

func TestVATReportStatutoryScenario(t *testing.T) {
	customers, suppliers, _ := newMaterializerMocks()
	filings := new(MockFilingRepository)
	period := testPeriod()

	customers.On("ListCustomerInvoices", mock.Anything, period).Return([]domain.CustomerInvoice{
		{ID: "INV-1", Status: domain.InvoicePaid, Amount: decimal.NewFromInt(1000), TaxAmount: decimal.NewFromInt(81), IssuedAt: period.From},
	}, nil)
	suppliers.On("ListSupplierInvoices", mock.Anything, period).Return([]domain.SupplierInvoice{
		{ID: "SUP-1", Status: domain.InvoiceApproved, Amount: decimal.NewFromInt(500), TaxAmount: decimal.NewFromInt(13), IssuedAt: period.From},
	}, nil)

	svc := buildVATService(customers, suppliers, filings)
	report, err := svc.Report(context.Background(), period)

	require.NoError(t, err)

	standard := bucketRow(t, report, domain.VATStandard)
	assert.Equal(t, "81", standard.Collected.String())
	assert.Equal(t, "1000", standard.TurnoverNet.String())

	reduced := bucketRow(t, report, domain.VATReduced)
	assert.Equal(t, "13", reduced.Deductible.String())
	assert.Equal(t, "500", reduced.TurnoverNet.String())

	assert.Equal(t, "68", report.NetPayable.String())
	assert.Equal(t, "0", report.NetCredit.String())
	assert.Equal(t, "1500", report.TotalTurnover.String())
}

func TestVATReportDerivesTaxFromRateWhenAmountMissing(t *testing.T) {
	customers, suppliers, _ := newMaterializerMocks()
	filings := new(MockFilingRepository)
	period := testPeriod()

	customers.On("ListCustomerInvoices", mock.Anything, period).Return([]domain.CustomerInvoice{
		{ID: "INV-1", Status: domain.InvoicePaid, Amount: decimal.NewFromInt(1000), TaxRate: decimal.NewFromFloat(8.1), IssuedAt: period.From},
	}, nil)
	suppliers.On("ListSupplierInvoices", mock.Anything, period).Return([]domain.SupplierInvoice{}, nil)

	svc := buildVATService(customers, suppliers, filings)
	report, err := svc.Report(context.Background(), period)

	require.NoError(t, err)
	standard := bucketRow(t, report, domain.VATStandard)
	assert.True(t, standard.Collected.Equal(decimal.NewFromFloat(81)),
		"derived tax %s should be net * nominal rate", standard.Collected)
}

func TestVATReportEmptyPeriod(t *testing.T) {
	customers, suppliers, _ := newMaterializerMocks()
	filings := new(MockFilingRepository)
	period := testPeriod()

	customers.On("ListCustomerInvoices", mock.Anything, period).Return([]domain.CustomerInvoice{}, nil)
	suppliers.On("ListSupplierInvoices", mock.Anything, period).Return([]domain.SupplierInvoice{}, nil)

	svc := buildVATService(customers, suppliers, filings)
	report, err := svc.Report(context.Background(), period)

	require.NoError(t, err)
	require.Len(t, report.Rows, 3)
	for _, row := range report.Rows {
		assert.True(t, row.TurnoverNet.IsZero())
		assert.True(t, row.Collected.IsZero())
		assert.True(t, row.Deductible.IsZero())
	}
	assert.True(t, report.NetPayable.IsZero())
	assert.True(t, report.NetCredit.IsZero())
}

func TestVATReportToleratesFailingSource(t *testing.T) {
	customers, suppliers, _ := newMaterializerMocks()
	filings := new(MockFilingRepository)
	period := testPeriod()

	customers.On("ListCustomerInvoices", mock.Anything, period).Return(nil, errors.New("backend down"))
	suppliers.On("ListSupplierInvoices", mock.Anything, period).Return([]domain.SupplierInvoice{
		{ID: "SUP-1", Status: domain.InvoicePaid, Amount: decimal.NewFromInt(500), TaxAmount: decimal.NewFromInt(13), IssuedAt: period.From},
	}, nil)

	svc := buildVATService(customers, suppliers, filings)
	report, err := svc.Report(context.Background(), period)

	require.NoError(t, err, "a failing source yields a partial report, not an error")
	reduced := bucketRow(t, report, domain.VATReduced)
	assert.Equal(t, "13", reduced.Deductible.String())
	assert.Equal(t, "13", report.NetCredit.String())
	assert.True(t, report.NetPayable.IsZero())
}

func TestVATReportSkipsUnqualifiedInvoices(t *testing.T) {
	customers, suppliers, _ := newMaterializerMocks()
	filings := new(MockFilingRepository)
	period := testPeriod()

	customers.On("ListCustomerInvoices", mock.Anything, period).Return([]domain.CustomerInvoice{
		{ID: "INV-1", Status: domain.InvoiceDraft, Amount: decimal.NewFromInt(1000), TaxAmount: decimal.NewFromInt(81), IssuedAt: period.From},
	}, nil)
	suppliers.On("ListSupplierInvoices", mock.Anything, period).Return([]domain.SupplierInvoice{}, nil)

	svc := buildVATService(customers, suppliers, filings)
	report, err := svc.Report(context.Background(), period)

	require.NoError(t, err)
	assert.True(t, report.TotalCollected.IsZero())
	assert.True(t, report.TotalTurnover.IsZero())
}

// --- Filing deadlines ---

func TestFilingDeadlinesStatuses(t *testing.T) {
	customers, suppliers, _ := newMaterializerMocks()
	filings := new(MockFilingRepository)

	filings.On("ListFilings", mock.Anything, 2024, "mandate-1").Return([]domain.VATFiling{
		{Year: 2024, Quarter: 1, Scope: "mandate-1", Filed: true},
	}, nil)

	now := time.Date(2024, 8, 10, 12, 0, 0, 0, time.UTC)
	svc := buildVATService(customers, suppliers, filings, services.WithClock(func() time.Time { return now }))

	deadlines, err := svc.FilingDeadlines(context.Background(), 2024, "mandate-1")
	require.NoError(t, err)
	require.Len(t, deadlines, 4)

	// Q1 ends March, deadline end of May; filed wins over overdue.
	assert.Equal(t, domain.FilingFiled, deadlines[0].Status)
	assert.Equal(t, time.May, deadlines[0].Deadline.Month())
	assert.Equal(t, 31, deadlines[0].Deadline.Day())

	// Q2 deadline is Aug 31, 21 days away: due soon.
	assert.Equal(t, domain.FilingDueSoon, deadlines[1].Status)

	// Q3 deadline is Nov 30: not yet due.
	assert.Equal(t, domain.FilingNotYetDue, deadlines[2].Status)

	// Q4 deadline rolls into the following calendar year.
	assert.Equal(t, 2025, deadlines[3].Deadline.Year())
	assert.Equal(t, time.February, deadlines[3].Deadline.Month())
	assert.Equal(t, domain.FilingNotYetDue, deadlines[3].Status)
}

func TestFilingDeadlinesOverdue(t *testing.T) {
	customers, suppliers, _ := newMaterializerMocks()
	filings := new(MockFilingRepository)

	filings.On("ListFilings", mock.Anything, 2024, "").Return([]domain.VATFiling{}, nil)

	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	svc := buildVATService(customers, suppliers, filings, services.WithClock(func() time.Time { return now }))

	deadlines, err := svc.FilingDeadlines(context.Background(), 2024, "")
	require.NoError(t, err)
	assert.Equal(t, domain.FilingOverdue, deadlines[0].Status, "unfiled Q1 past its deadline")
}

// --- Mark filed ---

func TestMarkFiledUpserts(t *testing.T) {
	customers, suppliers, _ := newMaterializerMocks()
	filings := new(MockFilingRepository)

	filings.On("UpsertFiling", mock.Anything, mock.MatchedBy(func(f domain.VATFiling) bool {
		return f.Year == 2024 && f.Quarter == 2 && f.Scope == "mandate-1" && f.Filed
	})).Return(nil)

	svc := buildVATService(customers, suppliers, filings)
	err := svc.MarkFiled(context.Background(), 2024, 2, "mandate-1")

	require.NoError(t, err)
	filings.AssertExpectations(t)
}

func TestMarkFiledRejectsInvalidQuarter(t *testing.T) {
	customers, suppliers, _ := newMaterializerMocks()
	svc := buildVATService(customers, suppliers, new(MockFilingRepository))

	err := svc.MarkFiled(context.Background(), 2024, 5, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMarkFiledSurfacesPersistFailure(t *testing.T) {
	customers, suppliers, _ := newMaterializerMocks()
	filings := new(MockFilingRepository)

	filings.On("UpsertFiling", mock.Anything, mock.Anything).Return(errors.New("db down"))

	svc := buildVATService(customers, suppliers, filings)
	err := svc.MarkFiled(context.Background(), 2024, 1, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFilingPersist, "failure is surfaced and retryable")
}
