package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abacusworks/ledger_engine/internal/core/domain"
	portsrepo "github.com/abacusworks/ledger_engine/internal/core/ports/repositories"
	"github.com/abacusworks/ledger_engine/internal/core/services"
	"github.com/abacusworks/ledger_engine/internal/core/taxonomy"
	"github.com/abacusworks/ledger_engine/internal/utils/fx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock document sources ---

type MockCustomerInvoiceSource struct {
	mock.Mock
}

var _ portsrepo.CustomerInvoiceSource = (*MockCustomerInvoiceSource)(nil)

func (m *MockCustomerInvoiceSource) ListCustomerInvoices(ctx context.Context, period domain.Period) ([]domain.CustomerInvoice, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerInvoice), args.Error(1)
}

type MockSupplierInvoiceSource struct {
	mock.Mock
}

var _ portsrepo.SupplierInvoiceSource = (*MockSupplierInvoiceSource)(nil)

func (m *MockSupplierInvoiceSource) ListSupplierInvoices(ctx context.Context, period domain.Period) ([]domain.SupplierInvoice, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SupplierInvoice), args.Error(1)
}

type MockBankTransactionSource struct {
	mock.Mock
}

var _ portsrepo.BankTransactionSource = (*MockBankTransactionSource)(nil)

func (m *MockBankTransactionSource) ListBankTransactions(ctx context.Context, period domain.Period) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

type MockEntrySource struct {
	mock.Mock
}

var _ portsrepo.EntrySource = (*MockEntrySource)(nil)

func (m *MockEntrySource) ListEntries(ctx context.Context, period domain.Period) ([]domain.CanonicalEntry, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CanonicalEntry), args.Error(1)
}

// --- Helpers ---

func testPeriod() domain.Period {
	return domain.Period{
		From:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:    time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
		Scope: "mandate-1",
	}
}

func chfConverter() *fx.Converter {
	return fx.NewConverter("CHF", map[string]decimal.Decimal{
		"EUR": decimal.NewFromFloat(0.5),
	})
}

func newMaterializerMocks() (*MockCustomerInvoiceSource, *MockSupplierInvoiceSource, *MockBankTransactionSource) {
	return new(MockCustomerInvoiceSource), new(MockSupplierInvoiceSource), new(MockBankTransactionSource)
}

func sumBySide(entries []domain.CanonicalEntry) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.Side == domain.Debit {
			debit = debit.Add(e.Amount)
		} else {
			credit = credit.Add(e.Amount)
		}
	}
	return debit, credit
}

// --- Tests ---

func TestMaterializePrefersNativeLedger(t *testing.T) {
	customers, suppliers, bank := newMaterializerMocks()
	entrySrc := new(MockEntrySource)
	period := testPeriod()

	native := []domain.CanonicalEntry{
		{Sequence: 1, Amount: decimal.NewFromInt(250), Side: domain.Debit, AccountCode: "1020", Provenance: domain.Native},
	}
	entrySrc.On("ListEntries", mock.Anything, period).Return(native, nil)
	customers.On("ListCustomerInvoices", mock.Anything, period).Return([]domain.CustomerInvoice{
		{ID: "INV-1", Status: domain.InvoicePaid, Amount: decimal.NewFromInt(1000), IssuedAt: period.From},
	}, nil)
	suppliers.On("ListSupplierInvoices", mock.Anything, period).Return([]domain.SupplierInvoice{}, nil)
	bank.On("ListBankTransactions", mock.Anything, period).Return([]domain.BankTransaction{}, nil)

	svc := services.NewMaterializerService(customers, suppliers, bank, chfConverter(), services.WithEntrySource(entrySrc))
	entries, err := svc.Materialize(context.Background(), period)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.Native, entries[0].Provenance)
	assert.Equal(t, "250", entries[0].Amount.String())
}

func TestMaterializeSynthesizesBalancedPairs(t *testing.T) {
	customers, suppliers, bank := newMaterializerMocks()
	period := testPeriod()

	customers.On("ListCustomerInvoices", mock.Anything, period).Return([]domain.CustomerInvoice{
		{ID: "INV-1", Status: domain.InvoicePaid, Amount: decimal.NewFromInt(1000), IssuedAt: period.From.AddDate(0, 0, 5)},
		{ID: "INV-2", Status: domain.InvoiceValidated, Amount: decimal.NewFromFloat(250.50), IssuedAt: period.From.AddDate(0, 0, 10)},
		// Draft and negative invoices must not be booked.
		{ID: "INV-3", Status: domain.InvoiceDraft, Amount: decimal.NewFromInt(400), IssuedAt: period.From},
		{ID: "INV-4", Status: domain.InvoicePaid, Amount: decimal.NewFromInt(-10), IssuedAt: period.From},
	}, nil)
	suppliers.On("ListSupplierInvoices", mock.Anything, period).Return([]domain.SupplierInvoice{
		{ID: "SUP-1", SupplierName: "Hosting AG", Status: domain.InvoiceApproved, Amount: decimal.NewFromInt(500), IssuedAt: period.From.AddDate(0, 1, 0)},
	}, nil)
	bank.On("ListBankTransactions", mock.Anything, period).Return([]domain.BankTransaction{}, nil)

	svc := services.NewMaterializerService(customers, suppliers, bank, chfConverter())
	entries, err := svc.Materialize(context.Background(), period)

	require.NoError(t, err)
	require.Len(t, entries, 6)

	debit, credit := sumBySide(entries)
	assert.True(t, debit.Equal(credit), "debits %s must equal credits %s", debit, credit)

	// The customer invoice pair books debtors against service revenue with
	// swapped account/counterpart and a shared source reference.
	var legs []domain.CanonicalEntry
	for _, e := range entries {
		if e.SourceRef == "customer-invoice:INV-1" {
			legs = append(legs, e)
		}
	}
	require.Len(t, legs, 2)
	for _, leg := range legs {
		assert.Equal(t, "1000", leg.Amount.String())
		assert.Equal(t, domain.Synthesized, leg.Provenance)
	}
	assert.NotEqual(t, legs[0].Side, legs[1].Side)
	assert.Equal(t, legs[0].AccountCode, legs[1].CounterpartCode)
	assert.Equal(t, legs[0].CounterpartCode, legs[1].AccountCode)
}

func TestMaterializeBankCounterpartHeuristic(t *testing.T) {
	customers, suppliers, bank := newMaterializerMocks()
	period := testPeriod()

	customers.On("ListCustomerInvoices", mock.Anything, period).Return([]domain.CustomerInvoice{}, nil)
	suppliers.On("ListSupplierInvoices", mock.Anything, period).Return([]domain.SupplierInvoice{}, nil)
	bank.On("ListBankTransactions", mock.Anything, period).Return([]domain.BankTransaction{
		{ID: "TXN-1", Amount: decimal.NewFromInt(300), Description: "Incoming wire", OccurredAt: period.From},
		{ID: "TXN-2", Amount: decimal.NewFromInt(-120), Description: "Office supplies", OccurredAt: period.From.AddDate(0, 0, 1)},
		{ID: "TXN-3", Amount: decimal.Zero, OccurredAt: period.From},
	}, nil)

	svc := services.NewMaterializerService(customers, suppliers, bank, chfConverter())
	entries, err := svc.Materialize(context.Background(), period)

	require.NoError(t, err)
	require.Len(t, entries, 2)

	byRef := make(map[string]domain.CanonicalEntry, len(entries))
	for _, e := range entries {
		byRef[e.SourceRef] = e
	}

	in := byRef["bank-transaction:TXN-1"]
	assert.Equal(t, domain.Debit, in.Side)
	assert.Equal(t, taxonomy.AccountBank, in.AccountCode)
	assert.Equal(t, taxonomy.AccountOtherIncome, in.CounterpartCode)
	assert.Equal(t, "300", in.Amount.String())

	out := byRef["bank-transaction:TXN-2"]
	assert.Equal(t, domain.Credit, out.Side)
	assert.Equal(t, taxonomy.AccountAdminExpenses, out.CounterpartCode)
	assert.Equal(t, "120", out.Amount.String(), "amount must be stored positive")
}

func TestMaterializeIsolatesFailingSource(t *testing.T) {
	customers, suppliers, bank := newMaterializerMocks()
	period := testPeriod()

	customers.On("ListCustomerInvoices", mock.Anything, period).Return(nil, errors.New("backend unavailable"))
	suppliers.On("ListSupplierInvoices", mock.Anything, period).Return([]domain.SupplierInvoice{
		{ID: "SUP-1", Status: domain.InvoicePaid, Amount: decimal.NewFromInt(500), IssuedAt: period.From},
	}, nil)
	bank.On("ListBankTransactions", mock.Anything, period).Return([]domain.BankTransaction{}, nil)

	svc := services.NewMaterializerService(customers, suppliers, bank, chfConverter())
	entries, err := svc.Materialize(context.Background(), period)

	require.NoError(t, err, "one failing source must not abort materialization")
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "supplier-invoice:SUP-1", e.SourceRef)
	}
}

func TestMaterializeFailedNativeSourceFallsBackToSynthesis(t *testing.T) {
	customers, suppliers, bank := newMaterializerMocks()
	entrySrc := new(MockEntrySource)
	period := testPeriod()

	entrySrc.On("ListEntries", mock.Anything, period).Return(nil, errors.New("ledger offline"))
	customers.On("ListCustomerInvoices", mock.Anything, period).Return([]domain.CustomerInvoice{
		{ID: "INV-1", Status: domain.InvoicePaid, Amount: decimal.NewFromInt(100), IssuedAt: period.From},
	}, nil)
	suppliers.On("ListSupplierInvoices", mock.Anything, period).Return([]domain.SupplierInvoice{}, nil)
	bank.On("ListBankTransactions", mock.Anything, period).Return([]domain.BankTransaction{}, nil)

	svc := services.NewMaterializerService(customers, suppliers, bank, chfConverter(), services.WithEntrySource(entrySrc))
	entries, err := svc.Materialize(context.Background(), period)

	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestMaterializeSortsDescendingByOccurrence(t *testing.T) {
	customers, suppliers, bank := newMaterializerMocks()
	period := testPeriod()

	customers.On("ListCustomerInvoices", mock.Anything, period).Return([]domain.CustomerInvoice{
		{ID: "OLD", Status: domain.InvoicePaid, Amount: decimal.NewFromInt(100), IssuedAt: period.From},
		{ID: "NEW", Status: domain.InvoicePaid, Amount: decimal.NewFromInt(200), IssuedAt: period.From.AddDate(0, 2, 0)},
	}, nil)
	suppliers.On("ListSupplierInvoices", mock.Anything, period).Return([]domain.SupplierInvoice{}, nil)
	bank.On("ListBankTransactions", mock.Anything, period).Return([]domain.BankTransaction{}, nil)

	svc := services.NewMaterializerService(customers, suppliers, bank, chfConverter())
	entries, err := svc.Materialize(context.Background(), period)

	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "customer-invoice:NEW", entries[0].SourceRef)
	assert.Equal(t, "customer-invoice:NEW", entries[1].SourceRef)
	assert.Equal(t, "customer-invoice:OLD", entries[2].SourceRef)

	// Sequence numbers follow materialization order, not the displayed
	// chronological order.
	assert.Equal(t, int64(3), entries[0].Sequence)
	assert.Equal(t, int64(1), entries[2].Sequence)
}

func TestMaterializeIsIdempotent(t *testing.T) {
	period := testPeriod()
	build := func() ([]domain.CanonicalEntry, error) {
		customers, suppliers, bank := newMaterializerMocks()
		customers.On("ListCustomerInvoices", mock.Anything, period).Return([]domain.CustomerInvoice{
			{ID: "INV-1", Status: domain.InvoicePaid, Amount: decimal.NewFromInt(1000), IssuedAt: period.From.AddDate(0, 0, 3)},
		}, nil)
		suppliers.On("ListSupplierInvoices", mock.Anything, period).Return([]domain.SupplierInvoice{
			{ID: "SUP-1", Status: domain.InvoiceApproved, Amount: decimal.NewFromInt(500), IssuedAt: period.From.AddDate(0, 0, 7)},
		}, nil)
		bank.On("ListBankTransactions", mock.Anything, period).Return([]domain.BankTransaction{
			{ID: "TXN-1", Amount: decimal.NewFromInt(-50), OccurredAt: period.From.AddDate(0, 0, 9)},
		}, nil)
		svc := services.NewMaterializerService(customers, suppliers, bank, chfConverter())
		return svc.Materialize(context.Background(), period)
	}

	first, err := build()
	require.NoError(t, err)
	second, err := build()
	require.NoError(t, err)

	assert.Equal(t, first, second, "unchanged sources must yield identical entries")
}

func TestMaterializeConvertsForeignCurrency(t *testing.T) {
	customers, suppliers, bank := newMaterializerMocks()
	period := testPeriod()

	customers.On("ListCustomerInvoices", mock.Anything, period).Return([]domain.CustomerInvoice{
		{ID: "INV-1", Status: domain.InvoicePaid, Amount: decimal.NewFromInt(1000), Currency: "EUR", IssuedAt: period.From},
	}, nil)
	suppliers.On("ListSupplierInvoices", mock.Anything, period).Return([]domain.SupplierInvoice{}, nil)
	bank.On("ListBankTransactions", mock.Anything, period).Return([]domain.BankTransaction{}, nil)

	svc := services.NewMaterializerService(customers, suppliers, bank, chfConverter())
	entries, err := svc.Materialize(context.Background(), period)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "500", entries[0].Amount.String(), "EUR amount converted at the static rate")
}
