package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/abacusworks/ledger_engine/internal/core/domain"
	portsrepo "github.com/abacusworks/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/abacusworks/ledger_engine/internal/core/ports/services"
	"github.com/abacusworks/ledger_engine/internal/core/taxonomy"
	"github.com/abacusworks/ledger_engine/internal/utils/fx"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// materializerService produces the canonical double-entry view of a period.
// A non-empty native ledger is always preferred; otherwise entries are
// synthesized from commercial documents. Nothing is persisted; the owning
// documents stay authoritative and the view is recomputed per call.
type materializerService struct {
	BaseService
	entries   portsrepo.EntrySource
	customers portsrepo.CustomerInvoiceSource
	suppliers portsrepo.SupplierInvoiceSource
	bank      portsrepo.BankTransactionSource
	converter *fx.Converter
}

// MaterializerServiceOption is a functional option for configuring the materializer.
type MaterializerServiceOption func(*materializerService)

// WithEntrySource wires a native ledger source. Without one, materialization
// always falls back to document synthesis.
func WithEntrySource(src portsrepo.EntrySource) MaterializerServiceOption {
	return func(s *materializerService) {
		s.entries = src
	}
}

// NewMaterializerService creates a new materializer service with the provided options.
func NewMaterializerService(
	customers portsrepo.CustomerInvoiceSource,
	suppliers portsrepo.SupplierInvoiceSource,
	bank portsrepo.BankTransactionSource,
	converter *fx.Converter,
	options ...MaterializerServiceOption,
) portssvc.MaterializerSvc {
	svc := &materializerService{
		customers: customers,
		suppliers: suppliers,
		bank:      bank,
		converter: converter,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.MaterializerSvc = (*materializerService)(nil)

// fetched is the snapshot of all collaborator results for one materialization.
type fetched struct {
	native    []domain.CanonicalEntry
	customers []domain.CustomerInvoice
	suppliers []domain.SupplierInvoice
	bank      []domain.BankTransaction
}

// Materialize returns the canonical entries covering the period, sorted
// descending by occurrence date for display. Sequence numbers reflect
// materialization order, not chronology; callers must not conflate the two.
func (s *materializerService) Materialize(ctx context.Context, period domain.Period) ([]domain.CanonicalEntry, error) {
	snap := s.fetchAll(ctx, period)

	if len(snap.native) > 0 {
		s.LogInfo(ctx, "Using native ledger entries",
			slog.Int("entry_count", len(snap.native)))
		return snap.native, nil
	}

	entries := s.synthesize(period, snap)
	sortEntriesForDisplay(entries)

	s.LogInfo(ctx, "Materialized entries from documents",
		slog.Int("entry_count", len(entries)),
		slog.Int("customer_invoices", len(snap.customers)),
		slog.Int("supplier_invoices", len(snap.suppliers)),
		slog.Int("bank_transactions", len(snap.bank)))
	return entries, nil
}

// fetchAll awaits all collaborator fetches concurrently. A failing source
// contributes zero records and is logged; the others still land. This is
// fault isolation, not a transaction.
func (s *materializerService) fetchAll(ctx context.Context, period domain.Period) fetched {
	var snap fetched
	g, gctx := errgroup.WithContext(ctx)

	if s.entries != nil {
		g.Go(func() error {
			native, err := s.entries.ListEntries(gctx, period)
			if err != nil {
				s.LogWarn(ctx, "Native ledger source failed, falling back to synthesis",
					slog.String("error", err.Error()))
				return nil
			}
			snap.native = native
			return nil
		})
	}
	g.Go(func() error {
		invoices, err := s.customers.ListCustomerInvoices(gctx, period)
		if err != nil {
			s.LogWarn(ctx, "Customer invoice source failed, contributing no entries",
				slog.String("error", err.Error()))
			return nil
		}
		snap.customers = invoices
		return nil
	})
	g.Go(func() error {
		invoices, err := s.suppliers.ListSupplierInvoices(gctx, period)
		if err != nil {
			s.LogWarn(ctx, "Supplier invoice source failed, contributing no entries",
				slog.String("error", err.Error()))
			return nil
		}
		snap.suppliers = invoices
		return nil
	})
	g.Go(func() error {
		transactions, err := s.bank.ListBankTransactions(gctx, period)
		if err != nil {
			s.LogWarn(ctx, "Bank transaction source failed, contributing no entries",
				slog.String("error", err.Error()))
			return nil
		}
		snap.bank = transactions
		return nil
	})

	// The goroutines swallow their errors, so Wait never fails.
	_ = g.Wait()
	return snap
}

// synthesize derives debit/credit legs from the fetched documents. The same
// input snapshot always yields the same entries, sequence numbers included.
func (s *materializerService) synthesize(period domain.Period, snap fetched) []domain.CanonicalEntry {
	entries := make([]domain.CanonicalEntry, 0, 2*(len(snap.customers)+len(snap.suppliers))+len(snap.bank))
	var seq int64

	nextSeq := func() int64 {
		seq++
		return seq
	}
	scopeOf := func(docScope string) string {
		if docScope != "" {
			return docScope
		}
		return period.Scope
	}

	for _, inv := range snap.customers {
		if !inv.Qualifies() {
			continue
		}
		amount := s.converter.Convert(inv.Amount, inv.Currency)
		entries = appendEntryPair(entries, nextSeq, entryPair{
			description: fmt.Sprintf("Customer invoice %s", inv.ID),
			amount:      amount,
			debitCode:   taxonomy.AccountDebtors,
			creditCode:  taxonomy.AccountServiceRevenue,
			occurredAt:  inv.IssuedAt,
			scope:       scopeOf(inv.Scope),
			sourceRef:   fmt.Sprintf("customer-invoice:%s", inv.ID),
		})
	}

	for _, inv := range snap.suppliers {
		if !inv.Qualifies() {
			continue
		}
		amount := s.converter.Convert(inv.Amount, inv.Currency)
		description := fmt.Sprintf("Supplier invoice %s", inv.ID)
		if inv.SupplierName != "" {
			description = fmt.Sprintf("Supplier invoice %s (%s)", inv.ID, inv.SupplierName)
		}
		entries = appendEntryPair(entries, nextSeq, entryPair{
			description: description,
			amount:      amount,
			debitCode:   taxonomy.AccountAccruedServices,
			creditCode:  taxonomy.AccountCreditors,
			occurredAt:  inv.IssuedAt,
			scope:       scopeOf(inv.Scope),
			sourceRef:   fmt.Sprintf("supplier-invoice:%s", inv.ID),
		})
	}

	// Bank movements produce a single leg on the bank account. The
	// counterpart is a sign-based guess at the category (money in: other
	// operating income, money out: administrative expenses), a coarse
	// heuristic rather than a true categorization.
	for _, txn := range snap.bank {
		if txn.Amount.IsZero() {
			continue
		}
		amount := s.converter.Convert(txn.Amount, txn.Currency)
		bank := taxonomy.Lookup(taxonomy.AccountBank)

		side := domain.Debit
		counterpart := taxonomy.Lookup(taxonomy.AccountOtherIncome)
		if amount.IsNegative() {
			side = domain.Credit
			counterpart = taxonomy.Lookup(taxonomy.AccountAdminExpenses)
			amount = amount.Abs()
		}

		description := txn.Description
		if description == "" {
			description = fmt.Sprintf("Bank transaction %s", txn.ID)
		}
		entries = append(entries, domain.CanonicalEntry{
			Sequence:         nextSeq(),
			Description:      description,
			Amount:           amount,
			Side:             side,
			AccountCode:      bank.Code,
			AccountLabel:     bank.Label,
			CounterpartCode:  counterpart.Code,
			CounterpartLabel: counterpart.Label,
			OccurredAt:       txn.OccurredAt,
			Status:           domain.EntryPosted,
			Scope:            scopeOf(txn.Scope),
			Provenance:       domain.Synthesized,
			SourceRef:        fmt.Sprintf("bank-transaction:%s", txn.ID),
		})
	}

	return entries
}

// entryPair describes one document's balanced debit/credit leg pair.
type entryPair struct {
	description string
	amount      decimal.Decimal
	debitCode   string
	creditCode  string
	occurredAt  time.Time
	scope       string
	sourceRef   string
}

// appendEntryPair emits the two legs of a synthesized document: identical
// amount, swapped account/counterpart, same source reference. Every pair
// keeps sum(debit) == sum(credit) over the batch.
func appendEntryPair(entries []domain.CanonicalEntry, nextSeq func() int64, p entryPair) []domain.CanonicalEntry {
	debitAcc := taxonomy.Lookup(p.debitCode)
	creditAcc := taxonomy.Lookup(p.creditCode)

	entries = append(entries, domain.CanonicalEntry{
		Sequence:         nextSeq(),
		Description:      p.description,
		Amount:           p.amount,
		Side:             domain.Debit,
		AccountCode:      debitAcc.Code,
		AccountLabel:     debitAcc.Label,
		CounterpartCode:  creditAcc.Code,
		CounterpartLabel: creditAcc.Label,
		OccurredAt:       p.occurredAt,
		Status:           domain.EntryPosted,
		Scope:            p.scope,
		Provenance:       domain.Synthesized,
		SourceRef:        p.sourceRef,
	})
	entries = append(entries, domain.CanonicalEntry{
		Sequence:         nextSeq(),
		Description:      p.description,
		Amount:           p.amount,
		Side:             domain.Credit,
		AccountCode:      creditAcc.Code,
		AccountLabel:     creditAcc.Label,
		CounterpartCode:  debitAcc.Code,
		CounterpartLabel: debitAcc.Label,
		OccurredAt:       p.occurredAt,
		Status:           domain.EntryPosted,
		Scope:            p.scope,
		Provenance:       domain.Synthesized,
		SourceRef:        p.sourceRef,
	})
	return entries
}

// sortEntriesForDisplay orders entries newest first. The sort is stable so
// entries sharing a date stay in materialization order, keeping repeated
// runs byte-identical.
func sortEntriesForDisplay(entries []domain.CanonicalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurredAt.After(entries[j].OccurredAt)
	})
}
