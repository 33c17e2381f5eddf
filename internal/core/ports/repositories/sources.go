package repositories

import (
	"context"

	"github.com/abacusworks/ledger_engine/internal/core/domain"
)

// The document sources are the boundary to the record-fetching layer. Fetch
// mechanics (HTTP, SQL, cache) are the adapter's business; the engine only
// relies on the record shapes. Each source may fail independently, the
// materializer treats a failed source as an empty contribution.

// CustomerInvoiceSource lists outgoing invoices for a period.
type CustomerInvoiceSource interface {
	ListCustomerInvoices(ctx context.Context, period domain.Period) ([]domain.CustomerInvoice, error)
}

// SupplierInvoiceSource lists incoming invoices for a period.
type SupplierInvoiceSource interface {
	ListSupplierInvoices(ctx context.Context, period domain.Period) ([]domain.SupplierInvoice, error)
}

// BankTransactionSource lists bank movements for a period.
type BankTransactionSource interface {
	ListBankTransactions(ctx context.Context, period domain.Period) ([]domain.BankTransaction, error)
}

// EntrySource lists native ledger entries for a period. When it returns a
// non-empty result the materializer passes it through unchanged instead of
// synthesizing entries from documents.
type EntrySource interface {
	ListEntries(ctx context.Context, period domain.Period) ([]domain.CanonicalEntry, error)
}

// FilingRepository persists the filed flag of quarterly VAT declarations,
// the only mutable fact in this subsystem. UpsertFiling is idempotent and
// keyed by (year, quarter, scope); concurrent duplicate submissions resolve
// last-write-wins.
type FilingRepository interface {
	UpsertFiling(ctx context.Context, filing domain.VATFiling) error
	ListFilings(ctx context.Context, year int, scope string) ([]domain.VATFiling, error)
}
