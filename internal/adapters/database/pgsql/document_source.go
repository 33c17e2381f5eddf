package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abacusworks/ledger_engine/internal/core/domain"
	portsrepo "github.com/abacusworks/ledger_engine/internal/core/ports/repositories"
	"github.com/abacusworks/ledger_engine/internal/utils/fieldres"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Document kinds stored in the documents table.
const (
	kindCustomerInvoice = "customer_invoice"
	kindSupplierInvoice = "supplier_invoice"
	kindBankTransaction = "bank_transaction"
)

// Field resolvers for the schema-less document payloads. Producers are not
// consistent about field names, so each logical field declares its candidate
// keys once, in priority order.
var (
	resStatus       = fieldres.New("status", "state")
	resAmount       = fieldres.New("amount", "total_amount", "net_amount")
	resTaxAmount    = fieldres.New("tax_amount", "vat_amount")
	resTaxRate      = fieldres.New("tax_rate", "vat_rate")
	resCurrency     = fieldres.New("currency", "currency_code")
	resIssuedAt     = fieldres.New("date_issued", "date_created", "date")
	resSupplierName = fieldres.New("supplier_name", "vendor_name")
	resDescription  = fieldres.New("description", "label", "wording")
	resOccurredAt   = fieldres.New("date", "booking_date", "date_created")
)

// PgxDocumentSource implements the document source ports against the
// documents table, where the generic backend stores records as JSONB
// payloads keyed by kind.
type PgxDocumentSource struct {
	db *pgxpool.Pool
}

// NewDocumentSource creates a new PgxDocumentSource.
func NewDocumentSource(db *pgxpool.Pool) *PgxDocumentSource {
	return &PgxDocumentSource{db: db}
}

var (
	_ portsrepo.CustomerInvoiceSource = (*PgxDocumentSource)(nil)
	_ portsrepo.SupplierInvoiceSource = (*PgxDocumentSource)(nil)
	_ portsrepo.BankTransactionSource = (*PgxDocumentSource)(nil)
)

// listPayloads fetches the raw payloads of one document kind for a period.
func (s *PgxDocumentSource) listPayloads(ctx context.Context, kind string, period domain.Period) ([]rawDocument, error) {
	query := `
		SELECT document_id, scope, payload
		FROM documents
		WHERE kind = $1
		  AND occurred_at BETWEEN $2 AND $3
		  AND ($4 = '' OR scope = $4)
		ORDER BY occurred_at, document_id
	`
	rows, err := s.db.Query(ctx, query, kind, period.From, period.To, period.Scope)
	if err != nil {
		return nil, fmt.Errorf("error querying %s documents: %w", kind, err)
	}
	defer rows.Close()

	var docs []rawDocument
	for rows.Next() {
		var (
			doc     rawDocument
			payload []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Scope, &payload); err != nil {
			return nil, fmt.Errorf("error scanning %s document: %w", kind, err)
		}
		if err := json.Unmarshal(payload, &doc.Fields); err != nil {
			return nil, fmt.Errorf("error decoding %s payload %s: %w", kind, doc.ID, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s documents: %w", kind, err)
	}
	return docs, nil
}

type rawDocument struct {
	ID     string
	Scope  string
	Fields map[string]any
}

// ListCustomerInvoices implements ports.CustomerInvoiceSource.
func (s *PgxDocumentSource) ListCustomerInvoices(ctx context.Context, period domain.Period) ([]domain.CustomerInvoice, error) {
	docs, err := s.listPayloads(ctx, kindCustomerInvoice, period)
	if err != nil {
		return nil, err
	}
	invoices := make([]domain.CustomerInvoice, 0, len(docs))
	for _, doc := range docs {
		invoices = append(invoices, domain.CustomerInvoice{
			ID:        doc.ID,
			Status:    domain.InvoiceStatus(resStatus.String(doc.Fields)),
			Amount:    resAmount.Decimal(doc.Fields),
			TaxAmount: resTaxAmount.Decimal(doc.Fields),
			TaxRate:   resTaxRate.Decimal(doc.Fields),
			Currency:  resCurrency.String(doc.Fields),
			IssuedAt:  resIssuedAt.Time(doc.Fields),
			Scope:     doc.Scope,
		})
	}
	return invoices, nil
}

// ListSupplierInvoices implements ports.SupplierInvoiceSource.
func (s *PgxDocumentSource) ListSupplierInvoices(ctx context.Context, period domain.Period) ([]domain.SupplierInvoice, error) {
	docs, err := s.listPayloads(ctx, kindSupplierInvoice, period)
	if err != nil {
		return nil, err
	}
	invoices := make([]domain.SupplierInvoice, 0, len(docs))
	for _, doc := range docs {
		invoices = append(invoices, domain.SupplierInvoice{
			ID:           doc.ID,
			SupplierName: resSupplierName.String(doc.Fields),
			Status:       domain.InvoiceStatus(resStatus.String(doc.Fields)),
			Amount:       resAmount.Decimal(doc.Fields),
			TaxAmount:    resTaxAmount.Decimal(doc.Fields),
			TaxRate:      resTaxRate.Decimal(doc.Fields),
			Currency:     resCurrency.String(doc.Fields),
			IssuedAt:     resIssuedAt.Time(doc.Fields),
			Scope:        doc.Scope,
		})
	}
	return invoices, nil
}

// ListBankTransactions implements ports.BankTransactionSource.
func (s *PgxDocumentSource) ListBankTransactions(ctx context.Context, period domain.Period) ([]domain.BankTransaction, error) {
	docs, err := s.listPayloads(ctx, kindBankTransaction, period)
	if err != nil {
		return nil, err
	}
	transactions := make([]domain.BankTransaction, 0, len(docs))
	for _, doc := range docs {
		transactions = append(transactions, domain.BankTransaction{
			ID:          doc.ID,
			Amount:      resAmount.Decimal(doc.Fields),
			Currency:    resCurrency.String(doc.Fields),
			Description: resDescription.String(doc.Fields),
			OccurredAt:  resOccurredAt.Time(doc.Fields),
			Scope:       doc.Scope,
		})
	}
	return transactions, nil
}
