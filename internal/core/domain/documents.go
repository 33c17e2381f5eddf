package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus mirrors the lifecycle states used by the document backend.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoiceValidated InvoiceStatus = "validated"
	InvoiceApproved  InvoiceStatus = "approved"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// CustomerInvoice is an outgoing (accounts receivable) invoice as fetched
// from the document backend. Amount is the net amount, tax excluded.
// TaxAmount and TaxRate are optional; a zero TaxAmount means the tax has to
// be derived from the rate.
type CustomerInvoice struct {
	ID        string          `json:"id"`
	Status    InvoiceStatus   `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	Currency  string          `json:"currency"`
	IssuedAt  time.Time       `json:"issuedAt"`
	Scope     string          `json:"scope"`
}

// Qualifies reports whether the invoice should contribute to the ledger:
// only confirmed invoices with a positive amount are booked.
func (i CustomerInvoice) Qualifies() bool {
	return (i.Status == InvoicePaid || i.Status == InvoiceValidated) && i.Amount.IsPositive()
}

// SupplierInvoice is an incoming (accounts payable) invoice.
type SupplierInvoice struct {
	ID           string          `json:"id"`
	SupplierName string          `json:"supplierName"`
	Status       InvoiceStatus   `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	Currency     string          `json:"currency"`
	IssuedAt     time.Time       `json:"issuedAt"`
	Scope        string          `json:"scope"`
}

// Qualifies reports whether the supplier invoice should be booked.
func (i SupplierInvoice) Qualifies() bool {
	return (i.Status == InvoiceApproved || i.Status == InvoicePaid) && i.Amount.IsPositive()
}

// BankTransaction is a single movement on a bank account. Amount is signed:
// positive for money coming in, negative for money going out.
type BankTransaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Scope       string          `json:"scope"`
}
