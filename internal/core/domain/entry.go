package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide indicates which side of the double-entry an amount sits on.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// Provenance records where a canonical entry came from.
type Provenance string

const (
	// Native entries are read unchanged from a bookkeeping ledger.
	Native Provenance = "NATIVE"
	// Synthesized entries are derived from commercial documents when no
	// native ledger exists for the period.
	Synthesized Provenance = "SYNTHESIZED"
)

// EntryStatus is the lifecycle state carried over from the owning document.
type EntryStatus string

const (
	EntryPosted EntryStatus = "POSTED"
)

// CanonicalEntry is one leg of a double-entry record. Entries are a pure
// computed view: they are rematerialized per query from their document
// sources and have no lifecycle of their own, the owning document is
// authoritative.
//
// Amount is always positive; Side says whether it is a debit or a credit.
// A synthesized document produces exactly two entries with identical amount,
// swapped account/counterpart and the same SourceRef.
type CanonicalEntry struct {
	Sequence         int64           `json:"sequence"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	Side             EntrySide       `json:"side"`
	AccountCode      string          `json:"accountCode"`
	AccountLabel     string          `json:"accountLabel"`
	CounterpartCode  string          `json:"counterpartCode"`
	CounterpartLabel string          `json:"counterpartLabel"`
	OccurredAt       time.Time       `json:"occurredAt"`
	Status           EntryStatus     `json:"status"`
	Scope            string          `json:"scope"`
	Provenance       Provenance      `json:"provenance"`
	SourceRef        string          `json:"sourceRef"`
}
