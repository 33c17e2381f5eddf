package domain

import "github.com/shopspring/decimal"

// LedgerRow is a canonical entry annotated with the running balance of its
// account. The running balance only means something inside one account's
// chronological sequence.
type LedgerRow struct {
	CanonicalEntry
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// LedgerReport is the chronological ledger of one account over a period.
// Rows are ordered ascending by OccurredAt; ClosingBalance is the running
// balance of the last row, or zero when the account saw no movement.
type LedgerReport struct {
	Period         Period          `json:"period"`
	AccountCode    string          `json:"accountCode"`
	AccountLabel   string          `json:"accountLabel"`
	Class          AccountClass    `json:"class"`
	DebitNormal    bool            `json:"debitNormal"`
	Rows           []LedgerRow     `json:"rows"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}
