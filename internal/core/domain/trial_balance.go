package domain

import "github.com/shopspring/decimal"

// TrialBalanceRow holds the aggregated debit and credit totals for one
// account over a period.
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	Label       string          `json:"label"`
	Class       AccountClass    `json:"class"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// NetBalance is always debit minus credit; whether a report labels the
// figure debit-side or credit-side is presentation only.
func (r TrialBalanceRow) NetBalance() decimal.Decimal {
	return r.Debit.Sub(r.Credit)
}

// TrialBalanceSection groups the rows of one statutory class.
type TrialBalanceSection struct {
	Class       AccountClass      `json:"class"`
	Label       string            `json:"label"`
	Rows        []TrialBalanceRow `json:"rows"`
	DebitTotal  decimal.Decimal   `json:"debitTotal"`
	CreditTotal decimal.Decimal   `json:"creditTotal"`
}

// TrialBalanceReport is the full trial balance for a period. Unbalanced is a
// surfaced warning, never an error: the report is still returned.
type TrialBalanceReport struct {
	Period      Period                `json:"period"`
	Sections    []TrialBalanceSection `json:"sections"`
	GrandDebit  decimal.Decimal       `json:"grandDebit"`
	GrandCredit decimal.Decimal       `json:"grandCredit"`
	Unbalanced  bool                  `json:"unbalanced"`
}
