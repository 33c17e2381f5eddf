package accounting

import (
	"github.com/abacusworks/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the normal-balance-side convention to one entry leg.
// On a debit-normal account a debit grows the balance and a credit shrinks
// it; on a credit-normal account the signs flip. This is the single place
// the convention lives; the ledger recurrence and the closed-form balance
// both go through it.
func SignedAmount(side domain.EntrySide, class domain.AccountClass, amount decimal.Decimal) decimal.Decimal {
	debitNormal := class.IsDebitNormal()
	isDebit := side == domain.Debit

	if isDebit == debitNormal {
		return amount
	}
	return amount.Neg()
}

// BalanceEpsilon is the currency minor-unit tolerance used when checking
// that total debits equal total credits.
var BalanceEpsilon = decimal.NewFromFloat(0.01)

// IsUnbalanced reports whether the debit/credit grand totals diverge by more
// than the minor-unit epsilon.
func IsUnbalanced(grandDebit, grandCredit decimal.Decimal) bool {
	return grandDebit.Sub(grandCredit).Abs().GreaterThan(BalanceEpsilon)
}
