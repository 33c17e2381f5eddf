package domain

// AccountClass is the statutory top-level category of an account, encoded as
// the first digit of the account code in the chart of accounts.
type AccountClass int

const (
	ClassAssets           AccountClass = 1
	ClassLiabilities      AccountClass = 2
	ClassRevenue          AccountClass = 3
	ClassMaterialExpense  AccountClass = 4
	ClassPersonnelExpense AccountClass = 5
	ClassOperatingExpense AccountClass = 6
	ClassSecondaryResult  AccountClass = 7
	ClassExtraordinary    AccountClass = 8
	ClassClosing          AccountClass = 9
)

// IsDebitNormal reports whether an account of this class has its normal
// resting balance on the debit side. Assets and the expense classes grow on
// the debit side; everything else grows on the credit side.
func (c AccountClass) IsDebitNormal() bool {
	switch c {
	case ClassAssets, ClassMaterialExpense, ClassPersonnelExpense, ClassOperatingExpense, ClassExtraordinary:
		return true
	}
	return false
}

// Account is a position in the chart of accounts. Accounts are static
// reference data; they carry no balance of their own.
type Account struct {
	Code  string       `json:"code"`
	Label string       `json:"label"`
	Class AccountClass `json:"class"`
}
