// Package taxonomy holds the static accounting reference data: the chart of
// accounts, the statutory class labels and the nominal VAT rates. Everything
// here is immutable; the VAT table additionally exists as injectable
// configuration so past periods can use the rates in force at the time.
package taxonomy

import (
	"fmt"

	"github.com/abacusworks/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Well-known account codes used by entry synthesis.
const (
	AccountBank              = "1020"
	AccountDebtors           = "1100"
	AccountCreditors         = "2000"
	AccountServiceRevenue    = "3200"
	AccountOtherIncome       = "3600"
	AccountAccruedServices   = "4400"
	AccountAdminExpenses     = "6500"
	AccountVATPayable        = "2200"
	AccountShareCapital      = "2800"
	AccountPersonnelExpenses = "5000"
)

var classLabels = map[domain.AccountClass]string{
	domain.ClassAssets:           "Assets",
	domain.ClassLiabilities:      "Liabilities & equity",
	domain.ClassRevenue:          "Operating revenue",
	domain.ClassMaterialExpense:  "Cost of materials and services",
	domain.ClassPersonnelExpense: "Personnel expense",
	domain.ClassOperatingExpense: "Other operating expense",
	domain.ClassSecondaryResult:  "Secondary operating result",
	domain.ClassExtraordinary:    "Extraordinary result",
	domain.ClassClosing:          "Closing",
}

var chart = []domain.Account{
	{Code: "1000", Label: "Cash", Class: domain.ClassAssets},
	{Code: AccountBank, Label: "Bank", Class: domain.ClassAssets},
	{Code: AccountDebtors, Label: "Debtors", Class: domain.ClassAssets},
	{Code: "1170", Label: "Deductible VAT", Class: domain.ClassAssets},
	{Code: "1510", Label: "Equipment", Class: domain.ClassAssets},
	{Code: AccountCreditors, Label: "Creditors", Class: domain.ClassLiabilities},
	{Code: AccountVATPayable, Label: "VAT payable", Class: domain.ClassLiabilities},
	{Code: AccountShareCapital, Label: "Share capital", Class: domain.ClassLiabilities},
	{Code: AccountServiceRevenue, Label: "Service revenue", Class: domain.ClassRevenue},
	{Code: AccountOtherIncome, Label: "Other operating income", Class: domain.ClassRevenue},
	{Code: AccountAccruedServices, Label: "Accrued services", Class: domain.ClassMaterialExpense},
	{Code: AccountPersonnelExpenses, Label: "Salaries", Class: domain.ClassPersonnelExpense},
	{Code: "6000", Label: "Rent", Class: domain.ClassOperatingExpense},
	{Code: AccountAdminExpenses, Label: "Administrative expenses", Class: domain.ClassOperatingExpense},
	{Code: "6900", Label: "Financial expense", Class: domain.ClassOperatingExpense},
	{Code: "7000", Label: "Secondary activity result", Class: domain.ClassSecondaryResult},
	{Code: "8000", Label: "Extraordinary expense", Class: domain.ClassExtraordinary},
	{Code: "8100", Label: "Extraordinary income", Class: domain.ClassExtraordinary},
	{Code: "9000", Label: "Income statement closing", Class: domain.ClassClosing},
}

var chartByCode = func() map[string]domain.Account {
	m := make(map[string]domain.Account, len(chart))
	for _, a := range chart {
		m[a.Code] = a
	}
	return m
}()

// Chart returns the full chart of accounts in code order.
func Chart() []domain.Account {
	out := make([]domain.Account, len(chart))
	copy(out, chart)
	return out
}

// ClassLabel returns the human label of a statutory class, or a generic
// label for a class outside the fixed set.
func ClassLabel(class domain.AccountClass) string {
	if label, ok := classLabels[class]; ok {
		return label
	}
	return fmt.Sprintf("Class %d", class)
}

// Lookup resolves an account code against the chart. Codes outside the chart
// get an ad hoc account whose class is derived from the first digit of the
// code, so entries on unknown accounts still land in the right section.
func Lookup(code string) domain.Account {
	if a, ok := chartByCode[code]; ok {
		return a
	}
	return domain.Account{
		Code:  code,
		Label: fmt.Sprintf("Account %s", code),
		Class: ClassOfCode(code),
	}
}

// ClassOfCode derives the statutory class from the first digit of an account
// code. Codes that do not start with a digit 1-9 fall back to assets.
func ClassOfCode(code string) domain.AccountClass {
	if len(code) > 0 && code[0] >= '1' && code[0] <= '9' {
		return domain.AccountClass(code[0] - '0')
	}
	return domain.ClassAssets
}

// DefaultVATBuckets returns the three VAT rate buckets with the nominal
// rates currently in force. This is the fallback used when configuration
// does not override the rates.
func DefaultVATBuckets() []domain.VATBucket {
	return []domain.VATBucket{
		{Key: domain.VATStandard, NominalRate: decimal.NewFromFloat(0.081), Label: "Standard rate"},
		{Key: domain.VATReduced, NominalRate: decimal.NewFromFloat(0.026), Label: "Reduced rate"},
		{Key: domain.VATLodging, NominalRate: decimal.NewFromFloat(0.038), Label: "Lodging rate"},
	}
}
