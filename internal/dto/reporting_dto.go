package dto

import (
	"github.com/abacusworks/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountCode string          `json:"accountCode"`
	Label       string          `json:"label"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	NetBalance  decimal.Decimal `json:"netBalance"`
}

// TrialBalanceSectionResponse groups the rows of one statutory class
type TrialBalanceSectionResponse struct {
	Class       int                       `json:"class"`
	Label       string                    `json:"label"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	DebitTotal  decimal.Decimal           `json:"debitTotal"`
	CreditTotal decimal.Decimal           `json:"creditTotal"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	From     string                        `json:"from"`
	To       string                        `json:"to"`
	Scope    string                        `json:"scope,omitempty"`
	Sections []TrialBalanceSectionResponse `json:"sections"`
	Totals   struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	Unbalanced bool `json:"unbalanced"`
}

// ToTrialBalanceResponse converts a domain trial balance report to a DTO response
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	response := TrialBalanceResponse{
		From:       report.Period.From.Format("2006-01-02"),
		To:         report.Period.To.Format("2006-01-02"),
		Scope:      report.Period.Scope,
		Sections:   make([]TrialBalanceSectionResponse, len(report.Sections)),
		Unbalanced: report.Unbalanced,
	}

	for i, section := range report.Sections {
		rows := make([]TrialBalanceRowResponse, len(section.Rows))
		for j, row := range section.Rows {
			rows[j] = TrialBalanceRowResponse{
				AccountCode: row.AccountCode,
				Label:       row.Label,
				Debit:       row.Debit,
				Credit:      row.Credit,
				NetBalance:  row.NetBalance(),
			}
		}
		response.Sections[i] = TrialBalanceSectionResponse{
			Class:       int(section.Class),
			Label:       section.Label,
			Rows:        rows,
			DebitTotal:  section.DebitTotal,
			CreditTotal: section.CreditTotal,
		}
	}

	response.Totals.Debit = report.GrandDebit
	response.Totals.Credit = report.GrandCredit
	return response
}

// TrialBalanceTable flattens a trial balance report into the tabular export
// layout: one header row, each class introduced by a header row followed by
// its account rows, and one grand-total row. Column order is fixed: account
// code, label, debit, credit, balance.
func TrialBalanceTable(report *domain.TrialBalanceReport) [][]string {
	table := make([][]string, 0, len(report.Sections)+2)
	table = append(table, []string{"Account", "Label", "Debit", "Credit", "Balance"})

	for _, section := range report.Sections {
		table = append(table, []string{
			"",
			section.Label,
			section.DebitTotal.StringFixed(2),
			section.CreditTotal.StringFixed(2),
			section.DebitTotal.Sub(section.CreditTotal).StringFixed(2),
		})
		for _, row := range section.Rows {
			table = append(table, []string{
				row.AccountCode,
				row.Label,
				row.Debit.StringFixed(2),
				row.Credit.StringFixed(2),
				row.NetBalance().StringFixed(2),
			})
		}
	}

	table = append(table, []string{
		"",
		"Total",
		report.GrandDebit.StringFixed(2),
		report.GrandCredit.StringFixed(2),
		report.GrandDebit.Sub(report.GrandCredit).StringFixed(2),
	})
	return table
}
