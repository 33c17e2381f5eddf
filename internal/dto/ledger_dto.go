package dto

import (
	"github.com/abacusworks/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRowResponse represents one ledger line with its running balance
type LedgerRowResponse struct {
	Sequence       int64           `json:"sequence"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Side           string          `json:"side"`
	Counterpart    string          `json:"counterpart"`
	OccurredAt     string          `json:"occurredAt"`
	Provenance     string          `json:"provenance"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// LedgerResponse represents one account's chronological ledger response
type LedgerResponse struct {
	From           string              `json:"from"`
	To             string              `json:"to"`
	AccountCode    string              `json:"accountCode"`
	AccountLabel   string              `json:"accountLabel"`
	DebitNormal    bool                `json:"debitNormal"`
	Rows           []LedgerRowResponse `json:"rows"`
	ClosingBalance decimal.Decimal     `json:"closingBalance"`
}

// ToLedgerResponse converts a domain ledger report to a DTO response
func ToLedgerResponse(report *domain.LedgerReport) LedgerResponse {
	response := LedgerResponse{
		From:           report.Period.From.Format("2006-01-02"),
		To:             report.Period.To.Format("2006-01-02"),
		AccountCode:    report.AccountCode,
		AccountLabel:   report.AccountLabel,
		DebitNormal:    report.DebitNormal,
		Rows:           make([]LedgerRowResponse, len(report.Rows)),
		ClosingBalance: report.ClosingBalance,
	}
	for i, row := range report.Rows {
		response.Rows[i] = LedgerRowResponse{
			Sequence:       row.Sequence,
			Description:    row.Description,
			Amount:         row.Amount,
			Side:           string(row.Side),
			Counterpart:    row.CounterpartCode,
			OccurredAt:     row.OccurredAt.Format("2006-01-02"),
			Provenance:     string(row.Provenance),
			RunningBalance: row.RunningBalance,
		}
	}
	return response
}
