package dto

import (
	"github.com/abacusworks/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VATBreakdownRowResponse represents one bucket of the VAT breakdown
type VATBreakdownRowResponse struct {
	Bucket      string          `json:"bucket"`
	Label       string          `json:"label"`
	NominalRate decimal.Decimal `json:"nominalRate"`
	TurnoverNet decimal.Decimal `json:"turnoverNet"`
	Collected   decimal.Decimal `json:"collected"`
	Deductible  decimal.Decimal `json:"deductible"`
	Net         decimal.Decimal `json:"net"`
}

// VATReportResponse represents the VAT declaration response
type VATReportResponse struct {
	From  string                    `json:"from"`
	To    string                    `json:"to"`
	Scope string                    `json:"scope,omitempty"`
	Rows  []VATBreakdownRowResponse `json:"rows"`
	Cells struct {
		TotalTurnover   decimal.Decimal `json:"totalTurnover"`
		TotalCollected  decimal.Decimal `json:"totalCollected"`
		TotalDeductible decimal.Decimal `json:"totalDeductible"`
		NetPayable      decimal.Decimal `json:"netPayable"`
		NetCredit       decimal.Decimal `json:"netCredit"`
	} `json:"cells"`
}

// ToVATReportResponse converts a domain VAT report to a DTO response
func ToVATReportResponse(report *domain.VATReport) VATReportResponse {
	response := VATReportResponse{
		From:  report.Period.From.Format("2006-01-02"),
		To:    report.Period.To.Format("2006-01-02"),
		Scope: report.Period.Scope,
		Rows:  make([]VATBreakdownRowResponse, len(report.Rows)),
	}
	for i, row := range report.Rows {
		response.Rows[i] = VATBreakdownRowResponse{
			Bucket:      string(row.Bucket.Key),
			Label:       row.Bucket.Label,
			NominalRate: row.Bucket.NominalRate,
			TurnoverNet: row.TurnoverNet,
			Collected:   row.Collected,
			Deductible:  row.Deductible,
			Net:         row.Net(),
		}
	}
	response.Cells.TotalTurnover = report.TotalTurnover
	response.Cells.TotalCollected = report.TotalCollected
	response.Cells.TotalDeductible = report.TotalDeductible
	response.Cells.NetPayable = report.NetPayable
	response.Cells.NetCredit = report.NetCredit
	return response
}

// FilingDeadlineResponse represents one quarterly deadline row
type FilingDeadlineResponse struct {
	Year     int    `json:"year"`
	Quarter  int    `json:"quarter"`
	Deadline string `json:"deadline"`
	Filed    bool   `json:"filed"`
	Status   string `json:"status"`
}

// ToFilingDeadlineResponses converts domain deadline rows to DTO responses
func ToFilingDeadlineResponses(deadlines []domain.FilingDeadline) []FilingDeadlineResponse {
	responses := make([]FilingDeadlineResponse, len(deadlines))
	for i, d := range deadlines {
		responses[i] = FilingDeadlineResponse{
			Year:     d.Year,
			Quarter:  d.Quarter,
			Deadline: d.Deadline.Format("2006-01-02"),
			Filed:    d.Filed,
			Status:   string(d.Status),
		}
	}
	return responses
}

// MarkFiledRequest is the payload for marking a quarter's declaration as filed
type MarkFiledRequest struct {
	Year    int    `json:"year" binding:"required,gte=2000,lte=2100"`
	Quarter int    `json:"quarter" binding:"required,gte=1,lte=4"`
	Scope   string `json:"scope"`
}
