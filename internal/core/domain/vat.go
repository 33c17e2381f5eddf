package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VATBucketKey identifies one of the three fixed VAT rate buckets of this
// jurisdiction.
type VATBucketKey string

const (
	VATStandard VATBucketKey = "standard"
	VATReduced  VATBucketKey = "reduced"
	VATLodging  VATBucketKey = "lodging"
)

// VATBucket pairs a bucket key with its nominal rate expressed as a
// fraction (0.081 for 8.1%). The rate table is injected configuration so
// historical periods can be computed against the rates in force at the time.
type VATBucket struct {
	Key         VATBucketKey    `json:"key"`
	NominalRate decimal.Decimal `json:"nominalRate"`
	Label       string          `json:"label"`
}

// VATBreakdownRow accumulates one bucket's figures over a period.
// TurnoverNet is the tax-excluded turnover booked against the bucket,
// Collected the VAT owed on customer invoices, Deductible the input VAT on
// supplier invoices.
type VATBreakdownRow struct {
	Bucket      VATBucket       `json:"bucket"`
	TurnoverNet decimal.Decimal `json:"turnoverNet"`
	Collected   decimal.Decimal `json:"collected"`
	Deductible  decimal.Decimal `json:"deductible"`
}

// Net is the bucket's contribution to the declaration: collected minus
// deductible.
func (r VATBreakdownRow) Net() decimal.Decimal {
	return r.Collected.Sub(r.Deductible)
}

// VATReport holds the per-bucket breakdown plus the statutory form cells.
// Exactly one of NetPayable/NetCredit is non-zero, or both are zero.
type VATReport struct {
	Period          Period            `json:"period"`
	Rows            []VATBreakdownRow `json:"rows"`
	TotalTurnover   decimal.Decimal   `json:"totalTurnover"`
	TotalCollected  decimal.Decimal   `json:"totalCollected"`
	TotalDeductible decimal.Decimal   `json:"totalDeductible"`
	NetPayable      decimal.Decimal   `json:"netPayable"`
	NetCredit       decimal.Decimal   `json:"netCredit"`
}

// FilingStatus is the deadline state of one quarterly declaration.
type FilingStatus string

const (
	FilingFiled     FilingStatus = "filed"
	FilingOverdue   FilingStatus = "overdue"
	FilingDueSoon   FilingStatus = "due_soon"
	FilingNotYetDue FilingStatus = "not_yet_due"
)

// VATFiling is the persisted filed flag for one quarter and scope. It is the
// only mutable fact in this subsystem; writes are idempotent upserts keyed by
// (year, quarter, scope) with last-write-wins semantics.
type VATFiling struct {
	Year    int       `json:"year"`
	Quarter int       `json:"quarter"`
	Scope   string    `json:"scope"`
	Filed   bool      `json:"filed"`
	FiledAt time.Time `json:"filedAt"`
}

// FilingDeadline is one quarter's statutory deadline with its derived status.
type FilingDeadline struct {
	Year     int          `json:"year"`
	Quarter  int          `json:"quarter"`
	Deadline time.Time    `json:"deadline"`
	Filed    bool         `json:"filed"`
	Status   FilingStatus `json:"status"`
}
