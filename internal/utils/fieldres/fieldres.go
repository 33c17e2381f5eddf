// Package fieldres resolves fields out of schema-less backend records.
// Record producers are inconsistent about field names (an invoice date may
// arrive as date_issued or date_created), so each record type declares one
// prioritized candidate list per logical field instead of scattering inline
// fallbacks. Missing or unparseable values resolve to the zero value, never
// an error: partially filled records still produce a usable document.
package fieldres

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Resolver extracts one logical field from a raw record by trying its
// candidate keys in priority order.
type Resolver struct {
	keys []string
}

// New builds a resolver for the given candidate keys, highest priority first.
func New(keys ...string) Resolver {
	return Resolver{keys: keys}
}

func (r Resolver) lookup(rec map[string]any) (any, bool) {
	for _, key := range r.keys {
		if v, ok := rec[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String resolves the field as a string, "" when absent.
func (r Resolver) String(rec map[string]any) string {
	v, ok := r.lookup(rec)
	if !ok {
		return ""
	}
	return cast.ToString(v)
}

// Decimal resolves the field as a decimal. Strings are parsed exactly;
// numeric types go through float64. Absent or garbage values resolve to zero.
func (r Resolver) Decimal(rec map[string]any) decimal.Decimal {
	v, ok := r.lookup(rec)
	if !ok {
		return decimal.Zero
	}
	if s, isStr := v.(string); isStr {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time resolves the field as a timestamp. time.Time values pass through;
// strings are tried against the known layouts. Absent or unparseable values
// resolve to the zero time.
func (r Resolver) Time(rec map[string]any) time.Time {
	v, ok := r.lookup(rec)
	if !ok {
		return time.Time{}
	}
	if t, isTime := v.(time.Time); isTime {
		return t
	}
	s := cast.ToString(v)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
