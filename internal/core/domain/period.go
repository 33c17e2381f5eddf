package domain

import "time"

// Period is the query window every report is computed over. Scope narrows the
// query to one ownership unit (company/mandate) in the document backend; an
// empty scope means all records.
type Period struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Scope string    `json:"scope"`
}

// Contains reports whether t falls inside the period (inclusive bounds).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && !t.After(p.To)
}

// YearPeriod returns the period covering the whole calendar year in UTC.
func YearPeriod(year int, scope string) Period {
	return Period{
		From:  time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:    time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
		Scope: scope,
	}
}

// QuarterPeriod returns the period covering one calendar quarter in UTC.
func QuarterPeriod(year, quarter int, scope string) Period {
	startMonth := time.Month((quarter-1)*3 + 1)
	from := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	return Period{
		From:  from,
		To:    from.AddDate(0, 3, 0).Add(-time.Second),
		Scope: scope,
	}
}
