package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// MonthFormat is the ISO representation of a calendar month.
const MonthFormat = "2006-01"

// Month is a calendar month, the unit of the sales reports.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month (month 13 of 2024 is January 2025).
func NewMonth(year int, month time.Month) Month {
	d := New(year, month, 1)
	return Month{y: d.y, m: d.m}
}

// MonthOf returns the month containing d.
func MonthOf(d Date) Month { return Month{y: d.y, m: d.m} }

// ThisMonth returns the current month.
func ThisMonth() Month { return MonthOf(Today()) }

// ParseMonth parses a "YYYY-MM" month. Single-digit months are accepted.
func ParseMonth(str string) (Month, error) {
	on, err := time.Parse("2006-1", str)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format %q: %w", str, MonthFormat, err)
	}
	return NewMonth(on.Year(), on.Month()), nil
}

// Year of the month.
func (m Month) Year() int { return m.y }

// Month of the year.
func (m Month) Month() time.Month { return m.m }

// First returns the first day of the month.
func (m Month) First() Date { return New(m.y, m.m, 1) }

// Last returns the last day of the month.
func (m Month) Last() Date { return New(m.y, m.m+1, 0) }

// Contains reports whether d falls in the month.
func (m Month) Contains(d Date) bool { return d.y == m.y && d.m == m.m }

// Prev returns the previous month.
func (m Month) Prev() Month { return NewMonth(m.y, m.m-1) }

// Next returns the following month.
func (m Month) Next() Month { return NewMonth(m.y, m.m+1) }

// String returns the month as "YYYY-MM".
func (m Month) String() string { return m.First().time().Format(MonthFormat) }

// MarshalJSON writes the month as "YYYY-MM".
func (m Month) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }
