// Package dates normalizes trade dates. All dates in the pipeline are
// midnight UTC; anything carrying a clock component would break map keys
// and (code, trade_date) comparisons.
package dates

import "time"

// Layout is the wire and CLI format for trade dates.
const Layout = "2006-01-02"

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current date at midnight UTC.
func Today() time.Time {
	return Day(time.Now().UTC())
}

// Parse parses a YYYY-MM-DD string into a midnight-UTC date.
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

// Format renders a date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
