package tickets

import (
	"fmt"
	"time"
)

// TimestampLayout is the Issuetrak date-time format. Fractional seconds are
// accepted when parsing.
const TimestampLayout = "2006-01-02T15:04:05"

// Date is a calendar date with no time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// parseTimestamp narrows an Issuetrak timestamp to its date.
func parseTimestamp(s string) (Date, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
