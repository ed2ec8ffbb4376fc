package period

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidMonth = errors.New("invalid month")

const (
	monthLayout = "2006-01"
	DateLayout  = "2006-01-02"
)

// Month is a calendar month. Budgets and summaries are bucketed by it.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t, in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth accepts "2006-01" or a full "2006-01-02" date whose day is ignored.
func ParseMonth(s string) (Month, error) {
	if t, err := time.Parse(monthLayout, s); err == nil {
		return MonthOf(t), nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return MonthOf(t), nil
	}
	return Month{}, fmt.Errorf("%w: %q, expected YYYY-MM or YYYY-MM-DD", ErrInvalidMonth, s)
}

// ParseDate parses a calendar day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// FirstDay is midnight UTC of the first day of the month.
func (m Month) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay is midnight UTC of the last day of the month.
func (m Month) LastDay() time.Time {
	return m.Next().FirstDay().AddDate(0, 0, -1)
}

func (m Month) Next() Month {
	return MonthOf(m.FirstDay().AddDate(0, 1, 0))
}

func (m Month) Previous() Month {
	return MonthOf(m.FirstDay().AddDate(0, -1, 0))
}

// Contains reports whether the calendar day of t falls into the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

func (m Month) String() string {
	return m.FirstDay().Format(monthLayout)
}
