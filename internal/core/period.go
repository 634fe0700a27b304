package core

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"
)

// Period is a calendar month, the unit of tax assessment. It is an immutable
// value: arithmetic returns a new Period. Ordering is by (Year, Month).
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod builds a Period, rejecting months outside 1..12.
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// ParsePeriod parses the canonical "YYYY-MM" form.
func ParsePeriod(s string) (Period, error) {
	yearStr, monthStr, ok := strings.Cut(s, "-")
	if !ok {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return NewPeriod(year, month)
}

// Compare orders periods chronologically: -1 if p is before x, 0 if equal,
// +1 if p is after x.
func (p Period) Compare(x Period) int {
	if p.Year != x.Year {
		if p.Year < x.Year {
			return -1
		}
		return 1
	}
	if p.Month != x.Month {
		if p.Month < x.Month {
			return -1
		}
		return 1
	}
	return 0
}

// AddMonths returns the period n months after p; n may be negative.
// Wrapping uses floor-division semantics, so month 0 rolls back to December
// of the previous year.
func (p Period) AddMonths(n int) Period {
	months := int(p.Month) + n
	year := p.Year + floorDiv(months, 12)
	month := months - floorDiv(months, 12)*12
	if month == 0 {
		year--
		month = 12
	}
	return Period{Year: year, Month: time.Month(month)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// LowerBound is the first instant of the month, inclusive.
func (p Period) LowerBound() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// UpperBound is the first instant of the following month, exclusive.
// Timestamp filtering must use `>= LowerBound AND < UpperBound`.
func (p Period) UpperBound() time.Time {
	return p.AddMonths(1).LowerBound()
}

// String formats the period in its canonical "YYYY-MM" form.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// PeriodRange yields consecutive periods from start to end inclusive.
// The sequence is restartable: ranging over it twice yields the same
// periods. A reversed range is rejected with ErrInvalidRange.
func PeriodRange(start, end Period) (iter.Seq[Period], error) {
	if start.Compare(end) > 0 {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}
	return func(yield func(Period) bool) {
		for p := start; p.Compare(end) <= 0; p = p.AddMonths(1) {
			if !yield(p) {
				return
			}
		}
	}, nil
}
