package calendar

import (
	"fmt"
	"time"
)

// YearMonth is a "YYYY-MM" month reference.
type YearMonth string

// ISODate is a "YYYY-MM-DD" calendar date.
type ISODate string

// ParseYearMonth validates a YearMonth and returns its numeric parts.
// A malformed month is a precondition failure for the whole flow.
func ParseYearMonth(ym YearMonth) (year int, month int, err error) {
	if _, perr := fmt.Sscanf(string(ym), "%4d-%2d", &year, &month); perr != nil {
		return 0, 0, fmt.Errorf("calendar: malformed month %q: %w", ym, perr)
	}
	if len(ym) != 7 || month < 1 || month > 12 || year < 1 {
		return 0, 0, fmt.Errorf("calendar: malformed month %q", ym)
	}
	return year, month, nil
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ToISODate formats a concrete date.
func ToISODate(year, month, day int) ISODate {
	return ISODate(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
}

// ListDatesInMonth enumerates every date of the month in order.
func ListDatesInMonth(ym YearMonth) ([]ISODate, error) {
	year, month, err := ParseYearMonth(ym)
	if err != nil {
		return nil, err
	}
	dim := DaysInMonth(year, month)
	out := make([]ISODate, 0, dim)
	for day := 1; day <= dim; day++ {
		out = append(out, ToISODate(year, month, day))
	}
	return out, nil
}

// InMonth reports whether a date falls inside the month.
func InMonth(date ISODate, ym YearMonth) bool {
	return len(date) >= 7 && ISODate(ym) == date[:7]
}

func dateToISO(t time.Time) ISODate {
	return ToISODate(t.Year(), int(t.Month()), t.Day())
}
