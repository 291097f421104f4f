package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// ResolveRule turns a movable-rule key into the concrete date for a year.
// Easter-anchored rules use the Gauss computus; weekday-anchored rules are
// expressed as yearly recurrence rules.
func ResolveRule(rule string, year int) (ISODate, error) {
	switch strings.TrimSpace(rule) {
	case "easter":
		return dateToISO(easterSunday(year)), nil
	case "carnival":
		return dateToISO(easterSunday(year).AddDate(0, 0, -47)), nil
	case "good_friday":
		return dateToISO(easterSunday(year).AddDate(0, 0, -2)), nil
	case "brazil_mothers_day":
		return nthWeekday(year, 5, rrule.SU, 2)
	case "brazil_fathers_day":
		return nthWeekday(year, 8, rrule.SU, 2)
	case "black_friday":
		return nthWeekday(year, 11, rrule.FR, 4)
	case "cyber_monday":
		bf, err := nthWeekdayTime(year, 11, rrule.FR, 4)
		if err != nil {
			return "", err
		}
		return dateToISO(bf.AddDate(0, 0, 3)), nil
	}
	return "", fmt.Errorf("calendar: unknown rule %q", rule)
}

func nthWeekday(year, month int, wd rrule.Weekday, nth int) (ISODate, error) {
	t, err := nthWeekdayTime(year, month, wd, nth)
	if err != nil {
		return "", err
	}
	return dateToISO(t), nil
}

func nthWeekdayTime(year, month int, wd rrule.Weekday, nth int) (time.Time, error) {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.YEARLY,
		Dtstart:   time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		Bymonth:   []int{month},
		Byweekday: []rrule.Weekday{wd.Nth(nth)},
		Count:     1,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: build recurrence: %w", err)
	}
	dates := r.All()
	if len(dates) == 0 {
		return time.Time{}, fmt.Errorf("calendar: recurrence produced no date for %d-%02d", year, month)
	}
	return dates[0], nil
}

// easterSunday implements the anonymous Gregorian computus.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
