package calendar

import (
	"fmt"
	"strings"
)

// ExpandEventsForMonth resolves each candidate event to the concrete dates
// it hits inside the target month. Input order is preserved; events that do
// not touch the month are dropped. No sorting happens here.
func ExpandEventsForMonth(events []Event, ym YearMonth) ([]EventHit, error) {
	year, month, err := ParseYearMonth(ym)
	if err != nil {
		return nil, err
	}

	var hits []EventHit
	for _, ev := range events {
		switch ev.DateType {
		case DateFixed:
			if ev.Date == "" {
				continue
			}
			resolved := resolveFixedDate(ev, year, month)
			if resolved != "" && InMonth(resolved, ym) {
				hits = append(hits, EventHit{Event: ev, HitDates: []ISODate{resolved}})
			}

		case DateMovable:
			if ev.Rule == "" {
				continue
			}
			resolved, rerr := ResolveRule(ev.Rule, year)
			if rerr != nil {
				// Unknown rules come from provider data, not the caller;
				// skip the event instead of failing the month.
				continue
			}
			if InMonth(resolved, ym) {
				hits = append(hits, EventHit{Event: ev, HitDates: []ISODate{resolved}})
			}

		case DatePeriod:
			if ev.StartDate == "" || ev.EndDate == "" {
				continue
			}
			start := replaceYearPlaceholder(ev.StartDate, year)
			end := replaceYearPlaceholder(ev.EndDate, year)
			monthDates, derr := ListDatesInMonth(ym)
			if derr != nil {
				return nil, derr
			}
			var inside []ISODate
			for _, date := range monthDates {
				if date >= start && date <= end {
					inside = append(inside, date)
				}
			}
			if len(inside) > 0 {
				hits = append(hits, EventHit{Event: ev, HitDates: inside})
			}
		}
	}
	return hits, nil
}

func resolveFixedDate(ev Event, year, month int) ISODate {
	if strings.EqualFold(strings.TrimSpace(ev.Recurrence), "monthly") {
		var y, m, day int
		if _, err := fmt.Sscanf(string(ev.Date), "%d-%d-%d", &y, &m, &day); err != nil {
			return ""
		}
		if day < 1 || day > DaysInMonth(year, month) {
			return ""
		}
		return ToISODate(year, month, day)
	}

	if strings.Contains(string(ev.Date), "YYYY") {
		return replaceYearPlaceholder(ev.Date, year)
	}

	var y, m, day int
	if _, err := fmt.Sscanf(string(ev.Date), "%d-%d-%d", &y, &m, &day); err == nil && m >= 1 && m <= 12 {
		return ToISODate(year, m, day)
	}
	return replaceYearPlaceholder(ev.Date, year)
}

func replaceYearPlaceholder(date ISODate, year int) ISODate {
	return ISODate(strings.Replace(string(date), "YYYY", fmt.Sprintf("%04d", year), 1))
}

// MatchesLocality decides whether an event applies to the client's place.
// Unscoped (global) events match everywhere; narrower scopes require exact,
// case-normalized equality up to their level.
func MatchesLocality(ev Event, client ClientProfile) bool {
	switch ev.Scope {
	case ScopeGlobal, "":
		return true
	case ScopeBR:
		return client.Country == "BR"
	case ScopeUF:
		return client.Country == "BR" &&
			client.UF != "" &&
			strings.EqualFold(ev.UF, client.UF)
	case ScopeCity:
		if client.Country != "BR" || client.City == "" {
			return false
		}
		if !strings.EqualFold(ev.City, client.City) {
			return false
		}
		if ev.UF != "" && client.UF != "" && !strings.EqualFold(ev.UF, client.UF) {
			return false
		}
		return true
	}
	return false
}
