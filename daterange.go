package main

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// errInvalidDateFormat is returned when a client-supplied date is not YYYY-MM-DD.
var errInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")

// civilDate returns midnight UTC of t's calendar date as observed in loc.
// All calendar dates in this package are represented this way so they
// compare and subtract without DST surprises.
func civilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dateFromRequest parses an optional YYYY-MM-DD value. When the parameter is
// absent the current date in loc is returned. A parameter that is present
// but empty or unparsable fails with errInvalidDateFormat.
func dateFromRequest(raw string, present bool, now time.Time, loc *time.Location) (time.Time, error) {
	if !present {
		return civilDate(now, loc), nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", errInvalidDateFormat, raw)
	}
	return d, nil
}

// instantRangeForDate returns local midnight of date and the last
// representable instant (23:59:59.999999) of the same day in loc.
func instantRangeForDate(date time.Time, loc *time.Location) (start, end time.Time) {
	y, m, d := date.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	end = time.Date(y, m, d, 23, 59, 59, 999999000, loc)
	return start, end
}

// daysBetween returns the number of whole days from a to b (b - a).
// Both arguments must be civil dates.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// dailyIntakeTotals groups intake records by their local calendar day and
// returns the per-day calorie totals in ascending date order.
func dailyIntakeTotals(records []intakeRecord, loc *time.Location) []dailyIntakeTotal {
	byDate := make(map[time.Time]int)
	for _, r := range records {
		byDate[civilDate(r.OccurredAt, loc)] += r.Calories
	}

	totals := make([]dailyIntakeTotal, 0, len(byDate))
	for d, cal := range byDate {
		totals = append(totals, dailyIntakeTotal{Date: DateOnly{d}, TotalCalories: cal})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date.Before(totals[j].Date.Time)
	})
	return totals
}
