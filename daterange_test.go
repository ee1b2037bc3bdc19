package main

import (
	"errors"
	"testing"
	"time"
)

func TestDateFromRequest(t *testing.T) {
	// 03:00 UTC on Mar 16 is still Mar 15 in est.
	now := time.Date(2024, 3, 16, 3, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		raw     string
		present bool
		want    time.Time
		wantErr bool
	}{
		{"explicit date", "2024-03-15", true, day(2024, 3, 15), false},
		{"absent defaults to local today", "", false, day(2024, 3, 15), false},
		{"garbage", "not-a-date", true, time.Time{}, true},
		{"present but empty", "", true, time.Time{}, true},
		{"wrong layout", "03/15/2024", true, time.Time{}, true},
		{"impossible day", "2024-02-30", true, time.Time{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := dateFromRequest(tc.raw, tc.present, now, est)
			if tc.wantErr {
				if !errors.Is(err, errInvalidDateFormat) {
					t.Errorf("err = %v, want errInvalidDateFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("got %s, want %s", got.Format(dateLayout), tc.want.Format(dateLayout))
			}
		})
	}
}

func TestInstantRangeForDate(t *testing.T) {
	start, end := instantRangeForDate(day(2024, 3, 15), est)

	if want := time.Date(2024, 3, 15, 0, 0, 0, 0, est); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if want := time.Date(2024, 3, 15, 23, 59, 59, 999999000, est); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
	// The next microsecond is the start of the following day.
	nextStart, _ := instantRangeForDate(day(2024, 3, 16), est)
	if !end.Add(time.Microsecond).Equal(nextStart) {
		t.Errorf("end + 1µs = %v, want %v", end.Add(time.Microsecond), nextStart)
	}
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		a, b time.Time
		want int
	}{
		{day(2024, 3, 14), day(2024, 3, 14), 0},
		{day(2024, 3, 12), day(2024, 3, 14), 2},
		{day(2024, 2, 28), day(2024, 3, 1), 2}, // leap year
		{day(2023, 12, 31), day(2024, 1, 1), 1},
	}
	for _, tc := range cases {
		if got := daysBetween(tc.a, tc.b); got != tc.want {
			t.Errorf("daysBetween(%s, %s) = %d, want %d",
				tc.a.Format(dateLayout), tc.b.Format(dateLayout), got, tc.want)
		}
	}
}

func TestDailyIntakeTotals(t *testing.T) {
	records := []intakeRecord{
		{Calories: 400, OccurredAt: localAt(2024, 3, 14, 12, 0)},
		{Calories: 300, OccurredAt: localAt(2024, 3, 12, 8, 0)},
		{Calories: 100, OccurredAt: localAt(2024, 3, 14, 23, 30)}, // Mar 15 in UTC
		{Calories: 250, OccurredAt: localAt(2024, 3, 12, 19, 0)},
	}

	got := dailyIntakeTotals(records, est)

	want := []dailyIntakeTotal{
		{Date: DateOnly{day(2024, 3, 12)}, TotalCalories: 550},
		{Date: DateOnly{day(2024, 3, 14)}, TotalCalories: 500},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d days, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Date.Equal(want[i].Date.Time) || got[i].TotalCalories != want[i].TotalCalories {
			t.Errorf("day %d = {%s %d}, want {%s %d}", i,
				got[i].Date.Format(dateLayout), got[i].TotalCalories,
				want[i].Date.Format(dateLayout), want[i].TotalCalories)
		}
	}
}

func TestDailyIntakeTotals_Empty(t *testing.T) {
	if got := dailyIntakeTotals(nil, est); len(got) != 0 {
		t.Errorf("expected no days, got %+v", got)
	}
}
