package main

import (
	"context"
	"testing"
)

func TestBuildDailyBalance_MissingExpenditureIsZero(t *testing.T) {
	l := &memLedger{loc: est}
	l.addIntake(localAt(2024, 3, 15, 8, 0), 600)
	l.addIntake(localAt(2024, 3, 15, 13, 0), 1200)
	l.addExpenditure(day(2024, 3, 14), 2400) // a different day

	intake, expenditure, err := dayTotals(context.Background(), l, day(2024, 3, 15), est)
	if err != nil {
		t.Fatalf("dayTotals: %v", err)
	}
	b := buildDailyBalance(day(2024, 3, 15), intake, expenditure)

	if b.TotalIntake != 1800 {
		t.Errorf("total_intake = %d, want 1800", b.TotalIntake)
	}
	if b.TotalExpenditure != 0 {
		t.Errorf("total_expenditure = %d, want 0", b.TotalExpenditure)
	}
	if b.Balance != 1800 {
		t.Errorf("balance = %d, want 1800", b.Balance)
	}
}

func TestBuildDailySummary(t *testing.T) {
	p := userProfile{GoalDailyCalorieDelta: -500, Adjustment: 200}

	s := buildDailySummary(day(2024, 3, 15), 1000, 2500, p)

	// effective = 2500 - 500 - 200
	if s.EffectiveGoal != 1800 {
		t.Errorf("effective_goal = %d, want 1800", s.EffectiveGoal)
	}
	if s.RemainingCalories != 800 {
		t.Errorf("remaining_calories = %d, want 800", s.RemainingCalories)
	}
	if s.GoalDailyCalorieDelta != -500 || s.Adjustment != 200 {
		t.Errorf("goal fields = (%d, %d), want (-500, 200)", s.GoalDailyCalorieDelta, s.Adjustment)
	}
}

func TestBuildDailySummary_NegativeAdjustmentLoosensGoal(t *testing.T) {
	p := userProfile{GoalDailyCalorieDelta: -500, Adjustment: -200}

	s := buildDailySummary(day(2024, 3, 15), 0, 2000, p)

	if s.EffectiveGoal != 1700 {
		t.Errorf("effective_goal = %d, want 1700", s.EffectiveGoal)
	}
}

func TestMergeDailyBalances(t *testing.T) {
	intake := []dailyIntakeTotal{
		{Date: DateOnly{day(2024, 3, 14)}, TotalCalories: 1900},
		{Date: DateOnly{day(2024, 3, 12)}, TotalCalories: 2100},
	}
	expenditures := []expenditureRecord{
		{Date: DateOnly{day(2024, 3, 13)}, Calories: 2300},
		{Date: DateOnly{day(2024, 3, 14)}, Calories: 2500},
	}

	got := mergeDailyBalances(intake, expenditures)

	want := []dailyBalance{
		{Date: DateOnly{day(2024, 3, 12)}, TotalIntake: 2100, TotalExpenditure: 0, Balance: 2100},
		{Date: DateOnly{day(2024, 3, 13)}, TotalIntake: 0, TotalExpenditure: 2300, Balance: -2300},
		{Date: DateOnly{day(2024, 3, 14)}, TotalIntake: 1900, TotalExpenditure: 2500, Balance: -600},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d balances, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Date.Equal(want[i].Date.Time) ||
			got[i].TotalIntake != want[i].TotalIntake ||
			got[i].TotalExpenditure != want[i].TotalExpenditure ||
			got[i].Balance != want[i].Balance {
			t.Errorf("balance %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
