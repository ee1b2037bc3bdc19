package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

/* ─── Pure builders ──────────────────────────────────────────────────── */

func buildDailyBalance(date time.Time, totalIntake, totalExpenditure int) dailyBalance {
	return dailyBalance{
		Date:             DateOnly{date},
		TotalIntake:      totalIntake,
		TotalExpenditure: totalExpenditure,
		Balance:          totalIntake - totalExpenditure,
	}
}

// buildDailySummary applies the carried-forward adjustment to the day's goal:
// effective goal = expenditure + goal delta - adjustment.
func buildDailySummary(date time.Time, totalIntake, totalExpenditure int, p userProfile) dailySummary {
	effective := totalExpenditure + p.GoalDailyCalorieDelta - p.Adjustment
	return dailySummary{
		Date:                  DateOnly{date},
		TotalIntake:           totalIntake,
		TotalExpenditure:      totalExpenditure,
		GoalDailyCalorieDelta: p.GoalDailyCalorieDelta,
		Adjustment:            p.Adjustment,
		EffectiveGoal:         effective,
		RemainingCalories:     effective - totalIntake,
	}
}

// mergeDailyBalances joins per-day intake totals with expenditure records by
// date. Every date with either kind of entry appears once; a missing side
// counts as 0. Output is ascending by date.
func mergeDailyBalances(intake []dailyIntakeTotal, expenditures []expenditureRecord) []dailyBalance {
	type totals struct{ intake, expenditure int }
	byDate := make(map[time.Time]*totals)
	get := func(d time.Time) *totals {
		if byDate[d] == nil {
			byDate[d] = &totals{}
		}
		return byDate[d]
	}
	for _, t := range intake {
		get(t.Date.Time).intake += t.TotalCalories
	}
	for _, e := range expenditures {
		get(e.Date.Time).expenditure += e.Calories
	}

	balances := make([]dailyBalance, 0, len(byDate))
	for d, v := range byDate {
		balances = append(balances, buildDailyBalance(d, v.intake, v.expenditure))
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].Date.Before(balances[j].Date.Time)
	})
	return balances
}

// dayTotals reads intake and expenditure totals for one calendar date.
// A date without an expenditure record has an expenditure of 0.
func dayTotals(ctx context.Context, l calorieLedger, date time.Time, loc *time.Location) (intake, expenditure int, err error) {
	start, end := instantRangeForDate(date, loc)
	if intake, err = l.sumIntakeInRange(ctx, start, end); err != nil {
		return 0, 0, err
	}
	if expenditure, err = l.sumExpenditureInDateRange(ctx, date, date); err != nil {
		return 0, 0, err
	}
	return intake, expenditure, nil
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// getDailyBalance returns intake, expenditure and their difference for a date.
// GET /api/daily-balance?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailyBalance(c *gin.Context) {
	date, ok := h.requestDate(c)
	if !ok {
		return
	}
	ledger := pgLedger{q: h.db, userID: c.GetInt(userIDKey), loc: h.loc}

	intake, expenditure, err := dayTotals(c, ledger, date, h.loc)
	if err != nil {
		log.Printf("[getDailyBalance] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to compute daily balance")
		return
	}

	c.JSON(http.StatusOK, buildDailyBalance(date, intake, expenditure))
}

// getDailyBalances returns a balance for every date that has an intake or an
// expenditure, ascending. GET /api/daily-balances.
func (h *Handler) getDailyBalances(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	intakes, err := queryMany[intakeRecord](h.db, c,
		"SELECT * FROM intakes WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch intakes")
		return
	}
	expenditures, err := allExpenditures(c, h.db, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch expenditures")
		return
	}

	c.JSON(http.StatusOK, mergeDailyBalances(dailyIntakeTotals(intakes, h.loc), expenditures))
}

// getDailySummary returns the day's totals together with the goal, the
// carried-forward adjustment and the calories remaining. Pure read.
// GET /api/daily-summary?date=YYYY-MM-DD (also /api/remaining-daily-calories).
func (h *Handler) getDailySummary(c *gin.Context) {
	date, ok := h.requestDate(c)
	if !ok {
		return
	}
	userID := c.GetInt(userIDKey)
	ledger := pgLedger{q: h.db, userID: userID, loc: h.loc}

	intake, expenditure, err := dayTotals(c, ledger, date, h.loc)
	if err != nil {
		log.Printf("[getDailySummary] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to compute daily summary")
		return
	}

	profile, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("[getDailySummary] user %d: %v", userID, errMissingProfile)
		}
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, buildDailySummary(date, intake, expenditure, profile))
}
