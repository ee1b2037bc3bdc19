package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// dateLayout is the wire and query format for calendar dates.
const dateLayout = "2006-01-02"

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
// The wrapped time is always midnight UTC of the calendar date it names.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"`+dateLayout+`"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// intakeRecord maps to the intakes table. The calendar date a record
// belongs to is derived from OccurredAt in the server's time zone.
type intakeRecord struct {
	ID         int        `json:"id"          db:"id"`
	UserID     int        `json:"user_id"     db:"user_id"`
	Label      string     `json:"label"       db:"label"`
	Calories   int        `json:"calories"    db:"calories"`
	OccurredAt time.Time  `json:"occurred_at" db:"occurred_at"`
	CreatedAt  *time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"  db:"updated_at"`
}

// expenditureRecord maps to the expenditures table. UNIQUE(user_id, date)
// allows at most one record per calendar date.
type expenditureRecord struct {
	ID        int        `json:"id"         db:"id"`
	UserID    int        `json:"user_id"    db:"user_id"`
	Calories  int        `json:"calories"   db:"calories"`
	Date      DateOnly   `json:"date"       db:"date"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// weightRecord maps to the weights table. Weights never affect the adjustment.
type weightRecord struct {
	ID         int        `json:"id"          db:"id"`
	UserID     int        `json:"user_id"     db:"user_id"`
	Weight     float64    `json:"weight"      db:"weight"`
	OccurredAt time.Time  `json:"occurred_at" db:"occurred_at"`
	CreatedAt  *time.Time `json:"created_at"  db:"created_at"`
}

// userProfile maps to user_profiles. One row per user, created together with
// the account. Adjustment is only ever written by the recompute engine.
type userProfile struct {
	UserID                int        `json:"user_id"                  db:"user_id"`
	GoalWeight            int        `json:"goal_weight"              db:"goal_weight"`
	GoalDailyCalorieDelta int        `json:"goal_daily_calorie_delta" db:"goal_daily_calorie_delta"`
	Adjustment            int        `json:"adjustment"               db:"adjustment"`
	UpdatedAt             *time.Time `json:"updated_at"               db:"updated_at"`
}

/* ─── Response shapes ────────────────────────────────────────────────── */

// dailyIntakeTotal is one entry of GET /api/intakes/daily-sums.
type dailyIntakeTotal struct {
	Date          DateOnly `json:"date"`
	TotalCalories int      `json:"total_calories"`
}

// dailyBalance is the response shape for GET /api/daily-balance and each
// entry of GET /api/daily-balances. Balance = intake - expenditure.
type dailyBalance struct {
	Date             DateOnly `json:"date"`
	TotalIntake      int      `json:"total_intake"`
	TotalExpenditure int      `json:"total_expenditure"`
	Balance          int      `json:"balance"`
}

// dailySummary is the response shape for GET /api/daily-summary.
type dailySummary struct {
	Date                  DateOnly `json:"date"`
	TotalIntake           int      `json:"total_intake"`
	TotalExpenditure      int      `json:"total_expenditure"`
	GoalDailyCalorieDelta int      `json:"goal_daily_calorie_delta"`
	Adjustment            int      `json:"adjustment"`
	EffectiveGoal         int      `json:"effective_goal"`
	RemainingCalories     int      `json:"remaining_calories"`
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// createIntakeRequest is the request body for POST /api/intakes.
// OccurredAt defaults to now when omitted.
type createIntakeRequest struct {
	Label      string     `json:"label"`
	Calories   *int       `json:"calories"`
	OccurredAt *time.Time `json:"occurred_at"`
}

// updateIntakeRequest is the request body for PUT /api/intakes/:id.
// Only non-nil fields are written.
type updateIntakeRequest struct {
	Label      *string    `json:"label"`
	Calories   *int       `json:"calories"`
	OccurredAt *time.Time `json:"occurred_at"`
}

// expenditureRequest is the request body for POST and PUT /api/expenditures.
// Date is a YYYY-MM-DD string; POST defaults it to today.
type expenditureRequest struct {
	Calories *int    `json:"calories"`
	Date     *string `json:"date"`
}

// weightRequest is the request body for POST and PUT /api/weights.
type weightRequest struct {
	Weight     *float64   `json:"weight"`
	OccurredAt *time.Time `json:"occurred_at"`
}

// patchProfileRequest is the request body for PATCH /api/profile.
// Adjustment is deliberately absent: it is derived, never client-set.
type patchProfileRequest struct {
	GoalWeight            *int `json:"goal_weight"`
	GoalDailyCalorieDelta *int `json:"goal_daily_calorie_delta"`
}
