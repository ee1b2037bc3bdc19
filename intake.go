package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// maxLabelLength matches the VARCHAR(100) on intakes.label.
const maxLabelLength = 100

func validLabel(label string) bool {
	label = strings.TrimSpace(label)
	return label != "" && len(label) <= maxLabelLength
}

// listIntakes returns all intakes for the authenticated user, newest first.
// GET /api/intakes.
func (h *Handler) listIntakes(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	items, err := queryMany[intakeRecord](h.db, c,
		"SELECT * FROM intakes WHERE user_id = @userID ORDER BY occurred_at DESC",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch intakes")
		return
	}
	// Ensure empty array (not null) in JSON
	if items == nil {
		items = []intakeRecord{}
	}

	c.JSON(http.StatusOK, items)
}

// getIntake returns a single intake by ID. GET /api/intakes/:id.
func (h *Handler) getIntake(c *gin.Context) {
	userID := c.GetInt(userIDKey)
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := queryOne[intakeRecord](h.db, c,
		"SELECT * FROM intakes WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		writeError(c, "fetch intake", err, intakeErrors)
		return
	}

	c.JSON(http.StatusOK, item)
}

// createIntake inserts a new intake and recomputes the adjustment for its
// local calendar date. POST /api/intakes. occurred_at defaults to now.
func (h *Handler) createIntake(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	var body createIntakeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validLabel(body.Label) {
		apiError(c, http.StatusBadRequest, "label is required and must be at most 100 characters")
		return
	}
	if body.Calories == nil {
		apiError(c, http.StatusBadRequest, "calories is required")
		return
	}
	occurredAt := h.now()
	if body.OccurredAt != nil {
		occurredAt = *body.OccurredAt
	}

	var item intakeRecord
	err := h.writeAndRecompute(c, userID, func(tx pgx.Tx) (time.Time, error) {
		var err error
		item, err = queryOne[intakeRecord](tx, c,
			`INSERT INTO intakes (user_id, label, calories, occurred_at)
			 VALUES (@userID, @label, @calories, @occurredAt)
			 RETURNING *`,
			pgx.NamedArgs{
				"userID": userID, "label": strings.TrimSpace(body.Label),
				"calories": *body.Calories, "occurredAt": occurredAt,
			})
		return intakeAffectedDate(item, h.loc), err
	})
	if err != nil {
		writeError(c, "create intake", err, intakeErrors)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// updateIntake partially updates an intake. PUT /api/intakes/:id.
// Uses COALESCE so omitted fields keep their current value. The adjustment is
// recomputed for the record's date after the update.
func (h *Handler) updateIntake(c *gin.Context) {
	userID := c.GetInt(userIDKey)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var body updateIntakeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Label != nil && !validLabel(*body.Label) {
		apiError(c, http.StatusBadRequest, "label must be non-empty and at most 100 characters")
		return
	}
	if body.Label != nil {
		trimmed := strings.TrimSpace(*body.Label)
		body.Label = &trimmed
	}

	var item intakeRecord
	err := h.writeAndRecompute(c, userID, func(tx pgx.Tx) (time.Time, error) {
		var err error
		item, err = queryOne[intakeRecord](tx, c,
			`UPDATE intakes SET
				label       = COALESCE(@label, label),
				calories    = COALESCE(@calories, calories),
				occurred_at = COALESCE(@occurredAt, occurred_at),
				updated_at  = now()
			 WHERE id = @id AND user_id = @userID
			 RETURNING *`,
			pgx.NamedArgs{
				"id": id, "userID": userID, "label": body.Label,
				"calories": body.Calories, "occurredAt": body.OccurredAt,
			})
		return intakeAffectedDate(item, h.loc), err
	})
	if err != nil {
		writeError(c, "update intake", err, intakeErrors)
		return
	}

	c.JSON(http.StatusOK, item)
}

// deleteIntake removes an intake and recomputes the adjustment for the date it
// belonged to. DELETE /api/intakes/:id. Returns 204 on success, 404 if not found.
func (h *Handler) deleteIntake(c *gin.Context) {
	userID := c.GetInt(userIDKey)
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := h.writeAndRecompute(c, userID, func(tx pgx.Tx) (time.Time, error) {
		item, err := queryOne[intakeRecord](tx, c,
			"DELETE FROM intakes WHERE id = @id AND user_id = @userID RETURNING *",
			pgx.NamedArgs{"id": id, "userID": userID})
		return intakeAffectedDate(item, h.loc), err
	})
	if err != nil {
		writeError(c, "delete intake", err, intakeErrors)
		return
	}

	c.Status(http.StatusNoContent)
}

// getIntakeDailySum returns the intake total for one date.
// GET /api/intakes/daily-sum?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getIntakeDailySum(c *gin.Context) {
	date, ok := h.requestDate(c)
	if !ok {
		return
	}
	ledger := pgLedger{q: h.db, userID: c.GetInt(userIDKey), loc: h.loc}

	start, end := instantRangeForDate(date, h.loc)
	total, err := ledger.sumIntakeInRange(c, start, end)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to sum intake")
		return
	}

	c.JSON(http.StatusOK, dailyIntakeTotal{Date: DateOnly{date}, TotalCalories: total})
}

// getIntakeDailySums returns per-day intake totals over all history, ascending.
// GET /api/intakes/daily-sums.
func (h *Handler) getIntakeDailySums(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	items, err := queryMany[intakeRecord](h.db, c,
		"SELECT * FROM intakes WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch intakes")
		return
	}

	c.JSON(http.StatusOK, dailyIntakeTotals(items, h.loc))
}

// getIntakesForDate returns the intakes logged on one date, oldest first.
// GET /api/intakes/today?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getIntakesForDate(c *gin.Context) {
	date, ok := h.requestDate(c)
	if !ok {
		return
	}
	start, end := instantRangeForDate(date, h.loc)

	items, err := queryMany[intakeRecord](h.db, c,
		`SELECT * FROM intakes
		 WHERE user_id = @userID AND occurred_at >= @start AND occurred_at <= @end
		 ORDER BY occurred_at ASC`,
		pgx.NamedArgs{"userID": c.GetInt(userIDKey), "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch intakes")
		return
	}
	if items == nil {
		items = []intakeRecord{}
	}

	c.JSON(http.StatusOK, items)
}
