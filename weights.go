package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// maxWeight bounds accepted weights; anything above is a typo.
const maxWeight = 9999.9

func validWeight(w float64) bool {
	return w > 0 && w <= maxWeight
}

// listWeights returns weight entries for the authenticated user, oldest first.
// GET /api/weights?start=YYYY-MM-DD&end=YYYY-MM-DD. Both bounds are optional
// and inclusive; they are interpreted as local calendar dates.
func (h *Handler) listWeights(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	where := []string{"user_id = @userID"}
	args := pgx.NamedArgs{"userID": userID}

	var startDate, endDate time.Time
	if s := c.Query("start"); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
			return
		}
		startDate = d
		start, _ := instantRangeForDate(d, h.loc)
		where = append(where, "occurred_at >= @start")
		args["start"] = start
	}
	if s := c.Query("end"); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
			return
		}
		endDate = d
		_, end := instantRangeForDate(d, h.loc)
		where = append(where, "occurred_at <= @end")
		args["end"] = end
	}
	if !startDate.IsZero() && !endDate.IsZero() && startDate.After(endDate) {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	entries, err := queryMany[weightRecord](h.db, c,
		"SELECT * FROM weights WHERE "+strings.Join(where, " AND ")+" ORDER BY occurred_at ASC",
		args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weights")
		return
	}
	// Ensure empty array (not null) in JSON
	if entries == nil {
		entries = []weightRecord{}
	}

	c.JSON(http.StatusOK, entries)
}

// getWeight returns a single weight entry. GET /api/weights/:id.
func (h *Handler) getWeight(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	entry, err := queryOne[weightRecord](h.db, c,
		"SELECT * FROM weights WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": c.GetInt(userIDKey)})
	if err != nil {
		writeError(c, "fetch weight", err, weightErrors)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// createWeight logs a weight. POST /api/weights. Body: { "weight": 185.5, "occurred_at"? }.
func (h *Handler) createWeight(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	var body weightRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Weight == nil || !validWeight(*body.Weight) {
		apiError(c, http.StatusBadRequest, "weight must be between 0 and 9999.9")
		return
	}
	occurredAt := h.now()
	if body.OccurredAt != nil {
		occurredAt = *body.OccurredAt
	}

	entry, err := queryOne[weightRecord](h.db, c,
		`INSERT INTO weights (user_id, weight, occurred_at)
		 VALUES (@userID, @weight, @occurredAt)
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "weight": *body.Weight, "occurredAt": occurredAt})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create weight entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// updateWeight partially updates a weight entry. PUT /api/weights/:id.
// Uses COALESCE so omitted fields keep their current values.
func (h *Handler) updateWeight(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body weightRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Weight != nil && !validWeight(*body.Weight) {
		apiError(c, http.StatusBadRequest, "weight must be between 0 and 9999.9")
		return
	}

	entry, err := queryOne[weightRecord](h.db, c,
		`UPDATE weights SET
			weight      = COALESCE(@weight, weight),
			occurred_at = COALESCE(@occurredAt, occurred_at)
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": c.GetInt(userIDKey),
			"weight": body.Weight, "occurredAt": body.OccurredAt,
		})
	if err != nil {
		// Distinguish a missing row from a real DB failure so callers get an
		// actionable status code rather than a misleading 404.
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "weight entry not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update weight entry")
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// deleteWeight removes a weight entry by ID.
// DELETE /api/weights/:id. Returns 204 on success, 404 if not found.
func (h *Handler) deleteWeight(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.db.Exec(c,
		"DELETE FROM weights WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": c.GetInt(userIDKey)})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete weight entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "weight entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
