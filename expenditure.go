package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// listExpenditures returns all expenditures for the authenticated user, ascending by date.
// GET /api/expenditures.
func (h *Handler) listExpenditures(c *gin.Context) {
	records, err := allExpenditures(c, h.db, c.GetInt(userIDKey))
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch expenditures")
		return
	}
	if records == nil {
		records = []expenditureRecord{}
	}

	c.JSON(http.StatusOK, records)
}

// getExpenditure returns a single expenditure by ID. GET /api/expenditures/:id.
func (h *Handler) getExpenditure(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	record, err := queryOne[expenditureRecord](h.db, c,
		"SELECT * FROM expenditures WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": c.GetInt(userIDKey)})
	if err != nil {
		writeError(c, "fetch expenditure", err, expenditureErrors)
		return
	}

	c.JSON(http.StatusOK, record)
}

// createExpenditure records calories burned for a date and recomputes the
// adjustment for that date. POST /api/expenditures. Body: { "calories", "date"? }.
// A second record for the same date is rejected with 409.
func (h *Handler) createExpenditure(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	var body expenditureRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Calories == nil {
		apiError(c, http.StatusBadRequest, "calories is required")
		return
	}
	date := civilDate(h.now(), h.loc)
	if body.Date != nil {
		d, err := time.Parse(dateLayout, *body.Date)
		if err != nil {
			apiError(c, http.StatusBadRequest, errInvalidDateFormat.Error())
			return
		}
		date = d
	}

	var record expenditureRecord
	err := h.writeAndRecompute(c, userID, func(tx pgx.Tx) (time.Time, error) {
		var err error
		record, err = queryOne[expenditureRecord](tx, c,
			`INSERT INTO expenditures (user_id, calories, date)
			 VALUES (@userID, @calories, @date)
			 RETURNING *`,
			pgx.NamedArgs{"userID": userID, "calories": *body.Calories, "date": date.Format(dateLayout)})
		return expenditureAffectedDate(record), err
	})
	if err != nil {
		writeError(c, "create expenditure", err, expenditureErrors)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// updateExpenditure partially updates an expenditure. PUT /api/expenditures/:id.
// Moving a record onto a date that already has one is rejected with 409.
func (h *Handler) updateExpenditure(c *gin.Context) {
	userID := c.GetInt(userIDKey)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var body expenditureRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date != nil {
		if _, err := time.Parse(dateLayout, *body.Date); err != nil {
			apiError(c, http.StatusBadRequest, errInvalidDateFormat.Error())
			return
		}
	}

	var record expenditureRecord
	err := h.writeAndRecompute(c, userID, func(tx pgx.Tx) (time.Time, error) {
		var err error
		record, err = queryOne[expenditureRecord](tx, c,
			`UPDATE expenditures SET
				calories   = COALESCE(@calories, calories),
				date       = COALESCE(@date, date),
				updated_at = now()
			 WHERE id = @id AND user_id = @userID
			 RETURNING *`,
			pgx.NamedArgs{"id": id, "userID": userID, "calories": body.Calories, "date": body.Date})
		return expenditureAffectedDate(record), err
	})
	if err != nil {
		writeError(c, "update expenditure", err, expenditureErrors)
		return
	}

	c.JSON(http.StatusOK, record)
}

// deleteExpenditure removes an expenditure and recomputes the adjustment for
// its date. DELETE /api/expenditures/:id. Returns 204 on success, 404 if not found.
func (h *Handler) deleteExpenditure(c *gin.Context) {
	userID := c.GetInt(userIDKey)
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := h.writeAndRecompute(c, userID, func(tx pgx.Tx) (time.Time, error) {
		record, err := queryOne[expenditureRecord](tx, c,
			"DELETE FROM expenditures WHERE id = @id AND user_id = @userID RETURNING *",
			pgx.NamedArgs{"id": id, "userID": userID})
		return expenditureAffectedDate(record), err
	})
	if err != nil {
		writeError(c, "delete expenditure", err, expenditureErrors)
		return
	}

	c.Status(http.StatusNoContent)
}
