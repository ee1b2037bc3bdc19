package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getProfile returns the goal configuration and current adjustment for the
// authenticated user. GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	p, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		writeError(c, "fetch profile", err, profileErrors)
		return
	}

	c.JSON(http.StatusOK, p)
}

// patchProfile updates only the provided goal fields. PATCH /api/profile.
// Changing the goal delta recomputes the adjustment as of today, since the
// adjustment is derived from it.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.GoalWeight != nil && *body.GoalWeight != -1 && *body.GoalWeight <= 0 {
		apiError(c, http.StatusBadRequest, "goal_weight must be -1 (unset) or a positive value")
		return
	}

	// Build SET clause dynamically; only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}
	if body.GoalWeight != nil {
		setClauses = append(setClauses, "goal_weight = @goalWeight")
		args["goalWeight"] = *body.GoalWeight
	}
	if body.GoalDailyCalorieDelta != nil {
		setClauses = append(setClauses, "goal_daily_calorie_delta = @goalDelta")
		args["goalDelta"] = *body.GoalDailyCalorieDelta
	}
	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}
	query := "UPDATE user_profiles SET " + strings.Join(setClauses, ", ") +
		", updated_at = now() WHERE user_id = @userID RETURNING *"

	var p userProfile
	err := pgx.BeginFunc(c, h.db, func(tx pgx.Tx) error {
		var err error
		p, err = applyGoalPatch(c, pgProfileTx{tx: tx, userID: userID, loc: h.loc}, h.loc,
			civilDate(h.now(), h.loc), body.GoalDailyCalorieDelta != nil,
			func() (userProfile, error) { return queryOne[userProfile](tx, c, query, args) })
		return err
	})
	if err != nil {
		log.Printf("[patchProfile] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, p)
}
