package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies (db pool, clock, time zone) for all route handlers.
type Handler struct {
	db  *pgxpool.Pool
	loc *time.Location   // the server's "local" zone for calendar-date math
	now func() time.Time // overridable for tests
}

func newHandler(db *pgxpool.Pool, loc *time.Location) *Handler {
	return &Handler{db: db, loc: loc, now: time.Now}
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so the
// same helpers serve plain reads and the locked write path.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
// pgx.ErrNoRows is returned unlogged since callers map it to a 404.
func queryOne[T any](q querier, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](q querier, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// isUniqueViolation reports whether err is a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// recordErrors holds the client-facing messages for one record type.
type recordErrors struct {
	notFound string // target row does not exist
	conflict string // unique constraint violated
}

var (
	intakeErrors      = recordErrors{"intake not found", "intake already exists"}
	expenditureErrors = recordErrors{"expenditure not found", "an expenditure is already recorded for this date"}
	weightErrors      = recordErrors{"weight entry not found", "weight entry already exists"}
	profileErrors     = recordErrors{"profile not found", "profile already exists"}
)

// writeError maps errors from the record read/write paths onto HTTP statuses.
func writeError(c *gin.Context, op string, err error, msgs recordErrors) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		apiError(c, http.StatusNotFound, msgs.notFound)
	case isUniqueViolation(err):
		apiError(c, http.StatusConflict, msgs.conflict)
	default:
		log.Printf("[%s] %v", op, err)
		apiError(c, http.StatusInternalServerError, "failed to "+op)
	}
}

// pathID parses the :id route parameter, writing a 400 and returning
// ok=false when it is not a positive integer.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		apiError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// requestDate resolves the optional ?date= parameter, writing a 400 and
// returning ok=false when it is malformed.
func (h *Handler) requestDate(c *gin.Context) (time.Time, bool) {
	raw, present := c.GetQuery("date")
	date, err := dateFromRequest(raw, present, h.now(), h.loc)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return time.Time{}, false
	}
	return date, true
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// Neon closes idle connections after ~5 minutes.
func getDBPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from Neon's server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())

	api.GET("/intakes", h.listIntakes)
	api.POST("/intakes", h.createIntake)
	api.GET("/intakes/daily-sum", h.getIntakeDailySum)
	api.GET("/intakes/daily-sums", h.getIntakeDailySums)
	api.GET("/intakes/today", h.getIntakesForDate)
	api.GET("/intakes/:id", h.getIntake)
	api.PUT("/intakes/:id", h.updateIntake)
	api.DELETE("/intakes/:id", h.deleteIntake)

	api.GET("/expenditures", h.listExpenditures)
	api.POST("/expenditures", h.createExpenditure)
	api.GET("/expenditures/:id", h.getExpenditure)
	api.PUT("/expenditures/:id", h.updateExpenditure)
	api.DELETE("/expenditures/:id", h.deleteExpenditure)

	api.GET("/weights", h.listWeights)
	api.POST("/weights", h.createWeight)
	api.GET("/weights/:id", h.getWeight)
	api.PUT("/weights/:id", h.updateWeight)
	api.DELETE("/weights/:id", h.deleteWeight)

	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)

	api.GET("/daily-balance", h.getDailyBalance)
	api.GET("/daily-balances", h.getDailyBalances)
	api.GET("/daily-summary", h.getDailySummary)
	api.GET("/remaining-daily-calories", h.getDailySummary)
}
