package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// calorieLedger is the read-only aggregation surface the recompute engine and
// the summary endpoints consume. Calendar dates are civil dates (midnight UTC).
type calorieLedger interface {
	// sumIntakeInRange totals intake calories with occurredAt in [start, end].
	sumIntakeInRange(ctx context.Context, start, end time.Time) (int, error)
	// sumExpenditureInDateRange totals expenditure calories with date in [from, to].
	sumExpenditureInDateRange(ctx context.Context, from, to time.Time) (int, error)
	// earliestIntakeDate returns the local calendar date of the oldest intake.
	earliestIntakeDate(ctx context.Context) (time.Time, bool, error)
	// earliestExpenditureDate returns the date of the oldest expenditure.
	earliestExpenditureDate(ctx context.Context) (time.Time, bool, error)
}

// pgLedger answers calorieLedger queries for a single user against either the
// pool or an open transaction.
type pgLedger struct {
	q      querier
	userID int
	loc    *time.Location
}

func (l pgLedger) sumIntakeInRange(ctx context.Context, start, end time.Time) (int, error) {
	var total int
	err := l.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(calories), 0) FROM intakes
		 WHERE user_id = @userID AND occurred_at >= @start AND occurred_at <= @end`,
		pgx.NamedArgs{"userID": l.userID, "start": start, "end": end}).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum intake: %w", err)
	}
	return total, nil
}

func (l pgLedger) sumExpenditureInDateRange(ctx context.Context, from, to time.Time) (int, error) {
	var total int
	err := l.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(calories), 0) FROM expenditures
		 WHERE user_id = @userID AND date >= @from AND date <= @to`,
		pgx.NamedArgs{
			"userID": l.userID,
			"from":   from.Format(dateLayout),
			"to":     to.Format(dateLayout),
		}).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum expenditure: %w", err)
	}
	return total, nil
}

func (l pgLedger) earliestIntakeDate(ctx context.Context) (time.Time, bool, error) {
	var earliest *time.Time
	err := l.q.QueryRow(ctx,
		"SELECT MIN(occurred_at) FROM intakes WHERE user_id = @userID",
		pgx.NamedArgs{"userID": l.userID}).Scan(&earliest)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("earliest intake: %w", err)
	}
	if earliest == nil {
		return time.Time{}, false, nil
	}
	return civilDate(*earliest, l.loc), true, nil
}

func (l pgLedger) earliestExpenditureDate(ctx context.Context) (time.Time, bool, error) {
	// MIN(date) is nullable; TO_CHAR keeps the scan independent of the driver's date codec.
	var earliest *string
	err := l.q.QueryRow(ctx,
		"SELECT TO_CHAR(MIN(date), 'YYYY-MM-DD') FROM expenditures WHERE user_id = @userID",
		pgx.NamedArgs{"userID": l.userID}).Scan(&earliest)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("earliest expenditure: %w", err)
	}
	if earliest == nil {
		return time.Time{}, false, nil
	}
	d, err := time.Parse(dateLayout, *earliest)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("earliest expenditure: %w", err)
	}
	return d, true, nil
}

// allExpenditures returns every expenditure record of the user, ascending by
// date. With at most one record per date this is also the per-day total.
func allExpenditures(ctx context.Context, q querier, userID int) ([]expenditureRecord, error) {
	return queryMany[expenditureRecord](q, ctx,
		"SELECT * FROM expenditures WHERE user_id = @userID ORDER BY date ASC",
		pgx.NamedArgs{"userID": userID})
}
