package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// errMissingProfile means the user has no user_profiles row. Profiles are
// provisioned with the account, so this is a setup error, never user input.
var errMissingProfile = errors.New("user profile missing")

// adjustmentInputs are the aggregates the recurrence is computed from.
type adjustmentInputs struct {
	GoalDelta        int // signed goal per day: negative = deficit, positive = surplus
	NumDays          int // days spanned by the history window
	TotalIntake      int
	TotalExpenditure int
}

// computeAdjustment returns how far the cumulative goal over the window was
// missed. Positive means a shortfall to claw back from future goals; zero or
// negative means the goal was met or exceeded. The value is not clamped.
func computeAdjustment(in adjustmentInputs) int {
	netDelta := in.TotalExpenditure - in.TotalIntake
	goalTotal := in.GoalDelta * in.NumDays
	return abs(goalTotal) - netDelta
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// historyWindow returns the inclusive civil-date window [W, date-1], where W
// is the earliest intake or expenditure date. ok is false when there is no
// history strictly before date.
func historyWindow(ctx context.Context, l calorieLedger, date time.Time) (from, to time.Time, ok bool, err error) {
	intakeStart, hasIntake, err := l.earliestIntakeDate(ctx)
	if err != nil {
		return from, to, false, err
	}
	expStart, hasExp, err := l.earliestExpenditureDate(ctx)
	if err != nil {
		return from, to, false, err
	}

	switch {
	case hasIntake && hasExp:
		from = intakeStart
		if expStart.Before(from) {
			from = expStart
		}
	case hasIntake:
		from = intakeStart
	case hasExp:
		from = expStart
	default:
		return from, to, false, nil
	}

	to = date.AddDate(0, 0, -1)
	if from.After(to) {
		return from, to, false, nil
	}
	return from, to, true, nil
}

// recomputeAdjustment recalculates p.Adjustment for the affected date from the
// history before it. Only p is modified; persisting it is the caller's job.
func recomputeAdjustment(ctx context.Context, l calorieLedger, p *userProfile, date time.Time, loc *time.Location) error {
	if p == nil {
		return errMissingProfile
	}
	in := adjustmentInputs{GoalDelta: p.GoalDailyCalorieDelta}

	from, to, ok, err := historyWindow(ctx, l, date)
	if err != nil {
		return fmt.Errorf("history window: %w", err)
	}
	if ok {
		start, _ := instantRangeForDate(from, loc)
		_, end := instantRangeForDate(to, loc)
		if in.TotalIntake, err = l.sumIntakeInRange(ctx, start, end); err != nil {
			return err
		}
		if in.TotalExpenditure, err = l.sumExpenditureInDateRange(ctx, from, to); err != nil {
			return err
		}
		in.NumDays = daysBetween(from, to)
	}

	p.Adjustment = computeAdjustment(in)
	return nil
}

/* ─── Serialized write path ──────────────────────────────────────────── */

// profileTx is what the serialized write path needs from one open transaction.
type profileTx interface {
	lockProfile(ctx context.Context) (userProfile, error)
	ledger() calorieLedger
	saveAdjustment(ctx context.Context, p userProfile) error
}

// pgProfileTx implements profileTx on an open pgx transaction.
type pgProfileTx struct {
	tx     pgx.Tx
	userID int
	loc    *time.Location
}

// lockProfile loads the user's profile with a row lock held until the
// transaction ends. Every recompute for a user goes through this lock.
func (t pgProfileTx) lockProfile(ctx context.Context) (userProfile, error) {
	p, err := queryOne[userProfile](t.tx, ctx,
		"SELECT * FROM user_profiles WHERE user_id = @userID FOR UPDATE",
		pgx.NamedArgs{"userID": t.userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return p, fmt.Errorf("user %d: %w", t.userID, errMissingProfile)
	}
	return p, err
}

func (t pgProfileTx) ledger() calorieLedger {
	return pgLedger{q: t.tx, userID: t.userID, loc: t.loc}
}

func (t pgProfileTx) saveAdjustment(ctx context.Context, p userProfile) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE user_profiles SET adjustment = @adjustment, updated_at = now()
		 WHERE user_id = @userID`,
		pgx.NamedArgs{"adjustment": p.Adjustment, "userID": p.UserID})
	if err != nil {
		return fmt.Errorf("save adjustment: %w", err)
	}
	return nil
}

// recomputeAfterWrite locks the profile, runs write, then recomputes and saves
// the adjustment for the date write reports as affected.
func recomputeAfterWrite(ctx context.Context, t profileTx, loc *time.Location, write func() (time.Time, error)) error {
	profile, err := t.lockProfile(ctx)
	if err != nil {
		return err
	}
	date, err := write()
	if err != nil {
		return err
	}
	if err := recomputeAdjustment(ctx, t.ledger(), &profile, date, loc); err != nil {
		return fmt.Errorf("recompute adjustment: %w", err)
	}
	return t.saveAdjustment(ctx, profile)
}

// applyGoalPatch locks the profile and runs update. When the goal delta
// changed, the adjustment is recomputed as of today from the updated profile.
func applyGoalPatch(ctx context.Context, t profileTx, loc *time.Location, today time.Time, goalChanged bool, update func() (userProfile, error)) (userProfile, error) {
	if _, err := t.lockProfile(ctx); err != nil {
		return userProfile{}, err
	}
	p, err := update()
	if err != nil || !goalChanged {
		return p, err
	}
	if err := recomputeAdjustment(ctx, t.ledger(), &p, today, loc); err != nil {
		return p, fmt.Errorf("recompute adjustment: %w", err)
	}
	return p, t.saveAdjustment(ctx, p)
}

// writeAndRecompute runs write inside a transaction that holds the profile
// lock, then recomputes and stores the adjustment for the date write returns.
// Either the record write and the new adjustment both commit or neither does.
func (h *Handler) writeAndRecompute(ctx context.Context, userID int, write func(tx pgx.Tx) (time.Time, error)) error {
	return pgx.BeginFunc(ctx, h.db, func(tx pgx.Tx) error {
		return recomputeAfterWrite(ctx, pgProfileTx{tx: tx, userID: userID, loc: h.loc}, h.loc,
			func() (time.Time, error) { return write(tx) })
	})
}

// intakeAffectedDate is the calendar date whose adjustment an intake write
// touches: the local date of the intake as stored after the write.
func intakeAffectedDate(item intakeRecord, loc *time.Location) time.Time {
	return civilDate(item.OccurredAt, loc)
}

// expenditureAffectedDate is the date of the expenditure as stored after the write.
func expenditureAffectedDate(record expenditureRecord) time.Time {
	return record.Date.Time
}
