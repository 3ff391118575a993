// Package streak tracks per-user login streaks over calendar dates.
package streak

import (
	"context"
	"fmt"
	"time"

	prommetrics "github.com/vinverse/gamerlink-engine/internal/metrics"
	"github.com/vinverse/gamerlink-engine/internal/models"
	"github.com/vinverse/gamerlink-engine/pkg/logger"
)

// Transition names the streak state change produced by recording activity.
type Transition string

// Possible transitions. TransitionNone covers same-day re-entry and
// future-dated anomalies, both of which leave state untouched.
const (
	TransitionStarted  Transition = "started"
	TransitionExtended Transition = "extended"
	TransitionReset    Transition = "reset"
	TransitionNone     Transition = "none"
)

// State is the streak portion of a user's stats.
type State struct {
	StreakDays     int
	LastActiveDate *time.Time
}

// UserRepository is the persistence surface the tracker needs.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	UpdateActivity(userID uint, prevLastActive *time.Time, streakDays int, lastActive time.Time) (bool, error)
}

// Tracker mutates user streak state from activity events.
type Tracker struct {
	userRepo UserRepository
	log      *logger.Logger
}

// NewTracker creates a streak tracker.
func NewTracker(userRepo UserRepository, log *logger.Logger) *Tracker {
	return &Tracker{userRepo: userRepo, log: log}
}

// Advance computes the next streak state for activity on `today` without
// touching storage. It is the complete transition table:
//
//	no prior activity      -> streak 1, date today
//	last active today      -> unchanged
//	last active yesterday  -> streak+1, date today
//	gap of 2+ days         -> streak 1, date today
//	last active in future  -> unchanged (clock skew is never trusted)
func Advance(current State, today time.Time) (State, Transition) {
	today = truncateToDay(today)

	if current.LastActiveDate == nil {
		return State{StreakDays: 1, LastActiveDate: &today}, TransitionStarted
	}

	last := truncateToDay(*current.LastActiveDate)
	switch {
	case last.Equal(today):
		return current, TransitionNone
	case last.Equal(today.AddDate(0, 0, -1)):
		return State{StreakDays: current.StreakDays + 1, LastActiveDate: &today}, TransitionExtended
	case last.After(today):
		return current, TransitionNone
	default:
		return State{StreakDays: 1, LastActiveDate: &today}, TransitionReset
	}
}

// RecordActivity applies the streak transition for a user's activity on the
// given date and persists it with a compare-and-set on last_active_date.
// Calling it repeatedly on the same day never double-increments; when a
// concurrent login wins the write, the freshly stored state is returned.
func (t *Tracker) RecordActivity(ctx context.Context, userID uint, today time.Time) (State, error) {
	const maxAttempts = 3

	for attempt := 0; attempt < maxAttempts; attempt++ {
		user, err := t.userRepo.GetByID(userID)
		if err != nil {
			return State{}, fmt.Errorf("record activity: %w", err)
		}

		current := State{StreakDays: user.StreakDays, LastActiveDate: user.LastActiveDate}
		next, transition := Advance(current, today)
		if transition == TransitionNone {
			prommetrics.RecordStreakTransition(string(transition))
			return current, nil
		}

		applied, err := t.userRepo.UpdateActivity(userID, user.LastActiveDate, next.StreakDays, *next.LastActiveDate)
		if err != nil {
			return State{}, fmt.Errorf("record activity: %w", err)
		}
		if applied {
			prommetrics.RecordStreakTransition(string(transition))
			t.log.Debug().
				Uint("user_id", userID).
				Int("streak_days", next.StreakDays).
				Str("transition", string(transition)).
				Msg("Streak updated")
			return next, nil
		}

		// Lost the compare-and-set: another request moved the state first.
		// Re-read and re-evaluate; a same-day winner turns this attempt
		// into a no-op.
		t.log.Debug().Uint("user_id", userID).Int("attempt", attempt+1).Msg("Streak update conflicted, retrying")
	}

	return State{}, fmt.Errorf("record activity: user %d: too many concurrent updates", userID)
}

// truncateToDay drops the time-of-day component in the date's own location.
func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
