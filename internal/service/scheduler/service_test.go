package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vinverse/gamerlink-engine/internal/config"
	"github.com/vinverse/gamerlink-engine/pkg/logger"
)

type mockBadgeEvaluator struct {
	awarded int
	err     error
	runs    int
}

func (m *mockBadgeEvaluator) EvaluateAll(ctx context.Context, today time.Time) (int, error) {
	m.runs++
	return m.awarded, m.err
}

type mockLFTCleaner struct {
	deactivated int64
	err         error
	runs        int
	lastCutoff  time.Time
}

func (m *mockLFTCleaner) DeactivateOlderThan(cutoff time.Time) (int64, error) {
	m.runs++
	m.lastCutoff = cutoff
	return m.deactivated, m.err
}

func testLogger() *logger.Logger {
	return logger.New("error", "console", "stdout")
}

func TestStartDisabled(t *testing.T) {
	cfg := &config.SchedulerConfig{Enabled: false}
	s := NewService(cfg, &mockBadgeEvaluator{}, &mockLFTCleaner{}, testLogger())

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.cron != nil {
		t.Error("disabled scheduler should not create a cron runner")
	}
	s.Stop()
}

func TestStartInvalidTimezone(t *testing.T) {
	cfg := &config.SchedulerConfig{Enabled: true, Timezone: "Mars/Olympus"}
	s := NewService(cfg, &mockBadgeEvaluator{}, &mockLFTCleaner{}, testLogger())

	if err := s.Start(); err == nil {
		t.Fatal("Start should reject an unknown timezone")
	}
}

func TestStartInvalidCronExpression(t *testing.T) {
	cfg := &config.SchedulerConfig{
		Enabled:             true,
		Timezone:            "UTC",
		BadgeEvaluationTime: "not a cron expr",
	}
	s := NewService(cfg, &mockBadgeEvaluator{}, &mockLFTCleaner{}, testLogger())

	if err := s.Start(); err == nil {
		t.Fatal("Start should reject an invalid cron expression")
	}
}

func TestStartRegistersJobs(t *testing.T) {
	cfg := &config.SchedulerConfig{
		Enabled:             true,
		Timezone:            "UTC",
		BadgeEvaluationTime: "0 3 * * *",
		LFTCleanupTime:      "30 3 * * *",
		LFTMaxAgeDays:       14,
	}
	s := NewService(cfg, &mockBadgeEvaluator{}, &mockLFTCleaner{}, testLogger())

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if got := len(s.cron.Entries()); got != 2 {
		t.Errorf("registered jobs = %d, want 2", got)
	}
}

func TestRunBadgeEvaluation(t *testing.T) {
	evaluator := &mockBadgeEvaluator{awarded: 3}
	s := NewService(&config.SchedulerConfig{}, evaluator, nil, testLogger())

	s.runBadgeEvaluation(context.Background())
	if evaluator.runs != 1 {
		t.Errorf("runs = %d, want 1", evaluator.runs)
	}
}

func TestRunBadgeEvaluationSurvivesError(t *testing.T) {
	evaluator := &mockBadgeEvaluator{err: errors.New("db down")}
	s := NewService(&config.SchedulerConfig{}, evaluator, nil, testLogger())

	// Must not panic; the failure is logged and counted.
	s.runBadgeEvaluation(context.Background())
}

func TestRunLFTCleanupCutoff(t *testing.T) {
	cleaner := &mockLFTCleaner{deactivated: 5}
	s := NewService(&config.SchedulerConfig{LFTMaxAgeDays: 7}, nil, cleaner, testLogger())

	before := time.Now().AddDate(0, 0, -7)
	s.runLFTCleanup(context.Background())

	if cleaner.runs != 1 {
		t.Fatalf("runs = %d, want 1", cleaner.runs)
	}
	if cleaner.lastCutoff.Before(before.Add(-time.Minute)) || cleaner.lastCutoff.After(time.Now()) {
		t.Errorf("cutoff %v not about 7 days ago", cleaner.lastCutoff)
	}
}

func TestRunLFTCleanupDefaultsMaxAge(t *testing.T) {
	cleaner := &mockLFTCleaner{}
	s := NewService(&config.SchedulerConfig{}, nil, cleaner, testLogger())

	s.runLFTCleanup(context.Background())

	wantAround := time.Now().AddDate(0, 0, -14)
	diff := cleaner.lastCutoff.Sub(wantAround)
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff %v, want about 14 days ago", cleaner.lastCutoff)
	}
}
