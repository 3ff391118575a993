// Package scheduler runs periodic maintenance jobs: the nightly badge
// evaluation sweep and stale looking-for-team post cleanup.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vinverse/gamerlink-engine/internal/config"
	prommetrics "github.com/vinverse/gamerlink-engine/internal/metrics"
	"github.com/vinverse/gamerlink-engine/pkg/logger"
)

// Job names used in logs and metrics labels.
const (
	jobBadgeEvaluation = "badge_evaluation"
	jobLFTCleanup      = "lft_cleanup"
)

// BadgeEvaluator runs the badge sweep across all users.
type BadgeEvaluator interface {
	EvaluateAll(ctx context.Context, today time.Time) (int, error)
}

// LFTCleaner deactivates looking-for-team posts older than the cutoff.
type LFTCleaner interface {
	DeactivateOlderThan(cutoff time.Time) (int64, error)
}

// Service owns the cron runner and its registered jobs.
type Service struct {
	config     *config.SchedulerConfig
	badges     BadgeEvaluator
	lftCleaner LFTCleaner
	log        *logger.Logger
	cron       *cron.Cron
}

// NewService creates a scheduler service.
func NewService(cfg *config.SchedulerConfig, badges BadgeEvaluator, lftCleaner LFTCleaner, log *logger.Logger) *Service {
	return &Service{
		config:     cfg,
		badges:     badges,
		lftCleaner: lftCleaner,
		log:        log,
	}
}

// Start registers the configured jobs and starts the cron runner.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := time.LoadLocation(s.config.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	if s.config.BadgeEvaluationTime != "" && s.badges != nil {
		if _, err := s.cron.AddFunc(s.config.BadgeEvaluationTime, func() {
			s.runBadgeEvaluation(context.Background())
		}); err != nil {
			return fmt.Errorf("failed to register badge evaluation job: %w", err)
		}
		s.log.Info().
			Str("schedule", s.config.BadgeEvaluationTime).
			Msg("Badge evaluation job registered")
	}

	if s.config.LFTCleanupTime != "" && s.lftCleaner != nil {
		if _, err := s.cron.AddFunc(s.config.LFTCleanupTime, func() {
			s.runLFTCleanup(context.Background())
		}); err != nil {
			return fmt.Errorf("failed to register lft cleanup job: %w", err)
		}
		s.log.Info().
			Str("schedule", s.config.LFTCleanupTime).
			Int("max_age_days", s.config.LFTMaxAgeDays).
			Msg("LFT cleanup job registered")
	}

	s.cron.Start()

	entries := s.cron.Entries()
	nextRun := ""
	if len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}
	s.log.Info().
		Str("timezone", s.config.Timezone).
		Int("jobs", len(entries)).
		Str("next_run", nextRun).
		Msg("Scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler, waiting for running jobs.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Scheduler stopped")
	}
}

func (s *Service) runBadgeEvaluation(ctx context.Context) {
	start := time.Now()
	s.log.Info().Msg("Running badge evaluation job")

	awarded, err := s.badges.EvaluateAll(ctx, time.Now())
	if err != nil {
		s.log.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("Badge evaluation job failed")
		prommetrics.RecordSchedulerJobRun(jobBadgeEvaluation, "error")
		return
	}

	prommetrics.RecordSchedulerJobRun(jobBadgeEvaluation, "success")
	s.log.Info().
		Int("badges_awarded", awarded).
		Dur("duration", time.Since(start)).
		Msg("Badge evaluation job completed successfully")
}

func (s *Service) runLFTCleanup(_ context.Context) {
	start := time.Now()
	s.log.Info().Msg("Running LFT cleanup job")

	maxAge := s.config.LFTMaxAgeDays
	if maxAge <= 0 {
		maxAge = 14
	}
	cutoff := time.Now().AddDate(0, 0, -maxAge)

	deactivated, err := s.lftCleaner.DeactivateOlderThan(cutoff)
	if err != nil {
		s.log.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("LFT cleanup job failed")
		prommetrics.RecordSchedulerJobRun(jobLFTCleanup, "error")
		return
	}

	prommetrics.RecordSchedulerJobRun(jobLFTCleanup, "success")
	s.log.Info().
		Int64("deactivated", deactivated).
		Dur("duration", time.Since(start)).
		Msg("LFT cleanup job completed successfully")
}
