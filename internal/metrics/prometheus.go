// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the matchmaking engine.
var (
	// Counters.
	MatchmakingRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchmaking_requests_total",
			Help: "Total number of matchmaking requests",
		},
		[]string{"game", "status"},
	)

	StreakTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streak_transitions_total",
			Help: "Total streak state transitions by kind",
		},
		[]string{"transition"},
	)

	BadgesAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badges_awarded_total",
			Help: "Total number of badges awarded",
		},
		[]string{"badge_key"},
	)

	InsightJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_jobs_total",
			Help: "Total insight job runs by outcome",
		},
		[]string{"status", "model"},
	)

	LeaderboardCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaderboard_cache_total",
			Help: "Leaderboard cache lookups by result",
		},
		[]string{"result"},
	)

	SchedulerJobsRunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_jobs_run_total",
			Help: "Total scheduler job executions",
		},
		[]string{"job", "status"},
	)

	// Gauges.
	ActiveBadgeHolders = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "active_badge_holders",
			Help: "Current number of users holding each badge",
		},
		[]string{"badge_key"},
	)

	// Histograms.
	MatchmakingCandidatesScored = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matchmaking_candidates_scored",
			Help:    "Number of candidates scored per matchmaking request",
			Buckets: prometheus.LinearBuckets(0, 10, 11), // 0 to 100 candidates
		},
		[]string{"game"},
	)

	MatchmakingDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matchmaking_duration_seconds",
			Help:    "Time taken to score and rank a matchmaking request",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"game"},
	)

	InsightJobDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insight_job_duration_seconds",
			Help:    "Time taken to generate a match insight",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
		},
	)
)

// RecordMatchmakingRequest records a matchmaking request.
func RecordMatchmakingRequest(game, status string) {
	MatchmakingRequestsTotal.WithLabelValues(game, status).Inc()
}

// RecordStreakTransition records a streak state transition.
func RecordStreakTransition(transition string) {
	StreakTransitionsTotal.WithLabelValues(transition).Inc()
}

// RecordBadgeAwarded records a badge award event.
func RecordBadgeAwarded(badgeKey string) {
	BadgesAwardedTotal.WithLabelValues(badgeKey).Inc()
}

// SetActiveBadgeHolders sets the number of holders for a badge.
func SetActiveBadgeHolders(badgeKey string, count int) {
	ActiveBadgeHolders.WithLabelValues(badgeKey).Set(float64(count))
}

// RecordInsightJob records an insight job outcome.
func RecordInsightJob(status, model string) {
	InsightJobsTotal.WithLabelValues(status, model).Inc()
}

// RecordLeaderboardCache records a cache hit or miss.
func RecordLeaderboardCache(result string) {
	LeaderboardCacheTotal.WithLabelValues(result).Inc()
}

// RecordSchedulerJobRun records a scheduler job execution.
func RecordSchedulerJobRun(job, status string) {
	SchedulerJobsRunTotal.WithLabelValues(job, status).Inc()
}

// ObserveMatchmakingCandidates observes the scored candidate count.
func ObserveMatchmakingCandidates(game string, count int) {
	MatchmakingCandidatesScored.WithLabelValues(game).Observe(float64(count))
}

// ObserveMatchmakingDuration observes the duration of a matchmaking request.
func ObserveMatchmakingDuration(game string, seconds float64) {
	MatchmakingDurationSeconds.WithLabelValues(game).Observe(seconds)
}

// ObserveInsightJobDuration observes the duration of an insight job.
func ObserveInsightJobDuration(seconds float64) {
	InsightJobDurationSeconds.Observe(seconds)
}
