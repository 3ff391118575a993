// Package gamerlink provides REST API handlers for the scoring engine:
// activity recording, badges, performance metrics, matchmaking, leaderboards,
// and match insights.
package gamerlink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vinverse/gamerlink-engine/internal/models"
	"github.com/vinverse/gamerlink-engine/internal/service/leaderboard"
	"github.com/vinverse/gamerlink-engine/internal/service/matchmaking"
	"github.com/vinverse/gamerlink-engine/internal/service/performance"
	"github.com/vinverse/gamerlink-engine/internal/service/streak"
	"github.com/vinverse/gamerlink-engine/pkg/logger"
)

// StreakService interface for activity recording.
type StreakService interface {
	RecordActivity(ctx context.Context, userID uint, today time.Time) (streak.State, error)
}

// BadgeService interface for badge operations.
type BadgeService interface {
	EvaluateUser(ctx context.Context, userID uint, today time.Time) ([]string, error)
	GetUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error)
}

// PerformanceService interface for metric queries.
type PerformanceService interface {
	UserMetrics(ctx context.Context, userID uint, game string) (performance.Metrics, error)
	UserMVPScore(ctx context.Context, userID, tournamentID uint) (float64, error)
}

// InsightService interface for win probability and insight jobs.
type InsightService interface {
	PredictWinProbability(ctx context.Context, userID, tournamentID uint) (float64, error)
	Submit(ctx context.Context, userID, tournamentID uint) (*models.MatchInsight, bool, error)
	Get(ctx context.Context, userID, tournamentID uint) (*models.MatchInsight, error)
	ListForUser(ctx context.Context, userID uint) ([]models.MatchInsight, error)
}

// MatchmakingService interface for teammate recommendations.
type MatchmakingService interface {
	Run(ctx context.Context, requesterID uint, game, region string, teamSize int) ([]matchmaking.Recommendation, error)
}

// LeaderboardService interface for leaderboard queries.
type LeaderboardService interface {
	Compute(ctx context.Context, mode leaderboard.Mode, game string, limit int) ([]leaderboard.Entry, error)
}

// Handler handles scoring engine API requests.
type Handler struct {
	streakService      StreakService
	badgeService       BadgeService
	performanceService PerformanceService
	insightService     InsightService
	matchmakingService MatchmakingService
	leaderboardService LeaderboardService
	log                *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	streakService StreakService,
	badgeService BadgeService,
	performanceService PerformanceService,
	insightService InsightService,
	matchmakingService MatchmakingService,
	leaderboardService LeaderboardService,
	log *logger.Logger,
) *Handler {
	return &Handler{
		streakService:      streakService,
		badgeService:       badgeService,
		performanceService: performanceService,
		insightService:     insightService,
		matchmakingService: matchmakingService,
		leaderboardService: leaderboardService,
		log:                log,
	}
}

// RegisterRoutes attaches all API routes to the router group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/users/:id/activity", h.RecordActivity)
	api.GET("/users/:id/badges", h.GetUserBadges)
	api.GET("/users/:id/metrics", h.GetUserMetrics)
	api.GET("/users/:id/tournaments/:tournament_id/mvp", h.GetMVPScore)
	api.GET("/users/:id/tournaments/:tournament_id/win-probability", h.GetWinProbability)
	api.POST("/users/:id/tournaments/:tournament_id/insights", h.SubmitInsight)
	api.GET("/users/:id/tournaments/:tournament_id/insights", h.GetInsight)
	api.GET("/users/:id/insights", h.ListInsights)
	api.POST("/matchmaking", h.RunMatchmaking)
	api.GET("/leaderboard", h.GetLeaderboard)
}

// RecordActivity registers a login/activity event for a user, advancing the
// streak and immediately evaluating badge eligibility.
// POST /api/v1/users/:id/activity.
func (h *Handler) RecordActivity(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	state, err := h.streakService.RecordActivity(ctx, userID, time.Now())
	if err != nil {
		h.serviceError(c, err, "Failed to record activity")
		return
	}

	awarded, err := h.badgeService.EvaluateUser(ctx, userID, time.Now())
	if err != nil {
		// The streak update already landed; report badge trouble without
		// failing the whole request.
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Badge evaluation after activity failed")
		awarded = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":          userID,
		"streak_days":      state.StreakDays,
		"last_active_date": state.LastActiveDate,
		"new_badges":       awarded,
	})
}

// GetUserBadges returns all badges earned by a user.
// GET /api/v1/users/:id/badges.
func (h *Handler) GetUserBadges(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	badges, err := h.badgeService.GetUserBadges(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve user badges")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"badges":  badges,
		"count":   len(badges),
	})
}

// GetUserMetrics returns win rate and skill consistency for a user.
// GET /api/v1/users/:id/metrics?game=Valorant.
func (h *Handler) GetUserMetrics(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	game := c.Query("game")

	metrics, err := h.performanceService.UserMetrics(c.Request.Context(), userID, game)
	if err != nil {
		h.serviceError(c, err, "Failed to compute metrics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":     userID,
		"game":        game,
		"win_rate":    metrics.WinRate,
		"consistency": metrics.Consistency,
	})
}

// GetMVPScore returns a user's MVP score for a tournament.
// GET /api/v1/users/:id/tournaments/:tournament_id/mvp.
func (h *Handler) GetMVPScore(c *gin.Context) {
	userID, tournamentID, err := h.parseUserAndTournament(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	score, err := h.performanceService.UserMVPScore(c.Request.Context(), userID, tournamentID)
	if err != nil {
		h.serviceError(c, err, "Failed to compute MVP score")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":       userID,
		"tournament_id": tournamentID,
		"mvp_score":     score,
	})
}

// GetWinProbability returns the estimated win probability for a user in a
// tournament.
// GET /api/v1/users/:id/tournaments/:tournament_id/win-probability.
func (h *Handler) GetWinProbability(c *gin.Context) {
	userID, tournamentID, err := h.parseUserAndTournament(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	probability, err := h.insightService.PredictWinProbability(c.Request.Context(), userID, tournamentID)
	if err != nil {
		h.serviceError(c, err, "Failed to predict win probability")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":         userID,
		"tournament_id":   tournamentID,
		"win_probability": probability,
	})
}

// SubmitInsight starts asynchronous insight generation and returns right
// away. A finished insight is returned directly; a fresh submission returns
// 202 with the pending row.
// POST /api/v1/users/:id/tournaments/:tournament_id/insights.
func (h *Handler) SubmitInsight(c *gin.Context) {
	userID, tournamentID, err := h.parseUserAndTournament(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	insight, created, err := h.insightService.Submit(c.Request.Context(), userID, tournamentID)
	if err != nil {
		h.serviceError(c, err, "Failed to submit insight job")
		return
	}

	status := http.StatusOK
	if created || insight.Status == models.InsightStatusPending {
		status = http.StatusAccepted
	}
	c.JSON(status, insight)
}

// GetInsight polls for a generated insight.
// GET /api/v1/users/:id/tournaments/:tournament_id/insights.
func (h *Handler) GetInsight(c *gin.Context) {
	userID, tournamentID, err := h.parseUserAndTournament(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	insight, err := h.insightService.Get(c.Request.Context(), userID, tournamentID)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve insight")
		return
	}

	c.JSON(http.StatusOK, insight)
}

// ListInsights returns all insights for a user, newest first.
// GET /api/v1/users/:id/insights.
func (h *Handler) ListInsights(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	insights, err := h.insightService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, err, "Failed to list insights")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":  userID,
		"insights": insights,
		"count":    len(insights),
	})
}

// MatchmakingRequest is the POST body for a matchmaking run.
type MatchmakingRequest struct {
	RequesterID uint   `json:"requester_id" binding:"required"`
	Game        string `json:"game" binding:"required"`
	Region      string `json:"region"`
	TeamSize    int    `json:"team_size" binding:"required,min=1"`
}

// RunMatchmaking scores and returns teammate recommendations.
// POST /api/v1/matchmaking.
func (h *Handler) RunMatchmaking(c *gin.Context) {
	var req MatchmakingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	recommendations, err := h.matchmakingService.Run(c.Request.Context(), req.RequesterID, req.Game, req.Region, req.TeamSize)
	if err != nil {
		h.serviceError(c, err, "Failed to run matchmaking")
		return
	}

	h.log.Info().
		Uint("requester_id", req.RequesterID).
		Str("game", req.Game).
		Int("count", len(recommendations)).
		Msg("Matchmaking request served")

	c.JSON(http.StatusOK, gin.H{
		"requester_id":    req.RequesterID,
		"game":            req.Game,
		"region":          req.Region,
		"team_size":       req.TeamSize,
		"recommendations": recommendations,
		"generated_at":    time.Now().UTC(),
	})
}

// GetLeaderboard returns a ranked board.
// GET /api/v1/leaderboard?mode=overall&game=Valorant&limit=25.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	mode := leaderboard.Mode(c.DefaultQuery("mode", string(leaderboard.ModeOverall)))
	if !leaderboard.ValidMode(mode) {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid mode: %s (valid: xp, tournaments, overall)", mode))
		return
	}
	game := c.Query("game")
	limit, err := h.parseLimit(c, leaderboard.DefaultLimit)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.leaderboardService.Compute(c.Request.Context(), mode, game, limit)
	if err != nil {
		h.serviceError(c, err, "Failed to compute leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mode":          mode,
		"game":          game,
		"leaderboard":   entries,
		"total_entries": len(entries),
		"generated_at":  time.Now().UTC(),
	})
}

// Helper functions

// parseUserID extracts and validates the user ID from the URL parameter.
func (h *Handler) parseUserID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %s", idStr)
	}
	return uint(id), nil
}

// parseUserAndTournament extracts both IDs from the URL parameters.
func (h *Handler) parseUserAndTournament(c *gin.Context) (uint, uint, error) {
	userID, err := h.parseUserID(c)
	if err != nil {
		return 0, 0, err
	}
	tidStr := c.Param("tournament_id")
	tid, err := strconv.ParseUint(tidStr, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid tournament ID: %s", tidStr)
	}
	return userID, uint(tid), nil
}

// parseLimit extracts and validates the limit query parameter.
func (h *Handler) parseLimit(c *gin.Context, defaultLimit int) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, fmt.Errorf("invalid limit parameter: %s", limitStr)
	}
	if limit < 1 {
		return 0, fmt.Errorf("limit must be greater than 0")
	}
	if limit > 1000 {
		return 0, fmt.Errorf("limit cannot exceed 1000")
	}
	return limit, nil
}

// serviceError maps service-layer errors onto HTTP status codes.
func (h *Handler) serviceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		h.errorResponse(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, models.ErrMissingInput):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg(message)
		h.errorResponse(c, http.StatusInternalServerError, message)
	}
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
