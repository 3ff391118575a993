// Package leaderboard ranks users by XP, tournament count, or a combined
// score, with short-lived caching of computed boards.
package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/vinverse/gamerlink-engine/internal/cache"
	prommetrics "github.com/vinverse/gamerlink-engine/internal/metrics"
	"github.com/vinverse/gamerlink-engine/internal/models"
	"github.com/vinverse/gamerlink-engine/internal/service/performance"
	"github.com/vinverse/gamerlink-engine/pkg/logger"
)

// Mode selects the ranking dimension.
type Mode string

// Supported ranking modes. Overall combines XP with participation volume.
const (
	ModeXP          Mode = "xp"
	ModeTournaments Mode = "tournaments"
	ModeOverall     Mode = "overall"
)

// DefaultLimit bounds a board when the caller does not pass a limit.
const DefaultLimit = 100

// cacheTTL keeps boards fresh enough while absorbing request bursts.
const cacheTTL = 5 * time.Minute

// Entry is one leaderboard row.
type Entry struct {
	Rank            int     `json:"rank"`
	UserID          uint    `json:"user_id"`
	Username        string  `json:"username"`
	GamerTag        string  `json:"gamer_tag"`
	Tier            string  `json:"tier"`
	Score           float64 `json:"score"`
	XPPoints        int     `json:"xp_points"`
	TournamentCount int     `json:"tournament_count"`
	WinRate         float64 `json:"win_rate"`
}

// UserRepository defines the user lookups the service needs.
type UserRepository interface {
	ListAll() ([]models.User, error)
	ListByIDs(ids []uint) ([]models.User, error)
}

// TournamentRepository defines the participation lookups the service needs.
type TournamentRepository interface {
	CountParticipations(userID uint, game string) (int, error)
	ListParticipantIDs(game string) ([]uint, error)
}

// Service computes leaderboards.
type Service struct {
	userRepo       UserRepository
	tournamentRepo TournamentRepository
	cache          cache.Cache
	log            *logger.Logger
}

// NewService creates a leaderboard service. cache may be nil, which disables
// caching entirely.
func NewService(userRepo UserRepository, tournamentRepo TournamentRepository, c cache.Cache, log *logger.Logger) *Service {
	return &Service{
		userRepo:       userRepo,
		tournamentRepo: tournamentRepo,
		cache:          c,
		log:            log,
	}
}

// ValidMode reports whether mode is one of the supported ranking modes.
func ValidMode(mode Mode) bool {
	switch mode {
	case ModeXP, ModeTournaments, ModeOverall:
		return true
	}
	return false
}

// Compute builds the leaderboard for a mode, optionally restricted to users
// with at least one participation in the given game. Ranks are dense 1..N
// with ties broken by user id ascending.
func (s *Service) Compute(ctx context.Context, mode Mode, game string, limit int) ([]Entry, error) {
	if !ValidMode(mode) {
		return nil, fmt.Errorf("compute leaderboard: mode %q: %w", mode, models.ErrMissingInput)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	key := cacheKey(mode, game, limit)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	users, err := s.loadUsers(game)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(users))
	for i := range users {
		user := &users[i]
		count, err := s.tournamentRepo.CountParticipations(user.ID, game)
		if err != nil {
			return nil, fmt.Errorf("compute leaderboard: %w", err)
		}

		entries = append(entries, Entry{
			UserID:          user.ID,
			Username:        user.Username,
			GamerTag:        user.GamerTag,
			Tier:            models.XPTier(user.XPPoints).String(),
			Score:           score(mode, user.XPPoints, count),
			XPPoints:        user.XPPoints,
			TournamentCount: count,
			WinRate:         performance.WinRate(user.XPPoints, count),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.toCache(ctx, key, entries)
	return entries, nil
}

func score(mode Mode, xpPoints, tournamentCount int) float64 {
	switch mode {
	case ModeTournaments:
		return float64(tournamentCount)
	case ModeOverall:
		return float64(xpPoints) + 100*float64(tournamentCount)
	default:
		return float64(xpPoints)
	}
}

func (s *Service) loadUsers(game string) ([]models.User, error) {
	if game == "" {
		users, err := s.userRepo.ListAll()
		if err != nil {
			return nil, fmt.Errorf("compute leaderboard: %w", err)
		}
		return users, nil
	}

	ids, err := s.tournamentRepo.ListParticipantIDs(game)
	if err != nil {
		return nil, fmt.Errorf("compute leaderboard: %w", err)
	}
	users, err := s.userRepo.ListByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("compute leaderboard: %w", err)
	}
	return users, nil
}

func cacheKey(mode Mode, game string, limit int) string {
	if game == "" {
		game = "all"
	}
	return fmt.Sprintf("leaderboard:%s:%s:%d", mode, game, limit)
}

func (s *Service) fromCache(ctx context.Context, key string) ([]Entry, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Leaderboard cache read failed")
		return nil, false
	}
	if !found {
		prommetrics.RecordLeaderboardCache("miss")
		return nil, false
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Leaderboard cache entry corrupt")
		return nil, false
	}
	prommetrics.RecordLeaderboardCache("hit")
	return entries, true
}

func (s *Service) toCache(ctx context.Context, key string, entries []Entry) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Leaderboard cache write failed")
	}
}
