package matchmaking

import (
	"context"
	"fmt"
	"sort"
	"time"

	prommetrics "github.com/vinverse/gamerlink-engine/internal/metrics"
	"github.com/vinverse/gamerlink-engine/internal/models"
	"github.com/vinverse/gamerlink-engine/internal/service/performance"
	"github.com/vinverse/gamerlink-engine/pkg/logger"
)

// DefaultPoolLimit caps how many candidates get scored per request.
const DefaultPoolLimit = 100

// UserRepository defines the user lookups the service needs.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	ListByIDs(ids []uint) ([]models.User, error)
}

// TournamentRepository defines the participation lookups the service needs.
type TournamentRepository interface {
	CountParticipations(userID uint, game string) (int, error)
	ListParticipantIDs(game string) ([]uint, error)
	CountCommonTournaments(userA, userB uint, game string) (int, error)
}

// TeamRepository defines the teammate lookups the service needs.
type TeamRepository interface {
	TeammateIDs(userID uint, game string) ([]uint, error)
}

// LFTRepository defines the looking-for-team lookups the service needs.
type LFTRepository interface {
	ListActiveAuthorIDs(game, region string) ([]uint, error)
}

// Recommendation is one scored teammate candidate.
type Recommendation struct {
	UserID     uint            `json:"user_id"`
	Username   string          `json:"username"`
	GamerTag   string          `json:"gamer_tag"`
	Rank       string          `json:"rank"`
	TotalScore float64         `json:"total_score"`
	Components ComponentScores `json:"components"`
}

// Service runs teammate matchmaking for a game.
type Service struct {
	userRepo       UserRepository
	tournamentRepo TournamentRepository
	teamRepo       TeamRepository
	lftRepo        LFTRepository
	poolLimit      int
	log            *logger.Logger
}

// NewService creates a matchmaking service. poolLimit <= 0 selects the
// default cap.
func NewService(
	userRepo UserRepository,
	tournamentRepo TournamentRepository,
	teamRepo TeamRepository,
	lftRepo LFTRepository,
	poolLimit int,
	log *logger.Logger,
) *Service {
	if poolLimit <= 0 {
		poolLimit = DefaultPoolLimit
	}
	return &Service{
		userRepo:       userRepo,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		lftRepo:        lftRepo,
		poolLimit:      poolLimit,
		log:            log,
	}
}

// Run scores teammate candidates for the requester in the given game and
// returns the top 2×teamSize, best first. Ties are broken by user id
// ascending so repeated requests produce identical orderings.
func (s *Service) Run(ctx context.Context, requesterID uint, game, region string, teamSize int) ([]Recommendation, error) {
	if game == "" {
		prommetrics.RecordMatchmakingRequest(game, "rejected")
		return nil, fmt.Errorf("run matchmaking: game: %w", models.ErrMissingInput)
	}
	if teamSize <= 0 {
		prommetrics.RecordMatchmakingRequest(game, "rejected")
		return nil, fmt.Errorf("run matchmaking: team size: %w", models.ErrMissingInput)
	}

	start := time.Now()

	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		prommetrics.RecordMatchmakingRequest(game, "error")
		return nil, fmt.Errorf("run matchmaking: %w", err)
	}

	requesterElo, err := s.eloFor(requester, game)
	if err != nil {
		prommetrics.RecordMatchmakingRequest(game, "error")
		return nil, err
	}

	pool, regionMatched, err := s.buildPool(requesterID, game, region)
	if err != nil {
		prommetrics.RecordMatchmakingRequest(game, "error")
		return nil, err
	}
	prommetrics.ObserveMatchmakingCandidates(game, len(pool))

	candidates, err := s.userRepo.ListByIDs(pool)
	if err != nil {
		prommetrics.RecordMatchmakingRequest(game, "error")
		return nil, fmt.Errorf("run matchmaking: %w", err)
	}

	recommendations := make([]Recommendation, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]

		candidateElo, err := s.eloFor(candidate, game)
		if err != nil {
			prommetrics.RecordMatchmakingRequest(game, "error")
			return nil, err
		}
		common, err := s.tournamentRepo.CountCommonTournaments(requesterID, candidate.ID, game)
		if err != nil {
			prommetrics.RecordMatchmakingRequest(game, "error")
			return nil, fmt.Errorf("run matchmaking: %w", err)
		}

		components := ComponentScores{
			EloScore:     EloScore(requesterElo, candidateElo),
			RegionScore:  RegionScore(regionMatched[candidate.ID]),
			SynergyScore: SynergyScore(common),
			RankScore:    RankScore(requester.Rank, candidate.Rank),
		}
		recommendations = append(recommendations, Recommendation{
			UserID:     candidate.ID,
			Username:   candidate.Username,
			GamerTag:   candidate.GamerTag,
			Rank:       candidate.Rank,
			TotalScore: TotalScore(components),
			Components: components,
		})
	}

	sort.Slice(recommendations, func(i, j int) bool {
		if recommendations[i].TotalScore != recommendations[j].TotalScore {
			return recommendations[i].TotalScore > recommendations[j].TotalScore
		}
		return recommendations[i].UserID < recommendations[j].UserID
	})

	limit := 2 * teamSize
	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}

	prommetrics.RecordMatchmakingRequest(game, "ok")
	prommetrics.ObserveMatchmakingDuration(game, time.Since(start).Seconds())
	s.log.Debug().
		Uint("requester_id", requesterID).
		Str("game", game).
		Int("pool", len(pool)).
		Int("returned", len(recommendations)).
		Msg("Matchmaking completed")

	return recommendations, nil
}

// buildPool assembles the candidate ids to score: tournament participants in
// the game minus the requester and their current teammates, optionally
// narrowed to users with an active looking-for-team post in the region. The
// returned set marks which candidates matched the region filter.
func (s *Service) buildPool(requesterID uint, game, region string) ([]uint, map[uint]bool, error) {
	participantIDs, err := s.tournamentRepo.ListParticipantIDs(game)
	if err != nil {
		return nil, nil, fmt.Errorf("run matchmaking: %w", err)
	}

	teammateIDs, err := s.teamRepo.TeammateIDs(requesterID, game)
	if err != nil {
		return nil, nil, fmt.Errorf("run matchmaking: %w", err)
	}
	excluded := make(map[uint]bool, len(teammateIDs)+1)
	excluded[requesterID] = true
	for _, id := range teammateIDs {
		excluded[id] = true
	}

	regionMatched := make(map[uint]bool)
	if region != "" {
		matchedIDs, err := s.lftRepo.ListActiveAuthorIDs(game, region)
		if err != nil {
			return nil, nil, fmt.Errorf("run matchmaking: %w", err)
		}
		for _, id := range matchedIDs {
			regionMatched[id] = true
		}
	}

	pool := make([]uint, 0, len(participantIDs))
	for _, id := range participantIDs {
		if excluded[id] {
			continue
		}
		if region != "" && !regionMatched[id] {
			continue
		}
		pool = append(pool, id)
		if len(pool) == s.poolLimit {
			break
		}
	}

	return pool, regionMatched, nil
}

func (s *Service) eloFor(user *models.User, game string) (float64, error) {
	count, err := s.tournamentRepo.CountParticipations(user.ID, game)
	if err != nil {
		return 0, fmt.Errorf("run matchmaking: %w", err)
	}
	winRate := performance.WinRate(user.XPPoints, count)
	consistency := performance.SkillConsistency(user.XPPoints, count)
	return EloRating(winRate, consistency, user.XPPoints), nil
}
