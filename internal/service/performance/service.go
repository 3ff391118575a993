package performance

import (
	"context"
	"fmt"

	"github.com/vinverse/gamerlink-engine/internal/models"
	"github.com/vinverse/gamerlink-engine/pkg/logger"
)

// UserRepository defines the user lookups the service needs.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
}

// TournamentRepository defines the tournament lookups the service needs.
type TournamentRepository interface {
	GetByID(id uint) (*models.Tournament, error)
	CountParticipations(userID uint, game string) (int, error)
}

// TeamRepository defines the team lookups the service needs.
type TeamRepository interface {
	CountTeamsForUser(userID uint, game string) (int, error)
}

// Service answers metric queries by joining user state with tournament and
// team history.
type Service struct {
	userRepo       UserRepository
	tournamentRepo TournamentRepository
	teamRepo       TeamRepository
	log            *logger.Logger
}

// NewService creates a performance metrics service.
func NewService(userRepo UserRepository, tournamentRepo TournamentRepository, teamRepo TeamRepository, log *logger.Logger) *Service {
	return &Service{
		userRepo:       userRepo,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		log:            log,
	}
}

// UserWinRate computes a user's win rate, optionally restricted to one game.
func (s *Service) UserWinRate(ctx context.Context, userID uint, game string) (float64, error) {
	user, count, err := s.userWithParticipations(userID, game)
	if err != nil {
		return 0, err
	}
	return WinRate(user.XPPoints, count), nil
}

// UserConsistency computes a user's skill consistency, optionally restricted
// to one game.
func (s *Service) UserConsistency(ctx context.Context, userID uint, game string) (float64, error) {
	user, count, err := s.userWithParticipations(userID, game)
	if err != nil {
		return 0, err
	}
	return SkillConsistency(user.XPPoints, count), nil
}

// UserMetrics computes win rate and consistency in one pass, the shape the
// estimator and leaderboard consume.
func (s *Service) UserMetrics(ctx context.Context, userID uint, game string) (Metrics, error) {
	user, count, err := s.userWithParticipations(userID, game)
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{
		WinRate:     WinRate(user.XPPoints, count),
		Consistency: SkillConsistency(user.XPPoints, count),
	}, nil
}

// UserMVPScore rates a user's showing in a specific tournament. The team
// contribution counts the user's teams in the tournament's game.
func (s *Service) UserMVPScore(ctx context.Context, userID, tournamentID uint) (float64, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute mvp score: %w", err)
	}
	tournament, err := s.tournamentRepo.GetByID(tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute mvp score: %w", err)
	}
	teams, err := s.teamRepo.CountTeamsForUser(userID, tournament.Game)
	if err != nil {
		return 0, fmt.Errorf("failed to compute mvp score: %w", err)
	}
	return MVPScore(user.Rank, user.XPPoints, teams), nil
}

func (s *Service) userWithParticipations(userID uint, game string) (*models.User, int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	count, err := s.tournamentRepo.CountParticipations(userID, game)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count participations for user %d: %w", userID, err)
	}
	return user, count, nil
}
