package badges

import (
	"context"
	"fmt"
	"time"

	"github.com/vinverse/gamerlink-engine/internal/config"
	prommetrics "github.com/vinverse/gamerlink-engine/internal/metrics"
	"github.com/vinverse/gamerlink-engine/internal/models"
	"github.com/vinverse/gamerlink-engine/pkg/logger"
)

// BadgeRepository defines the badge persistence operations the service needs.
type BadgeRepository interface {
	GetAll() ([]models.Badge, error)
	SeedCatalog(badges []models.Badge) error
	AwardBadge(userID, badgeID uint) error
	HasUserEarnedBadge(userID, badgeID uint) (bool, error)
	GetUserBadges(userID uint) ([]models.UserBadge, error)
	GetBadgeHoldersCount(badgeID uint) (int64, error)
}

// UserRepository defines the user lookups the service needs.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	ListAll() ([]models.User, error)
}

// TournamentRepository defines the participation lookups the service needs.
type TournamentRepository interface {
	CountParticipations(userID uint, game string) (int, error)
}

// Service awards badges. The catalog is seeded from configuration at startup
// and then read from the database, so config and DB never disagree on keys.
type Service struct {
	badgeRepo      BadgeRepository
	userRepo       UserRepository
	tournamentRepo TournamentRepository
	log            *logger.Logger
}

// NewService creates a badge service.
func NewService(badgeRepo BadgeRepository, userRepo UserRepository, tournamentRepo TournamentRepository, log *logger.Logger) *Service {
	return &Service{
		badgeRepo:      badgeRepo,
		userRepo:       userRepo,
		tournamentRepo: tournamentRepo,
		log:            log,
	}
}

// SeedCatalog makes sure every configured badge exists in the database.
func (s *Service) SeedCatalog(badgeCfgs []config.BadgeConfig) error {
	catalog := make([]models.Badge, 0, len(badgeCfgs))
	for _, cfg := range badgeCfgs {
		catalog = append(catalog, models.Badge{
			Key:         cfg.Key,
			Name:        cfg.Name,
			Description: cfg.Description,
			Icon:        cfg.Icon,
			Type:        cfg.Type,
		})
	}
	if err := s.badgeRepo.SeedCatalog(catalog); err != nil {
		return fmt.Errorf("failed to seed badge catalog: %w", err)
	}
	return nil
}

// loadCatalog reads the badge catalog keyed by badge key.
func (s *Service) loadCatalog() (map[string]models.Badge, error) {
	all, err := s.badgeRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load badge catalog: %w", err)
	}
	catalog := make(map[string]models.Badge, len(all))
	for _, b := range all {
		catalog[b.Key] = b
	}
	return catalog, nil
}

// EvaluateUser checks every rule for one user and awards whatever is newly
// earned. Re-running it is safe: awards are idempotent at the repository.
// It returns the keys awarded in this call.
func (s *Service) EvaluateUser(ctx context.Context, userID uint, today time.Time) ([]string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate badges for user %d: %w", userID, err)
	}

	catalog, err := s.loadCatalog()
	if err != nil {
		return nil, err
	}

	return s.evaluate(user, today, catalog)
}

// EvaluateAll runs badge evaluation for every user, typically from the
// nightly scheduler job. Per-user failures are logged and skipped so one bad
// row never blocks the sweep.
func (s *Service) EvaluateAll(ctx context.Context, today time.Time) (int, error) {
	users, err := s.userRepo.ListAll()
	if err != nil {
		return 0, fmt.Errorf("failed to list users for badge evaluation: %w", err)
	}

	catalog, err := s.loadCatalog()
	if err != nil {
		return 0, err
	}

	awarded := 0
	for i := range users {
		if err := ctx.Err(); err != nil {
			return awarded, err
		}
		keys, err := s.evaluate(&users[i], today, catalog)
		if err != nil {
			s.log.Error().Err(err).Uint("user_id", users[i].ID).Msg("Badge evaluation failed for user")
			continue
		}
		awarded += len(keys)
	}

	s.refreshHolderGauges(catalog)

	s.log.Info().Int("users", len(users)).Int("awarded", awarded).Msg("Badge evaluation sweep completed")
	return awarded, nil
}

func (s *Service) evaluate(user *models.User, today time.Time, catalog map[string]models.Badge) ([]string, error) {
	stats := Stats{StreakDays: user.StreakDays, LastActiveDate: user.LastActiveDate}
	keys := EligibleBadges(stats, today, catalog)

	// first_tournament is participation-driven rather than streak-driven,
	// so it lives outside the pure rule table.
	if badge, ok := catalog[models.BadgeFirstTournament]; ok {
		earned, err := s.badgeRepo.HasUserEarnedBadge(user.ID, badge.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check badge %q for user %d: %w", badge.Key, user.ID, err)
		}
		if !earned {
			count, err := s.tournamentRepo.CountParticipations(user.ID, "")
			if err != nil {
				return nil, fmt.Errorf("failed to count participations for user %d: %w", user.ID, err)
			}
			if count > 0 {
				keys = append(keys, models.BadgeFirstTournament)
			}
		}
	}

	var awarded []string
	for _, key := range keys {
		badge := catalog[key]
		earned, err := s.badgeRepo.HasUserEarnedBadge(user.ID, badge.ID)
		if err != nil {
			return awarded, fmt.Errorf("failed to check badge %q for user %d: %w", key, user.ID, err)
		}
		if earned {
			continue
		}
		if err := s.badgeRepo.AwardBadge(user.ID, badge.ID); err != nil {
			return awarded, fmt.Errorf("failed to award badge %q to user %d: %w", key, user.ID, err)
		}
		prommetrics.RecordBadgeAwarded(key)
		awarded = append(awarded, key)
		s.log.Info().Uint("user_id", user.ID).Str("badge", key).Msg("Badge awarded")
	}

	return awarded, nil
}

func (s *Service) refreshHolderGauges(catalog map[string]models.Badge) {
	for key, badge := range catalog {
		count, err := s.badgeRepo.GetBadgeHoldersCount(badge.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("badge", key).Msg("Failed to count badge holders")
			continue
		}
		prommetrics.SetActiveBadgeHolders(key, int(count))
	}
}

// GetUserBadges returns the badges a user has earned, newest first.
func (s *Service) GetUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, fmt.Errorf("failed to get badges for user %d: %w", userID, err)
	}
	return s.badgeRepo.GetUserBadges(userID)
}
