package repository

import (
	"fmt"
	"time"

	"github.com/vinverse/gamerlink-engine/internal/models"
)

// TournamentRepository handles tournament and participation operations.
type TournamentRepository struct {
	db *DB
}

// NewTournamentRepository creates a new tournament repository.
func NewTournamentRepository(db *DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

// Create creates a new tournament.
func (r *TournamentRepository) Create(tournament *models.Tournament) error {
	if err := r.db.Create(tournament).Error; err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

// GetByID retrieves a tournament by ID.
func (r *TournamentRepository) GetByID(id uint) (*models.Tournament, error) {
	var tournament models.Tournament
	if err := r.db.First(&tournament, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, translateNotFound(err))
	}
	return &tournament, nil
}

// AddParticipant records a user joining a tournament. Re-joining is a no-op.
func (r *TournamentRepository) AddParticipant(tournamentID, userID uint) error {
	var count int64
	err := r.db.Model(&models.TournamentParticipant{}).
		Where("tournament_id = ? AND user_id = ?", tournamentID, userID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check participation: %w", err)
	}
	if count > 0 {
		return nil
	}

	participant := &models.TournamentParticipant{
		TournamentID: tournamentID,
		UserID:       userID,
		JoinedAt:     time.Now(),
	}
	if err := r.db.Create(participant).Error; err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// CountParticipations returns the number of distinct tournaments a user has
// joined, optionally restricted to a game.
func (r *TournamentRepository) CountParticipations(userID uint, game string) (int, error) {
	query := r.db.Model(&models.TournamentParticipant{}).
		Joins("JOIN tournaments ON tournaments.id = tournament_participants.tournament_id").
		Where("tournament_participants.user_id = ?", userID)
	if game != "" {
		query = query.Where("tournaments.game = ?", game)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count participations: %w", err)
	}
	return int(count), nil
}

// ListParticipantIDs returns the distinct IDs of users with at least one
// participation in the given game, in primary key order.
func (r *TournamentRepository) ListParticipantIDs(game string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.TournamentParticipant{}).
		Joins("JOIN tournaments ON tournaments.id = tournament_participants.tournament_id").
		Where("tournaments.game = ?", game).
		Distinct("tournament_participants.user_id").
		Order("tournament_participants.user_id ASC").
		Pluck("tournament_participants.user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for game %q: %w", game, err)
	}
	return ids, nil
}

// CountCommonTournaments returns how many tournaments in the given game both
// users participated in.
func (r *TournamentRepository) CountCommonTournaments(userA, userB uint, game string) (int, error) {
	var count int64
	err := r.db.Model(&models.TournamentParticipant{}).
		Joins("JOIN tournaments ON tournaments.id = tournament_participants.tournament_id").
		Joins("JOIN tournament_participants tp2 ON tp2.tournament_id = tournament_participants.tournament_id").
		Where("tournament_participants.user_id = ?", userA).
		Where("tp2.user_id = ?", userB).
		Where("tournaments.game = ?", game).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count common tournaments: %w", err)
	}
	return int(count), nil
}
