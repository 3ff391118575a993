package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vinverse/gamerlink-engine/internal/models"
)

// InsightRepository handles match insight persistence.
type InsightRepository struct {
	db *DB
}

// NewInsightRepository creates a new insight repository.
func NewInsightRepository(db *DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// GetOrCreatePending returns the insight row for (user, tournament),
// creating a pending one when absent. The created flag tells the caller
// whether a generation run should proceed.
func (r *InsightRepository) GetOrCreatePending(userID, tournamentID uint) (*models.MatchInsight, bool, error) {
	var insight models.MatchInsight
	err := r.db.
		Where("user_id = ? AND tournament_id = ?", userID, tournamentID).
		First(&insight).Error
	if err == nil {
		return &insight, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up insight: %w", err)
	}

	insight = models.MatchInsight{
		UserID:       userID,
		TournamentID: tournamentID,
		Status:       models.InsightStatusPending,
	}
	if err := r.db.Create(&insight).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create pending insight: %w", err)
	}
	return &insight, true, nil
}

// Update persists a generated insight.
func (r *InsightRepository) Update(insight *models.MatchInsight) error {
	if err := r.db.Save(insight).Error; err != nil {
		return fmt.Errorf("failed to update insight: %w", err)
	}
	return nil
}

// GetByUserAndTournament retrieves an insight for a user in a tournament.
func (r *InsightRepository) GetByUserAndTournament(userID, tournamentID uint) (*models.MatchInsight, error) {
	var insight models.MatchInsight
	err := r.db.
		Where("user_id = ? AND tournament_id = ?", userID, tournamentID).
		First(&insight).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get insight: %w", translateNotFound(err))
	}
	return &insight, nil
}

// ListByUser retrieves all insights for a user, newest first.
func (r *InsightRepository) ListByUser(userID uint) ([]models.MatchInsight, error) {
	var insights []models.MatchInsight
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Tournament").
		Order("generated_at DESC").
		Find(&insights).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	return insights, nil
}
