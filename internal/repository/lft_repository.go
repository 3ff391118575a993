package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/vinverse/gamerlink-engine/internal/models"
)

// likePattern lowercases a value and escapes LIKE wildcards so user input is
// matched literally.
func likePattern(value string) string {
	replacer := strings.NewReplacer("%", `\%`, "_", `\_`)
	return replacer.Replace(strings.ToLower(value))
}

// LFTRepository handles looking-for-team post operations.
type LFTRepository struct {
	db *DB
}

// NewLFTRepository creates a new LFT post repository.
func NewLFTRepository(db *DB) *LFTRepository {
	return &LFTRepository{db: db}
}

// Create creates a new LFT post.
func (r *LFTRepository) Create(post *models.LFTPost) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create lft post: %w", err)
	}
	return nil
}

// GetActiveByAuthor returns the author's most recent active post for a game,
// or nil when none exists. Game match is a case-insensitive substring, same
// as the matchmaking region filter.
func (r *LFTRepository) GetActiveByAuthor(authorID uint, game string) (*models.LFTPost, error) {
	var posts []models.LFTPost
	err := r.db.
		Where("author_id = ? AND is_active = ?", authorID, true).
		Where("LOWER(game) LIKE ?", "%"+likePattern(game)+"%").
		Order("created_at DESC").
		Limit(1).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active lft post: %w", err)
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

// ListActiveAuthorIDs returns author IDs of active posts matching a game and
// region, both as case-insensitive substrings.
func (r *LFTRepository) ListActiveAuthorIDs(game, region string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.LFTPost{}).
		Where("is_active = ?", true).
		Where("LOWER(game) LIKE ?", "%"+likePattern(game)+"%").
		Where("LOWER(region) LIKE ?", "%"+likePattern(region)+"%").
		Distinct("author_id").
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lft authors: %w", err)
	}
	return ids, nil
}

// DeactivateOlderThan marks active posts older than the cutoff as inactive
// and returns the affected count. Run by the scheduler.
func (r *LFTRepository) DeactivateOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Model(&models.LFTPost{}).
		Where("is_active = ? AND created_at < ?", true, cutoff).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate stale lft posts: %w", result.Error)
	}
	return result.RowsAffected, nil
}
