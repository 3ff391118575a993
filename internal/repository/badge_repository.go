package repository

import (
	"fmt"
	"time"

	"github.com/vinverse/gamerlink-engine/internal/models"
)

// BadgeRepository handles badge-related database operations.
type BadgeRepository struct {
	db *DB
}

// NewBadgeRepository creates a new badge repository.
func NewBadgeRepository(db *DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// Create creates a new badge in the database.
func (r *BadgeRepository) Create(badge *models.Badge) error {
	return r.db.Create(badge).Error
}

// GetByKey retrieves a badge by its unique key.
func (r *BadgeRepository) GetByKey(key string) (*models.Badge, error) {
	var badge models.Badge
	if err := r.db.Where("key = ?", key).First(&badge).Error; err != nil {
		return nil, fmt.Errorf("failed to get badge %q: %w", key, translateNotFound(err))
	}
	return &badge, nil
}

// GetAll retrieves all badges from the catalog.
func (r *BadgeRepository) GetAll() ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.Order("created_at ASC").Find(&badges).Error
	return badges, err
}

// SeedCatalog inserts catalog entries that are not present yet. Existing
// rows are left untouched so the catalog stays append-only.
func (r *BadgeRepository) SeedCatalog(badges []models.Badge) error {
	for i := range badges {
		var count int64
		if err := r.db.Model(&models.Badge{}).Where("key = ?", badges[i].Key).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check badge %q: %w", badges[i].Key, err)
		}
		if count > 0 {
			continue
		}
		if err := r.db.Create(&badges[i]).Error; err != nil {
			return fmt.Errorf("failed to seed badge %q: %w", badges[i].Key, err)
		}
	}
	return nil
}

// AwardBadge awards a badge to a user. Awarding an already-held badge is a
// successful no-op.
func (r *BadgeRepository) AwardBadge(userID, badgeID uint) error {
	earned, err := r.HasUserEarnedBadge(userID, badgeID)
	if err != nil {
		return err
	}
	if earned {
		return nil
	}

	userBadge := &models.UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: time.Now(),
	}
	return r.db.Create(userBadge).Error
}

// HasUserEarnedBadge checks if a user has earned a specific badge.
func (r *BadgeRepository) HasUserEarnedBadge(userID, badgeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserBadges retrieves all badges earned by a user with details preloaded.
func (r *BadgeRepository) GetUserBadges(userID uint) ([]models.UserBadge, error) {
	var userBadges []models.UserBadge
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Badge").
		Order("earned_at DESC").
		Find(&userBadges).Error
	return userBadges, err
}

// GetBadgeHoldersCount returns the number of users who have earned a badge.
func (r *BadgeRepository) GetBadgeHoldersCount(badgeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("badge_id = ?", badgeID).
		Count(&count).Error
	return count, err
}

// GetUserBadgeCount returns the total number of badges a user has earned.
func (r *BadgeRepository) GetUserBadgeCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
