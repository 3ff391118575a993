package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vinverse/gamerlink-engine/internal/models"
)

// UserRepository handles user-related database operations.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user.
func (r *UserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, translateNotFound(err))
	}
	return &user, nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, translateNotFound(err))
	}
	return &user, nil
}

// ListByIDs retrieves users for a set of IDs, in primary key order.
func (r *UserRepository) ListByIDs(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListAll retrieves every user, in primary key order.
func (r *UserRepository) ListAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update updates a user.
func (r *UserRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdateActivity conditionally writes streak state for a user. The write
// only lands when last_active_date still equals prevLastActive, which makes
// concurrent same-day logins race-free: exactly one caller observes
// applied=true, the rest see the state someone else already wrote.
func (r *UserRepository) UpdateActivity(userID uint, prevLastActive *time.Time, streakDays int, lastActive time.Time) (bool, error) {
	query := r.db.Model(&models.User{}).Where("id = ?", userID)
	if prevLastActive == nil {
		query = query.Where("last_active_date IS NULL")
	} else {
		query = query.Where("last_active_date = ?", *prevLastActive)
	}

	result := query.Updates(map[string]interface{}{
		"streak_days":      streakDays,
		"last_active_date": lastActive,
	})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update activity for user %d: %w", userID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// NextVinID allocates the next VIN in the legacy "VIN-0000001" sequence by
// scanning existing IDs. Malformed values are skipped, never fatal.
func (r *UserRepository) NextVinID() (string, error) {
	var existing []string
	err := r.db.Model(&models.User{}).
		Where("vin_id IS NOT NULL AND vin_id <> ''").
		Pluck("vin_id", &existing).Error
	if err != nil {
		return "", fmt.Errorf("failed to list vin ids: %w", err)
	}

	maxNumber := 0
	for _, vin := range existing {
		parts := strings.SplitN(vin, "-", 2)
		if len(parts) != 2 || parts[0] != "VIN" {
			continue
		}
		number, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		if number > maxNumber {
			maxNumber = number
		}
	}

	return fmt.Sprintf("VIN-%07d", maxNumber+1), nil
}

// AssignVinID sets a VIN on users that do not have one yet.
func (r *UserRepository) AssignVinID(user *models.User) error {
	if user.VinID != "" {
		return nil
	}
	vin, err := r.NextVinID()
	if err != nil {
		return err
	}
	user.VinID = vin
	return r.Update(user)
}
