// Package models defines domain models for the GamerLink matchmaking engine.
package models

import (
	"time"
)

// User represents a platform user with gamification state.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Username       string     `gorm:"uniqueIndex;not null;size:150" json:"username"`
	GamerTag       string     `gorm:"size:50" json:"gamer_tag"`
	VinID          string     `gorm:"column:vin_id;index;size:20" json:"vin_id"` // legacy sequence id, e.g. "VIN-0000001"
	Rank           string     `gorm:"size:100" json:"rank"`                            // free-text rank, parsed via ParseRankTier at boundaries
	XPPoints       int        `gorm:"column:xp_points;not null;default:0" json:"xp_points"`
	StreakDays     int        `gorm:"not null;default:0" json:"streak_days"`
	LastActiveDate *time.Time `gorm:"type:date" json:"last_active_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}

// LFTPost represents an active "looking for team" post authored by a user.
type LFTPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Game      string    `gorm:"not null;size:100" json:"game"`
	Rank      string    `gorm:"size:100" json:"rank"`
	Region    string    `gorm:"size:100" json:"region"`
	PlayStyle string    `gorm:"size:50" json:"play_style"`
	Message   string    `gorm:"type:text" json:"message"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for LFTPost model.
func (LFTPost) TableName() string {
	return "lft_posts"
}
