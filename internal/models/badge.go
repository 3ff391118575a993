package models

import (
	"time"
)

// Badge type values.
const (
	BadgeTypeStreak      = "streak"
	BadgeTypeAchievement = "achievement"
)

// Well-known badge keys awarded by the eligibility engine.
const (
	BadgeFirstLogin      = "first_login"
	BadgeFirstTournament = "first_tournament"
	BadgeStreak7         = "streak_7"
	BadgeStreak30        = "streak_30"
	BadgeStreak100       = "streak_100"
)

// Badge represents a catalog entry users can earn.
type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"uniqueIndex;not null;size:50" json:"key"`
	Name        string    `gorm:"not null;size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:50" json:"icon"`
	Type        string    `gorm:"not null;size:20" json:"type"` // streak or achievement
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for Badge model.
func (Badge) TableName() string {
	return "badges"
}

// UserBadge represents a badge earned by a user. At most one row exists per
// (user, badge) pair; awards are never revoked.
type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index;uniqueIndex:uniq_user_badge" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BadgeID  uint      `gorm:"not null;index;uniqueIndex:uniq_user_badge" json:"badge_id"`
	Badge    Badge     `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
	EarnedAt time.Time `gorm:"not null" json:"earned_at"`
}

// TableName specifies the table name for UserBadge model.
func (UserBadge) TableName() string {
	return "user_badges"
}
