package models

import (
	"encoding/json"
	"time"
)

// Insight job states.
const (
	InsightStatusPending = "pending"
	InsightStatusDone    = "done"
)

// MatchInsight stores a generated performance insight for a user in a
// tournament. Populated asynchronously by the insight job; Summary stays
// empty while Status is pending.
type MatchInsight struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;index;uniqueIndex:uniq_user_tournament_insight" json:"user_id"`
	User         User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TournamentID uint            `gorm:"not null;index;uniqueIndex:uniq_user_tournament_insight" json:"tournament_id"`
	Tournament   Tournament      `gorm:"foreignKey:TournamentID" json:"tournament,omitempty"`
	Status       string          `gorm:"not null;size:20;default:pending" json:"status"`
	Summary      string          `gorm:"type:text" json:"summary"`
	Strengths    json.RawMessage `gorm:"type:jsonb" json:"strengths"`
	Improvements json.RawMessage `gorm:"type:jsonb" json:"improvements"`
	Score        float64         `json:"score"` // MVP score at generation time
	AIModel      string          `gorm:"column:ai_model;size:50" json:"ai_model"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// TableName specifies the table name for MatchInsight model.
func (MatchInsight) TableName() string {
	return "match_insights"
}
