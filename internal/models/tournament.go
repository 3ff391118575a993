package models

import (
	"time"
)

// Tournament represents a tournament users can join.
type Tournament struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:200" json:"name"`
	Game      string    `gorm:"not null;size:100;index" json:"game"`
	PrizePool float64   `json:"prize_pool"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Tournament model.
func (Tournament) TableName() string {
	return "tournaments"
}

// TournamentParticipant links a user to a tournament they joined.
type TournamentParticipant struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TournamentID uint       `gorm:"not null;index;uniqueIndex:uniq_tournament_user" json:"tournament_id"`
	Tournament   Tournament `gorm:"foreignKey:TournamentID" json:"tournament,omitempty"`
	UserID       uint       `gorm:"not null;index;uniqueIndex:uniq_tournament_user" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt     time.Time  `gorm:"not null" json:"joined_at"`
}

// TableName specifies the table name for TournamentParticipant model.
func (TournamentParticipant) TableName() string {
	return "tournament_participants"
}

// Team represents a player team for a specific game.
type Team struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null;size:200" json:"name"`
	Game       string    `gorm:"not null;size:100;index" json:"game"`
	Region     string    `gorm:"size:100" json:"region"`
	MaxMembers int       `gorm:"not null;default:5" json:"max_members"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for Team model.
func (Team) TableName() string {
	return "teams"
}

// TeamMember is the membership join row between teams and users.
type TeamMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TeamID   uint      `gorm:"not null;index;uniqueIndex:uniq_team_user" json:"team_id"`
	Team     Team      `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	UserID   uint      `gorm:"not null;index;uniqueIndex:uniq_team_user" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`
}

// TableName specifies the table name for TeamMember model.
func (TeamMember) TableName() string {
	return "team_members"
}
