package repository

import (
	"fmt"
	"time"

	"github.com/vinverse/gamerlink-engine/internal/models"
)

// TeamRepository handles team and membership operations.
type TeamRepository struct {
	db *DB
}

// NewTeamRepository creates a new team repository.
func NewTeamRepository(db *DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create creates a new team.
func (r *TeamRepository) Create(team *models.Team) error {
	if err := r.db.Create(team).Error; err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// AddMember adds a user to a team. Re-adding is a no-op.
func (r *TeamRepository) AddMember(teamID, userID uint) error {
	var count int64
	err := r.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if count > 0 {
		return nil
	}

	member := &models.TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	if err := r.db.Create(member).Error; err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

// CountTeamsForUser returns how many teams in the given game the user
// belongs to.
func (r *TeamRepository) CountTeamsForUser(userID uint, game string) (int, error) {
	var count int64
	err := r.db.Model(&models.TeamMember{}).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.user_id = ?", userID).
		Where("teams.game = ?", game).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count teams for user %d: %w", userID, err)
	}
	return int(count), nil
}

// TeammateIDs returns the IDs of every user sharing a team with the given
// user in the given game, excluding the user themselves.
func (r *TeamRepository) TeammateIDs(userID uint, game string) ([]uint, error) {
	var teamIDs []uint
	err := r.db.Model(&models.TeamMember{}).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.user_id = ?", userID).
		Where("teams.game = ?", game).
		Pluck("team_members.team_id", &teamIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for user %d: %w", userID, err)
	}
	if len(teamIDs) == 0 {
		return nil, nil
	}

	var teammateIDs []uint
	err = r.db.Model(&models.TeamMember{}).
		Where("team_id IN ?", teamIDs).
		Where("user_id <> ?", userID).
		Distinct("user_id").
		Pluck("user_id", &teammateIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list teammates for user %d: %w", userID, err)
	}
	return teammateIDs, nil
}

// TeammateIDsForTeam returns the member IDs of the first team the user
// belongs to for a game, excluding the user. Used by the insight job to pick
// teammates for the win-probability estimate.
func (r *TeamRepository) TeammateIDsForTeam(userID uint, game string) ([]uint, error) {
	var teamIDs []uint
	err := r.db.Model(&models.TeamMember{}).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.user_id = ?", userID).
		Where("teams.game = ?", game).
		Order("team_members.team_id ASC").
		Limit(1).
		Pluck("team_members.team_id", &teamIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find team for user %d: %w", userID, err)
	}
	if len(teamIDs) == 0 {
		return nil, nil
	}

	var memberIDs []uint
	err = r.db.Model(&models.TeamMember{}).
		Where("team_id = ?", teamIDs[0]).
		Where("user_id <> ?", userID).
		Pluck("user_id", &memberIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", teamIDs[0], err)
	}
	return memberIDs, nil
}
