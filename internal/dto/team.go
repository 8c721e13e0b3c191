package dto

import (
	"time"

	"github.com/yukikurage/devtrack/internal/models"
)

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	DepartmentID *uint64   `json:"department_id,omitempty"`
	CreatedByID  *uint64   `json:"created_by_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TeamOverviewDTO lists everyone attached to a team
type TeamOverviewDTO struct {
	TeamDTO
	Members  []UserDTO `json:"members"`
	Managers []UserDTO `json:"managers"`
	Partners []UserDTO `json:"partners"`
}

// MembershipDTO represents a membership or assignment row
type MembershipDTO struct {
	UserID uint64    `json:"user_id"`
	TeamID uint64    `json:"team_id"`
	Since  time.Time `json:"since"`
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:           team.ID,
		Name:         team.Name,
		Description:  team.Description,
		DepartmentID: team.DepartmentID,
		CreatedByID:  team.CreatedByID,
		CreatedAt:    team.CreatedAt,
	}
}

// ToTeamOverviewDTO converts a team and its people to TeamOverviewDTO
func ToTeamOverviewDTO(team models.Team, members, managers, partners []models.User) TeamOverviewDTO {
	return TeamOverviewDTO{
		TeamDTO:  ToTeamDTO(team),
		Members:  ToUserDTOs(members),
		Managers: ToUserDTOs(managers),
		Partners: ToUserDTOs(partners),
	}
}
