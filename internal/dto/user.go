package dto

import (
	"time"

	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID             uint64  `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	RoleLabel      string  `json:"role_label"`
	OrganisationID *uint64 `json:"organisation_id,omitempty"`
	DepartmentID   *uint64 `json:"department_id,omitempty"`
	State          string  `json:"state"`
}

// UserDetailDTO adds the archive record for administrators
type UserDetailDTO struct {
	UserDTO
	ArchivedByID *uint64    `json:"archived_by_id,omitempty"`
	ArchivedAt   *time.Time `json:"archived_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO                `json:"users"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Role:           user.Role.String(),
		RoleLabel:      user.Role.Label(),
		OrganisationID: user.OrganisationID,
		DepartmentID:   user.DepartmentID,
		State:          string(user.Lifecycle.State),
	}
}

// ToUserDetailDTO converts a User model to UserDetailDTO
func ToUserDetailDTO(user models.User) UserDetailDTO {
	return UserDetailDTO{
		UserDTO:      ToUserDTO(user),
		ArchivedByID: user.Lifecycle.ArchivedByID,
		ArchivedAt:   user.Lifecycle.ArchivedAt,
		CreatedAt:    user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return items
}

// ToUserListResponse converts a page of users to UserListResponse
func ToUserListResponse(users []models.User, params utils.PaginationParams, total int64) UserListResponse {
	return UserListResponse{
		Users: ToUserDTOs(users),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
