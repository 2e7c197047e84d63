package dto

import (
	"github.com/tkzw-dev/issue-tracker-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Profile  *ProfileDTO `json:"profile,omitempty"`
}

// ProfileDTO represents a user's role and capability flags
type ProfileDTO struct {
	Role              models.Role `json:"role"`
	CanCreateProjects bool        `json:"can_create_projects"`
	CanDeleteIssues   bool        `json:"can_delete_issues"`
	CanAssignIssues   bool        `json:"can_assign_issues"`
}

// TokenResponse carries an issued token pair alongside the user
type TokenResponse struct {
	User    UserDTO `json:"user"`
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToUserWithProfileDTO converts a User model including its profile
func ToUserWithProfileDTO(user models.User) UserDTO {
	dto := ToUserDTO(user)
	if user.Profile != nil {
		dto.Profile = &ProfileDTO{
			Role:              user.Profile.Role,
			CanCreateProjects: user.Profile.CanCreateProjects,
			CanDeleteIssues:   user.Profile.CanDeleteIssues,
			CanAssignIssues:   user.Profile.CanAssignIssues,
		}
	}
	return dto
}
