package services

import (
	"errors"
	"fmt"

	"github.com/tkzw-dev/issue-tracker-api/internal/models"
	"github.com/tkzw-dev/issue-tracker-api/internal/permissions"
	"github.com/tkzw-dev/issue-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidRole     = errors.New("invalid role")
)

// UserService handles user listing and role management
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// List retrieves all users
func (s *UserService) List() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get retrieves a user by ID
func (s *UserService) Get(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateRoleInput represents a role change with optional per-flag overrides
type UpdateRoleInput struct {
	Role              *models.Role
	CanCreateProjects *bool
	CanDeleteIssues   *bool
	CanAssignIssues   *bool
}

// UpdateRole changes a user's role and capability flags. Only admins may call
// this, verified before anything is touched. Setting a role first applies the
// role's capability defaults, then any explicitly supplied overrides win.
func (s *UserService) UpdateRole(actorProfile *models.Profile, targetUserID uint64, input UpdateRoleInput) (*models.User, error) {
	if !permissions.CanManageRoles(actorProfile) {
		return nil, ErrPermissionDenied
	}

	profile, err := s.userRepo.FindProfileByUserID(targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, ErrInvalidRole
		}
		profile.Role = *input.Role

		defaults := permissions.DefaultsFor(*input.Role)
		profile.CanCreateProjects = defaults.CanCreateProjects
		profile.CanDeleteIssues = defaults.CanDeleteIssues
		profile.CanAssignIssues = defaults.CanAssignIssues
	}

	if input.CanCreateProjects != nil {
		profile.CanCreateProjects = *input.CanCreateProjects
	}
	if input.CanDeleteIssues != nil {
		profile.CanDeleteIssues = *input.CanDeleteIssues
	}
	if input.CanAssignIssues != nil {
		profile.CanAssignIssues = *input.CanAssignIssues
	}

	if err := s.userRepo.UpdateProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.userRepo.FindByID(targetUserID)
}
