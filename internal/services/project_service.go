package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tkzw-dev/issue-tracker-api/internal/models"
	"github.com/tkzw-dev/issue-tracker-api/internal/permissions"
	"github.com/tkzw-dev/issue-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrPermissionDenied is returned whenever the permission engine rejects
	// an action. Shared by every service in this package.
	ErrPermissionDenied = errors.New("permission denied")

	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNameRequired = errors.New("project name is required")
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput represents input for updating a project
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// List returns every project together with its issue count projections.
// The catalog is public, so no principal is involved.
func (s *ProjectService) List() ([]models.Project, map[uint64]repository.IssueCounts, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list projects: %w", err)
	}

	ids := make([]uint64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	counts, err := s.projectRepo.CountIssuesByStatus(ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count issues: %w", err)
	}

	return projects, counts, nil
}

// Get returns a single project with its issue count projections
func (s *ProjectService) Get(projectID uint64) (*models.Project, repository.IssueCounts, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.IssueCounts{}, ErrProjectNotFound
		}
		return nil, repository.IssueCounts{}, fmt.Errorf("failed to find project: %w", err)
	}

	counts, err := s.projectRepo.CountIssuesByStatus([]uint64{projectID})
	if err != nil {
		return nil, repository.IssueCounts{}, fmt.Errorf("failed to count issues: %w", err)
	}

	return project, counts[projectID], nil
}

// Create creates a project owned by the actor, provided their profile grants
// project creation.
func (s *ProjectService) Create(actorID uint64, actorProfile *models.Profile, input CreateProjectInput) (*models.Project, error) {
	if !permissions.CanCreateProject(actorProfile) {
		return nil, ErrPermissionDenied
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		OwnerID:     &actorID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID)
}

// Update updates a project if the actor owns it
func (s *ProjectService) Update(actorID, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if !permissions.CanModifyProject(actorID, project) {
		return nil, ErrPermissionDenied
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID)
}

// Delete deletes a project if the actor owns it
func (s *ProjectService) Delete(actorID, projectID uint64) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if !permissions.CanModifyProject(actorID, project) {
		return ErrPermissionDenied
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}
