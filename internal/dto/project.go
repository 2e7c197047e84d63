package dto

import (
	"time"

	"github.com/tkzw-dev/issue-tracker-api/internal/models"
	"github.com/tkzw-dev/issue-tracker-api/internal/repository"
)

// ProjectDTO represents a project in API responses, including the per-status
// issue counts computed at query time.
type ProjectDTO struct {
	ID               uint64    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"created_at"`
	Owner            *UserDTO  `json:"owner"`
	IssueCount       int64     `json:"issue_count"`
	OpenIssues       int64     `json:"open_issues"`
	InProgressIssues int64     `json:"in_progress_issues"`
	ClosedIssues     int64     `json:"closed_issues"`
}

// ProjectRefDTO is the minimal project representation nested inside issues
type ProjectRefDTO struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Owner       *UserDTO `json:"owner"`
}

// ToProjectDTO converts a Project model and its counts to ProjectDTO
func ToProjectDTO(project models.Project, counts repository.IssueCounts) ProjectDTO {
	dto := ProjectDTO{
		ID:               project.ID,
		Name:             project.Name,
		Description:      project.Description,
		CreatedAt:        project.CreatedAt,
		IssueCount:       counts.Total,
		OpenIssues:       counts.Open,
		InProgressIssues: counts.InProgress,
		ClosedIssues:     counts.Closed,
	}

	if project.Owner != nil {
		owner := ToUserDTO(*project.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToProjectRefDTO converts a Project model to its nested representation
func ToProjectRefDTO(project models.Project) ProjectRefDTO {
	dto := ProjectRefDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
	}

	if project.Owner != nil {
		owner := ToUserDTO(*project.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToProjectListResponse converts projects with their counts
func ToProjectListResponse(projects []models.Project, counts map[uint64]repository.IssueCounts) []ProjectDTO {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project, counts[project.ID])
	}
	return items
}
