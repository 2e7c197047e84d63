package dto

import (
	"time"

	"github.com/tkzw-dev/issue-tracker-api/internal/models"
)

// IssueDTO represents an issue in API responses
type IssueDTO struct {
	ID          uint64               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      models.IssueStatus   `json:"status"`
	Priority    models.IssuePriority `json:"priority"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Project     *ProjectRefDTO       `json:"project,omitempty"`
	Reporter    *UserDTO             `json:"reporter,omitempty"`
	Assignee    *UserDTO             `json:"assignee"`
}

// IssueListResponse represents a paginated list of issues
type IssueListResponse struct {
	Issues     []IssueDTO `json:"issues"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalCount int64      `json:"total_count"`
}

// ToIssueDTO converts an Issue model to IssueDTO
func ToIssueDTO(issue models.Issue) IssueDTO {
	dto := IssueDTO{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Status:      issue.Status,
		Priority:    issue.Priority,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}

	if issue.Project.ID != 0 {
		project := ToProjectRefDTO(issue.Project)
		dto.Project = &project
	}

	if issue.Reporter.ID != 0 {
		reporter := ToUserDTO(issue.Reporter)
		dto.Reporter = &reporter
	}

	if issue.Assignee != nil {
		assignee := ToUserDTO(*issue.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToIssueListResponse converts a slice of issues to IssueListResponse
func ToIssueListResponse(issues []models.Issue, page, pageSize int, totalCount int64) IssueListResponse {
	items := make([]IssueDTO, len(issues))
	for i, issue := range issues {
		items[i] = ToIssueDTO(issue)
	}

	return IssueListResponse{
		Issues:     items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
