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
	ErrIssueNotFound      = errors.New("issue not found")
	ErrIssueTitleRequired = errors.New("title is required")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrAssigneeNotFound   = errors.New("user with this id does not exist")
	ErrInvalidAssignee    = errors.New("assignee_id must be an integer")
)

// IssueService handles issue business logic
type IssueService struct {
	issueRepo   repository.IssueRepository
	projectRepo repository.ProjectRepository
}

// NewIssueService creates a new IssueService
func NewIssueService(issueRepo repository.IssueRepository, projectRepo repository.ProjectRepository) *IssueService {
	return &IssueService{
		issueRepo:   issueRepo,
		projectRepo: projectRepo,
	}
}

// CreateIssueInput represents input for creating an issue
type CreateIssueInput struct {
	Title       string
	Description string
	Status      models.IssueStatus
	Priority    models.IssuePriority
}

// List returns issues matching the filter. When the filter is scoped to a
// project, the project must exist.
func (s *IssueService) List(filter repository.IssueFilter) ([]models.Issue, int64, error) {
	if filter.ProjectID != nil {
		if _, err := s.projectRepo.FindByID(*filter.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrProjectNotFound
			}
			return nil, 0, fmt.Errorf("failed to find project: %w", err)
		}
	}

	issues, total, err := s.issueRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list issues: %w", err)
	}

	return issues, total, nil
}

// Get returns an issue with related data
func (s *IssueService) Get(issueID uint64) (*models.Issue, error) {
	issue, err := s.issueRepo.FindByID(issueID, "Project", "Project.Owner", "Reporter", "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}

	return issue, nil
}

// Create files an issue against a project. Any authenticated principal may do
// this; the actor always becomes the reporter, never the client payload.
func (s *IssueService) Create(actorID, projectID uint64, input CreateIssueInput) (*models.Issue, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrIssueTitleRequired
	}

	if input.Status == "" {
		input.Status = models.IssueStatusOpen
	} else if !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	if input.Priority == "" {
		input.Priority = models.IssuePriorityMedium
	} else if !input.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	issue := &models.Issue{
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		ProjectID:   projectID,
		ReporterID:  actorID,
	}

	if err := s.issueRepo.Create(issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	return s.issueRepo.FindByID(issue.ID, "Project", "Project.Owner", "Reporter", "Assignee")
}

// Update applies a partial update from a raw payload. Which permission rule
// governs depends on the payload: touching assignee at all routes the whole
// request through the assignment rule, otherwise the general update rule
// applies. The permission decision happens before any field is validated or
// written, so a deny leaves the issue untouched.
func (s *IssueService) Update(actorID uint64, actorProfile *models.Profile, issueID uint64, fields map[string]any) (*models.Issue, error) {
	issue, err := s.issueRepo.FindByID(issueID, "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}

	if permissions.IsAssignmentUpdate(fields) {
		if !permissions.CanAssignIssue(actorID, actorProfile, issue) {
			return nil, ErrPermissionDenied
		}
	} else if !permissions.CanUpdateIssue(actorID, issue) {
		return nil, ErrPermissionDenied
	}

	if raw, ok := fields["title"]; ok {
		title, ok := raw.(string)
		if !ok || strings.TrimSpace(title) == "" {
			return nil, ErrIssueTitleRequired
		}
		issue.Title = strings.TrimSpace(title)
	}
	if raw, ok := fields["description"]; ok {
		if description, ok := raw.(string); ok {
			issue.Description = description
		}
	}
	if raw, ok := fields["status"]; ok {
		status, ok := raw.(string)
		if !ok || !models.IssueStatus(status).IsValid() {
			return nil, ErrInvalidStatus
		}
		issue.Status = models.IssueStatus(status)
	}
	if raw, ok := fields["priority"]; ok {
		priority, ok := raw.(string)
		if !ok || !models.IssuePriority(priority).IsValid() {
			return nil, ErrInvalidPriority
		}
		issue.Priority = models.IssuePriority(priority)
	}

	// Assignee resolution runs only after the permission check passed.
	if raw, ok := fields["assignee_id"]; ok {
		if err := s.applyAssignee(issue, raw); err != nil {
			return nil, err
		}
	}

	if err := s.issueRepo.Update(issue); err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}

	return s.issueRepo.FindByID(issue.ID, "Project", "Project.Owner", "Reporter", "Assignee")
}

// applyAssignee interprets the raw assignee_id value: null is a no-op, zero or
// an empty string clears the assignee, anything else must resolve to an
// existing user.
func (s *IssueService) applyAssignee(issue *models.Issue, raw any) error {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v != "" {
			return ErrInvalidAssignee
		}
		issue.AssigneeID = nil
		issue.Assignee = nil
	case float64:
		if v != float64(uint64(v)) || v < 0 {
			return ErrInvalidAssignee
		}
		id := uint64(v)
		if id == 0 {
			issue.AssigneeID = nil
			issue.Assignee = nil
			return nil
		}
		exists, err := s.issueRepo.UserExists(id)
		if err != nil {
			return fmt.Errorf("failed to resolve assignee: %w", err)
		}
		if !exists {
			return ErrAssigneeNotFound
		}
		issue.AssigneeID = &id
	default:
		return ErrInvalidAssignee
	}
	return nil
}

// Delete deletes an issue if the permission engine allows it
func (s *IssueService) Delete(actorID uint64, actorProfile *models.Profile, issueID uint64) error {
	issue, err := s.issueRepo.FindByID(issueID, "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIssueNotFound
		}
		return fmt.Errorf("failed to find issue: %w", err)
	}

	if !permissions.CanDeleteIssue(actorID, actorProfile, issue) {
		return ErrPermissionDenied
	}

	if err := s.issueRepo.Delete(issueID); err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}

	return nil
}
