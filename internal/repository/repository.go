package repository

import (
	"github.com/tkzw-dev/issue-tracker-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithProfile creates a user and their profile within a single transaction.
	CreateWithProfile(user *models.User, profile *models.Profile) error

	// FindByID finds a user by ID with the profile preloaded
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List retrieves all users with profiles preloaded
	List() ([]models.User, error)

	// FindProfileByUserID finds the profile attached to a user
	FindProfileByUserID(userID uint64) (*models.Profile, error)

	// UpdateProfile persists profile changes
	UpdateProfile(profile *models.Profile) error
}

// IssueCounts holds per-status aggregate projections for a project.
type IssueCounts struct {
	Total      int64
	Open       int64
	InProgress int64
	Closed     int64
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with the owner preloaded
	FindByID(id uint64) (*models.Project, error)

	// List retrieves all projects ordered by creation time descending
	List() ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project together with its issues and their comments
	Delete(id uint64) error

	// CountIssuesByStatus computes issue count projections for the given projects
	CountIssuesByStatus(projectIDs []uint64) (map[uint64]IssueCounts, error)
}

// IssueFilter holds filtering options for listing issues
type IssueFilter struct {
	ProjectID *uint64
	Status    *models.IssueStatus
	Priority  *models.IssuePriority
	Search    string
	Page      int
	PageSize  int
}

// IssueRepository defines the interface for issue data access
type IssueRepository interface {
	// Create creates a new issue
	Create(issue *models.Issue) error

	// FindByID finds an issue by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Issue, error)

	// List retrieves issues with filtering and pagination, newest first
	List(filter IssueFilter) ([]models.Issue, int64, error)

	// Update updates an issue
	Update(issue *models.Issue) error

	// Delete deletes an issue together with its comments
	Delete(id uint64) error

	// UserExists reports whether a user with the given ID exists
	UserExists(id uint64) (bool, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID with the author preloaded
	FindByID(id uint64) (*models.Comment, error)

	// FindByIDForIssue finds a comment by ID scoped to an issue
	FindByIDForIssue(id, issueID uint64) (*models.Comment, error)

	// ListByIssue retrieves every comment on an issue, authors preloaded,
	// ordered by creation time ascending
	ListByIssue(issueID uint64) ([]models.Comment, error)
}
