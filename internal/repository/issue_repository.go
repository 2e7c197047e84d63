package repository

import (
	"github.com/tkzw-dev/issue-tracker-api/internal/database"
	"github.com/tkzw-dev/issue-tracker-api/internal/models"
	"github.com/tkzw-dev/issue-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// GormIssueRepository is a GORM implementation of IssueRepository
type GormIssueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new IssueRepository
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &GormIssueRepository{db: db}
}

// Create creates a new issue
func (r *GormIssueRepository) Create(issue *models.Issue) error {
	return r.db.Create(issue).Error
}

// FindByID finds an issue by ID with optional preloading
func (r *GormIssueRepository) FindByID(id uint64, preload ...string) (*models.Issue, error) {
	var issue models.Issue
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&issue, id).Error; err != nil {
		return nil, err
	}

	return &issue, nil
}

// List retrieves issues with filtering and pagination
func (r *GormIssueRepository) List(filter IssueFilter) ([]models.Issue, int64, error) {
	var issues []models.Issue

	query := r.db.Model(&models.Issue{})

	if filter.ProjectID != nil {
		query = query.Where("issues.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("issues.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("issues.priority = ?", *filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("issues.title LIKE ? OR issues.description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("issues.created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	err := listQuery.
		Preload("Project").
		Preload("Project.Owner").
		Preload("Reporter").
		Preload("Assignee").
		Find(&issues).Error
	if err != nil {
		return nil, 0, err
	}

	return issues, total, nil
}

// Update updates an issue
func (r *GormIssueRepository) Update(issue *models.Issue) error {
	return r.db.Save(issue).Error
}

// Delete removes an issue and its comment thread
func (r *GormIssueRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("issue_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Issue{}, id).Error
	})
}

// UserExists reports whether a user with the given ID exists
func (r *GormIssueRepository) UserExists(id uint64) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
