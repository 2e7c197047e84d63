package repository

import (
	"github.com/tkzw-dev/issue-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("Owner").First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves all projects, newest first
func (r *GormProjectRepository) List() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Preload("Owner").Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and everything it owns. Comments hang off issues,
// so they go first, then the issues, then the project itself.
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		issueIDs := tx.Model(&models.Issue{}).Select("id").Where("project_id = ?", id)

		if err := tx.Where("issue_id IN (?)", issueIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Issue{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// CountIssuesByStatus computes issue count projections at query time; the
// counts are never stored.
func (r *GormProjectRepository) CountIssuesByStatus(projectIDs []uint64) (map[uint64]IssueCounts, error) {
	counts := make(map[uint64]IssueCounts, len(projectIDs))
	if len(projectIDs) == 0 {
		return counts, nil
	}

	type row struct {
		ProjectID uint64
		Status    models.IssueStatus
		Count     int64
	}

	var rows []row
	err := r.db.Model(&models.Issue{}).
		Select("project_id, status, COUNT(*) AS count").
		Where("project_id IN ?", projectIDs).
		Group("project_id, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		c := counts[row.ProjectID]
		c.Total += row.Count
		switch row.Status {
		case models.IssueStatusOpen:
			c.Open = row.Count
		case models.IssueStatusInProgress:
			c.InProgress = row.Count
		case models.IssueStatusClosed:
			c.Closed = row.Count
		}
		counts[row.ProjectID] = c
	}

	return counts, nil
}
