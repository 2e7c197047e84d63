package repository

import (
	"github.com/tkzw-dev/issue-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// FindByID finds a comment by ID
func (r *GormCommentRepository) FindByID(id uint64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByIDForIssue finds a comment by ID scoped to an issue
func (r *GormCommentRepository) FindByIDForIssue(id, issueID uint64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Where("id = ? AND issue_id = ?", id, issueID).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByIssue loads the whole thread flat; callers assemble the reply tree.
// A single query handles arbitrary nesting depth.
func (r *GormCommentRepository) ListByIssue(issueID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.
		Preload("Author").
		Where("issue_id = ?", issueID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
