package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tkzw-dev/issue-tracker-api/internal/models"
	"github.com/tkzw-dev/issue-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrContentRequired = errors.New("content is required")
)

// CommentService handles comment business logic
type CommentService struct {
	commentRepo repository.CommentRepository
	issueRepo   repository.IssueRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, issueRepo repository.IssueRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		issueRepo:   issueRepo,
	}
}

// ListThread returns the full comment thread of an issue, flat and ordered by
// creation time ascending. Callers nest replies under their parents.
func (s *CommentService) ListThread(issueID uint64) ([]models.Comment, error) {
	if _, err := s.issueRepo.FindByID(issueID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}

	comments, err := s.commentRepo.ListByIssue(issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// CreateCommentInput represents input for creating a comment
type CreateCommentInput struct {
	Content         string
	ParentCommentID *uint64
}

// Create adds a comment to an issue. The actor becomes the author. A parent
// comment, when given, must exist on the same issue; there is no depth limit.
func (s *CommentService) Create(actorID, issueID uint64, input CreateCommentInput) (*models.Comment, error) {
	if _, err := s.issueRepo.FindByID(issueID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}

	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrContentRequired
	}

	if input.ParentCommentID != nil {
		if _, err := s.commentRepo.FindByIDForIssue(*input.ParentCommentID, issueID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, fmt.Errorf("failed to find parent comment: %w", err)
		}
	}

	comment := &models.Comment{
		Content:         input.Content,
		IssueID:         issueID,
		AuthorID:        actorID,
		ParentCommentID: input.ParentCommentID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return s.commentRepo.FindByID(comment.ID)
}
