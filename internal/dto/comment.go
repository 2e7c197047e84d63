package dto

import (
	"time"

	"github.com/tkzw-dev/issue-tracker-api/internal/models"
)

// CommentDTO represents a comment in API responses. Replies are nested
// recursively, so storage depth beyond one level still renders.
type CommentDTO struct {
	ID              uint64       `json:"id"`
	Content         string       `json:"content"`
	CreatedAt       time.Time    `json:"created_at"`
	IssueID         uint64       `json:"issue_id"`
	Author          *UserDTO     `json:"author,omitempty"`
	ParentCommentID *uint64      `json:"parent_comment"`
	Replies         []CommentDTO `json:"replies"`
	ReplyCount      int          `json:"reply_count"`
}

// ToCommentDTO converts a single Comment model without resolving replies
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:              comment.ID,
		Content:         comment.Content,
		CreatedAt:       comment.CreatedAt,
		IssueID:         comment.IssueID,
		ParentCommentID: comment.ParentCommentID,
		Replies:         []CommentDTO{},
	}

	if comment.Author.ID != 0 {
		author := ToUserDTO(comment.Author)
		dto.Author = &author
	}

	return dto
}

// ToCommentThread assembles a flat, creation-ordered comment slice into the
// top-level list with replies nested under their parents. Input order is
// preserved, so every level stays sorted by creation time ascending.
func ToCommentThread(comments []models.Comment) []CommentDTO {
	children := make(map[uint64][]models.Comment)
	var topLevel []models.Comment

	for _, comment := range comments {
		if comment.ParentCommentID == nil {
			topLevel = append(topLevel, comment)
		} else {
			children[*comment.ParentCommentID] = append(children[*comment.ParentCommentID], comment)
		}
	}

	var build func(comment models.Comment) CommentDTO
	build = func(comment models.Comment) CommentDTO {
		dto := ToCommentDTO(comment)
		for _, reply := range children[comment.ID] {
			dto.Replies = append(dto.Replies, build(reply))
		}
		dto.ReplyCount = len(dto.Replies)
		return dto
	}

	result := make([]CommentDTO, len(topLevel))
	for i, comment := range topLevel {
		result[i] = build(comment)
	}

	return result
}
