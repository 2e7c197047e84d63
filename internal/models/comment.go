package models

import (
	"time"
)

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	IssueID   uint64    `gorm:"not null" json:"issue_id"`
	AuthorID  uint64    `gorm:"not null" json:"author_id"`
	// ParentCommentID forms a thread. Storage permits arbitrary depth even
	// though listings render replies nested under top-level comments.
	ParentCommentID *uint64 `json:"parent_comment_id"`

	// Relations
	Issue   Issue     `gorm:"foreignKey:IssueID;constraint:OnDelete:CASCADE" json:"-"`
	Author  User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Parent  *Comment  `gorm:"foreignKey:ParentCommentID;constraint:OnDelete:CASCADE" json:"-"`
	Replies []Comment `gorm:"foreignKey:ParentCommentID" json:"replies,omitempty"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
