package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tkzw-dev/issue-tracker-api/internal/dto"
	apierrors "github.com/tkzw-dev/issue-tracker-api/internal/errors"
	"github.com/tkzw-dev/issue-tracker-api/internal/middleware"
	"github.com/tkzw-dev/issue-tracker-api/internal/services"
)

// CommentHandler coordinates comment HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// ListComments returns the comment thread of an issue: top-level comments
// with replies nested, oldest first at every level. Public.
func (h *CommentHandler) ListComments(c *gin.Context) {
	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListThread(issueID)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentThread(comments))
}

// CreateComment adds a comment or reply to an issue; the current user becomes
// the author.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateCommentRequest struct {
		Content         string  `json:"content" binding:"required"`
		ParentCommentID *uint64 `json:"parent_comment"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(userID, issueID, services.CreateCommentInput{
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrIssueNotFound),
		errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrContentRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
