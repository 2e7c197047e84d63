package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tkzw-dev/issue-tracker-api/internal/dto"
	apierrors "github.com/tkzw-dev/issue-tracker-api/internal/errors"
	"github.com/tkzw-dev/issue-tracker-api/internal/middleware"
	"github.com/tkzw-dev/issue-tracker-api/internal/models"
	"github.com/tkzw-dev/issue-tracker-api/internal/repository"
	"github.com/tkzw-dev/issue-tracker-api/internal/services"
	"github.com/tkzw-dev/issue-tracker-api/internal/utils"
)

// IssueHandler coordinates issue HTTP handlers.
type IssueHandler struct {
	issueService *services.IssueService
}

// NewIssueHandler creates a new IssueHandler
func NewIssueHandler(issueService *services.IssueService) *IssueHandler {
	return &IssueHandler{
		issueService: issueService,
	}
}

// ListIssues returns issues, optionally filtered by search, status, and
// priority. Public.
func (h *IssueHandler) ListIssues(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.IssueFilter{
		Search:   c.Query("search"),
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if status := c.Query("status"); status != "" {
		s := models.IssueStatus(status)
		filter.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.IssuePriority(priority)
		filter.Priority = &p
	}

	issues, total, err := h.issueService.List(filter)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueListResponse(issues, params.Page, params.Limit, total))
}

// ListProjectIssues returns issues scoped to a project. Public.
func (h *IssueHandler) ListProjectIssues(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	filter := repository.IssueFilter{
		ProjectID: &projectID,
		Search:    c.Query("search"),
		Page:      params.Page,
		PageSize:  params.Limit,
	}

	if status := c.Query("status"); status != "" {
		s := models.IssueStatus(status)
		filter.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.IssuePriority(priority)
		filter.Priority = &p
	}

	issues, total, err := h.issueService.List(filter)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueListResponse(issues, params.Page, params.Limit, total))
}

// GetIssue returns a single issue. Public.
func (h *IssueHandler) GetIssue(c *gin.Context) {
	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	issue, err := h.issueService.Get(issueID)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueDTO(*issue))
}

// CreateIssue files an issue under a project; the current user becomes the
// reporter regardless of the payload.
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateIssueRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Status      string `json:"status"`
		Priority    string `json:"priority"`
	}

	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	issue, err := h.issueService.Create(userID, projectID, services.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.IssueStatus(req.Status),
		Priority:    models.IssuePriority(req.Priority),
	})
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToIssueDTO(*issue))
}

// UpdateIssue applies a partial update. The raw payload is inspected to
// decide which permission rule governs the request.
func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	issue, err := h.issueService.Update(userID, middleware.GetProfile(c), issueID, fields)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueDTO(*issue))
}

// DeleteIssue removes an issue and its comment thread
func (h *IssueHandler) DeleteIssue(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.issueService.Delete(userID, middleware.GetProfile(c), issueID); err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Issue deleted successfully",
	})
}

func respondIssueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrIssueNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrAssigneeNotFound),
		errors.Is(err, services.ErrInvalidAssignee):
		apierrors.BadRequestWithDetails(c, "Validation failed", gin.H{"assignee_id": err.Error()})
	case errors.Is(err, services.ErrIssueTitleRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
