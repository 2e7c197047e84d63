package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tkzw-dev/issue-tracker-api/internal/database"
	"github.com/tkzw-dev/issue-tracker-api/internal/models"
	"github.com/tkzw-dev/issue-tracker-api/internal/repository"
	"github.com/tkzw-dev/issue-tracker-api/internal/services"
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
)

// IssueHandlerTestSuite defines the test suite for IssueHandler
type IssueHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *IssueHandler
}

// SetupTest runs before each test
func (suite *IssueHandlerTestSuite) SetupTest() {
	suite.db = openTestDB(suite.T())
	database.SetDB(suite.db)

	issueRepo := repository.NewIssueRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	suite.handler = NewIssueHandler(services.NewIssueService(issueRepo, projectRepo))

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *IssueHandlerTestSuite) TearDownTest() {
	closeTestDB(suite.T(), suite.db)
}

func createTestIssue(db *gorm.DB, projectID, reporterID uint64) *models.Issue {
	issue := &models.Issue{
		Title:      "Test Issue",
		Status:     models.IssueStatusOpen,
		Priority:   models.IssuePriorityMedium,
		ProjectID:  projectID,
		ReporterID: reporterID,
	}
	db.Create(issue)
	return issue
}

// TestListIssues_FiltersByStatus exercises status filtering over the public list
func (suite *IssueHandlerTestSuite) TestListIssues_FiltersByStatus() {
	reporter := createTestUser(suite.db, "reporter", models.RoleDeveloper)
	project := createTestProject(suite.db, "P", &reporter.ID)

	suite.db.Create(&models.Issue{Title: "Open one", Status: models.IssueStatusOpen, Priority: models.IssuePriorityLow, ProjectID: project.ID, ReporterID: reporter.ID})
	suite.db.Create(&models.Issue{Title: "Closed one", Status: models.IssueStatusClosed, Priority: models.IssuePriorityLow, ProjectID: project.ID, ReporterID: reporter.ID})

	c, w := newTestContext("GET", "/api/issues?status=open", nil)

	suite.handler.ListIssues(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	issues := response["issues"].([]interface{})
	assert.Len(suite.T(), issues, 1)
	assert.Equal(suite.T(), "Open one", issues[0].(map[string]interface{})["title"])
	assert.Equal(suite.T(), float64(1), response["total_count"])
}

// TestListIssues_SearchMatchesTitleOrDescription exercises substring search
func (suite *IssueHandlerTestSuite) TestListIssues_SearchMatchesTitleOrDescription() {
	reporter := createTestUser(suite.db, "reporter", models.RoleDeveloper)
	project := createTestProject(suite.db, "P", &reporter.ID)

	suite.db.Create(&models.Issue{Title: "Login crash", Status: models.IssueStatusOpen, Priority: models.IssuePriorityLow, ProjectID: project.ID, ReporterID: reporter.ID})
	suite.db.Create(&models.Issue{Title: "Other", Description: "crash on save", Status: models.IssueStatusOpen, Priority: models.IssuePriorityLow, ProjectID: project.ID, ReporterID: reporter.ID})
	suite.db.Create(&models.Issue{Title: "Unrelated", Status: models.IssueStatusOpen, Priority: models.IssuePriorityLow, ProjectID: project.ID, ReporterID: reporter.ID})

	c, w := newTestContext("GET", "/api/issues?search=crash", nil)

	suite.handler.ListIssues(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), float64(2), response["total_count"])
}

// TestListProjectIssues_MissingProjectNotFound confirms a scoped listing
// checks the parent first
func (suite *IssueHandlerTestSuite) TestListProjectIssues_MissingProjectNotFound() {
	c, w := newTestContext("GET", "/api/projects/999/issues", nil)
	setIDParam(c, "999")

	suite.handler.ListProjectIssues(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCreateIssue_ReporterIsCurrentUser confirms the reporter is taken from
// the credential, not the payload
func (suite *IssueHandlerTestSuite) TestCreateIssue_ReporterIsCurrentUser() {
	reporter := createTestUser(suite.db, "reporter", models.RoleGuest)
	owner := createTestUser(suite.db, "owner", models.RoleDeveloper)
	project := createTestProject(suite.db, "P", &owner.ID)

	body, _ := json.Marshal(map[string]interface{}{"title": "Bug", "priority": "high"})
	c, w := newAuthContext("POST", "/api/projects/1", body, reporter)
	setIDParam(c, "1")

	suite.handler.CreateIssue(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var issue models.Issue
	suite.db.First(&issue)
	assert.Equal(suite.T(), reporter.ID, issue.ReporterID)
	assert.Equal(suite.T(), project.ID, issue.ProjectID)
	assert.Equal(suite.T(), models.IssueStatusOpen, issue.Status)
	assert.Equal(suite.T(), models.IssuePriorityHigh, issue.Priority)
}

// TestCreateIssue_InvalidStatusRejected covers enum validation on create
func (suite *IssueHandlerTestSuite) TestCreateIssue_InvalidStatusRejected() {
	reporter := createTestUser(suite.db, "reporter", models.RoleDeveloper)
	createTestProject(suite.db, "P", &reporter.ID)

	body, _ := json.Marshal(map[string]interface{}{"title": "Bug", "status": "done"})
	c, w := newAuthContext("POST", "/api/projects/1", body, reporter)
	setIDParam(c, "1")

	suite.handler.CreateIssue(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateIssue_ReporterCanEditFields confirms the reporter may change
// ordinary fields
func (suite *IssueHandlerTestSuite) TestUpdateIssue_ReporterCanEditFields() {
	owner := createTestUser(suite.db, "owner", models.RoleDeveloper)
	reporter := createTestUser(suite.db, "reporter", models.RoleTester)
	project := createTestProject(suite.db, "P", &owner.ID)
	issue := createTestIssue(suite.db, project.ID, reporter.ID)

	body, _ := json.Marshal(map[string]interface{}{"status": "closed", "title": "Renamed"})
	c, w := newAuthContext("PATCH", "/api/issues/1", body, reporter)
	setIDParam(c, "1")

	suite.handler.UpdateIssue(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var reloaded models.Issue
	suite.db.First(&reloaded, issue.ID)
	assert.Equal(suite.T(), models.IssueStatusClosed, reloaded.Status)
	assert.Equal(suite.T(), "Renamed", reloaded.Title)
}

// TestUpdateIssue_UninvolvedUserForbidden confirms bystanders cannot touch
// an issue
func (suite *IssueHandlerTestSuite) TestUpdateIssue_UninvolvedUserForbidden() {
	owner := createTestUser(suite.db, "owner", models.RoleDeveloper)
	bystander := createTestUser(suite.db, "bystander", models.RoleDeveloper)
	project := createTestProject(suite.db, "P", &owner.ID)
	issue := createTestIssue(suite.db, project.ID, owner.ID)

	body, _ := json.Marshal(map[string]interface{}{"status": "closed"})
	c, w := newAuthContext("PATCH", "/api/issues/1", body, bystander)
	setIDParam(c, "1")

	suite.handler.UpdateIssue(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var reloaded models.Issue
	suite.db.First(&reloaded, issue.ID)
	assert.Equal(suite.T(), models.IssueStatusOpen, reloaded.Status)
}

// TestUpdateIssue_RepeatedCloseIsIdempotent applies the same status twice
func (suite *IssueHandlerTestSuite) TestUpdateIssue_RepeatedCloseIsIdempotent() {
	reporter := createTestUser(suite.db, "reporter", models.RoleDeveloper)
	project := createTestProject(suite.db, "P", &reporter.ID)
	issue := createTestIssue(suite.db, project.ID, reporter.ID)

	for i := 0; i < 2; i++ {
		body, _ := json.Marshal(map[string]interface{}{"status": "closed"})
		c, w := newAuthContext("PATCH", "/api/issues/1", body, reporter)
		setIDParam(c, "1")

		suite.handler.UpdateIssue(c)

		assert.Equal(suite.T(), http.StatusOK, w.Code)
	}

	var reloaded models.Issue
	suite.db.First(&reloaded, issue.ID)
	assert.Equal(suite.T(), models.IssueStatusClosed, reloaded.Status)
}

// TestUpdateIssue_AssignmentRequiresPrivilege is the assignment workflow:
// the reporter may edit the issue but not hand it to someone, the project
// owner may, and the new assignee can then move the status along.
func (suite *IssueHandlerTestSuite) TestUpdateIssue_AssignmentRequiresPrivilege() {
	userA := createTestUser(suite.db, "usera", models.RoleDeveloper)
	userB := createTestUser(suite.db, "userb", models.RoleDeveloper)
	project := createTestProject(suite.db, "P", &userA.ID)
	issue := createTestIssue(suite.db, project.ID, userA.ID)

	// B tries to grab the issue
	body, _ := json.Marshal(map[string]interface{}{"assignee_id": userB.ID})
	c, w := newAuthContext("PATCH", "/api/issues/1", body, userB)
	setIDParam(c, "1")

	suite.handler.UpdateIssue(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var reloaded models.Issue
	suite.db.First(&reloaded, issue.ID)
	assert.Nil(suite.T(), reloaded.AssigneeID)

	// A, the project owner, assigns B
	body, _ = json.Marshal(map[string]interface{}{"assignee_id": userB.ID})
	c, w = newAuthContext("PATCH", "/api/issues/1", body, userA)
	setIDParam(c, "1")

	suite.handler.UpdateIssue(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	suite.db.First(&reloaded, issue.ID)
	suite.Require().NotNil(reloaded.AssigneeID)
	assert.Equal(suite.T(), userB.ID, *reloaded.AssigneeID)

	// B is now the assignee and may update fields
	body, _ = json.Marshal(map[string]interface{}{"status": "in_progress"})
	c, w = newAuthContext("PATCH", "/api/issues/1", body, userB)
	setIDParam(c, "1")

	suite.handler.UpdateIssue(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	suite.db.First(&reloaded, issue.ID)
	assert.Equal(suite.T(), models.IssueStatusInProgress, reloaded.Status)
}

// TestUpdateIssue_AssignmentRuleGovernsMixedPayload confirms that a payload
// touching assignment switches the whole request to the stricter rule
func (suite *IssueHandlerTestSuite) TestUpdateIssue_AssignmentRuleGovernsMixedPayload() {
	owner := createTestUser(suite.db, "owner", models.RoleDeveloper)
	reporter := createTestUser(suite.db, "reporter", models.RoleDeveloper)
	project := createTestProject(suite.db, "P", &owner.ID)
	issue := createTestIssue(suite.db, project.ID, reporter.ID)

	body, _ := json.Marshal(map[string]interface{}{"status": "closed", "assignee_id": reporter.ID})
	c, w := newAuthContext("PATCH", "/api/issues/1", body, reporter)
	setIDParam(c, "1")

	suite.handler.UpdateIssue(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// Nothing changed, status included
	var reloaded models.Issue
	suite.db.First(&reloaded, issue.ID)
	assert.Equal(suite.T(), models.IssueStatusOpen, reloaded.Status)
	assert.Nil(suite.T(), reloaded.AssigneeID)
}

// TestUpdateIssue_CanAssignFlagGrantsAssignment confirms the per-user
// override works on projects the actor does not own
func (suite *IssueHandlerTestSuite) TestUpdateIssue_CanAssignFlagGrantsAssignment() {
	owner := createTestUser(suite.db, "owner", models.RoleDeveloper)
	lead := createTestUser(suite.db, "lead", models.RoleTester)
	lead.Profile.CanAssignIssues = true
	suite.db.Save(lead.Profile)

	project := createTestProject(suite.db, "P", &owner.ID)
	createTestIssue(suite.db, project.ID, owner.ID)

	body, _ := json.Marshal(map[string]interface{}{"assignee_id": owner.ID})
	c, w := newAuthContext("PATCH", "/api/issues/1", body, lead)
	setIDParam(c, "1")

	suite.handler.UpdateIssue(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestUpdateIssue_UnknownAssigneeValidationError names the offending field
func (suite *IssueHandlerTestSuite) TestUpdateIssue_UnknownAssigneeValidationError() {
	owner := createTestUser(suite.db, "owner", models.RoleDeveloper)
	project := createTestProject(suite.db, "P", &owner.ID)
	issue := createTestIssue(suite.db, project.ID, owner.ID)

	body, _ := json.Marshal(map[string]interface{}{"assignee_id": 9999})
	c, w := newAuthContext("PATCH", "/api/issues/1", body, owner)
	setIDParam(c, "1")

	suite.handler.UpdateIssue(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	details := response["details"].(map[string]interface{})
	assert.Contains(suite.T(), details, "assignee_id")

	var reloaded models.Issue
	suite.db.First(&reloaded, issue.ID)
	assert.Nil(suite.T(), reloaded.AssigneeID)
}

// TestUpdateIssue_ZeroClearsAssignee confirms 0 unassigns
func (suite *IssueHandlerTestSuite) TestUpdateIssue_ZeroClearsAssignee() {
	owner := createTestUser(suite.db, "owner", models.RoleDeveloper)
	project := createTestProject(suite.db, "P", &owner.ID)
	issue := createTestIssue(suite.db, project.ID, owner.ID)
	suite.db.Model(issue).Update("assignee_id", owner.ID)

	body, _ := json.Marshal(map[string]interface{}{"assignee_id": 0})
	c, w := newAuthContext("PATCH", "/api/issues/1", body, owner)
	setIDParam(c, "1")

	suite.handler.UpdateIssue(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var reloaded models.Issue
	suite.db.First(&reloaded, issue.ID)
	assert.Nil(suite.T(), reloaded.AssigneeID)
}

// TestDeleteIssue_FlagOnlyHelpsReporter covers the delete rule: the flag
// lets a reporter remove their own issue but grants nothing on others'
func (suite *IssueHandlerTestSuite) TestDeleteIssue_FlagOnlyHelpsReporter() {
	owner := createTestUser(suite.db, "owner", models.RoleProjectManager)
	reporter := createTestUser(suite.db, "reporter", models.RoleTester)
	reporter.Profile.CanDeleteIssues = true
	suite.db.Save(reporter.Profile)

	project := createTestProject(suite.db, "P", &owner.ID)
	own := createTestIssue(suite.db, project.ID, reporter.ID)
	foreign := createTestIssue(suite.db, project.ID, owner.ID)

	c, w := newAuthContext("DELETE", "/api/issues/2", nil, reporter)
	setIDParam(c, "2")

	suite.handler.DeleteIssue(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	c, w = newAuthContext("DELETE", "/api/issues/1", nil, reporter)
	setIDParam(c, "1")

	suite.handler.DeleteIssue(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Issue{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)

	var remaining models.Issue
	suite.db.First(&remaining)
	assert.Equal(suite.T(), foreign.ID, remaining.ID)
	assert.NotEqual(suite.T(), own.ID, remaining.ID)
}

// TestDeleteIssue_RemovesCommentThread verifies the issue cascade
func (suite *IssueHandlerTestSuite) TestDeleteIssue_RemovesCommentThread() {
	owner := createTestUser(suite.db, "owner", models.RoleAdmin)
	project := createTestProject(suite.db, "P", &owner.ID)
	issue := createTestIssue(suite.db, project.ID, owner.ID)
	suite.db.Create(&models.Comment{Content: "c1", IssueID: issue.ID, AuthorID: owner.ID})

	c, w := newAuthContext("DELETE", "/api/issues/1", nil, owner)
	setIDParam(c, "1")

	suite.handler.DeleteIssue(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var comments int64
	suite.db.Model(&models.Comment{}).Count(&comments)
	assert.Equal(suite.T(), int64(0), comments)
}

func TestIssueHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(IssueHandlerTestSuite))
}
