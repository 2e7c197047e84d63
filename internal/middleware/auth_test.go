package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tkzw-dev/issue-tracker-api/internal/auth"
	"github.com/tkzw-dev/issue-tracker-api/internal/database"
	"github.com/tkzw-dev/issue-tracker-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AuthMiddlewareTestSuite defines the test suite for the auth middleware
type AuthMiddlewareTestSuite struct {
	suite.Suite
	db    *gorm.DB
	maker auth.TokenMaker
}

// SetupTest runs before each test
func (suite *AuthMiddlewareTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(&models.User{}, &models.Profile{}))

	suite.db = db
	database.SetDB(db)
	suite.maker = auth.NewJWTMaker("test-secret", time.Hour, 24*time.Hour)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *AuthMiddlewareTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthMiddlewareTestSuite) createUser(withProfile bool) *models.User {
	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	suite.db.Create(user)
	if withProfile {
		suite.db.Create(&models.Profile{UserID: user.ID, Role: models.RoleDeveloper, CanCreateProjects: true})
	}
	return user
}

func (suite *AuthMiddlewareTestSuite) run(authHeader string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/auth/user", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}

	RequireAuth(suite.maker)(c)
	return c, w
}

// TestValidToken_LoadsUserAndProfile tests the happy path
func (suite *AuthMiddlewareTestSuite) TestValidToken_LoadsUserAndProfile() {
	user := suite.createUser(true)
	access, _, err := suite.maker.GenerateTokenPair(user.ID, user.Username)
	suite.Require().NoError(err)

	c, _ := suite.run("Bearer " + access)

	assert.False(suite.T(), c.IsAborted())

	userID, exists := GetUserID(c)
	assert.True(suite.T(), exists)
	assert.Equal(suite.T(), user.ID, userID)

	profile := GetProfile(c)
	suite.Require().NotNil(profile)
	assert.Equal(suite.T(), models.RoleDeveloper, profile.Role)
	assert.True(suite.T(), profile.CanCreateProjects)
}

// TestMissingProfile_NotAnError confirms profile-less users still pass, with
// a nil profile in context
func (suite *AuthMiddlewareTestSuite) TestMissingProfile_NotAnError() {
	user := suite.createUser(false)
	access, _, err := suite.maker.GenerateTokenPair(user.ID, user.Username)
	suite.Require().NoError(err)

	c, _ := suite.run("Bearer " + access)

	assert.False(suite.T(), c.IsAborted())
	assert.Nil(suite.T(), GetProfile(c))
}

// TestMissingHeader_Unauthorized covers anonymous requests
func (suite *AuthMiddlewareTestSuite) TestMissingHeader_Unauthorized() {
	c, w := suite.run("")

	assert.True(suite.T(), c.IsAborted())
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestMalformedHeader_Unauthorized covers non-bearer schemes
func (suite *AuthMiddlewareTestSuite) TestMalformedHeader_Unauthorized() {
	c, w := suite.run("Token abc123")

	assert.True(suite.T(), c.IsAborted())
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestRefreshToken_Rejected confirms a refresh token cannot authenticate a
// request
func (suite *AuthMiddlewareTestSuite) TestRefreshToken_Rejected() {
	user := suite.createUser(true)
	_, refresh, err := suite.maker.GenerateTokenPair(user.ID, user.Username)
	suite.Require().NoError(err)

	c, w := suite.run("Bearer " + refresh)

	assert.True(suite.T(), c.IsAborted())
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestDeletedUser_Rejected confirms a token for a removed account is dead
func (suite *AuthMiddlewareTestSuite) TestDeletedUser_Rejected() {
	user := suite.createUser(true)
	access, _, err := suite.maker.GenerateTokenPair(user.ID, user.Username)
	suite.Require().NoError(err)

	suite.db.Where("user_id = ?", user.ID).Delete(&models.Profile{})
	suite.db.Delete(&models.User{}, user.ID)

	c, w := suite.run("Bearer " + access)

	assert.True(suite.T(), c.IsAborted())
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}
