package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tkzw-dev/issue-tracker-api/internal/auth"
	"github.com/tkzw-dev/issue-tracker-api/internal/constants"
	"github.com/tkzw-dev/issue-tracker-api/internal/database"
	apierrors "github.com/tkzw-dev/issue-tracker-api/internal/errors"
	"github.com/tkzw-dev/issue-tracker-api/internal/models"
	"gorm.io/gorm"
)

// RequireAuth validates the bearer token, verifies the user still exists, and
// loads their profile into the request context. The profile is fetched fresh
// on every request so role changes take effect immediately.
func RequireAuth(maker auth.TokenMaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			apierrors.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := maker.ParseToken(tokenStr, auth.TokenTypeAccess)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// A missing profile is not an error here: the account simply carries
		// zero capabilities and every profile-based check denies.
		var profile *models.Profile
		var p models.Profile
		err = database.GetDB().Where("user_id = ?", user.ID).First(&p).Error
		switch {
		case err == nil:
			profile = &p
		case errors.Is(err, gorm.ErrRecordNotFound):
			profile = nil
		default:
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyProfile, profile)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetProfile retrieves the current user's profile from context. A nil profile
// means the user has no profile row.
func GetProfile(c *gin.Context) *models.Profile {
	value, exists := c.Get(constants.ContextKeyProfile)
	if !exists {
		return nil
	}
	profile, ok := value.(*models.Profile)
	if !ok {
		return nil
	}
	return profile
}
