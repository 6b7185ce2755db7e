package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/circleone/member-directory/internal/constants"
	apierrors "github.com/circleone/member-directory/internal/errors"
	"github.com/circleone/member-directory/internal/logging"
	"github.com/circleone/member-directory/internal/models"
	"github.com/circleone/member-directory/internal/repository"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoadSession resolves the session's user into the gin context.
// A session that points at a deleted user is cleared.
func LoadSession(users repository.UserRepository, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := toUserID(session.Get(constants.ContextKeyUserID))
		if !ok {
			c.Next()
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			session.Delete(constants.ContextKeyUserID)
			if err := session.Save(); err != nil {
				log.Warn(c.Request.Context(), "failed to clear stale session", "error", err)
			}
		case err != nil:
			log.Error(c.Request.Context(), "failed to load session user", "user_id", userID, "error", err)
		default:
			c.Set(constants.ContextKeyUserID, user.ID)
			c.Set(constants.ContextKeyUser, user)
		}

		c.Next()
	}
}

// RequireAuth stops the request before any handler runs when nobody is signed in.
// API and JSON clients get a 401; browsers are sent to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); ok {
			c.Next()
			return
		}

		if WantsJSON(c) {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		AddFlash(c, FlashInfo, "Please log in to access this page.")
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}

// Establish signs userID in for the rest of the session.
func Establish(c *gin.Context, userID uint64) error {
	session := sessions.Default(c)
	session.Delete(constants.SessionKeyOAuthNonce)
	session.Set(constants.ContextKeyUserID, userID)
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(constants.ContextKeyUserID, userID)
	return nil
}

// Clear signs the current user out.
func Clear(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(constants.ContextKeyUserID, nil)
	c.Set(constants.ContextKeyUser, nil)
	return nil
}

// CurrentUserID retrieves the signed-in user's ID from context
func CurrentUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

// CurrentUser returns the user loaded by LoadSession.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// Viewer is the current user ID, or nil for anonymous requests.
func Viewer(c *gin.Context) *uint64 {
	if id, ok := CurrentUserID(c); ok {
		return &id
	}
	return nil
}

// WantsJSON reports whether the client expects a JSON error instead of a redirect.
func WantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		strings.HasPrefix(c.ContentType(), "application/json")
}

func toUserID(userID interface{}) (uint64, bool) {
	switch v := userID.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
