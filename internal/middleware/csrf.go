package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/circleone/member-directory/internal/constants"
	apierrors "github.com/circleone/member-directory/internal/errors"
	"github.com/circleone/member-directory/internal/logging"
	"github.com/circleone/member-directory/internal/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const csrfTokenBytes = 32

// CSRFToken returns the session's form token, creating it on first use.
func CSRFToken(c *gin.Context) string {
	session := sessions.Default(c)
	if token, ok := session.Get(constants.SessionKeyCSRFToken).(string); ok && token != "" {
		return token
	}
	token, err := utils.GenerateNonce(csrfTokenBytes)
	if err != nil {
		return ""
	}
	session.Set(constants.SessionKeyCSRFToken, token)
	_ = session.Save()
	return token
}

// CSRF rejects state-changing requests whose form token does not match the
// session. The token is read from the csrf_token field or the X-CSRF-Token
// header. JSON bodies are exempt: browsers cannot send them cross-site
// without a CORS preflight.
func CSRF(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if strings.HasPrefix(c.ContentType(), "application/json") {
			c.Next()
			return
		}

		expected, _ := sessions.Default(c).Get(constants.SessionKeyCSRFToken).(string)
		got := c.GetHeader(constants.CSRFHeader)
		if got == "" {
			got = c.PostForm(constants.CSRFFormField)
		}

		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
			log.Warn(c.Request.Context(), "csrf token rejected", "path", c.Request.URL.Path)
			apierrors.Forbidden(c, "Your form has expired. Please reload the page and try again.")
			c.Abort()
			return
		}

		c.Next()
	}
}
