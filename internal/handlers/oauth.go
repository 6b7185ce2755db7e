package handlers

import (
	"fmt"
	"net/http"

	"github.com/circleone/member-directory/internal/constants"
	"github.com/circleone/member-directory/internal/logging"
	"github.com/circleone/member-directory/internal/middleware"
	"github.com/circleone/member-directory/internal/oauth"
	"github.com/circleone/member-directory/internal/services"
	"github.com/circleone/member-directory/internal/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const nonceBytes = 16

// OAuthHandler runs the provider redirect and callback legs.
type OAuthHandler struct {
	identity  *services.IdentityService
	providers *oauth.Registry
	state     *oauth.StateSigner
	log       logging.Logger
}

func NewOAuthHandler(identity *services.IdentityService, providers *oauth.Registry, state *oauth.StateSigner, log logging.Logger) *OAuthHandler {
	return &OAuthHandler{
		identity:  identity,
		providers: providers,
		state:     state,
		log:       log,
	}
}

// Start sends the browser to the provider's consent screen.
func (h *OAuthHandler) Start(c *gin.Context) {
	provider, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		redirectWithFlash(c, middleware.FlashError, "This login provider is not configured.", "/login")
		return
	}

	nonce, err := utils.GenerateNonce(nonceBytes)
	if err != nil {
		c.Error(err)
		redirectWithFlash(c, middleware.FlashError, genericFailure, "/login")
		return
	}
	state, err := h.state.Issue(provider.Name(), nonce)
	if err != nil {
		c.Error(err)
		redirectWithFlash(c, middleware.FlashError, genericFailure, "/login")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyOAuthNonce, nonce)
	if err := session.Save(); err != nil {
		c.Error(err)
		redirectWithFlash(c, middleware.FlashError, genericFailure, "/login")
		return
	}

	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// Callback verifies the state, exchanges the code and signs the user in.
func (h *OAuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	provider, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		redirectWithFlash(c, middleware.FlashError, "This login provider is not configured.", "/login")
		return
	}

	session := sessions.Default(c)
	nonce, _ := session.Get(constants.SessionKeyOAuthNonce).(string)
	session.Delete(constants.SessionKeyOAuthNonce)
	_ = session.Save()

	if reason := c.Query("error"); reason != "" {
		h.log.Warn(ctx, "oauth provider returned an error", "provider", provider.Name(), "error", reason)
		redirectWithFlash(c, middleware.FlashError, fmt.Sprintf("Login failed: %s", reason), "/login")
		return
	}

	if nonce == "" {
		redirectWithFlash(c, middleware.FlashError, "Login failed: the request expired. Please try again.", "/login")
		return
	}
	if err := h.state.Verify(c.Query("state"), provider.Name(), nonce); err != nil {
		h.log.Warn(ctx, "rejected oauth state", "provider", provider.Name(), "error", err)
		redirectWithFlash(c, middleware.FlashError, "Login failed: the request expired. Please try again.", "/login")
		return
	}

	info, err := provider.Exchange(ctx, c.Query("code"))
	if err != nil {
		h.log.Error(ctx, "oauth exchange failed", "provider", provider.Name(), "error", err)
		redirectWithFlash(c, middleware.FlashError, "Login failed. Please try again.", "/login")
		return
	}

	user, created, err := h.identity.ResolveOAuth(ctx, provider.Name(), info)
	if err != nil {
		failRedirect(c, err, "/login")
		return
	}

	welcome := fmt.Sprintf("Welcome back, %s!", user.Name)
	if created {
		welcome = fmt.Sprintf("Welcome %s! Your account has been created.", user.Name)
	}
	signIn(c, user, http.StatusOK, welcome)
}

// TestLogin signs in as the shared development account when enabled.
func (h *OAuthHandler) TestLogin(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	user, err := h.identity.ResolveTestLogin(c.Request.Context())
	if err != nil {
		authFailed(c, err, "/login")
		return
	}
	signIn(c, user, http.StatusOK, "Logged in as Test User (Development Mode)")
}
