package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/circleone/member-directory/internal/logging"
	"github.com/circleone/member-directory/internal/middleware"
	"github.com/circleone/member-directory/internal/oauth"
	"github.com/circleone/member-directory/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider redirects to a fixed URL and returns a canned identity.
type fakeProvider struct {
	info  *oauth.UserInfo
	err   error
	codes []string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.test/authorize?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*oauth.UserInfo, error) {
	p.codes = append(p.codes, code)
	return p.info, p.err
}

func setupOAuthRoutes(env *handlerTestEnv, provider *fakeProvider, identity *services.IdentityService) {
	handler := NewOAuthHandler(identity, oauth.NewRegistry(provider), oauth.NewStateSigner([]byte("state-secret")), logging.Nop())
	env.router.GET("/auth/test-login", handler.TestLogin)
	env.router.GET("/auth/:provider", handler.Start)
	env.router.GET("/auth/:provider/callback", handler.Callback)
}

// startFlow runs the redirect leg and returns the signed state.
func startFlow(t *testing.T, cl *client) string {
	t.Helper()
	w := cl.get("/auth/fake")
	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "provider.test", location.Host)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestOAuthHandler_CreatesAccount(t *testing.T) {
	env := setupHandlerTestEnv(t)
	provider := &fakeProvider{info: &oauth.UserInfo{Email: "dora@example.com", Name: "Dora", Picture: "https://img.test/d.png"}}
	setupOAuthRoutes(env, provider, env.identityService)
	cl := env.client(t)

	state := startFlow(t, cl)
	w := cl.get("/auth/fake/callback?code=abc&state=" + url.QueryEscape(state))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Equal(t, []string{"abc"}, provider.codes)

	user, err := env.users.FindByEmail(env.ctx, "dora@example.com")
	require.NoError(t, err)
	assert.Equal(t, "fake", user.OAuthProvider)
	assert.Nil(t, user.PasswordHash)
	assert.Equal(t, user.ID, cl.whoami())
	assert.Equal(t, "Welcome Dora! Your account has been created.", cl.flashes()[0].Message)
}

func TestOAuthHandler_RejectsTamperedState(t *testing.T) {
	env := setupHandlerTestEnv(t)
	provider := &fakeProvider{info: &oauth.UserInfo{Email: "eve@example.com", Name: "Eve"}}
	setupOAuthRoutes(env, provider, env.identityService)
	cl := env.client(t)

	state := startFlow(t, cl)
	w := cl.get("/auth/fake/callback?code=abc&state=" + url.QueryEscape(state+"x"))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Empty(t, provider.codes)
	assert.Zero(t, cl.whoami())

	_, err := env.users.FindByEmail(env.ctx, "eve@example.com")
	assert.Error(t, err)
}

func TestOAuthHandler_StateFromAnotherSessionIsRejected(t *testing.T) {
	env := setupHandlerTestEnv(t)
	provider := &fakeProvider{info: &oauth.UserInfo{Email: "eve@example.com", Name: "Eve"}}
	setupOAuthRoutes(env, provider, env.identityService)

	state := startFlow(t, env.client(t))
	victim := env.client(t)
	w := victim.get("/auth/fake/callback?code=abc&state=" + url.QueryEscape(state))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Empty(t, provider.codes)
	assert.Zero(t, victim.whoami())
}

func TestOAuthHandler_ProviderError(t *testing.T) {
	env := setupHandlerTestEnv(t)
	provider := &fakeProvider{}
	setupOAuthRoutes(env, provider, env.identityService)
	cl := env.client(t)

	startFlow(t, cl)
	w := cl.get("/auth/fake/callback?error=access_denied")

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, "Login failed: access_denied", cl.flashes()[0].Message)
}

func TestOAuthHandler_ExchangeFailure(t *testing.T) {
	env := setupHandlerTestEnv(t)
	provider := &fakeProvider{err: oauth.ErrExchange}
	setupOAuthRoutes(env, provider, env.identityService)
	cl := env.client(t)

	state := startFlow(t, cl)
	w := cl.get("/auth/fake/callback?code=abc&state=" + url.QueryEscape(state))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Zero(t, cl.whoami())
}

func TestOAuthHandler_ConfirmPolicyRefusesLink(t *testing.T) {
	env := setupHandlerTestEnv(t)
	existing := env.createUser(t, "frank", "Frank")
	provider := &fakeProvider{info: &oauth.UserInfo{Email: existing.EmailValue(), Name: "Franky"}}
	identity := services.NewIdentityService(env.users, services.LinkConfirm, logging.Nop())
	setupOAuthRoutes(env, provider, identity)
	cl := env.client(t)

	state := startFlow(t, cl)
	w := cl.get("/auth/fake/callback?code=abc&state=" + url.QueryEscape(state))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Zero(t, cl.whoami())
	assert.Equal(t, []middleware.Flash{{
		Category: middleware.FlashError,
		Message:  "An account with this email already exists. Please log in with your password.",
	}}, cl.flashes())

	unchanged, err := env.users.FindByID(env.ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Frank", unchanged.Name)
	assert.Equal(t, "local", unchanged.OAuthProvider)
}

func TestOAuthHandler_UnknownProvider(t *testing.T) {
	env := setupHandlerTestEnv(t)
	setupOAuthRoutes(env, &fakeProvider{}, env.identityService)

	w := env.client(t).get("/auth/github")

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestOAuthHandler_TestLogin(t *testing.T) {
	env := setupHandlerTestEnv(t)

	t.Run("disabled", func(t *testing.T) {
		setupOAuthRoutes(env, &fakeProvider{}, env.identityService)
		cl := env.client(t)

		w := cl.get("/auth/test-login")

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Equal(t, "Test login is disabled", cl.flashes()[0].Message)
	})

	t.Run("enabled", func(t *testing.T) {
		env := setupHandlerTestEnv(t)
		identity := services.NewIdentityService(env.users, services.LinkMerge, logging.Nop()).AllowTestLogin(true)
		setupOAuthRoutes(env, &fakeProvider{}, identity)
		cl := env.client(t)

		w := cl.get("/auth/test-login")

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
		user, err := env.users.FindByEmail(env.ctx, "test@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, cl.whoami())
	})
}
