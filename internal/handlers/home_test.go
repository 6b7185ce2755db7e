package handlers

import (
	"net/http"
	"testing"

	"github.com/circleone/member-directory/internal/models"
	"github.com/circleone/member-directory/internal/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeHandler_Index(t *testing.T) {
	env := setupHandlerTestEnv(t)
	handler := NewHomeHandler(env.accountService, oauth.NewRegistry())
	env.router.GET("/", handler.Index)

	joe := env.createUser(t, "joe", "Joe")
	env.createUser(t, "ada", "Ada")
	require.NoError(t, env.listings.Create(env.ctx, &models.BusinessListing{UserID: joe.ID, BusinessName: "Joe's Cafe", Category: "Food"}))

	body := page(t, env.client(t), "/")
	assert.Equal(t, float64(2), body["member_count"])
	assert.Equal(t, float64(1), body["business_count"])
	assert.Equal(t, []any{}, body["flashes"])
}

func TestHomeHandler_Health(t *testing.T) {
	env := setupHandlerTestEnv(t)

	t.Run("no providers", func(t *testing.T) {
		handler := NewHomeHandler(env.accountService, oauth.NewRegistry())
		env.router.GET("/health", handler.Health)

		w := env.client(t).get("/health")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","message":"CircleOne is running","oauth_configured":false,"providers":[]}`, w.Body.String())
	})

	t.Run("with provider", func(t *testing.T) {
		handler := NewHomeHandler(env.accountService, oauth.NewRegistry(&fakeProvider{}))
		env.router.GET("/health/oauth", handler.Health)

		body := page(t, env.client(t), "/health/oauth")
		assert.Equal(t, true, body["oauth_configured"])
		assert.Equal(t, []any{"fake"}, body["providers"])
	})
}
