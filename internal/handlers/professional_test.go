package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/circleone/member-directory/internal/dto"
	"github.com/circleone/member-directory/internal/middleware"
	"github.com/circleone/member-directory/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProfessionalRoutes(env *handlerTestEnv) {
	handler := NewProfessionalHandler(env.profileService)
	env.router.GET("/professionals", handler.List)
	env.router.GET("/profile/:id", handler.Detail)

	dashboard := env.router.Group("/dashboard", middleware.RequireAuth())
	dashboard.GET("/profile/edit", handler.EditForm)
	dashboard.POST("/profile/edit", handler.Save)
	dashboard.POST("/profile/delete", handler.Delete)
}

type profileListPage struct {
	Results dto.ProfileListResponse `json:"results"`
}

type profileDetailPage struct {
	Profile dto.ProfileDTO `json:"profile"`
	IsOwner bool           `json:"is_owner"`
}

func (e *handlerTestEnv) createProfile(t *testing.T, owner *models.User, consent bool, skills ...string) *models.ProfessionalProfile {
	t.Helper()
	profile := &models.ProfessionalProfile{UserID: owner.ID, JobTitle: "Engineer", ConsentGiven: consent}
	profile.SetSkills(skills)
	require.NoError(t, e.profiles.Save(e.ctx, profile))
	return profile
}

func TestProfessionalHandler_HiddenProfile(t *testing.T) {
	env := setupHandlerTestEnv(t)
	setupProfessionalRoutes(env)
	ada := env.createUser(t, "ada", "Ada")
	profile := env.createProfile(t, ada, false, "Go")
	path := fmt.Sprintf("/profile/%d", profile.ID)

	t.Run("anonymous visitor is redirected", func(t *testing.T) {
		cl := env.client(t)
		w := cl.get(path)

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/professionals", w.Header().Get("Location"))
		assert.Equal(t, []middleware.Flash{{
			Category: middleware.FlashError,
			Message:  "This profile is not publicly visible.",
		}}, cl.flashes())
	})

	t.Run("other member is redirected", func(t *testing.T) {
		w := env.signedIn(t, env.createUser(t, "bob", "Bob")).get(path)
		require.Equal(t, http.StatusSeeOther, w.Code)
	})

	t.Run("owner sees it without counting", func(t *testing.T) {
		w := env.signedIn(t, ada).get(path)

		require.Equal(t, http.StatusOK, w.Code)
		page := decode[profileDetailPage](t, w)
		assert.True(t, page.IsOwner)
		assert.Zero(t, page.Profile.ViewCount)
	})

	listed := decode[profileListPage](t, env.client(t).get("/professionals"))
	assert.Empty(t, listed.Results.Profiles)
}

func TestProfessionalHandler_PublicProfileCountsOtherViewers(t *testing.T) {
	env := setupHandlerTestEnv(t)
	setupProfessionalRoutes(env)
	ada := env.createUser(t, "ada", "Ada")
	profile := env.createProfile(t, ada, true, "Go", "SQL")
	path := fmt.Sprintf("/profile/%d", profile.ID)

	first := decode[profileDetailPage](t, env.client(t).get(path))
	assert.Equal(t, int64(1), first.Profile.ViewCount)
	assert.Empty(t, first.Profile.Email)

	own := decode[profileDetailPage](t, env.signedIn(t, ada).get(path))
	assert.Equal(t, int64(1), own.Profile.ViewCount)

	stored, err := env.profiles.FindByID(env.ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ViewCount)
}

func TestProfessionalHandler_ListFiltersBySkill(t *testing.T) {
	env := setupHandlerTestEnv(t)
	setupProfessionalRoutes(env)
	env.createProfile(t, env.createUser(t, "ada", "Ada"), true, "Go", "SQL")
	env.createProfile(t, env.createUser(t, "bob", "Bob"), true, "Design")

	page := decode[profileListPage](t, env.client(t).get("/professionals?skill=go"))

	require.Len(t, page.Results.Profiles, 1)
	assert.Equal(t, "Ada", page.Results.Profiles[0].Owner.Name)
	assert.Equal(t, []string{"Design", "Go", "SQL"}, page.Results.Skills)
	assert.Equal(t, "go", page.Results.Filters.Skill)
}

func TestProfessionalHandler_SaveCreatesThenUpdates(t *testing.T) {
	env := setupHandlerTestEnv(t)
	setupProfessionalRoutes(env)
	ada := env.createUser(t, "ada", "Ada")
	cl := env.signedIn(t, ada)

	form := page(t, cl, "/dashboard/profile/edit")
	assert.Nil(t, form["profile"])

	w := cl.postForm("/dashboard/profile/edit", url.Values{
		"job_title":       {"Engineer"},
		"skills":          {"Go, , SQL "},
		"consent_given":   {"on"},
		"contact_visible": {""},
	})

	require.Equal(t, http.StatusSeeOther, w.Code)
	profile, err := env.profiles.FindByUserID(env.ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("/profile/%d", profile.ID), w.Header().Get("Location"))
	assert.Equal(t, models.StringList{"Go", "SQL"}, profile.Skills)
	assert.True(t, profile.ConsentGiven)
	assert.False(t, profile.ContactVisible)

	cl.postForm("/dashboard/profile/edit", url.Values{"job_title": {"Architect"}})
	updated, err := env.profiles.FindByUserID(env.ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, updated.ID)
	assert.Equal(t, "Architect", updated.JobTitle)
	assert.False(t, updated.ConsentGiven)

	form = page(t, cl, "/dashboard/profile/edit")
	assert.Equal(t, "", form["skills_text"])
}

func TestProfessionalHandler_SaveAcceptsJSONBooleans(t *testing.T) {
	env := setupHandlerTestEnv(t)
	setupProfessionalRoutes(env)
	ada := env.createUser(t, "ada", "Ada")
	cl := env.signedIn(t, ada)

	w := cl.postJSON("/dashboard/profile/edit", map[string]any{
		"job_title":       "Engineer",
		"skills":          "Go",
		"consent_given":   true,
		"contact_visible": false,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile, err := env.profiles.FindByUserID(env.ctx, ada.ID)
	require.NoError(t, err)
	assert.True(t, profile.ConsentGiven)
	assert.False(t, profile.ContactVisible)

	w = cl.postJSON("/dashboard/profile/edit", map[string]any{
		"job_title":       "Engineer",
		"consent_given":   "on",
		"contact_visible": "true",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile, err = env.profiles.FindByUserID(env.ctx, ada.ID)
	require.NoError(t, err)
	assert.True(t, profile.ConsentGiven)
	assert.True(t, profile.ContactVisible)
}

func TestProfessionalHandler_SaveRequiresJobTitle(t *testing.T) {
	env := setupHandlerTestEnv(t)
	setupProfessionalRoutes(env)
	cl := env.signedIn(t, env.createUser(t, "ada", "Ada"))

	w := cl.postForm("/dashboard/profile/edit", url.Values{"summary": {"no title"}})

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/profile/edit", w.Header().Get("Location"))
	assert.Equal(t, "Please fill in all required fields", cl.flashes()[0].Message)
}

func TestProfessionalHandler_Delete(t *testing.T) {
	env := setupHandlerTestEnv(t)
	setupProfessionalRoutes(env)
	ada := env.createUser(t, "ada", "Ada")
	env.createProfile(t, ada, true)
	cl := env.signedIn(t, ada)

	w := cl.postForm("/dashboard/profile/delete", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Equal(t, "Professional profile deleted successfully!", cl.flashes()[0].Message)

	cl.postForm("/dashboard/profile/delete", nil)
	assert.Equal(t, "No profile to delete.", cl.flashes()[0].Message)
}

func page(t *testing.T, cl *client, path string) map[string]any {
	t.Helper()
	w := cl.get(path)
	require.Equal(t, http.StatusOK, w.Code)
	return decode[map[string]any](t, w)
}
