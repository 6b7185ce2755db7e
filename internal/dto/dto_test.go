package dto

import (
	"encoding/json"
	"testing"

	"github.com/circleone/member-directory/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestToProfileDTO_EmailOnlyWhenContactVisible(t *testing.T) {
	owner := models.User{ID: 3, Name: "Ada", Email: strPtr("ada@example.com")}
	profile := models.ProfessionalProfile{ID: 1, UserID: 3, JobTitle: "Engineer", ConsentGiven: true, User: owner}

	hidden := ToProfileDTO(profile)
	assert.Empty(t, hidden.Email)

	body, err := json.Marshal(hidden)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "ada@example.com")

	profile.ContactVisible = true
	assert.Equal(t, "ada@example.com", ToProfileDTO(profile).Email)
}

func TestToProfileDTO_HidesPlaceholderEmail(t *testing.T) {
	owner := models.User{ID: 3, Name: "Ada", Email: strPtr("ada@circleone.local")}
	profile := models.ProfessionalProfile{ID: 1, UserID: 3, ContactVisible: true, User: owner}

	assert.Empty(t, ToProfileDTO(profile).Email)
}

func TestToProfileDTO_SkillsNeverNull(t *testing.T) {
	body, err := json.Marshal(ToProfileDTO(models.ProfessionalProfile{}))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"skills":[]`)
}

func TestToBusinessDTO(t *testing.T) {
	listing := models.BusinessListing{
		ID:           9,
		UserID:       3,
		BusinessName: "Joe's Cafe",
		Category:     "Food",
		SocialLinks:  models.StringMap{"twitter": "@joe", "facebook": ""},
		ViewCount:    4,
		Owner:        models.User{ID: 3, Name: "Joe"},
	}

	got := ToBusinessDTO(listing)
	assert.Equal(t, "Joe", got.Owner.Name)
	assert.Equal(t, map[string]string{"twitter": "@joe"}, got.SocialLinks)
	assert.Len(t, ToBusinessDTOs([]models.BusinessListing{listing, listing}), 2)
}

func TestToUserDTO_NeverExposesPasswordHash(t *testing.T) {
	user := models.User{ID: 1, Name: "Ada", Username: strPtr("ada"), PasswordHash: strPtr("$2a$10$hash")}

	body, err := json.Marshal(ToUserDTO(user))
	require.NoError(t, err)
	assert.NotContains(t, string(body), "hash")
	assert.Contains(t, string(body), `"username":"ada"`)
}
