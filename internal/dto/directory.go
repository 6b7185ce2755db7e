package dto

import (
	"strings"
	"time"

	"github.com/circleone/member-directory/internal/constants"
	"github.com/circleone/member-directory/internal/models"
	"github.com/circleone/member-directory/internal/utils"
)

// BusinessDTO represents a business listing in responses
type BusinessDTO struct {
	ID           uint64            `json:"id"`
	Owner        OwnerDTO          `json:"owner"`
	BusinessName string            `json:"business_name"`
	Category     string            `json:"category"`
	Description  string            `json:"description"`
	ContactEmail string            `json:"contact_email,omitempty"`
	Phone        string            `json:"phone,omitempty"`
	Website      string            `json:"website,omitempty"`
	Location     string            `json:"location,omitempty"`
	LogoURL      string            `json:"logo_url,omitempty"`
	Hours        string            `json:"hours,omitempty"`
	SocialLinks  map[string]string `json:"social_links"`
	ViewCount    int64             `json:"view_count"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ProfileDTO represents a professional profile in responses.
// Email is only present when the owner made contact details visible.
type ProfileDTO struct {
	ID             uint64    `json:"id"`
	Owner          OwnerDTO  `json:"owner"`
	JobTitle       string    `json:"job_title"`
	Summary        string    `json:"summary"`
	HowIHelp       string    `json:"how_i_help"`
	LinkedInURL    string    `json:"linkedin_url,omitempty"`
	Skills         []string  `json:"skills"`
	Email          string    `json:"email,omitempty"`
	ConsentGiven   bool      `json:"consent_given"`
	ContactVisible bool      `json:"contact_visible"`
	ViewCount      int64     `json:"view_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// BusinessFilters echoes the directory query back to the client
type BusinessFilters struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Location string `json:"location"`
}

// BusinessListResponse represents a page of the business directory
type BusinessListResponse struct {
	Businesses []BusinessDTO            `json:"businesses"`
	Categories []string                 `json:"categories"`
	Filters    BusinessFilters          `json:"filters"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ProfileFilters echoes the professional directory query
type ProfileFilters struct {
	Search string `json:"search"`
	Skill  string `json:"skill"`
}

// ProfileListResponse represents a page of the professional directory
type ProfileListResponse struct {
	Profiles   []ProfileDTO             `json:"profiles"`
	Skills     []string                 `json:"skills"`
	Filters    ProfileFilters           `json:"filters"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToBusinessDTO converts a BusinessListing model to BusinessDTO
func ToBusinessDTO(listing models.BusinessListing) BusinessDTO {
	links := map[string]string(listing.SocialLinks.Compact())
	return BusinessDTO{
		ID:           listing.ID,
		Owner:        ToOwnerDTO(listing.Owner),
		BusinessName: listing.BusinessName,
		Category:     listing.Category,
		Description:  listing.Description,
		ContactEmail: listing.ContactEmail,
		Phone:        listing.Phone,
		Website:      listing.Website,
		Location:     listing.Location,
		LogoURL:      listing.LogoURL,
		Hours:        listing.Hours,
		SocialLinks:  links,
		ViewCount:    listing.ViewCount,
		CreatedAt:    listing.CreatedAt,
	}
}

// ToBusinessDTOs converts a slice of listings
func ToBusinessDTOs(listings []models.BusinessListing) []BusinessDTO {
	out := make([]BusinessDTO, len(listings))
	for i, l := range listings {
		out[i] = ToBusinessDTO(l)
	}
	return out
}

// ToProfileDTO converts a ProfessionalProfile model to ProfileDTO
func ToProfileDTO(profile models.ProfessionalProfile) ProfileDTO {
	skills := []string(profile.Skills)
	if skills == nil {
		skills = []string{}
	}

	out := ProfileDTO{
		ID:             profile.ID,
		Owner:          ToOwnerDTO(profile.User),
		JobTitle:       profile.JobTitle,
		Summary:        profile.Summary,
		HowIHelp:       profile.HowIHelp,
		LinkedInURL:    profile.LinkedInURL,
		Skills:         skills,
		ConsentGiven:   profile.ConsentGiven,
		ContactVisible: profile.ContactVisible,
		ViewCount:      profile.ViewCount,
		CreatedAt:      profile.CreatedAt,
	}
	if profile.ContactVisible {
		out.Email = publicEmail(profile.User.EmailValue())
	}
	return out
}

// ToProfileDTOs converts a slice of profiles
func ToProfileDTOs(profiles []models.ProfessionalProfile) []ProfileDTO {
	out := make([]ProfileDTO, len(profiles))
	for i, p := range profiles {
		out[i] = ToProfileDTO(p)
	}
	return out
}

// publicEmail hides the synthesized signup address; nobody can write to it.
func publicEmail(email string) string {
	if strings.HasSuffix(email, "@"+constants.PlaceholderEmailDomain) {
		return ""
	}
	return email
}
