package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/circleone/member-directory/internal/dto"
	"github.com/circleone/member-directory/internal/middleware"
	"github.com/circleone/member-directory/internal/policy"
	"github.com/circleone/member-directory/internal/repository"
	"github.com/circleone/member-directory/internal/services"
	"github.com/circleone/member-directory/internal/utils"
	"github.com/gin-gonic/gin"
)

// checkboxOn is what an HTML checkbox submits when ticked.
const checkboxOn = "on"

// checkbox binds an HTML checkbox from a form or a boolean from a JSON body.
type checkbox bool

func (b *checkbox) UnmarshalParam(v string) error {
	*b = checkbox(isChecked(v))
	return nil
}

func (b *checkbox) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = checkbox(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = checkbox(isChecked(s))
	return nil
}

func isChecked(v string) bool {
	if v == checkboxOn {
		return true
	}
	on, err := strconv.ParseBool(v)
	return err == nil && on
}

// ProfessionalHandler serves the professional directory and profile editing.
type ProfessionalHandler struct {
	profiles *services.ProfileService
}

func NewProfessionalHandler(profiles *services.ProfileService) *ProfessionalHandler {
	return &ProfessionalHandler{profiles: profiles}
}

type profileRequest struct {
	JobTitle       string `form:"job_title" json:"job_title"`
	Summary        string `form:"summary" json:"summary"`
	HowIHelp       string `form:"how_i_help" json:"how_i_help"`
	LinkedInURL    string `form:"linkedin_url" json:"linkedin_url"`
	Skills         string `form:"skills" json:"skills"`
	ConsentGiven   checkbox `form:"consent_given" json:"consent_given"`
	ContactVisible checkbox `form:"contact_visible" json:"contact_visible"`
}

// List is the public directory of consenting professionals.
func (h *ProfessionalHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	filters := dto.ProfileFilters{
		Search: strings.TrimSpace(c.Query("search")),
		Skill:  strings.TrimSpace(c.Query("skill")),
	}
	pagination := utils.GetPaginationParams(c)

	profiles, total, err := h.profiles.List(ctx, repository.ProfileFilter{
		Search:     filters.Search,
		Skill:      filters.Skill,
		Pagination: pagination,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	skills, err := h.profiles.Skills(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusOK, gin.H{
		"results": dto.ProfileListResponse{
			Profiles:   dto.ToProfileDTOs(profiles),
			Skills:     skills,
			Filters:    filters,
			Pagination: utils.NewPaginationResponse(pagination, total),
		},
	})
}

// Detail shows a profile. Hidden profiles are only shown to their owner.
func (h *ProfessionalHandler) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.fail(c, fmt.Errorf("%w: %w", services.ErrNotFound, services.ErrProfileNotFound), "/professionals")
		return
	}

	viewer := middleware.Viewer(c)
	profile, err := h.profiles.View(c.Request.Context(), id, viewer)
	if err != nil {
		h.fail(c, err, "/professionals")
		return
	}

	render(c, http.StatusOK, gin.H{
		"profile":  dto.ToProfileDTO(*profile),
		"is_owner": policy.IsOwner(profile, viewer),
	})
}

// EditForm shows the user's profile form, empty when they have none yet.
func (h *ProfessionalHandler) EditForm(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	profile, err := h.profiles.GetOwn(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "/dashboard")
		return
	}

	page := gin.H{"profile": nil, "skills_text": ""}
	if profile != nil {
		page["profile"] = dto.ToProfileDTO(*profile)
		page["skills_text"] = strings.Join(profile.Skills, ", ")
	}
	render(c, http.StatusOK, page)
}

// Save creates or updates the user's profile.
func (h *ProfessionalHandler) Save(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req profileRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %w", services.ErrValidation, services.ErrMissingFields), "/dashboard/profile/edit")
		return
	}

	profile, err := h.profiles.Save(c.Request.Context(), userID, services.ProfileInput{
		JobTitle:       req.JobTitle,
		Summary:        req.Summary,
		HowIHelp:       req.HowIHelp,
		LinkedInURL:    req.LinkedInURL,
		Skills:         services.ParseSkills(req.Skills),
		ConsentGiven:   bool(req.ConsentGiven),
		ContactVisible: bool(req.ContactVisible),
	})
	if err != nil {
		h.fail(c, err, "/dashboard/profile/edit")
		return
	}

	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, dto.ToProfileDTO(*profile))
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, "Professional profile updated successfully!",
		fmt.Sprintf("/profile/%d", profile.ID))
}

// Delete removes the user's profile.
func (h *ProfessionalHandler) Delete(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	err := h.profiles.Delete(c.Request.Context(), userID)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNotFound) && !middleware.WantsJSON(c):
		redirectWithFlash(c, middleware.FlashError, "No profile to delete.", "/dashboard")
		return
	default:
		h.fail(c, err, "/dashboard")
		return
	}

	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": "Professional profile deleted successfully!"})
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, "Professional profile deleted successfully!", "/dashboard")
}

// fail sends hidden and missing profiles back to the directory.
func (h *ProfessionalHandler) fail(c *gin.Context, err error, form string) {
	switch {
	case middleware.WantsJSON(c):
		respondError(c, err)
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrNotFound):
		failRedirect(c, err, "/professionals")
	default:
		failRedirect(c, err, form)
	}
}
