package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/circleone/member-directory/internal/dto"
	"github.com/circleone/member-directory/internal/middleware"
	"github.com/circleone/member-directory/internal/policy"
	"github.com/circleone/member-directory/internal/repository"
	"github.com/circleone/member-directory/internal/services"
	"github.com/circleone/member-directory/internal/utils"
	"github.com/gin-gonic/gin"
)

// SocialNetworks are the social link fields accepted by the listing form.
var SocialNetworks = []string{"facebook", "twitter", "instagram", "linkedin"}

// BusinessHandler serves the business directory and listing management.
type BusinessHandler struct {
	businesses *services.BusinessService
}

func NewBusinessHandler(businesses *services.BusinessService) *BusinessHandler {
	return &BusinessHandler{businesses: businesses}
}

type businessRequest struct {
	BusinessName string `form:"business_name" json:"business_name"`
	Category     string `form:"category" json:"category"`
	Description  string `form:"description" json:"description"`
	ContactEmail string `form:"contact_email" json:"contact_email"`
	Phone        string `form:"phone" json:"phone"`
	Website      string `form:"website" json:"website"`
	Location     string `form:"location" json:"location"`
	Hours        string `form:"hours" json:"hours"`
	LogoURL      string `form:"logo_url" json:"logo_url"`
	Facebook     string `form:"facebook" json:"facebook"`
	Twitter      string `form:"twitter" json:"twitter"`
	Instagram    string `form:"instagram" json:"instagram"`
	LinkedIn     string `form:"linkedin" json:"linkedin"`
}

func (r businessRequest) socialLinks() map[string]string {
	values := []string{r.Facebook, r.Twitter, r.Instagram, r.LinkedIn}
	links := make(map[string]string, len(SocialNetworks))
	for i, network := range SocialNetworks {
		links[network] = strings.TrimSpace(values[i])
	}
	return links
}

// List is the public directory with search, category and location filters.
func (h *BusinessHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	filters := dto.BusinessFilters{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
		Location: strings.TrimSpace(c.Query("location")),
	}
	pagination := utils.GetPaginationParams(c)

	listings, total, err := h.businesses.List(ctx, repository.BusinessFilter{
		Search:     filters.Search,
		Category:   filters.Category,
		Location:   filters.Location,
		Pagination: pagination,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	categories, err := h.businesses.Categories(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusOK, gin.H{
		"results": dto.BusinessListResponse{
			Businesses: dto.ToBusinessDTOs(listings),
			Categories: categories,
			Filters:    filters,
			Pagination: utils.NewPaginationResponse(pagination, total),
		},
	})
}

// Detail shows one listing and counts the visit.
func (h *BusinessHandler) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.fail(c, fmt.Errorf("%w: %w", services.ErrNotFound, services.ErrBusinessNotFound), "", "")
		return
	}

	listing, err := h.businesses.View(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "", "")
		return
	}

	render(c, http.StatusOK, gin.H{
		"business": dto.ToBusinessDTO(*listing),
		"is_owner": policy.IsOwner(listing, middleware.Viewer(c)),
	})
}

// NewForm shows the empty listing form.
func (h *BusinessHandler) NewForm(c *gin.Context) {
	render(c, http.StatusOK, gin.H{
		"business":        nil,
		"mode":            "create",
		"social_networks": SocialNetworks,
	})
}

// Create adds a listing for the signed-in user.
func (h *BusinessHandler) Create(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	input, closeLogo, err := bindBusiness(c)
	if err != nil {
		h.fail(c, err, "/dashboard/business/new", "")
		return
	}
	defer closeLogo()

	listing, err := h.businesses.Create(c.Request.Context(), userID, input)
	if err != nil {
		h.fail(c, err, "/dashboard/business/new", "")
		return
	}

	if middleware.WantsJSON(c) {
		c.JSON(http.StatusCreated, dto.ToBusinessDTO(*listing))
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, "Business listing created successfully!",
		fmt.Sprintf("/business/%d", listing.ID))
}

// EditForm shows the listing form filled in. Owners only.
func (h *BusinessHandler) EditForm(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		h.fail(c, fmt.Errorf("%w: %w", services.ErrNotFound, services.ErrBusinessNotFound), "", "")
		return
	}

	listing, err := h.businesses.GetOwned(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, err, "", "You do not have permission to edit this business.")
		return
	}

	render(c, http.StatusOK, gin.H{
		"business":        dto.ToBusinessDTO(*listing),
		"mode":            "edit",
		"social_networks": SocialNetworks,
	})
}

// Update saves the edited listing. Owners only.
func (h *BusinessHandler) Update(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		h.fail(c, fmt.Errorf("%w: %w", services.ErrNotFound, services.ErrBusinessNotFound), "", "")
		return
	}
	form := fmt.Sprintf("/dashboard/business/edit/%d", id)

	input, closeLogo, err := bindBusiness(c)
	if err != nil {
		h.fail(c, err, form, "")
		return
	}
	defer closeLogo()

	listing, err := h.businesses.Update(c.Request.Context(), userID, id, input)
	if err != nil {
		h.fail(c, err, form, "You do not have permission to edit this business.")
		return
	}

	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, dto.ToBusinessDTO(*listing))
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, "Business listing updated successfully!",
		fmt.Sprintf("/business/%d", listing.ID))
}

// Delete removes a listing. Owners only.
func (h *BusinessHandler) Delete(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		h.fail(c, fmt.Errorf("%w: %w", services.ErrNotFound, services.ErrBusinessNotFound), "", "")
		return
	}

	if err := h.businesses.Delete(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err, "/dashboard", "You do not have permission to delete this business.")
		return
	}

	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": "Business listing deleted successfully!"})
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, "Business listing deleted successfully!", "/dashboard")
}

// fail sends missing and forbidden listings back to the directory and
// everything else back to form.
func (h *BusinessHandler) fail(c *gin.Context, err error, form, forbidden string) {
	switch {
	case middleware.WantsJSON(c):
		respondError(c, err)
	case errors.Is(err, services.ErrForbidden) && forbidden != "":
		redirectWithFlash(c, middleware.FlashError, forbidden, "/businesses")
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrNotFound), form == "":
		failRedirect(c, err, "/businesses")
	default:
		failRedirect(c, err, form)
	}
}

// bindBusiness reads the listing form, including an optional logo_file upload.
// The returned func closes the upload.
func bindBusiness(c *gin.Context) (services.BusinessInput, func(), error) {
	noop := func() {}

	var req businessRequest
	if err := c.ShouldBind(&req); err != nil {
		return services.BusinessInput{}, noop, fmt.Errorf("%w: %w", services.ErrValidation, services.ErrMissingFields)
	}

	input := services.BusinessInput{
		BusinessName: req.BusinessName,
		Category:     req.Category,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
		Website:      req.Website,
		Location:     req.Location,
		Hours:        req.Hours,
		LogoURL:      req.LogoURL,
		SocialLinks:  req.socialLinks(),
	}

	header, err := c.FormFile("logo_file")
	if err != nil || header.Filename == "" {
		return input, noop, nil
	}
	file, err := header.Open()
	if err != nil {
		return input, noop, fmt.Errorf("%w: %w", services.ErrValidation, err)
	}
	input.Logo = &services.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Reader:   file,
	}
	return input, func() { closeUpload(file) }, nil
}

func closeUpload(f multipart.File) {
	_ = f.Close()
}
