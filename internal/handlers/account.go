package handlers

import (
	"net/http"

	"github.com/circleone/member-directory/internal/dto"
	apierrors "github.com/circleone/member-directory/internal/errors"
	"github.com/circleone/member-directory/internal/middleware"
	"github.com/circleone/member-directory/internal/services"
	"github.com/gin-gonic/gin"
)

// AccountHandler serves the signed-in user's own pages.
type AccountHandler struct {
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Dashboard lists what the user manages.
func (h *AccountHandler) Dashboard(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	dash, err := h.accounts.Dashboard(c.Request.Context(), userID)
	if err != nil {
		failRedirect(c, err, "/")
		return
	}

	var profile *dto.ProfileDTO
	if dash.Profile != nil {
		p := dto.ToProfileDTO(*dash.Profile)
		profile = &p
	}
	render(c, http.StatusOK, gin.H{
		"user":       dto.ToUserDTO(*dash.User),
		"businesses": dto.ToBusinessDTOs(dash.Listings),
		"profile":    profile,
	})
}

// Profile is the account settings page.
func (h *AccountHandler) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	render(c, http.StatusOK, gin.H{"user": dto.ToUserDTO(*user)})
}

// Me returns the authenticated user.
func (h *AccountHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateTheme stores the user's light/dark preference.
func (h *AccountHandler) UpdateTheme(c *gin.Context) {
	var req struct {
		Theme string `json:"theme" form:"theme"`
	}
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid theme")
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	if err := h.accounts.UpdateTheme(c.Request.Context(), userID, req.Theme); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"theme":   req.Theme,
	})
}

// DeleteAccount removes the user and everything they own, then signs them out.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	if err := h.accounts.DeleteAccount(c.Request.Context(), userID); err != nil {
		failRedirect(c, err, "/dashboard")
		return
	}
	if err := middleware.Clear(c); err != nil {
		c.Error(err)
	}
	redirectWithFlash(c, middleware.FlashSuccess, "Your account has been deleted.", "/")
}
