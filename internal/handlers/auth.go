package handlers

import (
	"fmt"
	"net/http"

	"github.com/circleone/member-directory/internal/dto"
	apierrors "github.com/circleone/member-directory/internal/errors"
	"github.com/circleone/member-directory/internal/middleware"
	"github.com/circleone/member-directory/internal/models"
	"github.com/circleone/member-directory/internal/oauth"
	"github.com/circleone/member-directory/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler coordinates local sign-up, login and logout.
type AuthHandler struct {
	authService *services.AuthService
	providers   *oauth.Registry
	testLogin   bool
}

// NewAuthHandler creates a new AuthHandler. providers and testLogin only
// decide which buttons the login page offers.
func NewAuthHandler(authService *services.AuthService, providers *oauth.Registry, testLogin bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		providers:   providers,
		testLogin:   testLogin,
	}
}

type loginRequest struct {
	Identifier string `form:"username_or_email" json:"username_or_email"`
	Password   string `form:"password" json:"password"`
}

type signupRequest struct {
	Username        string `form:"username" json:"username"`
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// LoginPage shows the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	render(c, http.StatusOK, gin.H{
		"providers":  h.providers.Names(),
		"test_login": h.testLogin,
	})
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		req = loginRequest{}
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		authFailed(c, err, "/login")
		return
	}

	signIn(c, user, http.StatusOK, fmt.Sprintf("Welcome back, %s!", user.Name))
}

// SignupPage shows the registration form.
func (h *AuthHandler) SignupPage(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	render(c, http.StatusOK, gin.H{"providers": h.providers.Names()})
}

// Signup registers a new user and signs them in.
func (h *AuthHandler) Signup(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		req = signupRequest{}
	}

	user, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Username:        req.Username,
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		authFailed(c, err, "/signup")
		return
	}

	signIn(c, user, http.StatusCreated,
		fmt.Sprintf("Welcome to CircleOne, %s! Your account has been created.", user.Name))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.Clear(c); err != nil {
		c.Error(err)
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, "You have been logged out.", "/")
}

// signIn establishes the session for user and finishes the request.
func signIn(c *gin.Context, user *models.User, status int, welcome string) {
	if err := middleware.Establish(c, user.ID); err != nil {
		c.Error(err)
		if middleware.WantsJSON(c) {
			apierrors.InternalError(c, "Failed to save session")
			return
		}
		redirectWithFlash(c, middleware.FlashError, genericFailure, "/login")
		return
	}

	if middleware.WantsJSON(c) {
		c.JSON(status, dto.ToUserDTO(*user))
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, welcome, "/dashboard")
}

// authFailed reports a failed sign-in without touching the session's identity.
func authFailed(c *gin.Context, err error, form string) {
	if middleware.WantsJSON(c) {
		respondError(c, err)
		return
	}
	failRedirect(c, err, form)
}
