package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/circleone/member-directory/internal/constants"
	"github.com/circleone/member-directory/internal/dto"
	apierrors "github.com/circleone/member-directory/internal/errors"
	"github.com/circleone/member-directory/internal/media"
	"github.com/circleone/member-directory/internal/middleware"
	"github.com/circleone/member-directory/internal/services"
	"github.com/gin-gonic/gin"
)

const genericFailure = "Something went wrong. Please try again."

// render writes a page's view model together with the pending flashes, the
// form token and the signed-in user.
func render(c *gin.Context, status int, page gin.H) {
	if page == nil {
		page = gin.H{}
	}
	page["flashes"] = middleware.Flashes(c)
	page["csrf_token"] = middleware.CSRFToken(c)
	page["current_user"] = nil
	if user, ok := middleware.CurrentUser(c); ok {
		page["current_user"] = dto.ToUserDTO(*user)
	}
	c.JSON(status, page)
}

// redirectWithFlash implements post/redirect/get.
func redirectWithFlash(c *gin.Context, category, message, location string) {
	middleware.AddFlash(c, category, message)
	c.Redirect(http.StatusSeeOther, location)
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// errorMessage turns a service error into the sentence shown to the user.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrMissingFields):
		return "Please fill in all required fields"
	case errors.Is(err, services.ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, services.ErrPasswordTooShort):
		return fmt.Sprintf("Password must be at least %d characters long", constants.MinPasswordLength)
	case errors.Is(err, services.ErrUsernameTaken):
		return "Username already exists. Please choose another."
	case errors.Is(err, services.ErrEmailTaken):
		return "Email already exists. Please use another or login."
	case errors.Is(err, services.ErrInvalidCredentials):
		return "Invalid username/email or password"
	case errors.Is(err, services.ErrAccountLinkRequired):
		return "An account with this email already exists. Please log in with your password."
	case errors.Is(err, services.ErrMissingUserInfo):
		return "Failed to get user information from the provider"
	case errors.Is(err, services.ErrInvalidTheme):
		return "Invalid theme"
	case errors.Is(err, services.ErrProfileHidden):
		return "This profile is not publicly visible."
	case errors.Is(err, services.ErrTestLoginDisabled):
		return "Test login is disabled"
	case errors.Is(err, services.ErrForbidden):
		return "You do not have permission to do that."
	case errors.Is(err, services.ErrBusinessNotFound):
		return "Business not found"
	case errors.Is(err, services.ErrProfileNotFound):
		return "Profile not found"
	case errors.Is(err, services.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, services.ErrMediaUnavailable):
		return "Image uploads are not available right now."
	case errors.Is(err, media.ErrUpload):
		return "Image upload failed. Please try again."
	case errors.Is(err, media.ErrUnsupportedType):
		return "Image upload failed: allowed types are png, jpg, jpeg, gif and webp"
	case errors.Is(err, media.ErrTooLarge):
		return fmt.Sprintf("Image upload failed: files must be under %d MB", constants.MaxUploadBytes/(1024*1024))
	case errors.Is(err, media.ErrInvalidImage), errors.Is(err, media.ErrNoFile):
		return "Image upload failed: " + media.ErrInvalidImage.Error()
	default:
		return genericFailure
	}
}

// respondError maps a service error onto the JSON error envelope.
func respondError(c *gin.Context, err error) {
	msg := errorMessage(err)
	switch {
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, msg)
	case errors.Is(err, services.ErrDuplicateIdentity):
		apierrors.Conflict(c, msg)
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, msg)
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, msg)
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, msg)
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, msg)
	case errors.Is(err, services.ErrMediaUnavailable):
		apierrors.ServiceUnavailable(c, msg)
	case errors.Is(err, services.ErrExternalService):
		apierrors.BadGateway(c, msg)
	case errors.Is(err, services.ErrPersistence):
		c.Error(err)
		apierrors.PersistenceError(c, msg)
	default:
		c.Error(err)
		apierrors.InternalError(c, genericFailure)
	}
}

// failRedirect flashes a service error and sends the browser to location.
// Unexpected errors are attached to the context for the request logger.
func failRedirect(c *gin.Context, err error, location string) {
	if errors.Is(err, services.ErrPersistence) || errors.Is(err, services.ErrExternalService) {
		c.Error(err)
	}
	redirectWithFlash(c, middleware.FlashError, errorMessage(err), location)
}
