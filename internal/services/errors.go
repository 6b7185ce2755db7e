package services

import (
	"errors"
	"fmt"

	"github.com/circleone/member-directory/internal/policy"
	"gorm.io/gorm"
)

// Error categories. Every error returned by a service matches exactly one of
// these with errors.Is, and usually a more specific cause as well.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateIdentity  = errors.New("identity already registered")
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = policy.ErrForbidden
	ErrNotFound           = errors.New("not found")
	ErrExternalService    = errors.New("external service failure")
	ErrPersistence        = errors.New("could not save changes")
)

// Specific causes.
var (
	ErrMissingFields       = errors.New("please fill in all required fields")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrPasswordTooShort    = errors.New("password too short")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrEmailTaken          = errors.New("email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrMissingUserInfo     = errors.New("provider returned no user information")
	ErrAccountLinkRequired = errors.New("an account with this email already exists")
	ErrInvalidTheme        = errors.New("invalid theme")
	ErrBusinessNotFound    = errors.New("business not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrProfileHidden       = errors.New("this profile is not publicly visible")
	ErrMediaUnavailable    = errors.New("image uploads are not configured")
	ErrTestLoginDisabled   = errors.New("test login is disabled")
)

func wrap(category, cause error) error {
	return fmt.Errorf("%w: %w", category, cause)
}

// fromRepo maps a repository error onto the taxonomy.
func fromRepo(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return wrap(ErrNotFound, notFound)
	}
	return wrap(ErrPersistence, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
