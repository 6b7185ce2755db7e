package repository

import (
	"context"

	"github.com/circleone/member-directory/internal/models"
	"github.com/circleone/member-directory/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByIdentifier finds the user whose username or email equals identifier.
	// When both match different users the lowest id wins.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)

	// UpdateOAuthIdentity overwrites only name, profile photo and provider
	UpdateOAuthIdentity(ctx context.Context, id uint64, name string, photo *string, provider string) error

	// UpdateTheme stores the theme preference
	UpdateTheme(ctx context.Context, id uint64, theme string) error

	// Delete removes a user together with their listings and profile
	Delete(ctx context.Context, id uint64) error

	// Count returns the number of registered users
	Count(ctx context.Context) (int64, error)
}

// BusinessRepository defines the interface for business listing data access
type BusinessRepository interface {
	// Create creates a new listing
	Create(ctx context.Context, listing *models.BusinessListing) error

	// FindByID finds a listing by ID with its owner loaded
	FindByID(ctx context.Context, id uint64) (*models.BusinessListing, error)

	// ListByUser lists every listing owned by a user, newest first
	ListByUser(ctx context.Context, userID uint64) ([]models.BusinessListing, error)

	// List retrieves listings with filtering and pagination
	List(ctx context.Context, filter BusinessFilter) ([]models.BusinessListing, int64, error)

	// Categories returns the distinct categories of all listings, sorted
	Categories(ctx context.Context) ([]string, error)

	// Update writes the editable fields. The view counter is never written here.
	Update(ctx context.Context, listing *models.BusinessListing) error

	// Delete deletes a listing
	Delete(ctx context.Context, id uint64) error

	// IncrementViews adds one to the view counter in a single UPDATE
	IncrementViews(ctx context.Context, id uint64) error

	// Count returns the number of listings
	Count(ctx context.Context) (int64, error)
}

// BusinessFilter holds filtering options for listing businesses
type BusinessFilter struct {
	Search     string
	Category   string
	Location   string
	Pagination utils.PaginationParams
}

// ProfileRepository defines the interface for professional profile data access
type ProfileRepository interface {
	// FindByID finds a profile by ID with its owner loaded
	FindByID(ctx context.Context, id uint64) (*models.ProfessionalProfile, error)

	// FindByUserID finds the profile owned by a user
	FindByUserID(ctx context.Context, userID uint64) (*models.ProfessionalProfile, error)

	// Save creates the profile or writes its editable fields
	Save(ctx context.Context, profile *models.ProfessionalProfile) error

	// DeleteByUserID deletes the profile owned by a user
	DeleteByUserID(ctx context.Context, userID uint64) error

	// ListPublic retrieves consenting profiles with filtering and pagination
	ListPublic(ctx context.Context, filter ProfileFilter) ([]models.ProfessionalProfile, int64, error)

	// PublicSkills returns the skill lists of every consenting profile
	PublicSkills(ctx context.Context) ([]models.StringList, error)

	// IncrementViews adds one to the view counter in a single UPDATE
	IncrementViews(ctx context.Context, id uint64) error
}

// ProfileFilter holds filtering options for listing professionals
type ProfileFilter struct {
	Search     string
	Skill      string
	Pagination utils.PaginationParams
}
