package services

import (
	"context"

	"github.com/circleone/member-directory/internal/constants"
	"github.com/circleone/member-directory/internal/logging"
	"github.com/circleone/member-directory/internal/media"
	"github.com/circleone/member-directory/internal/models"
	"github.com/circleone/member-directory/internal/repository"
)

// AccountService serves the signed-in user's own data.
type AccountService struct {
	userRepo     repository.UserRepository
	businessRepo repository.BusinessRepository
	profileRepo  repository.ProfileRepository
	images       media.Host
	log          logging.Logger
}

func NewAccountService(
	userRepo repository.UserRepository,
	businessRepo repository.BusinessRepository,
	profileRepo repository.ProfileRepository,
	images media.Host,
	log logging.Logger,
) *AccountService {
	return &AccountService{
		userRepo:     userRepo,
		businessRepo: businessRepo,
		profileRepo:  profileRepo,
		images:       images,
		log:          log,
	}
}

// Dashboard is everything the owner manages.
type Dashboard struct {
	User     *models.User
	Listings []models.BusinessListing
	Profile  *models.ProfessionalProfile
}

// Stats are the public counters on the home page.
type Stats struct {
	Members    int64
	Businesses int64
}

func (s *AccountService) Dashboard(ctx context.Context, userID uint64) (*Dashboard, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fromRepo(err, ErrUserNotFound)
	}

	listings, err := s.businessRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, wrap(ErrPersistence, err)
	}

	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil && !isNotFound(err) {
		return nil, wrap(ErrPersistence, err)
	}

	return &Dashboard{User: user, Listings: listings, Profile: profile}, nil
}

// UpdateTheme accepts only "light" or "dark".
func (s *AccountService) UpdateTheme(ctx context.Context, userID uint64, theme string) error {
	if theme != constants.ThemeLight && theme != constants.ThemeDark {
		return wrap(ErrValidation, ErrInvalidTheme)
	}
	if err := s.userRepo.UpdateTheme(ctx, userID, theme); err != nil {
		return fromRepo(err, ErrUserNotFound)
	}
	return nil
}

// DeleteAccount removes the user with their listings and profile, then
// cleans up uploaded logos.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uint64) error {
	listings, err := s.businessRepo.ListByUser(ctx, userID)
	if err != nil {
		return wrap(ErrPersistence, err)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fromRepo(err, ErrUserNotFound)
	}

	for _, l := range listings {
		deleteImage(ctx, s.images, s.log, l.UploadedLogo)
	}

	s.log.Info(ctx, "account deleted", "user_id", userID, "listings", len(listings))
	return nil
}

func (s *AccountService) Stats(ctx context.Context) (*Stats, error) {
	members, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, wrap(ErrPersistence, err)
	}
	businesses, err := s.businessRepo.Count(ctx)
	if err != nil {
		return nil, wrap(ErrPersistence, err)
	}
	return &Stats{Members: members, Businesses: businesses}, nil
}

// deleteImage never fails the caller; the database change has already committed.
func deleteImage(ctx context.Context, images media.Host, log logging.Logger, url string) {
	if images == nil || url == "" {
		return
	}
	if err := images.Delete(ctx, url); err != nil {
		log.Warn(ctx, "failed to delete image", "url", url, "error", err)
	}
}
