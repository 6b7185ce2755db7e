package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/circleone/member-directory/internal/constants"
	"github.com/circleone/member-directory/internal/logging"
	"github.com/circleone/member-directory/internal/media"
	"github.com/circleone/member-directory/internal/models"
	"github.com/circleone/member-directory/internal/policy"
	"github.com/circleone/member-directory/internal/repository"
)

// Upload is an image submitted with a form.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// BusinessInput holds the fields of the listing form.
type BusinessInput struct {
	BusinessName string
	Category     string
	Description  string
	ContactEmail string
	Phone        string
	Website      string
	Location     string
	Hours        string
	LogoURL      string
	SocialLinks  map[string]string
	Logo         *Upload
}

// BusinessService implements the business directory.
type BusinessService struct {
	businessRepo repository.BusinessRepository
	images       media.Host
	log          logging.Logger
}

func NewBusinessService(businessRepo repository.BusinessRepository, images media.Host, log logging.Logger) *BusinessService {
	return &BusinessService{businessRepo: businessRepo, images: images, log: log}
}

// List searches the directory, most viewed first.
func (s *BusinessService) List(ctx context.Context, filter repository.BusinessFilter) ([]models.BusinessListing, int64, error) {
	listings, total, err := s.businessRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, wrap(ErrPersistence, err)
	}
	return listings, total, nil
}

// Categories is the category facet for the directory filter.
func (s *BusinessService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.businessRepo.Categories(ctx)
	if err != nil {
		return nil, wrap(ErrPersistence, err)
	}
	return categories, nil
}

// View loads a listing for its detail page and counts the view. Owners' views count too.
func (s *BusinessService) View(ctx context.Context, id uint64) (*models.BusinessListing, error) {
	listing, err := s.businessRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrBusinessNotFound)
	}
	if err := s.businessRepo.IncrementViews(ctx, id); err != nil {
		return nil, fromRepo(err, ErrBusinessNotFound)
	}
	listing.ViewCount++
	return listing, nil
}

// GetOwned loads a listing for its edit form.
func (s *BusinessService) GetOwned(ctx context.Context, userID, id uint64) (*models.BusinessListing, error) {
	listing, err := s.businessRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrBusinessNotFound)
	}
	if err := policy.AssertOwner(listing, userID); err != nil {
		return nil, err
	}
	return listing, nil
}

// Create adds a listing owned by userID. An uploaded logo wins over a pasted URL.
func (s *BusinessService) Create(ctx context.Context, userID uint64, input BusinessInput) (*models.BusinessListing, error) {
	if err := validateBusiness(input); err != nil {
		return nil, err
	}

	logoURL, uploaded, err := s.storeLogo(ctx, input.Logo)
	if err != nil {
		return nil, err
	}
	if logoURL == "" {
		logoURL = strings.TrimSpace(input.LogoURL)
	}

	listing := &models.BusinessListing{UserID: userID}
	applyBusinessInput(listing, input)
	listing.SetLogo(logoURL, uploaded)

	if err := s.businessRepo.Create(ctx, listing); err != nil {
		if uploaded {
			deleteImage(ctx, s.images, s.log, logoURL)
		}
		return nil, wrap(ErrPersistence, err)
	}

	s.log.Info(ctx, "business created", "business_id", listing.ID, "user_id", userID)
	return listing, nil
}

// Update edits a listing. Only the owner may call it; nothing is written otherwise.
// The logo is replaced by a new upload, or by a non-empty pasted URL.
func (s *BusinessService) Update(ctx context.Context, userID, id uint64, input BusinessInput) (*models.BusinessListing, error) {
	listing, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := validateBusiness(input); err != nil {
		return nil, err
	}

	newLogo, uploaded, err := s.storeLogo(ctx, input.Logo)
	if err != nil {
		return nil, err
	}
	if newLogo == "" {
		newLogo = strings.TrimSpace(input.LogoURL)
	}

	applyBusinessInput(listing, input)
	var orphaned string
	if newLogo != "" {
		orphaned = listing.SetLogo(newLogo, uploaded)
	}

	if err := s.businessRepo.Update(ctx, listing); err != nil {
		if uploaded {
			deleteImage(ctx, s.images, s.log, newLogo)
		}
		return nil, wrap(ErrPersistence, err)
	}

	deleteImage(ctx, s.images, s.log, orphaned)
	return listing, nil
}

// Delete removes a listing owned by userID along with the logo it uploaded.
// Pasted logo URLs are never deleted, even when they point at the media host.
func (s *BusinessService) Delete(ctx context.Context, userID, id uint64) error {
	listing, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.businessRepo.Delete(ctx, listing.ID); err != nil {
		return fromRepo(err, ErrBusinessNotFound)
	}

	deleteImage(ctx, s.images, s.log, listing.UploadedLogo)
	s.log.Info(ctx, "business deleted", "business_id", listing.ID, "user_id", userID)
	return nil
}

// storeLogo uploads the logo if one was submitted.
func (s *BusinessService) storeLogo(ctx context.Context, upload *Upload) (string, bool, error) {
	if upload == nil || upload.Filename == "" {
		return "", false, nil
	}
	if err := media.Validate(upload.Filename, upload.Size); err != nil {
		return "", false, wrap(ErrValidation, err)
	}
	if s.images == nil {
		return "", false, wrap(ErrExternalService, ErrMediaUnavailable)
	}

	url, err := s.images.Upload(ctx, upload.Reader, upload.Filename, constants.BusinessLogoFolder)
	if err != nil {
		if errors.Is(err, media.ErrUpload) {
			s.log.Error(ctx, "logo upload failed", "error", err)
			return "", false, wrap(ErrExternalService, err)
		}
		return "", false, wrap(ErrValidation, err)
	}
	return url, true, nil
}

func validateBusiness(input BusinessInput) error {
	if strings.TrimSpace(input.BusinessName) == "" || strings.TrimSpace(input.Category) == "" {
		return wrap(ErrValidation, ErrMissingFields)
	}
	return nil
}

func applyBusinessInput(listing *models.BusinessListing, input BusinessInput) {
	listing.BusinessName = strings.TrimSpace(input.BusinessName)
	listing.Category = strings.TrimSpace(input.Category)
	listing.Description = strings.TrimSpace(input.Description)
	listing.ContactEmail = strings.TrimSpace(input.ContactEmail)
	listing.Phone = strings.TrimSpace(input.Phone)
	listing.Website = strings.TrimSpace(input.Website)
	listing.Location = strings.TrimSpace(input.Location)
	listing.Hours = strings.TrimSpace(input.Hours)
	listing.SocialLinks = models.StringMap(input.SocialLinks).Compact()
}
