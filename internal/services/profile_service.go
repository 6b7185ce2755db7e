package services

import (
	"context"
	"sort"
	"strings"

	"github.com/circleone/member-directory/internal/logging"
	"github.com/circleone/member-directory/internal/models"
	"github.com/circleone/member-directory/internal/policy"
	"github.com/circleone/member-directory/internal/repository"
)

// ProfileInput holds the fields of the professional profile form.
type ProfileInput struct {
	JobTitle       string
	Summary        string
	HowIHelp       string
	LinkedInURL    string
	Skills         []string
	ConsentGiven   bool
	ContactVisible bool
}

// ProfileService implements the professional directory.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	log         logging.Logger
}

func NewProfileService(profileRepo repository.ProfileRepository, log logging.Logger) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, log: log}
}

// List searches consenting profiles only.
func (s *ProfileService) List(ctx context.Context, filter repository.ProfileFilter) ([]models.ProfessionalProfile, int64, error) {
	profiles, total, err := s.profileRepo.ListPublic(ctx, filter)
	if err != nil {
		return nil, 0, wrap(ErrPersistence, err)
	}
	return profiles, total, nil
}

// Skills is the sorted, deduplicated union of every consenting profile's skills.
func (s *ProfileService) Skills(ctx context.Context) ([]string, error) {
	lists, err := s.profileRepo.PublicSkills(ctx)
	if err != nil {
		return nil, wrap(ErrPersistence, err)
	}

	seen := make(map[string]struct{})
	skills := []string{}
	for _, list := range lists {
		for _, skill := range list {
			if skill == "" {
				continue
			}
			if _, ok := seen[skill]; ok {
				continue
			}
			seen[skill] = struct{}{}
			skills = append(skills, skill)
		}
	}
	sort.Strings(skills)
	return skills, nil
}

// View loads a profile for viewer (nil when anonymous). Hidden profiles are
// only served to their owner, and only other people's visits are counted.
func (s *ProfileService) View(ctx context.Context, id uint64, viewer *uint64) (*models.ProfessionalProfile, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrProfileNotFound)
	}

	if !policy.CanView(profile, viewer) {
		return nil, wrap(ErrForbidden, ErrProfileHidden)
	}

	if policy.CountsAsView(profile, viewer) {
		if err := s.profileRepo.IncrementViews(ctx, profile.ID); err != nil {
			return nil, fromRepo(err, ErrProfileNotFound)
		}
		profile.ViewCount++
	}
	return profile, nil
}

// GetOwn returns the user's profile, or nil when they have not created one.
func (s *ProfileService) GetOwn(ctx context.Context, userID uint64) (*models.ProfessionalProfile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(ErrPersistence, err)
	}
	return profile, nil
}

// Save creates the user's profile or updates the existing one.
func (s *ProfileService) Save(ctx context.Context, userID uint64, input ProfileInput) (*models.ProfessionalProfile, error) {
	if strings.TrimSpace(input.JobTitle) == "" {
		return nil, wrap(ErrValidation, ErrMissingFields)
	}

	profile, err := s.GetOwn(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &models.ProfessionalProfile{UserID: userID}
	}
	if err := policy.AssertOwner(profile, userID); err != nil {
		return nil, err
	}

	profile.JobTitle = strings.TrimSpace(input.JobTitle)
	profile.Summary = strings.TrimSpace(input.Summary)
	profile.HowIHelp = strings.TrimSpace(input.HowIHelp)
	profile.LinkedInURL = strings.TrimSpace(input.LinkedInURL)
	profile.ConsentGiven = input.ConsentGiven
	profile.ContactVisible = input.ContactVisible
	profile.SetSkills(input.Skills)

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, wrap(ErrPersistence, err)
	}
	return profile, nil
}

// Delete removes the user's profile.
func (s *ProfileService) Delete(ctx context.Context, userID uint64) error {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return fromRepo(err, ErrProfileNotFound)
	}
	if err := policy.AssertOwner(profile, userID); err != nil {
		return err
	}
	if err := s.profileRepo.DeleteByUserID(ctx, userID); err != nil {
		return fromRepo(err, ErrProfileNotFound)
	}
	return nil
}

// ParseSkills splits a comma-separated form value, dropping blanks.
func ParseSkills(raw string) []string {
	skills := []string{}
	for _, part := range strings.Split(raw, ",") {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}
