package services

import (
	"context"
	"strings"

	"github.com/circleone/member-directory/internal/constants"
	"github.com/circleone/member-directory/internal/logging"
	"github.com/circleone/member-directory/internal/models"
	"github.com/circleone/member-directory/internal/oauth"
	"github.com/circleone/member-directory/internal/repository"
	"github.com/circleone/member-directory/internal/utils"
)

// LinkPolicy decides what happens when a provider returns the email of an
// account that already exists.
type LinkPolicy string

const (
	// LinkMerge takes over the existing account and refreshes its name, photo and provider.
	LinkMerge LinkPolicy = "merge"
	// LinkConfirm refuses to sign in through a provider the account was not created with.
	LinkConfirm LinkPolicy = "confirm"
)

// ParseLinkPolicy falls back to LinkMerge for unknown values.
func ParseLinkPolicy(v string) LinkPolicy {
	if LinkPolicy(strings.ToLower(strings.TrimSpace(v))) == LinkConfirm {
		return LinkConfirm
	}
	return LinkMerge
}

// IdentityService maps federated sign-ins onto users.
type IdentityService struct {
	userRepo repository.UserRepository
	policy   LinkPolicy
	log      logging.Logger

	testLogin bool
}

func NewIdentityService(userRepo repository.UserRepository, policy LinkPolicy, log logging.Logger) *IdentityService {
	return &IdentityService{userRepo: userRepo, policy: policy, log: log}
}

// AllowTestLogin enables the shared development account.
func (s *IdentityService) AllowTestLogin(enabled bool) *IdentityService {
	s.testLogin = enabled
	return s
}

// TestLoginEnabled reports whether ResolveTestLogin may be used.
func (s *IdentityService) TestLoginEnabled() bool {
	return s.testLogin
}

// ResolveOAuth returns the user for a provider callback, creating one when the
// email is new. The boolean reports whether the account was created.
func (s *IdentityService) ResolveOAuth(ctx context.Context, provider string, info *oauth.UserInfo) (*models.User, bool, error) {
	if info == nil || strings.TrimSpace(info.Email) == "" {
		return nil, false, wrap(ErrExternalService, ErrMissingUserInfo)
	}

	email := strings.TrimSpace(info.Email)
	name := strings.TrimSpace(info.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	var photo *string
	if info.Picture != "" {
		picture := info.Picture
		photo = &picture
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !isNotFound(err) {
		return nil, false, wrap(ErrPersistence, err)
	}

	if existing == nil {
		user := &models.User{
			Email:           &email,
			Name:            name,
			OAuthProvider:   provider,
			ProfilePhoto:    photo,
			ThemePreference: constants.ThemeLight,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, false, wrap(ErrPersistence, err)
		}
		s.log.Info(ctx, "user signed up", "user_id", user.ID, "provider", provider)
		return user, true, nil
	}

	if s.policy == LinkConfirm && existing.OAuthProvider != provider {
		s.log.Warn(ctx, "oauth sign-in refused for existing account",
			"user_id", existing.ID, "account_provider", existing.OAuthProvider, "provider", provider)
		return nil, false, wrap(ErrDuplicateIdentity, ErrAccountLinkRequired)
	}

	if existing.OAuthProvider != provider {
		s.log.Warn(ctx, "existing account switched provider",
			"user_id", existing.ID, "from", existing.OAuthProvider, "to", provider)
	}

	if err := s.userRepo.UpdateOAuthIdentity(ctx, existing.ID, name, photo, provider); err != nil {
		return nil, false, fromRepo(err, ErrUserNotFound)
	}
	existing.Name = name
	existing.ProfilePhoto = photo
	existing.OAuthProvider = provider

	return existing, false, nil
}

// ResolveTestLogin returns the shared development account, creating it on first use.
func (s *IdentityService) ResolveTestLogin(ctx context.Context) (*models.User, error) {
	if !s.testLogin {
		return nil, wrap(ErrForbidden, ErrTestLoginDisabled)
	}

	user, err := s.userRepo.FindByEmail(ctx, constants.TestUserEmail)
	if err == nil {
		return user, nil
	}
	if !isNotFound(err) {
		return nil, wrap(ErrPersistence, err)
	}

	email := constants.TestUserEmail
	avatar := utils.AvatarURL(constants.TestUserName)
	user = &models.User{
		Email:           &email,
		Name:            constants.TestUserName,
		OAuthProvider:   constants.ProviderTest,
		ProfilePhoto:    &avatar,
		ThemePreference: constants.ThemeLight,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, wrap(ErrPersistence, err)
	}
	return user, nil
}
