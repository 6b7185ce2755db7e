package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/circleone/member-directory/internal/constants"
	"github.com/circleone/member-directory/internal/logging"
	"github.com/circleone/member-directory/internal/models"
	"github.com/circleone/member-directory/internal/repository"
	"github.com/circleone/member-directory/internal/utils"
)

// AuthService handles local registration and password login.
type AuthService struct {
	userRepo repository.UserRepository
	log      logging.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, log logging.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		log:      log,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Username        string
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Signup creates a local account. Checks stop at the first failure, in order:
// required fields, confirmation, length, username, email.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)

	if username == "" || name == "" || input.Password == "" {
		return nil, wrap(ErrValidation, ErrMissingFields)
	}
	if input.Password != input.ConfirmPassword {
		return nil, wrap(ErrValidation, ErrPasswordMismatch)
	}
	if utf8.RuneCountInString(input.Password) < constants.MinPasswordLength {
		return nil, wrap(ErrValidation, ErrPasswordTooShort)
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, wrap(ErrDuplicateIdentity, ErrUsernameTaken)
	} else if !isNotFound(err) {
		return nil, wrap(ErrPersistence, err)
	}

	if email != "" {
		if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
			return nil, wrap(ErrDuplicateIdentity, ErrEmailTaken)
		} else if !isNotFound(err) {
			return nil, wrap(ErrPersistence, err)
		}
	} else {
		// the users table requires a unique email
		email = utils.PlaceholderEmail(username)
	}

	avatar := utils.AvatarURL(name)
	user := &models.User{
		Username:        &username,
		Email:           &email,
		Name:            name,
		OAuthProvider:   constants.ProviderLocal,
		ProfilePhoto:    &avatar,
		ThemePreference: constants.ThemeLight,
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, wrap(ErrPersistence, err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, wrap(ErrPersistence, err)
	}

	s.log.Info(ctx, "user signed up", "user_id", user.ID, "provider", constants.ProviderLocal)
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Identifier string
	Password   string
}

// Login verifies credentials against the account whose username or email matches.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, wrap(ErrValidation, ErrMissingFields)
	}

	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, wrap(ErrPersistence, err)
	}

	if !user.CheckPassword(input.Password) {
		s.log.Debug(ctx, "password check failed", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrUserNotFound)
	}
	return user, nil
}
