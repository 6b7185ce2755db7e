package dto

import (
	"time"

	"github.com/circleone/member-directory/internal/models"
)

// UserDTO represents the signed-in user in API responses
type UserDTO struct {
	ID              uint64    `json:"id"`
	Username        string    `json:"username,omitempty"`
	Email           string    `json:"email,omitempty"`
	Name            string    `json:"name"`
	OAuthProvider   string    `json:"oauth_provider"`
	ProfilePhoto    string    `json:"profile_photo,omitempty"`
	ThemePreference string    `json:"theme_preference"`
	CreatedAt       time.Time `json:"created_at"`
}

// OwnerDTO is the public face of a listing's or profile's owner
type OwnerDTO struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:              user.ID,
		Username:        user.UsernameValue(),
		Email:           user.EmailValue(),
		Name:            user.Name,
		OAuthProvider:   user.OAuthProvider,
		ProfilePhoto:    deref(user.ProfilePhoto),
		ThemePreference: user.ThemePreference,
		CreatedAt:       user.CreatedAt,
	}
}

// ToOwnerDTO converts a User model to OwnerDTO
func ToOwnerDTO(user models.User) OwnerDTO {
	return OwnerDTO{
		ID:           user.ID,
		Name:         user.Name,
		ProfilePhoto: deref(user.ProfilePhoto),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
