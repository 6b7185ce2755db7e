package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	Email           *string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Username        *string   `gorm:"type:varchar(80);uniqueIndex" json:"username"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash    *string   `gorm:"type:varchar(255)" json:"-"`
	OAuthProvider   string    `gorm:"column:oauth_provider;type:varchar(50);not null;default:'local'" json:"oauth_provider"`
	ProfilePhoto    *string   `gorm:"type:varchar(500)" json:"profile_photo"`
	ThemePreference string    `gorm:"type:varchar(20);not null;default:'light'" json:"theme_preference"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

// SetPassword stores a salted bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	h := string(hash)
	u.PasswordHash = &h
	return nil
}

// CheckPassword is false for accounts that never had a password (OAuth users).
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == nil || *u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)) == nil
}

// EmailValue returns the email or "" when unset.
func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

func (u *User) UsernameValue() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}
