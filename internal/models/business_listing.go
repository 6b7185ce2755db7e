package models

import "time"

type BusinessListing struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	UserID       uint64    `gorm:"not null;index" json:"user_id"`
	BusinessName string    `gorm:"type:varchar(255);not null;index" json:"business_name"`
	Category     string    `gorm:"type:varchar(100);not null;index" json:"category"`
	Description  string    `gorm:"type:text" json:"description"`
	ContactEmail string    `gorm:"type:varchar(255)" json:"contact_email"`
	Phone        string    `gorm:"type:varchar(50)" json:"phone"`
	Website      string    `gorm:"type:varchar(500)" json:"website"`
	Location     string    `gorm:"type:varchar(500)" json:"location"`
	LogoURL      string    `gorm:"type:varchar(500)" json:"logo_url"`
	UploadedLogo string    `gorm:"type:varchar(500)" json:"-"`
	Hours        string    `gorm:"type:varchar(500)" json:"hours"`
	SocialLinks  StringMap `gorm:"type:text" json:"social_links"`
	ViewCount    int64     `gorm:"not null;default:0" json:"view_count"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`

	Owner User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (b *BusinessListing) GetUserID() uint64 { return b.UserID }

// SetLogo points the listing at a logo. uploaded marks images this listing
// stored on the media host; only those are ever deleted with it.
// It returns the previously uploaded image that no longer backs the logo.
func (b *BusinessListing) SetLogo(url string, uploaded bool) (orphaned string) {
	previous := b.UploadedLogo
	b.LogoURL = url
	switch {
	case uploaded:
		b.UploadedLogo = url
	case url != previous:
		b.UploadedLogo = ""
	}
	if previous != "" && previous != b.UploadedLogo {
		return previous
	}
	return ""
}
