package models

import "time"

type ProfessionalProfile struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	UserID         uint64     `gorm:"not null;uniqueIndex" json:"user_id"`
	JobTitle       string     `gorm:"type:varchar(255);not null;index" json:"job_title"`
	Summary        string     `gorm:"type:text" json:"summary"`
	HowIHelp       string     `gorm:"column:how_i_help;type:text" json:"how_i_help"`
	LinkedInURL    string     `gorm:"column:linkedin_url;type:varchar(500)" json:"linkedin_url"`
	Skills         StringList `gorm:"column:skills_json;type:text" json:"skills"`
	ConsentGiven   bool       `gorm:"not null;default:false" json:"consent_given"`
	ContactVisible bool       `gorm:"not null;default:false" json:"contact_visible"`
	ViewCount      int64      `gorm:"not null;default:0" json:"view_count"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *ProfessionalProfile) GetUserID() uint64 { return p.UserID }

// SetSkills replaces the skill list with a copy of skills.
func (p *ProfessionalProfile) SetSkills(skills []string) {
	p.Skills = append(StringList{}, skills...)
}

// IsListed reports whether the owner opted into the public directory.
func (p *ProfessionalProfile) IsListed() bool { return p.ConsentGiven }
