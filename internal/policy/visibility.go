package policy

import "github.com/circleone/member-directory/internal/models"

// CanView reports whether viewer may open profile. A nil viewer is anonymous.
// Owners always can; everyone else only after the owner consented to be listed.
func CanView(profile *models.ProfessionalProfile, viewer *uint64) bool {
	if profile == nil {
		return false
	}
	if IsOwner(profile, viewer) {
		return true
	}
	return profile.ConsentGiven
}

// IsOwner reports whether viewer is the owner of resource.
func IsOwner(resource Ownable, viewer *uint64) bool {
	return viewer != nil && resource != nil && resource.GetUserID() == *viewer
}

// CountsAsView reports whether opening profile should bump its view counter.
func CountsAsView(profile *models.ProfessionalProfile, viewer *uint64) bool {
	if profile == nil {
		return false
	}
	return !IsOwner(profile, viewer) && CanView(profile, viewer)
}
