// Package policy decides who may see and who may change directory entries.
package policy

import "errors"

// ErrForbidden is returned when a user tries to change a resource they do not own.
var ErrForbidden = errors.New("you do not own this resource")

// Ownable is implemented by models that belong to a single user.
type Ownable interface {
	GetUserID() uint64
}

// AssertOwner returns ErrForbidden unless userID owns resource.
// A nil resource is never owned.
func AssertOwner(resource Ownable, userID uint64) error {
	if resource == nil || userID == 0 {
		return ErrForbidden
	}
	if resource.GetUserID() != userID {
		return ErrForbidden
	}
	return nil
}
