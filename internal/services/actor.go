package services

import "foodgram/internal/models"

// Actor is the identity an operation runs on behalf of. The zero value is anonymous.
type Actor struct {
	UserID string
	Role   string
}

// Anonymous is the actor of unauthenticated requests.
var Anonymous = Actor{}

// IsAnonymous reports whether the actor carries no user identity.
func (a Actor) IsAnonymous() bool {
	return a.UserID == ""
}

// IsAdmin reports whether the actor holds the elevated role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// canModify reports whether the actor may edit or delete a resource owned by ownerID.
func (a Actor) canModify(ownerID string) bool {
	return !a.IsAnonymous() && (a.UserID == ownerID || a.IsAdmin())
}
