package policy

import "wardwatch-be/models"

// CanView reports whether the actor may read resources scoped to the given
// ward. Admins see every ward; residents only their own.
func CanView(actor models.Actor, wardNumber int) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	return wardNumber == actor.WardNumber
}

// CanMutateStatus reports whether the actor may change a problem's status or
// assignment.
func CanMutateStatus(actor models.Actor) bool {
	return actor.Role == models.RoleAdmin
}

// ScopeWard narrows a requested ward filter to what the actor may list.
// Listing never rejects on a ward mismatch: non-admins are silently narrowed
// to their own ward whatever they asked for, while single-resource reads fail
// closed through CanView. The asymmetry is deliberate.
func ScopeWard(actor models.Actor, requested *int) *int {
	if actor.Role == models.RoleAdmin {
		return requested
	}
	ward := actor.WardNumber
	return &ward
}
