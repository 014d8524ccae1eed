package v1

import "github.com/duynhne/classifieds-service/internal/core/domain"

// Access control decisions. Pure functions with no side effects: the
// services look the resource up first (a missing resource is NotFound
// before it is Forbidden, consistently on every endpoint) and then call
// these with the rows in hand.

// CanActOnUser implements the self-or-admin rule for user record
// read/update/delete: an admin may act on anyone, everyone else only on
// their own record.
func CanActOnUser(actor *domain.UserRow, targetUserID int) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleUser:
		return actor.ID == targetUserID
	default:
		return false
	}
}

// CanModifyAdvertisement implements the owner-or-admin rule for
// advertisement update/delete.
func CanModifyAdvertisement(actor *domain.UserRow, ad *domain.AdvertisementRow) bool {
	if actor == nil || ad == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleUser:
		return actor.ID == ad.OwnerID
	default:
		return false
	}
}

// CanChangeRole reports whether the actor may change a target user's role.
// Only admins may; a role supplied by anyone else is silently ignored by
// the update path, not rejected.
func CanChangeRole(actor *domain.UserRow) bool {
	return actor != nil && actor.Role == domain.RoleAdmin
}
