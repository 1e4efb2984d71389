// Package authz holds the ownership rule applied to every read, update and
// delete of an item. It is a pure function of the caller and the target; all
// state lives in the database layer.
package authz

import "serwer-zasobow/internal/models"

// Permit reports whether the caller may read, update or delete the item.
// Superusers may touch anything, everyone else only their own items.
//
// Existence is not this package's concern: handlers must resolve the item
// first, so a missing item is reported as not-found rather than forbidden.
func Permit(caller *models.User, item *models.Item) bool {
	if caller == nil || item == nil {
		return false
	}
	return caller.IsSuperuser || item.OwnerID == caller.ID
}
