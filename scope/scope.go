// Package scope is the single access-control boundary of the
// dashboard: every place an entity collection is listed or aggregated
// goes through Filter with the acting identity.
package scope

import "github.com/gastromanager/dashboard/models"

// Scoped is any row that belongs to a restaurant. ScopeID 0 means
// "all restaurants" (unassigned users).
type Scoped interface {
	ScopeID() uint
}

// Selection resolves the restaurant id the actor may see. ok=false
// means the actor sees every restaurant. The explicit selection is
// only meaningful for super_admin; any other role is always pinned to
// its assigned restaurant no matter what was selected.
func Selection(actor models.Identity, selected *uint) (id uint, ok bool) {
	if actor.Role == models.RoleSuperAdmin {
		if selected != nil && *selected != 0 {
			return *selected, true
		}
		return 0, false
	}
	if actor.RestaurantID != nil {
		return *actor.RestaurantID, true
	}
	// Non-privileged actor without an assigned restaurant sees
	// nothing rather than everything.
	return 0, true
}

// Filter returns the subset of rows visible to the actor.
func Filter[T Scoped](rows []T, actor models.Identity, selected *uint) []T {
	id, limited := Selection(actor, selected)
	if !limited {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if row.ScopeID() == id {
			out = append(out, row)
		}
	}
	return out
}
