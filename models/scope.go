package models

// ScopeID reports which restaurant a row belongs to, for the scoped
// view filter. A restaurant row scopes to itself.

func (r Restaurant) ScopeID() uint   { return r.ID }
func (c MenuCategory) ScopeID() uint { return c.RestaurantID }
func (m MenuItem) ScopeID() uint     { return m.RestaurantID }
func (o Order) ScopeID() uint        { return o.RestaurantID }
func (r Reservation) ScopeID() uint  { return r.RestaurantID }

// A user without an assigned restaurant scopes to 0 (all).
func (u User) ScopeID() uint {
	if u.RestaurantID == nil {
		return 0
	}
	return *u.RestaurantID
}
