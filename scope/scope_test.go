package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gastromanager/dashboard/models"
)

func uintPtr(v uint) *uint { return &v }

func sampleOrders() []models.Order {
	return []models.Order{
		{ID: 1, RestaurantID: 1},
		{ID: 2, RestaurantID: 1},
		{ID: 3, RestaurantID: 2},
	}
}

func TestFilterSuperAdminSeesAll(t *testing.T) {
	actor := models.Identity{ID: 1, Role: models.RoleSuperAdmin}
	got := Filter(sampleOrders(), actor, nil)
	assert.Len(t, got, 3)
}

func TestFilterSuperAdminSelection(t *testing.T) {
	actor := models.Identity{ID: 1, Role: models.RoleSuperAdmin}
	got := Filter(sampleOrders(), actor, uintPtr(2))
	assert.Len(t, got, 1)
	assert.Equal(t, uint(3), got[0].ID)
}

func TestFilterScopedRoleIgnoresSelection(t *testing.T) {
	// A manager pinned to restaurant 1 cannot widen their view by
	// selecting restaurant 2.
	actor := models.Identity{ID: 5, Role: models.RoleManager, RestaurantID: uintPtr(1)}
	got := Filter(sampleOrders(), actor, uintPtr(2))
	assert.Len(t, got, 2)
	for _, order := range got {
		assert.Equal(t, uint(1), order.RestaurantID)
	}
}

func TestFilterUnassignedScopedRoleSeesNothing(t *testing.T) {
	actor := models.Identity{ID: 9, Role: models.RoleKitchen}
	got := Filter(sampleOrders(), actor, nil)
	assert.Empty(t, got)
}

func TestFilterNeverInventsRows(t *testing.T) {
	rows := sampleOrders()
	actors := []models.Identity{
		{Role: models.RoleSuperAdmin},
		{Role: models.RoleOwner, RestaurantID: uintPtr(1)},
		{Role: models.RoleManager, RestaurantID: uintPtr(2)},
		{Role: models.RoleCashier},
	}
	for _, actor := range actors {
		got := Filter(rows, actor, nil)
		assert.LessOrEqual(t, len(got), len(rows))
		for _, order := range got {
			assert.Contains(t, rows, order)
		}
	}
}
