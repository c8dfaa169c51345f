package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gastromanager/dashboard/models"
)

// ErrNoPermission is returned on role check failures.
var ErrNoPermission = &CustomError{"You do not have permission"}

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

// actorFrom rebuilds the acting identity from the claims the auth
// middleware put on the context.
func actorFrom(c *gin.Context) models.Identity {
	actor := models.Identity{
		ID:   c.GetUint("user_id"),
		Role: c.GetString("role"),
	}
	if v, exists := c.Get("restaurant_id"); exists {
		if id, ok := v.(*uint); ok {
			actor.RestaurantID = id
		}
	}
	return actor
}

// selectedRestaurant reads the explicit restaurant selection from the
// query string. Only meaningful for super_admin; the scope filter
// ignores it for everyone else.
func selectedRestaurant(c *gin.Context) *uint {
	raw := c.Query("restaurant_id")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	v := uint(id)
	return &v
}

func isAdminRole(role string) bool {
	return role == models.RoleSuperAdmin || role == models.RoleOwner
}
