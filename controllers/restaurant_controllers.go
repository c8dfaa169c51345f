package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/scope"
	"github.com/gastromanager/dashboard/services"
	"github.com/gastromanager/dashboard/utils"
)

type RestaurantController struct {
	DB   *gorm.DB
	Sync *services.Synchronizer
}

func NewRestaurantController(db *gorm.DB, sync *services.Synchronizer) *RestaurantController {
	return &RestaurantController{DB: db, Sync: sync}
}

// GetAllRestaurants lists the restaurants visible to the actor.
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	actor := actorFrom(c)
	restaurants := scope.Filter(rc.Sync.Snapshot().Restaurants, actor, selectedRestaurant(c))
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

// CreateRestaurant is restricted to super_admin.
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	actor := actorFrom(c)
	if actor.Role != models.RoleSuperAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		Name         string `json:"name" binding:"required"`
		Address      string `json:"address"`
		CuisineType  string `json:"cuisine_type"`
		OpeningHours string `json:"opening_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant := models.Restaurant{
		Name:         req.Name,
		Address:      req.Address,
		CuisineType:  req.CuisineType,
		OpeningHours: req.OpeningHours,
	}
	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.resync()
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	actor := actorFrom(c)
	if actor.Role != models.RoleSuperAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	id, _ := strconv.Atoi(c.Param("restaurant_id"))
	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name         *string `json:"name"`
		Address      *string `json:"address"`
		CuisineType  *string `json:"cuisine_type"`
		OpeningHours *string `json:"opening_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.CuisineType != nil {
		restaurant.CuisineType = *req.CuisineType
	}
	if req.OpeningHours != nil {
		restaurant.OpeningHours = *req.OpeningHours
	}

	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.resync()
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	actor := actorFrom(c)
	if actor.Role != models.RoleSuperAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	id, _ := strconv.Atoi(c.Param("restaurant_id"))
	if err := rc.DB.Delete(&models.Restaurant{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.resync()
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", gin.H{"restaurant_id": id})
}

func (rc *RestaurantController) resync() {
	if err := rc.Sync.Resync("write_through"); err != nil {
		utils.ErrorLogger.Printf("Error resyncing after restaurant write: %v", err)
	}
}
