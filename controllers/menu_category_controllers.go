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

type MenuCategoryController struct {
	DB   *gorm.DB
	Sync *services.Synchronizer
}

func NewMenuCategoryController(db *gorm.DB, sync *services.Synchronizer) *MenuCategoryController {
	return &MenuCategoryController{DB: db, Sync: sync}
}

// GetAllCategories lists categories visible to the actor, in display
// order.
func (cc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	actor := actorFrom(c)
	categories := scope.Filter(cc.Sync.Snapshot().Categories, actor, selectedRestaurant(c))
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

func (cc *MenuCategoryController) CreateCategory(c *gin.Context) {
	var req struct {
		RestaurantID  uint   `json:"restaurant_id" binding:"required"`
		Name          string `json:"name" binding:"required"`
		OrderPosition int    `json:"order_position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.MenuCategory{
		RestaurantID:  req.RestaurantID,
		Name:          req.Name,
		OrderPosition: req.OrderPosition,
	}
	if err := cc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cc.resync()
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (cc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("cat_id"))
	var category models.MenuCategory
	if err := cc.DB.First(&category, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name          *string `json:"name"`
		OrderPosition *int    `json:"order_position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.OrderPosition != nil {
		category.OrderPosition = *req.OrderPosition
	}

	if err := cc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cc.resync()
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

func (cc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("cat_id"))
	if err := cc.DB.Delete(&models.MenuCategory{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cc.resync()
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"cat_id": id})
}

func (cc *MenuCategoryController) resync() {
	if err := cc.Sync.Resync("write_through"); err != nil {
		utils.ErrorLogger.Printf("Error resyncing after category write: %v", err)
	}
}
