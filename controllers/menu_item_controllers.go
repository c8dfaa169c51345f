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

type MenuItemController struct {
	DB   *gorm.DB
	Sync *services.Synchronizer
}

func NewMenuItemController(db *gorm.DB, sync *services.Synchronizer) *MenuItemController {
	return &MenuItemController{DB: db, Sync: sync}
}

// GetAllMenuItems lists menu items visible to the actor, optionally
// narrowed to one category.
func (mc *MenuItemController) GetAllMenuItems(c *gin.Context) {
	actor := actorFrom(c)
	items := scope.Filter(mc.Sync.Snapshot().MenuItems, actor, selectedRestaurant(c))

	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 32)
		if err == nil {
			filtered := make([]models.MenuItem, 0, len(items))
			for _, item := range items {
				if item.CategoryID == uint(categoryID) {
					filtered = append(filtered, item)
				}
			}
			items = filtered
		}
	}

	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

func (mc *MenuItemController) CreateMenuItem(c *gin.Context) {
	var req struct {
		RestaurantID uint    `json:"restaurant_id" binding:"required"`
		CategoryID   uint    `json:"category_id" binding:"required"`
		Name         string  `json:"name" binding:"required"`
		Description  string  `json:"description"`
		BasePrice    float64 `json:"base_price"`
		MenuPrice    float64 `json:"menu_price"`
		Available    *bool   `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item := models.MenuItem{
		RestaurantID: req.RestaurantID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		BasePrice:    req.BasePrice,
		MenuPrice:    req.MenuPrice,
		Available:    true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.resync()
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mc *MenuItemController) UpdateMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))
	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		CategoryID  *uint    `json:"category_id"`
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		BasePrice   *float64 `json:"base_price"`
		MenuPrice   *float64 `json:"menu_price"`
		Available   *bool    `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.CategoryID != nil {
		item.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.BasePrice != nil {
		item.BasePrice = *req.BasePrice
	}
	if req.MenuPrice != nil {
		item.MenuPrice = *req.MenuPrice
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.resync()
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

func (mc *MenuItemController) DeleteMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))
	if err := mc.DB.Delete(&models.MenuItem{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.resync()
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"item_id": id})
}

func (mc *MenuItemController) resync() {
	if err := mc.Sync.Resync("write_through"); err != nil {
		utils.ErrorLogger.Printf("Error resyncing after menu item write: %v", err)
	}
}
