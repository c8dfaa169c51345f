package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/scope"
	"github.com/gastromanager/dashboard/services"
	"github.com/gastromanager/dashboard/utils"
)

type UserController struct {
	DB   *gorm.DB
	Sync *services.Synchronizer
}

func NewUserController(db *gorm.DB, sync *services.Synchronizer) *UserController {
	return &UserController{DB: db, Sync: sync}
}

// GetAllUsers lists users visible to the actor, sanitized.
func (uc *UserController) GetAllUsers(c *gin.Context) {
	actor := actorFrom(c)
	users := scope.Filter(uc.Sync.Snapshot().Users, actor, selectedRestaurant(c))

	identities := make([]models.Identity, 0, len(users))
	for _, user := range users {
		identities = append(identities, user.Sanitize())
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", identities)
}

func (uc *UserController) CreateUser(c *gin.Context) {
	actor := actorFrom(c)
	if !isAdminRole(actor.Role) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		Name         string `json:"name" binding:"required"`
		Username     string `json:"username" binding:"required"`
		Email        string `json:"email"`
		Password     string `json:"password" binding:"required"`
		Role         string `json:"role" binding:"required"`
		RestaurantID *uint  `json:"restaurant_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !models.ValidRole(req.Role) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown role"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         req.Role,
		RestaurantID: req.RestaurantID,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user created: %s (role=%s)", user.Username, user.Role)

	uc.resync()
	utils.RespondJSON(c, http.StatusCreated, "User created", user.Sanitize())
}

// UpdateUser rewrites the credential hash only when a new plaintext
// password is supplied; an empty password never invalidates the old
// hash.
func (uc *UserController) UpdateUser(c *gin.Context) {
	actor := actorFrom(c)
	if !isAdminRole(actor.Role) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	id, _ := strconv.Atoi(c.Param("user_id"))
	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name         *string `json:"name"`
		Username     *string `json:"username"`
		Email        *string `json:"email"`
		Password     string  `json:"password"`
		Role         *string `json:"role"`
		RestaurantID *uint   `json:"restaurant_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown role"))
			return
		}
		user.Role = *req.Role
	}
	if req.RestaurantID != nil {
		user.RestaurantID = req.RestaurantID
	}

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		user.PasswordHash = string(hashed)
		// Drop the legacy column once a fresh hash exists.
		user.Password = ""
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	uc.resync()
	utils.RespondJSON(c, http.StatusOK, "User updated", user.Sanitize())
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	actor := actorFrom(c)
	if !isAdminRole(actor.Role) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	id, _ := strconv.Atoi(c.Param("user_id"))
	if err := uc.DB.Delete(&models.User{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	uc.resync()
	utils.RespondJSON(c, http.StatusOK, "User deleted", gin.H{"user_id": id})
}

func (uc *UserController) resync() {
	if err := uc.Sync.Resync("write_through"); err != nil {
		utils.ErrorLogger.Printf("Error resyncing after user write: %v", err)
	}
}
