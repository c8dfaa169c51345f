package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/session"
	"github.com/gastromanager/dashboard/utils"
)

type AuthController struct {
	DB       *gorm.DB
	Sessions *session.Store
}

func NewAuthController(db *gorm.DB, sessions *session.Store) *AuthController {
	return &AuthController{DB: db, Sessions: sessions}
}

// Login verifies a username/password pair and returns the sanitized
// identity plus a JWT. The two rejection reasons are kept distinct so
// the login form can show them inline.
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := ac.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user not found"))
		return
	}

	// The hash may live in either of two columns, rows migrated from
	// the old schema still carry it in `password`.
	hash := user.CredentialHash()
	if hash == "" {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("account has no credentials configured"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid password"))
		return
	}

	identity := user.Sanitize()

	token, err := utils.GenerateToken(user.ID, user.Role, user.RestaurantID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Persist identity and, for scoped users, the restaurant record.
	var restaurant *models.Restaurant
	if user.RestaurantID != nil {
		var r models.Restaurant
		if err := ac.DB.First(&r, *user.RestaurantID).Error; err == nil {
			restaurant = &r
		}
	}
	if ac.Sessions != nil {
		if err := ac.Sessions.SaveLogin(c.Request.Context(), identity, restaurant); err != nil {
			utils.ErrorLogger.Printf("Error persisting session for user %d: %v", user.ID, err)
		}
	}

	utils.InfoLogger.Printf("Login successful for %s (role=%s)", user.Username, user.Role)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":      token,
		"user":       identity,
		"restaurant": restaurant,
	})
}

// RestoreSession rebuilds the client state after a reload. A corrupt
// stored record is discarded key-by-key, so a broken identity never
// blocks restaurant-scope restoration or vice versa.
func (ac *AuthController) RestoreSession(c *gin.Context) {
	actor := actorFrom(c)

	if ac.Sessions == nil {
		utils.RespondJSON(c, http.StatusOK, "Session state", gin.H{"user": nil, "restaurant": nil})
		return
	}

	identity, restaurant, err := ac.Sessions.Restore(c.Request.Context(), actor.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session state", gin.H{
		"user":       identity,
		"restaurant": restaurant,
	})
}

// Logout clears both session keys and blacklists the presented token.
func (ac *AuthController) Logout(c *gin.Context) {
	actor := actorFrom(c)

	if ac.Sessions != nil {
		if err := ac.Sessions.Clear(c.Request.Context(), actor.ID); err != nil {
			utils.ErrorLogger.Printf("Error clearing session for user %d: %v", actor.ID, err)
		}
	}

	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		token = c.Query("token")
	}
	if token != "" {
		utils.BlacklistToken(token)
	}

	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile returns the acting user's sanitized identity.
func (ac *AuthController) GetProfile(c *gin.Context) {
	actor := actorFrom(c)

	var user models.User
	if err := ac.DB.First(&user, actor.ID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", user.Sanitize())
}
