// Command hashpasswords is a one-shot migration for rows that still
// carry credentials in the legacy password column. Plaintext values
// are bcrypt-hashed into password_hash; values that already look like
// bcrypt are moved over as-is. The legacy column is cleared either
// way.
package main

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/gastromanager/dashboard/config"
	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/utils"
)

func looksHashed(value string) bool {
	return strings.HasPrefix(value, "$2a$") ||
		strings.HasPrefix(value, "$2b$") ||
		strings.HasPrefix(value, "$2y$")
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	var users []models.User
	if err := db.Where("password <> ''").Find(&users).Error; err != nil {
		utils.ErrorLogger.Fatalf("Failed to load users: %v", err)
	}

	migrated := 0
	for _, user := range users {
		if looksHashed(user.Password) {
			user.PasswordHash = user.Password
		} else {
			hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
			if err != nil {
				utils.ErrorLogger.Printf("Failed to hash password for user %d: %v", user.ID, err)
				continue
			}
			user.PasswordHash = string(hashed)
		}
		user.Password = ""

		if err := db.Model(&models.User{}).Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"password_hash": user.PasswordHash,
				"password":      "",
			}).Error; err != nil {
			utils.ErrorLogger.Printf("Failed to update user %d: %v", user.ID, err)
			continue
		}
		migrated++
	}

	utils.InfoLogger.Printf("Migrated %d of %d users with legacy credentials", migrated, len(users))
}
