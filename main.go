package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gastromanager/dashboard/config"
	"github.com/gastromanager/dashboard/database"
	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/router"
	"github.com/gastromanager/dashboard/services"
	"github.com/gastromanager/dashboard/session"
	"github.com/gastromanager/dashboard/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Restaurant{},
		&models.User{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.Reservation{},
		&models.DBChange{},
		&models.Notification{},
	); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := database.ExecuteTriggers(db); err != nil {
		utils.ErrorLogger.Printf("Failed to install change triggers: %v", err)
	}

	var sessions *session.Store
	redisClient, err := config.NewRedisClient(config.LoadRedisConfig())
	if err != nil {
		// Sessions fall back to process memory and the token
		// blacklist stays in memory too.
		utils.ErrorLogger.Printf("Redis unavailable, sessions will not survive restarts: %v", err)
		utils.InitTokenStore(nil)
		sessions = session.NewMemoryStore()
	} else {
		utils.InitTokenStore(redisClient)
		sessions = session.NewRedisStore(redisClient)
	}

	sync := services.NewSynchronizer(db)
	if err := sync.Resync("startup"); err != nil {
		utils.ErrorLogger.Fatalf("Initial data sync failed: %v", err)
	}

	monitor := services.NewChangeMonitor(db, sync)
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(db, sync, sessions)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	utils.InfoLogger.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatalf("Server error: %v", err)
	}
}
