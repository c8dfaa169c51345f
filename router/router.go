package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/gastromanager/dashboard/controllers"
	"github.com/gastromanager/dashboard/middlewares"
	"github.com/gastromanager/dashboard/services"
	"github.com/gastromanager/dashboard/session"
)

// SetupRouter wires every endpoint. All data routes sit behind the
// auth middleware; the websocket route carries its token as a query
// parameter.
func SetupRouter(db *gorm.DB, sync *services.Synchronizer, sessions *session.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.RateLimit("300-M"))

	authController := controllers.NewAuthController(db, sessions)
	restaurantController := controllers.NewRestaurantController(db, sync)
	userController := controllers.NewUserController(db, sync)
	categoryController := controllers.NewMenuCategoryController(db, sync)
	menuItemController := controllers.NewMenuItemController(db, sync)
	orderController := controllers.NewOrderController(db, sync)
	reservationController := controllers.NewReservationController(db, sync)
	dashboardController := controllers.NewDashboardController(db, sync)
	notificationController := controllers.NewNotificationController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/login", middlewares.StrictRateLimit(), authController.Login)

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/logout", authController.Logout)
		api.GET("/session", authController.RestoreSession)
		api.GET("/profile", authController.GetProfile)

		api.GET("/restaurants", restaurantController.GetAllRestaurants)
		api.POST("/restaurants", restaurantController.CreateRestaurant)
		api.PATCH("/restaurants/:restaurant_id", restaurantController.UpdateRestaurant)
		api.DELETE("/restaurants/:restaurant_id", restaurantController.DeleteRestaurant)

		api.GET("/users", userController.GetAllUsers)
		api.POST("/users", userController.CreateUser)
		api.PATCH("/users/:user_id", userController.UpdateUser)
		api.DELETE("/users/:user_id", userController.DeleteUser)

		api.GET("/menu-categories", categoryController.GetAllCategories)
		api.POST("/menu-categories", categoryController.CreateCategory)
		api.PATCH("/menu-categories/:cat_id", categoryController.UpdateCategory)
		api.DELETE("/menu-categories/:cat_id", categoryController.DeleteCategory)

		api.GET("/menu-items", menuItemController.GetAllMenuItems)
		api.POST("/menu-items", menuItemController.CreateMenuItem)
		api.PATCH("/menu-items/:item_id", menuItemController.UpdateMenuItem)
		api.DELETE("/menu-items/:item_id", menuItemController.DeleteMenuItem)

		api.GET("/orders", orderController.GetAllOrders)
		api.GET("/orders/board", orderController.GetOrderBoard)
		api.POST("/orders/board/move", orderController.MoveOrder)
		api.GET("/orders/:order_id", orderController.GetOrderByID)
		api.POST("/orders/:order_id/advance", orderController.AdvanceOrder)
		api.POST("/orders/:order_id/cancel", orderController.CancelOrder)

		api.GET("/reservations", reservationController.GetAllReservations)
		api.POST("/reservations", reservationController.CreateReservation)
		api.PATCH("/reservations/:reservation_id", reservationController.UpdateReservation)
		api.PATCH("/reservations/:reservation_id/schedule", reservationController.UpdateSchedule)
		api.DELETE("/reservations/:reservation_id", reservationController.DeleteReservation)

		api.GET("/dashboard/stats", dashboardController.GetDashboardStats)
		api.GET("/dashboard/analytics", dashboardController.GetAnalytics)
		api.GET("/reports/export", dashboardController.ExportOrders)

		api.GET("/notifications", notificationController.GetAllNotifications)
		api.DELETE("/notifications/:notif_id", notificationController.DeleteNotification)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/dashboard", controllers.LiveHandler)
	}

	return r
}
