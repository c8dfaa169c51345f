package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/services"
	"github.com/gastromanager/dashboard/utils"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Restaurant{},
		&models.User{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.Reservation{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// testAuth stands in for the auth middleware, injecting a super_admin
// actor.
func testAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("role", models.RoleSuperAdmin)
		c.Next()
	}
}

func setupOrderRouter(db *gorm.DB, sync *services.Synchronizer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(testAuth())

	orderCtrl := NewOrderController(db, sync)
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.GET("/orders/board", orderCtrl.GetOrderBoard)
	r.POST("/orders/board/move", orderCtrl.MoveOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.POST("/orders/:order_id/advance", orderCtrl.AdvanceOrder)
	r.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)
	return r
}

func seedOrder(t *testing.T, db *gorm.DB, status string) models.Order {
	t.Helper()
	order := models.Order{
		RestaurantID: 1,
		OrderNumber:  fmt.Sprintf("%s-%s", t.Name(), status),
		Status:       status,
		Total:        25.50,
		Items:        models.OrderItems{{Name: "Burger", Quantity: 1, Price: 25.50}},
		CreatedAt:    time.Now(),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return order
}

func advance(r *gin.Engine, orderID uint, status string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(map[string]string{"status": status})
	req, _ := http.NewRequest("POST", fmt.Sprintf("/orders/%d/advance", orderID), bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdvanceOrderForward(t *testing.T) {
	db := setupOrderTestDB(t)
	sync := services.NewSynchronizer(db)
	r := setupOrderRouter(db, sync)
	order := seedOrder(t, db, models.StatusPending)

	w := advance(r, order.ID, models.StatusPreparing)
	assert.Equal(t, http.StatusOK, w.Code)

	// The write is an update, not an insert.
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var stored models.Order
	db.First(&stored, order.ID)
	assert.Equal(t, models.StatusPreparing, stored.Status)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Order in preparation", data["toast"])
	assert.Equal(t, true, data["sound"])
}

func TestAdvanceOrderRejectsSkip(t *testing.T) {
	db := setupOrderTestDB(t)
	sync := services.NewSynchronizer(db)
	r := setupOrderRouter(db, sync)
	order := seedOrder(t, db, models.StatusPending)

	w := advance(r, order.ID, models.StatusDelivered)
	assert.Equal(t, http.StatusConflict, w.Code)

	var stored models.Order
	db.First(&stored, order.ID)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestAdvanceOrderRejectsBackwardTarget(t *testing.T) {
	db := setupOrderTestDB(t)
	sync := services.NewSynchronizer(db)
	r := setupOrderRouter(db, sync)
	order := seedOrder(t, db, models.StatusPreparing)

	// pending is never a valid advance target.
	w := advance(r, order.ID, models.StatusPending)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var stored models.Order
	db.First(&stored, order.ID)
	assert.Equal(t, models.StatusPreparing, stored.Status)
}

func TestMoveOrderSameColumnIsNoOp(t *testing.T) {
	db := setupOrderTestDB(t)
	sync := services.NewSynchronizer(db)
	r := setupOrderRouter(db, sync)
	order := seedOrder(t, db, models.StatusPending)
	before := order.UpdatedAt

	payload, _ := json.Marshal(map[string]interface{}{
		"order_id": order.ID, "from": "pending", "to": "pending",
	})
	req, _ := http.NewRequest("POST", "/orders/board/move", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No change", resp["message"])

	var stored models.Order
	db.First(&stored, order.ID)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.WithinDuration(t, before, stored.UpdatedAt, time.Second)
}

func TestMoveOrderUnknownColumnIsNoOp(t *testing.T) {
	db := setupOrderTestDB(t)
	sync := services.NewSynchronizer(db)
	r := setupOrderRouter(db, sync)
	order := seedOrder(t, db, models.StatusPending)

	payload, _ := json.Marshal(map[string]interface{}{
		"order_id": order.ID, "from": "pending", "to": "archive",
	})
	req, _ := http.NewRequest("POST", "/orders/board/move", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Order
	db.First(&stored, order.ID)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestMoveOrderBackwardRejected(t *testing.T) {
	db := setupOrderTestDB(t)
	sync := services.NewSynchronizer(db)
	r := setupOrderRouter(db, sync)
	order := seedOrder(t, db, models.StatusReady)

	payload, _ := json.Marshal(map[string]interface{}{
		"order_id": order.ID, "from": "ready", "to": "pending",
	})
	req, _ := http.NewRequest("POST", "/orders/board/move", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var stored models.Order
	db.First(&stored, order.ID)
	assert.Equal(t, models.StatusReady, stored.Status)
}

func TestCancelOrderStampsTime(t *testing.T) {
	db := setupOrderTestDB(t)
	sync := services.NewSynchronizer(db)
	r := setupOrderRouter(db, sync)
	order := seedOrder(t, db, models.StatusPreparing)

	req, _ := http.NewRequest("POST", fmt.Sprintf("/orders/%d/cancel", order.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Order
	db.First(&stored, order.ID)
	assert.Equal(t, models.StatusCancelled, stored.Status)
	assert.NotNil(t, stored.CancelledAt)
}

func TestCancelDeliveredOrderRejected(t *testing.T) {
	db := setupOrderTestDB(t)
	sync := services.NewSynchronizer(db)
	r := setupOrderRouter(db, sync)
	order := seedOrder(t, db, models.StatusDelivered)

	req, _ := http.NewRequest("POST", fmt.Sprintf("/orders/%d/cancel", order.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var stored models.Order
	db.First(&stored, order.ID)
	assert.Equal(t, models.StatusDelivered, stored.Status)
	assert.Nil(t, stored.CancelledAt)
}

func TestOrderBoardCountsPerStatus(t *testing.T) {
	db := setupOrderTestDB(t)
	sync := services.NewSynchronizer(db)
	r := setupOrderRouter(db, sync)

	seedOrder(t, db, models.StatusPending)
	seedOrder(t, db, models.StatusPreparing)
	seedOrder(t, db, models.StatusCancelled)
	deliveredToday := seedOrder(t, db, models.StatusDelivered)
	_ = deliveredToday

	// A delivery from last week does not count as delivered today.
	old := models.Order{
		RestaurantID: 1,
		OrderNumber:  t.Name() + "-old",
		Status:       models.StatusDelivered,
		CreatedAt:    time.Now().AddDate(0, 0, -7),
	}
	assert.NoError(t, db.Create(&old).Error)

	assert.NoError(t, sync.Resync("test"))

	req, _ := http.NewRequest("GET", "/orders/board", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	counts := data["counts"].(map[string]interface{})

	assert.Equal(t, float64(1), counts["pending"])
	assert.Equal(t, float64(1), counts["preparing"])
	assert.Equal(t, float64(0), counts["ready"])
	assert.Equal(t, float64(1), counts["cancelled"])
	assert.Equal(t, float64(1), counts["delivered_today"])

	columns := data["columns"].(map[string]interface{})
	assert.Len(t, columns, 3)
}
