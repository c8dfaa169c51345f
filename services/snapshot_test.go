package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/utils"
)

func setupSnapshotDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	// Shared cache keeps every pooled connection on the same
	// in-memory database.
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
		&models.DBChange{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestResyncLoadsAllCollections(t *testing.T) {
	db := setupSnapshotDB(t)
	db.Create(&models.Restaurant{Name: "Trattoria"})
	db.Create(&models.User{Name: "Anna", Username: "anna", Role: models.RoleManager})
	db.Create(&models.Order{RestaurantID: 1, OrderNumber: "A-1", Status: models.StatusPending})
	db.Create(&models.Reservation{RestaurantID: 1, CustomerName: "Bob", Date: "2026-04-01", Time: "19:00"})

	sync := NewSynchronizer(db)
	assert.NoError(t, sync.Resync("test"))

	snap := sync.Snapshot()
	assert.Len(t, snap.Restaurants, 1)
	assert.Len(t, snap.Users, 1)
	assert.Len(t, snap.Orders, 1)
	assert.Len(t, snap.Reservations, 1)
}

func TestResyncOrdersNewestFirst(t *testing.T) {
	db := setupSnapshotDB(t)
	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	db.Create(&models.Order{RestaurantID: 1, OrderNumber: "A-1", Status: models.StatusPending, CreatedAt: older})
	db.Create(&models.Order{RestaurantID: 1, OrderNumber: "A-2", Status: models.StatusPending, CreatedAt: newer})

	sync := NewSynchronizer(db)
	assert.NoError(t, sync.Resync("test"))

	snap := sync.Snapshot()
	assert.Len(t, snap.Orders, 2)
	assert.Equal(t, "A-2", snap.Orders[0].OrderNumber)
}

func TestApplyOrderUpsertsInPlace(t *testing.T) {
	db := setupSnapshotDB(t)
	sync := NewSynchronizer(db)

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sync.ApplyOrder(models.Order{ID: 1, OrderNumber: "A-1", Status: models.StatusPending, CreatedAt: created})
	sync.ApplyOrder(models.Order{ID: 1, OrderNumber: "A-1", Status: models.StatusPreparing, CreatedAt: created})

	snap := sync.Snapshot()
	assert.Len(t, snap.Orders, 1)
	assert.Equal(t, models.StatusPreparing, snap.Orders[0].Status)
}

func TestApplyOrderDoesNotMutatePublishedSnapshot(t *testing.T) {
	db := setupSnapshotDB(t)
	sync := NewSynchronizer(db)

	sync.ApplyOrder(models.Order{ID: 1, Status: models.StatusPending})
	before := sync.Snapshot()

	sync.ApplyOrder(models.Order{ID: 1, Status: models.StatusReady})

	// The snapshot grabbed before the write is untouched.
	assert.Equal(t, models.StatusPending, before.Orders[0].Status)
	assert.Equal(t, models.StatusReady, sync.Snapshot().Orders[0].Status)
}

func TestRemoveOrder(t *testing.T) {
	db := setupSnapshotDB(t)
	sync := NewSynchronizer(db)

	sync.ApplyOrder(models.Order{ID: 1})
	sync.ApplyOrder(models.Order{ID: 2})
	sync.RemoveOrder(1)

	snap := sync.Snapshot()
	assert.Len(t, snap.Orders, 1)
	assert.Equal(t, uint(2), snap.Orders[0].ID)
}

func TestApplyReservationKeepsDateOrder(t *testing.T) {
	db := setupSnapshotDB(t)
	sync := NewSynchronizer(db)

	sync.ApplyReservation(models.Reservation{ID: 1, Date: "2026-04-10", Time: "19:00"})
	sync.ApplyReservation(models.Reservation{ID: 2, Date: "2026-04-01", Time: "18:00"})

	snap := sync.Snapshot()
	assert.Len(t, snap.Reservations, 2)
	assert.Equal(t, "2026-04-01", snap.Reservations[0].Date)
}

func TestReloadOrdersLeavesOtherCollections(t *testing.T) {
	db := setupSnapshotDB(t)
	db.Create(&models.Restaurant{Name: "Trattoria"})

	sync := NewSynchronizer(db)
	assert.NoError(t, sync.Resync("test"))

	db.Create(&models.Order{RestaurantID: 1, OrderNumber: "A-1", Status: models.StatusPending})
	assert.NoError(t, sync.ReloadOrders())

	snap := sync.Snapshot()
	assert.Len(t, snap.Orders, 1)
	assert.Len(t, snap.Restaurants, 1)
}
