package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gastromanager/dashboard/models"
)

func TestCheckChangesAppliesOrderDelta(t *testing.T) {
	db := setupSnapshotDB(t)
	sync := NewSynchronizer(db)
	cm := NewChangeMonitor(db, sync)

	order := models.Order{RestaurantID: 1, OrderNumber: "C-1", Status: models.StatusPending}
	assert.NoError(t, db.Create(&order).Error)
	assert.NoError(t, db.Create(&models.DBChange{
		TableName: "orders", RecordID: int64(order.ID), ActionType: "INSERT", ChangedAt: time.Now(),
	}).Error)

	cm.checkChanges()

	snap := sync.Snapshot()
	assert.Len(t, snap.Orders, 1)
	assert.Equal(t, "C-1", snap.Orders[0].OrderNumber)

	var pending int64
	db.Model(&models.DBChange{}).Where("processed = ?", false).Count(&pending)
	assert.Equal(t, int64(0), pending)
}

func TestCheckChangesMissingRowFallsBackToResync(t *testing.T) {
	db := setupSnapshotDB(t)
	sync := NewSynchronizer(db)
	cm := NewChangeMonitor(db, sync)

	// Journal points at an order that no longer exists; the fallback
	// resync succeeds and the row is consumed.
	assert.NoError(t, db.Create(&models.DBChange{
		TableName: "orders", RecordID: 999, ActionType: "UPDATE", ChangedAt: time.Now(),
	}).Error)

	cm.checkChanges()

	var pending int64
	db.Model(&models.DBChange{}).Where("processed = ?", false).Count(&pending)
	assert.Equal(t, int64(0), pending)
}

func TestCheckChangesKeepsRowWhenResyncFails(t *testing.T) {
	db := setupSnapshotDB(t)
	sync := NewSynchronizer(db)
	cm := NewChangeMonitor(db, sync)

	assert.NoError(t, db.Create(&models.DBChange{
		TableName: "orders", RecordID: 999, ActionType: "UPDATE", ChangedAt: time.Now(),
	}).Error)

	// Break the resync: with a collection table gone, Resync errors
	// and the old snapshot stays.
	assert.NoError(t, db.Migrator().DropTable(&models.Restaurant{}))

	cm.checkChanges()

	// The change stays unprocessed so the next tick retries it.
	var pending int64
	db.Model(&models.DBChange{}).Where("processed = ?", false).Count(&pending)
	assert.Equal(t, int64(1), pending)
}

func TestCheckChangesDeleteRemovesFromSnapshot(t *testing.T) {
	db := setupSnapshotDB(t)
	sync := NewSynchronizer(db)
	cm := NewChangeMonitor(db, sync)

	sync.ApplyOrder(models.Order{ID: 5, RestaurantID: 1, Status: models.StatusPending})
	assert.NoError(t, db.Create(&models.DBChange{
		TableName: "orders", RecordID: 5, ActionType: "DELETE", ChangedAt: time.Now(),
	}).Error)

	cm.checkChanges()

	assert.Empty(t, sync.Snapshot().Orders)
}
