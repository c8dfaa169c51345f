package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gastromanager/dashboard/live"
	"github.com/gastromanager/dashboard/metrics"
	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/utils"
)

// ChangeMonitor polls the trigger-fed db_changes journal for the
// orders and reservations tables and turns each row into a snapshot
// delta plus a live event. A row it cannot resolve falls back to a
// full resync instead of being dropped.
type ChangeMonitor struct {
	DB       *gorm.DB
	Sync     *Synchronizer
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB, sync *Synchronizer) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		Sync:     sync,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("Error fetching changes: %v", err)
		return
	}

	for _, change := range changes {
		metrics.ChangeEventsTotal.WithLabelValues(change.TableName, change.ActionType).Inc()

		handled := true
		switch change.TableName {
		case "orders":
			handled = cm.processOrderChange(change)
		case "reservations":
			handled = cm.processReservationChange(change)
		}

		// A change that fell back to a resync and the resync failed
		// stays unprocessed, the next tick retries it.
		if !handled {
			continue
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("Error committing change batch: %v", err)
		tx.Rollback()
		return
	}

	if len(changes) > 0 {
		utils.InfoLogger.Printf("Processed %d change notifications", len(changes))
	}
}

func (cm *ChangeMonitor) processOrderChange(change models.DBChange) bool {
	if change.ActionType == "DELETE" {
		cm.Sync.RemoveOrder(uint(change.RecordID))
		live.BroadcastOrderDelete(uint(change.RecordID))
		return true
	}

	var order models.Order
	if err := cm.DB.First(&order, change.RecordID).Error; err != nil {
		// Gap between journal and table, fall back to a full resync.
		utils.ErrorLogger.Printf("Order %d missing for change %d, resyncing: %v", change.RecordID, change.ID, err)
		return cm.fullResync()
	}

	cm.Sync.ApplyOrder(order)

	switch change.ActionType {
	case "INSERT":
		live.BroadcastOrderCreate(order)
		cm.raiseAlert(models.Notification{
			Title:   "New order",
			Message: fmt.Sprintf("Order %s received (%s)", order.OrderNumber, utils.FormatCurrency(order.Total)),
			Link:    "/orders",
		}, fmt.Sprintf("order-%d", order.ID))
	case "UPDATE":
		live.BroadcastOrderUpdate(order)
	}
	return true
}

func (cm *ChangeMonitor) processReservationChange(change models.DBChange) bool {
	if change.ActionType == "DELETE" {
		cm.Sync.RemoveReservation(uint(change.RecordID))
		live.BroadcastReservationDelete(uint(change.RecordID))
		return true
	}

	var reservation models.Reservation
	if err := cm.DB.First(&reservation, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Reservation %d missing for change %d, resyncing: %v", change.RecordID, change.ID, err)
		return cm.fullResync()
	}

	cm.Sync.ApplyReservation(reservation)

	switch change.ActionType {
	case "INSERT":
		live.BroadcastReservationCreate(reservation)
		cm.raiseAlert(models.Notification{
			Title:   "New reservation",
			Message: fmt.Sprintf("%s, %d people on %s %s", reservation.CustomerName, reservation.NumberOfPeople, reservation.Date, reservation.Time),
			Link:    "/reservations",
		}, fmt.Sprintf("reservation-%d", reservation.ID))
	case "UPDATE":
		live.BroadcastReservationUpdate(reservation)
	}
	return true
}

// raiseAlert stores the notification row and pushes the alert event
// (toast + tone + system notification with deep link) to all clients.
func (cm *ChangeMonitor) raiseAlert(notification models.Notification, tag string) {
	if err := cm.DB.Create(&notification).Error; err != nil {
		utils.ErrorLogger.Printf("Error storing notification: %v", err)
	}

	live.BroadcastAlert(live.Alert{
		Title: notification.Title,
		Body:  notification.Message,
		Sound: true,
		Link:  notification.Link,
		Tag:   tag,
	})
}

func (cm *ChangeMonitor) fullResync() bool {
	if err := cm.Sync.Resync("change_feed"); err != nil {
		return false
	}
	live.BroadcastSnapshotUpdate()
	return true
}
