package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gastromanager/dashboard/live"
	"github.com/gastromanager/dashboard/metrics"
	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/scope"
	"github.com/gastromanager/dashboard/services"
	"github.com/gastromanager/dashboard/utils"
)

// columnStatus maps kanban column ids to order statuses. The board
// has no lane for delivered or cancelled, an order cannot be dragged
// there.
var columnStatus = map[string]string{
	"pending":   models.StatusPending,
	"preparing": models.StatusPreparing,
	"ready":     models.StatusReady,
}

// statusToast is the per-status confirmation message shown by the
// client.
var statusToast = map[string]string{
	models.StatusPreparing: "Order in preparation",
	models.StatusReady:     "Order ready!",
	models.StatusDelivered: "Order delivered!",
}

type OrderController struct {
	DB   *gorm.DB
	Sync *services.Synchronizer
}

func NewOrderController(db *gorm.DB, sync *services.Synchronizer) *OrderController {
	return &OrderController{DB: db, Sync: sync}
}

// GetAllOrders lists orders visible to the actor, newest first.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	actor := actorFrom(c)
	orders := scope.Filter(oc.Sync.Snapshot().Orders, actor, selectedRestaurant(c))
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID returns one order, after a scope check.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	actor := actorFrom(c)
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if visible := scope.Filter([]models.Order{order}, actor, selectedRestaurant(c)); len(visible) == 0 {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetOrderBoard returns the kanban columns plus summary counts. Each
// count is computed against its own status predicate; "delivered" is
// delivered-today.
func (oc *OrderController) GetOrderBoard(c *gin.Context) {
	actor := actorFrom(c)
	orders := scope.Filter(oc.Sync.Snapshot().Orders, actor, selectedRestaurant(c))

	columns := map[string][]models.Order{
		models.StatusPending:   {},
		models.StatusPreparing: {},
		models.StatusReady:     {},
	}
	counts := map[string]int{
		models.StatusPending:   0,
		models.StatusPreparing: 0,
		models.StatusReady:     0,
		"delivered_today":      0,
		models.StatusCancelled: 0,
	}

	today := time.Now().Format("2006-01-02")
	for _, order := range orders {
		if lane, ok := columns[order.Status]; ok {
			columns[order.Status] = append(lane, order)
		}
		switch order.Status {
		case models.StatusPending, models.StatusPreparing, models.StatusReady, models.StatusCancelled:
			counts[order.Status]++
		case models.StatusDelivered:
			if order.CreatedAt.Format("2006-01-02") == today {
				counts["delivered_today"]++
			}
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Order board", gin.H{
		"columns": columns,
		"counts":  counts,
	})
}

// AdvanceOrder moves an order to its next status. Valid targets are
// exactly preparing, ready and delivered; the forward-only guard
// rejects everything else before any write happens.
func (oc *OrderController) AdvanceOrder(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Status != models.StatusPreparing && req.Status != models.StatusReady && req.Status != models.StatusDelivered {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid target status %q", req.Status))
		return
	}

	id, _ := strconv.Atoi(c.Param("order_id"))
	oc.applyStatus(c, uint(id), req.Status)
}

// CancelOrder marks a non-terminal order cancelled and stamps the
// cancellation time. There is no un-cancel.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if !models.CanTransition(order.Status, models.StatusCancelled) {
		metrics.OrderTransitionRejectedTotal.Inc()
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("cannot cancel order in status %q", order.Status))
		return
	}

	now := time.Now()
	order.Status = models.StatusCancelled
	order.CancelledAt = &now
	order.UpdatedAt = now
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	metrics.OrderTransitionsTotal.WithLabelValues(models.StatusCancelled).Inc()
	oc.republish(order)

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", gin.H{
		"order": order,
		"toast": "Order cancelled",
		"sound": true,
	})
}

// MoveOrder reacts to a drag between kanban columns. Identical source
// and destination, or a destination that is not a board column, is a
// no-op with no write. A destination the guard rejects gets a 409,
// also with no write.
func (oc *OrderController) MoveOrder(c *gin.Context) {
	var req struct {
		OrderID uint   `json:"order_id" binding:"required"`
		From    string `json:"from" binding:"required"`
		To      string `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.From == req.To {
		utils.RespondJSON(c, http.StatusOK, "No change", nil)
		return
	}

	target, ok := columnStatus[req.To]
	if !ok {
		utils.RespondJSON(c, http.StatusOK, "No change", nil)
		return
	}

	oc.applyStatus(c, req.OrderID, target)
}

// applyStatus is the shared write path for advance and board moves:
// guard, write, re-fetch and republish the order collection,
// broadcast.
func (oc *OrderController) applyStatus(c *gin.Context, orderID uint, target string) {
	var order models.Order
	if err := oc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if !models.CanTransition(order.Status, target) {
		metrics.OrderTransitionRejectedTotal.Inc()
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("cannot move order from %q to %q", order.Status, target))
		return
	}

	order.Status = target
	order.UpdatedAt = time.Now()
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	metrics.OrderTransitionsTotal.WithLabelValues(target).Inc()
	oc.republish(order)

	toast := statusToast[target]
	if toast == "" {
		toast = "Status updated"
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", gin.H{
		"order": order,
		"toast": toast,
		"sound": true,
	})
}

// republish refreshes the order collection in the snapshot and tells
// live clients.
func (oc *OrderController) republish(order models.Order) {
	if err := oc.Sync.ReloadOrders(); err != nil {
		utils.ErrorLogger.Printf("Error reloading orders after write: %v", err)
	}
	live.BroadcastOrderUpdate(order)
}
