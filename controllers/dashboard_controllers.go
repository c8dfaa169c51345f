package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gastromanager/dashboard/analytics"
	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/scope"
	"github.com/gastromanager/dashboard/services"
	"github.com/gastromanager/dashboard/utils"
)

type DashboardController struct {
	DB   *gorm.DB
	Sync *services.Synchronizer
}

func NewDashboardController(db *gorm.DB, sync *services.Synchronizer) *DashboardController {
	return &DashboardController{DB: db, Sync: sync}
}

// GetDashboardStats returns the headline numbers for the dashboard
// cards, filtered by period and scope.
func (dc *DashboardController) GetDashboardStats(c *gin.Context) {
	actor := actorFrom(c)
	selected := selectedRestaurant(c)
	period := c.DefaultQuery("period", "today")

	snapshot := dc.Sync.Snapshot()
	orders := filterOrdersByPeriod(scope.Filter(snapshot.Orders, actor, selected), period, time.Now())
	reservations := filterReservationsByPeriod(scope.Filter(snapshot.Reservations, actor, selected), period, time.Now())

	var stats struct {
		TotalOrders       int     `json:"total_orders"`
		TotalReservations int     `json:"total_reservations"`
		TotalRevenue      float64 `json:"total_revenue"`
		AverageOrderValue float64 `json:"average_order_value"`
		OrderStats        struct {
			Pending   int `json:"pending"`
			Preparing int `json:"preparing"`
			Ready     int `json:"ready"`
			Delivered int `json:"delivered"`
			Cancelled int `json:"cancelled"`
		} `json:"order_stats"`
	}

	stats.TotalOrders = len(orders)
	stats.TotalReservations = len(reservations)

	revenue := decimal.Zero
	for _, order := range orders {
		revenue = revenue.Add(decimal.NewFromFloat(order.Total))

		// Each status count gets its own predicate.
		switch order.Status {
		case models.StatusPending:
			stats.OrderStats.Pending++
		case models.StatusPreparing:
			stats.OrderStats.Preparing++
		case models.StatusReady:
			stats.OrderStats.Ready++
		case models.StatusDelivered:
			stats.OrderStats.Delivered++
		case models.StatusCancelled:
			stats.OrderStats.Cancelled++
		}
	}
	stats.TotalRevenue, _ = revenue.Round(2).Float64()
	if len(orders) > 0 {
		avg := revenue.Div(decimal.NewFromInt(int64(len(orders))))
		stats.AverageOrderValue, _ = avg.Round(2).Float64()
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

// GetAnalytics returns the full analytics report over the scoped
// working set and the requested time window.
func (dc *DashboardController) GetAnalytics(c *gin.Context) {
	actor := actorFrom(c)
	selected := selectedRestaurant(c)
	window := c.DefaultQuery("window", analytics.Window7d)

	if !analytics.ValidWindow(window) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown window %q", window))
		return
	}

	snapshot := dc.Sync.Snapshot()
	report := analytics.Calculate(
		scope.Filter(snapshot.Orders, actor, selected),
		scope.Filter(snapshot.Reservations, actor, selected),
		window,
		time.Now(),
	)

	utils.RespondJSON(c, http.StatusOK, "Analytics report", report)
}

// ExportOrders streams the scoped, windowed order set as CSV.
func (dc *DashboardController) ExportOrders(c *gin.Context) {
	actor := actorFrom(c)
	if !isAdminRole(actor.Role) && actor.Role != models.RoleManager {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	window := c.DefaultQuery("window", analytics.WindowAll)
	if !analytics.ValidWindow(window) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown window"))
		return
	}

	orders := scope.Filter(dc.Sync.Snapshot().Orders, actor, selectedRestaurant(c))
	if cutoff, limited := analytics.WindowStart(window, time.Now()); limited {
		filtered := make([]models.Order, 0, len(orders))
		for _, order := range orders {
			if !order.CreatedAt.Before(cutoff) {
				filtered = append(filtered, order)
			}
		}
		orders = filtered
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"order_number", "restaurant_id", "status", "total", "customer_phone", "created_at", "cancelled_at"})
	for _, order := range orders {
		cancelledAt := ""
		if order.CancelledAt != nil {
			cancelledAt = order.CancelledAt.Format(time.RFC3339)
		}
		writer.Write([]string{
			order.OrderNumber,
			fmt.Sprintf("%d", order.RestaurantID),
			order.Status,
			utils.FormatCurrency(order.Total),
			order.CustomerPhone,
			order.CreatedAt.Format(time.RFC3339),
			cancelledAt,
		})
	}
}

// filterOrdersByPeriod keeps orders inside the dashboard period:
// today, week (since Monday), month (same calendar month), or all.
func filterOrdersByPeriod(orders []models.Order, period string, now time.Time) []models.Order {
	if period == "all" {
		return orders
	}
	out := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if inPeriod(order.CreatedAt, period, now) {
			out = append(out, order)
		}
	}
	return out
}

func filterReservationsByPeriod(reservations []models.Reservation, period string, now time.Time) []models.Reservation {
	if period == "all" {
		return reservations
	}
	out := make([]models.Reservation, 0, len(reservations))
	for _, reservation := range reservations {
		if inPeriod(reservation.CreatedAt, period, now) {
			out = append(out, reservation)
		}
	}
	return out
}

func inPeriod(t time.Time, period string, now time.Time) bool {
	switch period {
	case "today":
		return t.Year() == now.Year() && t.YearDay() == now.YearDay()
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		startOfWeek := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, -(weekday - 1))
		return !t.Before(startOfWeek)
	case "month":
		return t.Year() == now.Year() && t.Month() == now.Month()
	default:
		return true
	}
}
