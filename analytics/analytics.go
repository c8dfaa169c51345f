// Package analytics computes the dashboard's descriptive statistics.
// Everything is recomputed from scratch on every call; the input is a
// single restaurant's already-scoped working set, so the volumes are
// small.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastromanager/dashboard/models"
)

// Time windows accepted by the analytics endpoint.
const (
	Window24h  = "24h"
	Window7d   = "7days"
	Window30d  = "30days"
	Window90d  = "90days"
	WindowAll  = "all"
	TopProduct = 10
)

type ProductCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type HourBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type DayPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type Report struct {
	TopProducts       []ProductCount `json:"top_products"`
	PeakHours         []HourBucket   `json:"peak_hours"`
	TotalRevenue      float64        `json:"total_revenue"`
	AverageOrderValue float64        `json:"average_order_value"`
	Last7Days         []DayPoint     `json:"last_7_days"`
	StatusCounts      []StatusCount  `json:"status_counts"`
	TotalOrders       int            `json:"total_orders"`
	TotalReservations int            `json:"total_reservations"`
}

// WindowStart returns the cutoff for a window relative to now, and
// whether the window limits at all.
func WindowStart(window string, now time.Time) (time.Time, bool) {
	switch window {
	case Window24h:
		return now.Add(-24 * time.Hour), true
	case Window7d:
		return now.AddDate(0, 0, -7), true
	case Window30d:
		return now.AddDate(0, 0, -30), true
	case Window90d:
		return now.AddDate(0, 0, -90), true
	default:
		return time.Time{}, false
	}
}

// Calculate builds the full report over the given order and
// reservation sets, restricted to the window ending at now.
func Calculate(orders []models.Order, reservations []models.Reservation, window string, now time.Time) Report {
	if cutoff, limited := WindowStart(window, now); limited {
		orders = filterOrdersSince(orders, cutoff)
		reservations = filterReservationsSince(reservations, cutoff)
	}

	report := Report{
		TopProducts:       topProducts(orders),
		PeakHours:         peakHours(orders),
		Last7Days:         last7Days(orders, now),
		StatusCounts:      statusCounts(orders),
		TotalOrders:       len(orders),
		TotalReservations: len(reservations),
	}

	revenue := decimal.Zero
	for _, order := range orders {
		revenue = revenue.Add(decimal.NewFromFloat(order.Total))
	}
	report.TotalRevenue, _ = revenue.Round(2).Float64()

	// Average order value is 0 for an empty set, never a division
	// fault.
	if len(orders) > 0 {
		avg := revenue.Div(decimal.NewFromInt(int64(len(orders))))
		report.AverageOrderValue, _ = avg.Round(2).Float64()
	}

	return report
}

func filterOrdersSince(orders []models.Order, cutoff time.Time) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if !o.CreatedAt.Before(cutoff) {
			out = append(out, o)
		}
	}
	return out
}

func filterReservationsSince(reservations []models.Reservation, cutoff time.Time) []models.Reservation {
	out := make([]models.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if !r.CreatedAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// topProducts sums item quantities across the orders' embedded item
// snapshots and keeps the ten biggest sellers.
func topProducts(orders []models.Order) []ProductCount {
	counts := make(map[string]int)
	for _, order := range orders {
		for _, item := range order.Items {
			counts[item.Name] += item.Quantity
		}
	}

	products := make([]ProductCount, 0, len(counts))
	for name, count := range counts {
		products = append(products, ProductCount{Name: name, Count: count})
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Count != products[j].Count {
			return products[i].Count > products[j].Count
		}
		return products[i].Name < products[j].Name
	})

	if len(products) > TopProduct {
		products = products[:TopProduct]
	}
	return products
}

// peakHours is a fixed 24-bucket histogram of order counts by
// hour-of-day.
func peakHours(orders []models.Order) []HourBucket {
	var buckets [24]int
	for _, order := range orders {
		buckets[order.CreatedAt.Hour()]++
	}

	out := make([]HourBucket, 24)
	for hour, count := range buckets {
		out[hour] = HourBucket{Hour: hour, Count: count}
	}
	return out
}

// last7Days is the trailing revenue/order-count series keyed by
// calendar day, today included.
func last7Days(orders []models.Order, now time.Time) []DayPoint {
	out := make([]DayPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")

		revenue := decimal.Zero
		count := 0
		for _, order := range orders {
			if order.CreatedAt.Format("2006-01-02") == key {
				revenue = revenue.Add(decimal.NewFromFloat(order.Total))
				count++
			}
		}

		total, _ := revenue.Round(2).Float64()
		out = append(out, DayPoint{Date: key, Revenue: total, Orders: count})
	}
	return out
}

// statusCounts counts orders per status, each status with its own
// predicate.
func statusCounts(orders []models.Order) []StatusCount {
	out := make([]StatusCount, 0, len(models.OrderStatuses))
	for _, status := range models.OrderStatuses {
		count := 0
		for _, order := range orders {
			if order.Status == status {
				count++
			}
		}
		out = append(out, StatusCount{Status: status, Count: count})
	}
	return out
}

// ValidWindow reports whether the requested window selector is known.
func ValidWindow(window string) bool {
	switch window {
	case Window24h, Window7d, Window30d, Window90d, WindowAll:
		return true
	}
	return false
}
