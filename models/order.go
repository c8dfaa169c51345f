package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Order statuses. Forward progression is pending -> preparing ->
// ready -> delivered; cancelled is reachable from any non-terminal
// state and is terminal once reached.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// OrderStatuses is the closed status set, in board order.
var OrderStatuses = []string{
	StatusPending,
	StatusPreparing,
	StatusReady,
	StatusDelivered,
	StatusCancelled,
}

// OrderItem is a denormalized line snapshot embedded in the order row.
// It is not a foreign key into menu_items; the name and price are
// frozen at order time.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderItems is stored as a JSON column.
type OrderItems []OrderItem

func (items *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*items = OrderItems{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to scan OrderItems: %v", value)
	}
	return json.Unmarshal(raw, items)
}

func (items OrderItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	return json.Marshal(items)
}

type Order struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	RestaurantID  uint       `gorm:"not null;index" json:"restaurant_id"`
	CustomerPhone string     `gorm:"type:varchar(30)" json:"customer_phone"`
	OrderNumber   string     `gorm:"type:varchar(50);uniqueIndex" json:"order_number"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Total         float64    `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	Items         OrderItems `gorm:"type:json" json:"items"`
	CreatedAt     time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

// forward holds the single legal next step for each status.
var forward = map[string]string{
	StatusPending:   StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusDelivered,
}

// IsTerminalStatus reports whether no further transition is accepted.
func IsTerminalStatus(status string) bool {
	return status == StatusDelivered || status == StatusCancelled
}

// CanTransition reports whether an order may move from -> to. Only
// the strict forward progression is allowed, plus cancellation from
// any non-terminal state.
func CanTransition(from, to string) bool {
	if IsTerminalStatus(from) {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return forward[from] == to
}
