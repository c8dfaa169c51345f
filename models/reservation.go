package models

import "time"

// Reservation statuses.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

// Reservation keeps date and time as strings ("2006-01-02", "15:04")
// to match the remote schema; a calendar drag only rewrites these two
// fields.
type Reservation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RestaurantID   uint      `gorm:"not null;index" json:"restaurant_id"`
	CustomerName   string    `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone  string    `gorm:"type:varchar(30)" json:"customer_phone"`
	CustomerEmail  string    `gorm:"type:varchar(255)" json:"customer_email"`
	Date           string    `gorm:"type:varchar(10);not null;index" json:"date"`
	Time           string    `gorm:"type:varchar(5);not null" json:"time"`
	NumberOfPeople int       `gorm:"not null;default:1" json:"number_of_people"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Notes          string    `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func ValidReservationStatus(status string) bool {
	switch status {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}
