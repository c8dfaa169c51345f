package models

import "time"

// Notification is the stored record of an insert alert. Link is the
// deep link back into the relevant dashboard view.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(100);not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Link      string    `gorm:"type:varchar(255)" json:"link"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
