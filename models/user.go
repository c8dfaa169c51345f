package models

import "time"

// Roles. Only super_admin may look across restaurants; everyone else
// is pinned to their assigned restaurant.
const (
	RoleSuperAdmin = "super_admin"
	RoleOwner      = "owner"
	RoleManager    = "manager"
	RoleKitchen    = "kitchen"
	RoleCashier    = "cashier"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Username     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(255)" json:"email"`
	PasswordHash string `gorm:"type:varchar(255)" json:"-"`
	// Password is the legacy plaintext/bcrypt column kept for rows
	// migrated from the old schema. Login falls back to it when
	// password_hash is empty; cmd/hashpasswords backfills it.
	Password     string    `gorm:"type:varchar(255)" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'manager'" json:"role"`
	RestaurantID *uint     `gorm:"index" json:"restaurant_id,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// Identity is the sanitized form of a User that leaves the API and is
// persisted in the session store. No credential fields.
type Identity struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	RestaurantID *uint  `json:"restaurant_id,omitempty"`
}

func (u *User) Sanitize() Identity {
	return Identity{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		RestaurantID: u.RestaurantID,
	}
}

// CredentialHash returns the stored hash, tolerating rows where the
// hash still lives in the legacy password column.
func (u *User) CredentialHash() string {
	if u.PasswordHash != "" {
		return u.PasswordHash
	}
	return u.Password
}

func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleOwner, RoleManager, RoleKitchen, RoleCashier:
		return true
	}
	return false
}
