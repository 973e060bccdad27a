package domain

import (
	"time"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleMerchant UserRole = "merchant"
)

type User struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	Name              string    `json:"name"`
	Email             string    `json:"email" gorm:"uniqueIndex"`
	Phone             string    `json:"phone,omitempty" gorm:"index"`
	Password          string    `json:"-"` // Hashed password
	Role              UserRole  `json:"role"`
	Status            string    `json:"status"` // active, blocked
	PreferredLanguage Locale    `json:"preferred_language" gorm:"default:en"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Vendor is the storefront owned by a merchant user.
type Vendor struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"uniqueIndex"`
	BusinessName string    `json:"business_name"`
	Country      string    `json:"country,omitempty"`
	Currency     string    `json:"currency" gorm:"default:LRD"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID   string   `json:"user_id"`
	VendorID string   `json:"vendor_id"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
	Locale   Locale   `json:"locale"`
}
