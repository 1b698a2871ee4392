// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"not null" json:"-"`
	Bio            string    `json:"bio"`
	Image          string    `json:"image"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	IsAdmin        bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Polls          []Poll    `gorm:"foreignKey:AuthorID" json:"polls,omitempty"`
}
