// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a member of the platform.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	ProfilePicture *string   `json:"profile_picture"`
	Bio            *string   `gorm:"size:500" json:"bio"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
