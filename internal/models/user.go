package models

import (
	"time"
)

// User is an account; Email is the login identifier.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	TokenVersion int64     `gorm:"not null;default:0" json:"-"`
}

// Follow is a directed subscription from UserID to FollowingID.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      uint      `gorm:"not null;uniqueIndex:unique_follow" json:"user_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:unique_follow;index" json:"following_id"`
	User        User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Following   User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
