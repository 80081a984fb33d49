package models

import (
	"time"
)

type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"not null" json:"-"`
	TokenVersion int        `gorm:"default:1" json:"-"`
	LastLoginAt  *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"-"`
}

// CreateUserInput is the registration request payload.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
