package models

import (
	"time"
)

// User mirrors an account owned by the external identity provider.
// Rows are provisioned from token claims on first authenticated request.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null;size:254"`
	Username  string `gorm:"uniqueIndex;not null;size:150"`
	FirstName string `gorm:"size:150"`
	LastName  string `gorm:"size:150"`
	Role      string `gorm:"default:'user'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
