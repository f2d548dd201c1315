package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	PublicID string `gorm:"uniqueIndex;size:36;not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	FullName string
	Disabled bool
}
