package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Budget holds the monthly spending limit plus optional per-category limits.
// At most one row per user; absence means the user never opted in to budgeting.
type Budget struct {
	gorm.Model
	UserID          uint              `gorm:"uniqueIndex;not null"`
	MonthlyLimit    decimal.Decimal   `gorm:"type:decimal(20,4);default:0"`
	CategoryBudgets datatypes.JSONMap `gorm:"type:jsonb"`
}
