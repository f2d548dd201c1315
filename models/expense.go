package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Expense struct {
	gorm.Model
	UserID      uint            `gorm:"index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Category    string          `gorm:"size:50;not null"`
	Description string          `gorm:"type:text"`
}
