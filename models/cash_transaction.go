package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashTransaction struct {
	gorm.Model
	UserID   uint            `gorm:"index;not null"`
	Amount   decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Type     string          `gorm:"size:20;not null"` // "withdrawal" | "expense" | "adjustment"
	Category string          `gorm:"size:50"`
	Source   string          `gorm:"size:10"` // "manual" | "import"
	Note     string          `gorm:"type:text"`
}
