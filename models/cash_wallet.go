package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashWallet struct {
	gorm.Model
	UserID  uint            `gorm:"uniqueIndex;not null"`
	Balance decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
}
