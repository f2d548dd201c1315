package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CashAlert struct {
	ID         uint            `gorm:"primaryKey"`
	UserID     uint            `gorm:"index"`
	Message    string          `gorm:"type:text"`
	GapAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
	IsResolved bool            `gorm:"index;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
