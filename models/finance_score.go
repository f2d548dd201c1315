package models

import "time"

// FinanceScore is the daily snapshot produced by the score engine.
// Date is truncated to UTC midnight; (user_id, date) is the natural key and
// writes are full-row overwrites, never partial updates.
type FinanceScore struct {
	ID     uint      `gorm:"primaryKey"`
	UserID uint      `gorm:"uniqueIndex:idx_score_user_date;not null"`
	Date   time.Time `gorm:"uniqueIndex:idx_score_user_date;not null"`

	TotalScore       int
	Level            string `gorm:"size:20"`
	ConsistencyScore int
	BudgetScore      int
	CashScore        int
	SavingsScore     int
	Streak           int
	WeeklyDelta      int
	Insight          string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
