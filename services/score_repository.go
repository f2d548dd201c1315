package services

import (
	"context"
	"errors"
	"time"

	"github.com/ammarlogade-max/Student-Expense-Analyzer/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORM-backed implementations of the score engine feeds.

type GormExpenseFeed struct{ db *gorm.DB }

func NewGormExpenseFeed(db *gorm.DB) *GormExpenseFeed { return &GormExpenseFeed{db: db} }

func (f *GormExpenseFeed) ListTimestampsSince(ctx context.Context, userID uint, from time.Time) ([]time.Time, error) {
	var ts []time.Time
	err := f.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("user_id = ? AND created_at >= ?", userID, from).
		Order("created_at ASC").
		Pluck("created_at", &ts).Error
	return ts, err
}

func (f *GormExpenseFeed) TotalBetween(ctx context.Context, userID uint, from, to time.Time) (float64, error) {
	var total decimal.Decimal
	err := f.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total.InexactFloat64(), nil
}

func (f *GormExpenseFeed) TopCategoryBetween(ctx context.Context, userID uint, from, to time.Time) (string, error) {
	var category string
	err := f.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Group("category").
		Order("SUM(amount) DESC").
		Limit(1).
		Pluck("category", &category).Error
	return category, err
}

type GormBudgetFeed struct{ db *gorm.DB }

func NewGormBudgetFeed(db *gorm.DB) *GormBudgetFeed { return &GormBudgetFeed{db: db} }

func (f *GormBudgetFeed) Get(ctx context.Context, userID uint) (*BudgetInfo, error) {
	var b models.Budget
	err := f.db.WithContext(ctx).Where("user_id = ?", userID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cats := make(map[string]float64, len(b.CategoryBudgets))
	for k, v := range b.CategoryBudgets {
		if n, ok := v.(float64); ok {
			cats[k] = n
		}
	}
	return &BudgetInfo{
		MonthlyLimit:    b.MonthlyLimit.InexactFloat64(),
		CategoryBudgets: cats,
	}, nil
}

type GormWalletFeed struct{ db *gorm.DB }

func NewGormWalletFeed(db *gorm.DB) *GormWalletFeed { return &GormWalletFeed{db: db} }

func (f *GormWalletFeed) Get(ctx context.Context, userID uint) (*WalletInfo, error) {
	var w models.CashWallet
	err := f.db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &WalletInfo{Balance: w.Balance.InexactFloat64()}, nil
}

type GormAlertFeed struct{ db *gorm.DB }

func NewGormAlertFeed(db *gorm.DB) *GormAlertFeed { return &GormAlertFeed{db: db} }

func (f *GormAlertFeed) CountUnresolved(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := f.db.WithContext(ctx).
		Model(&models.CashAlert{}).
		Where("user_id = ? AND is_resolved = ?", userID, false).
		Count(&n).Error
	return n, err
}

type GormUserFeed struct{ db *gorm.DB }

func NewGormUserFeed(db *gorm.DB) *GormUserFeed { return &GormUserFeed{db: db} }

func (f *GormUserFeed) ListWithAnyExpense(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := f.db.WithContext(ctx).
		Model(&models.Expense{}).
		Distinct("user_id").
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

type GormScoreStore struct{ db *gorm.DB }

func NewGormScoreStore(db *gorm.DB) *GormScoreStore { return &GormScoreStore{db: db} }

func (s *GormScoreStore) Upsert(ctx context.Context, snapshot *models.FinanceScore) error {
	// Full-row overwrite on conflict; a later write for the same day fully
	// replaces the earlier one.
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_score", "level",
				"consistency_score", "budget_score", "cash_score", "savings_score",
				"streak", "weekly_delta", "insight", "updated_at",
			}),
		}).
		Create(snapshot).Error
}

func (s *GormScoreStore) GetByDate(ctx context.Context, userID uint, date time.Time) (*models.FinanceScore, error) {
	var rec models.FinanceScore
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormScoreStore) GetRange(ctx context.Context, userID uint, from time.Time) ([]models.FinanceScore, error) {
	var recs []models.FinanceScore
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, from).
		Order("date ASC").
		Find(&recs).Error
	return recs, err
}
