package services

import (
	"context"
	"time"

	"github.com/ammarlogade-max/Student-Expense-Analyzer/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BudgetService struct{ db *gorm.DB }

func NewBudgetService(db *gorm.DB) *BudgetService { return &BudgetService{db: db} }

// GetOrCreate returns the user's budget, creating an all-zero default the
// first time so callers always get a valid object back.
func (s *BudgetService) GetOrCreate(ctx context.Context, userID uint) (*models.Budget, error) {
	budget := models.Budget{UserID: userID, CategoryBudgets: datatypes.JSONMap{}}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		FirstOrCreate(&budget).Error
	if err != nil {
		return nil, err
	}
	if budget.CategoryBudgets == nil {
		budget.CategoryBudgets = datatypes.JSONMap{}
	}
	return &budget, nil
}

type BudgetUpdate struct {
	MonthlyLimit    *decimal.Decimal
	CategoryBudgets map[string]float64
}

// Update applies a partial update: the monthly limit, the category map, or both.
func (s *BudgetService) Update(ctx context.Context, userID uint, in BudgetUpdate) (*models.Budget, error) {
	budget, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.MonthlyLimit != nil {
		budget.MonthlyLimit = *in.MonthlyLimit
	}
	if in.CategoryBudgets != nil {
		m := datatypes.JSONMap{}
		for k, v := range in.CategoryBudgets {
			m[k] = v
		}
		budget.CategoryBudgets = m
	}

	if err := s.db.WithContext(ctx).Save(budget).Error; err != nil {
		return nil, err
	}
	return budget, nil
}

type CategoryStatus struct {
	Limit       float64 `json:"limit"`
	Spent       float64 `json:"spent"`
	Remaining   float64 `json:"remaining"`
	PercentUsed float64 `json:"percentUsed"`
	IsOver      bool    `json:"isOver"`
}

type BudgetStatus struct {
	MonthlyLimit    decimal.Decimal           `json:"monthlyLimit"`
	CategoryBudgets map[string]float64        `json:"categoryBudgets"`
	TotalSpent      decimal.Decimal           `json:"totalSpent"`
	Remaining       decimal.Decimal           `json:"remaining"`
	PercentUsed     float64                   `json:"percentUsed"`
	SpentByCategory map[string]float64        `json:"spentByCategory"`
	CategoryStatus  map[string]CategoryStatus `json:"categoryStatus"`
	IsOverBudget    bool                      `json:"isOverBudget"`
	IsNearLimit     bool                      `json:"isNearLimit"`
}

// Status reports month-to-date spend against the configured limits; the
// frontend renders it as a progress bar plus per-category warnings.
func (s *BudgetService) Status(ctx context.Context, userID uint) (*BudgetStatus, error) {
	budget, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var expenses []models.Expense
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, monthStart).
		Find(&expenses).Error; err != nil {
		return nil, err
	}

	totalSpent := decimal.Zero
	spentByCategory := map[string]float64{}
	for _, e := range expenses {
		totalSpent = totalSpent.Add(e.Amount)
		spentByCategory[e.Category] += e.Amount.InexactFloat64()
	}

	limit := budget.MonthlyLimit.InexactFloat64()
	spent := totalSpent.InexactFloat64()

	percentUsed := 0.0
	if limit > 0 {
		percentUsed = spent / limit * 100
		if percentUsed > 100 {
			percentUsed = 100
		}
	}

	categoryLimits := map[string]float64{}
	for k, v := range budget.CategoryBudgets {
		if n, ok := v.(float64); ok {
			categoryLimits[k] = n
		}
	}

	categoryStatus := map[string]CategoryStatus{}
	for category, catLimit := range categoryLimits {
		catSpent := spentByCategory[category]
		catPct := 0.0
		if catLimit > 0 {
			catPct = catSpent / catLimit * 100
			if catPct > 100 {
				catPct = 100
			}
		}
		categoryStatus[category] = CategoryStatus{
			Limit:       catLimit,
			Spent:       catSpent,
			Remaining:   catLimit - catSpent,
			PercentUsed: catPct,
			IsOver:      catLimit > 0 && catSpent > catLimit,
		}
	}

	return &BudgetStatus{
		MonthlyLimit:    budget.MonthlyLimit,
		CategoryBudgets: categoryLimits,
		TotalSpent:      totalSpent,
		Remaining:       budget.MonthlyLimit.Sub(totalSpent),
		PercentUsed:     percentUsed,
		SpentByCategory: spentByCategory,
		CategoryStatus:  categoryStatus,
		IsOverBudget:    limit > 0 && spent > limit,
		IsNearLimit:     percentUsed >= 80 && percentUsed < 100,
	}, nil
}
