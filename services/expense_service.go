package services

import (
	"context"
	"errors"
	"time"

	"github.com/ammarlogade-max/Student-Expense-Analyzer/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseService struct{ db *gorm.DB }

func NewExpenseService(db *gorm.DB) *ExpenseService { return &ExpenseService{db: db} }

type ExpenseInput struct {
	Amount      decimal.Decimal
	Category    string
	Description string
}

type ExpenseFilters struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Query     string
	Page      int
	Limit     int
}

func (s *ExpenseService) Create(ctx context.Context, userID uint, in ExpenseInput) (*models.Expense, error) {
	expense := &models.Expense{
		UserID:      userID,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
	}
	if err := s.db.WithContext(ctx).Create(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) List(ctx context.Context, userID uint, f ExpenseFilters) ([]models.Expense, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Expense{}).Where("user_id = ?", userID)

	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.StartDate != nil {
		q = q.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("created_at <= ?", *f.EndDate)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("category ILIKE ? OR description ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	var items []models.Expense
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	return items, total, err
}

// Update modifies an expense owned by the user. Returns nil when the expense
// doesn't exist or belongs to someone else.
func (s *ExpenseService) Update(ctx context.Context, userID, id uint, in ExpenseInput) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&expense).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	expense.Amount = in.Amount
	expense.Category = in.Category
	expense.Description = in.Description
	if err := s.db.WithContext(ctx).Save(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Expense{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type MonthlySummary struct {
	Total      decimal.Decimal            `json:"total"`
	ByCategory map[string]decimal.Decimal `json:"byCategory"`
}

func (s *ExpenseService) GetMonthlySummary(ctx context.Context, userID uint) (*MonthlySummary, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var expenses []models.Expense
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, monthStart).
		Find(&expenses).Error; err != nil {
		return nil, err
	}

	summary := &MonthlySummary{
		Total:      decimal.Zero,
		ByCategory: map[string]decimal.Decimal{},
	}
	for _, e := range expenses {
		summary.Total = summary.Total.Add(e.Amount)
		summary.ByCategory[e.Category] = summary.ByCategory[e.Category].Add(e.Amount)
	}
	return summary, nil
}
