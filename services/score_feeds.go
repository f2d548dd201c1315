package services

import (
	"context"
	"time"

	"github.com/ammarlogade-max/Student-Expense-Analyzer/models"
)

// The score engine reads the CRUD layer only through these feeds, so the
// calculators stay independent of the storage technology and tests can run
// against in-memory fakes.

// ExpenseFeed exposes the read paths the calculators need over the expense log.
type ExpenseFeed interface {
	// ListTimestampsSince returns the creation timestamps of every expense the
	// user logged at or after from.
	ListTimestampsSince(ctx context.Context, userID uint, from time.Time) ([]time.Time, error)
	// TotalBetween sums expense amounts for createdAt in [from, to).
	TotalBetween(ctx context.Context, userID uint, from, to time.Time) (float64, error)
	// TopCategoryBetween returns the highest-spend category in [from, to),
	// or "" when the user logged nothing in the window.
	TopCategoryBetween(ctx context.Context, userID uint, from, to time.Time) (string, error)
}

type BudgetInfo struct {
	MonthlyLimit    float64
	CategoryBudgets map[string]float64
}

// BudgetFeed returns the user's budget configuration, or nil when none is set.
type BudgetFeed interface {
	Get(ctx context.Context, userID uint) (*BudgetInfo, error)
}

type WalletInfo struct {
	Balance float64
}

// WalletFeed returns the user's cash wallet, or nil when none exists.
type WalletFeed interface {
	Get(ctx context.Context, userID uint) (*WalletInfo, error)
}

type AlertFeed interface {
	CountUnresolved(ctx context.Context, userID uint) (int64, error)
}

// UserFeed enumerates users for the nightly batch. Users with zero expenses
// are excluded; there is nothing to score for them.
type UserFeed interface {
	ListWithAnyExpense(ctx context.Context) ([]uint, error)
}

// ScoreStore persists one snapshot per (user, UTC calendar day).
type ScoreStore interface {
	// Upsert writes or fully overwrites the snapshot for (UserID, Date).
	Upsert(ctx context.Context, snapshot *models.FinanceScore) error
	// GetByDate returns the snapshot for the exact date, or nil when absent.
	GetByDate(ctx context.Context, userID uint, date time.Time) (*models.FinanceScore, error)
	// GetRange returns snapshots with date >= from, ascending by date.
	GetRange(ctx context.Context, userID uint, from time.Time) ([]models.FinanceScore, error)
}
