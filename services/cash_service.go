package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ammarlogade-max/Student-Expense-Analyzer/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LowCashThreshold flags wallets running low; the same amount gates weekly
// reconciliation alerts.
var LowCashThreshold = decimal.NewFromInt(200)

type CashService struct {
	db  *gorm.DB
	hub *RealtimeHub
}

func NewCashService(db *gorm.DB, hub *RealtimeHub) *CashService {
	return &CashService{db: db, hub: hub}
}

func (s *CashService) ensureWallet(ctx context.Context, tx *gorm.DB, userID uint) (*models.CashWallet, error) {
	if tx == nil {
		tx = s.db.WithContext(ctx)
	}
	wallet := models.CashWallet{UserID: userID, Balance: decimal.Zero}
	err := tx.Where("user_id = ?", userID).FirstOrCreate(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

type CashOverview struct {
	Wallet           *models.CashWallet       `json:"wallet"`
	LowCash          bool                     `json:"lowCash"`
	LowCashThreshold decimal.Decimal          `json:"lowCashThreshold"`
	Transactions     []models.CashTransaction `json:"transactions"`
	Alerts           []models.CashAlert       `json:"alerts"`
}

func (s *CashService) Overview(ctx context.Context, userID uint) (*CashOverview, error) {
	wallet, err := s.ensureWallet(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	var transactions []models.CashTransaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(10).
		Find(&transactions).Error; err != nil {
		return nil, err
	}

	var alerts []models.CashAlert
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_resolved = ?", userID, false).
		Order("created_at DESC").
		Limit(5).
		Find(&alerts).Error; err != nil {
		return nil, err
	}

	return &CashOverview{
		Wallet:           wallet,
		LowCash:          wallet.Balance.LessThan(LowCashThreshold),
		LowCashThreshold: LowCashThreshold,
		Transactions:     transactions,
		Alerts:           alerts,
	}, nil
}

// AddWithdrawal credits the wallet and records the transaction atomically.
func (s *CashService) AddWithdrawal(ctx context.Context, userID uint, amount decimal.Decimal, note string) (*models.CashWallet, *models.CashTransaction, error) {
	if note == "" {
		note = "Cash withdrawal"
	}

	var wallet *models.CashWallet
	var txn *models.CashTransaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := s.ensureWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		w.Balance = w.Balance.Add(amount)
		if err := tx.Save(w).Error; err != nil {
			return err
		}

		t := &models.CashTransaction{
			UserID:   userID,
			Amount:   amount,
			Type:     "withdrawal",
			Category: "Cash Withdrawal",
			Source:   "manual",
			Note:     note,
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}

		wallet, txn = w, t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return wallet, txn, nil
}

type CashExpenseInput struct {
	Amount      decimal.Decimal
	Category    string
	Description string
}

// AddExpense debits the wallet, records the cash transaction, and creates a
// linked Expense row so the spend shows up in the score engine's feeds. All
// three writes share one DB transaction.
func (s *CashService) AddExpense(ctx context.Context, userID uint, in CashExpenseInput) (*models.CashWallet, *models.CashTransaction, *models.Expense, error) {
	description := in.Description
	if description == "" {
		description = "Cash expense"
	}

	var (
		wallet  *models.CashWallet
		txn     *models.CashTransaction
		expense *models.Expense
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := s.ensureWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		w.Balance = w.Balance.Sub(in.Amount)
		if err := tx.Save(w).Error; err != nil {
			return err
		}

		t := &models.CashTransaction{
			UserID:   userID,
			Amount:   in.Amount,
			Type:     "expense",
			Category: in.Category,
			Source:   "manual",
			Note:     in.Description,
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}

		e := &models.Expense{
			UserID:      userID,
			Amount:      in.Amount,
			Category:    in.Category,
			Description: description,
		}
		if err := tx.Create(e).Error; err != nil {
			return err
		}

		wallet, txn, expense = w, t, e
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return wallet, txn, expense, nil
}

// Adjust applies a signed correction to the wallet balance.
func (s *CashService) Adjust(ctx context.Context, userID uint, amount decimal.Decimal, note string) (*models.CashWallet, *models.CashTransaction, error) {
	if note == "" {
		sign := "+"
		if amount.IsNegative() {
			sign = "-"
		}
		note = fmt.Sprintf("Balance adjustment (%s)", sign)
	}

	var wallet *models.CashWallet
	var txn *models.CashTransaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := s.ensureWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		w.Balance = w.Balance.Add(amount)
		if err := tx.Save(w).Error; err != nil {
			return err
		}

		t := &models.CashTransaction{
			UserID:   userID,
			Amount:   amount.Abs(),
			Type:     "adjustment",
			Category: "Adjustment",
			Source:   "manual",
			Note:     note,
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}

		wallet, txn = w, t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return wallet, txn, nil
}

func (s *CashService) Transactions(ctx context.Context, userID uint, txType string, limit int) ([]models.CashTransaction, error) {
	if limit < 1 {
		limit = 30
	}
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if txType != "" {
		q = q.Where("type = ?", txType)
	}

	var txns []models.CashTransaction
	err := q.Order("created_at DESC").Limit(limit).Find(&txns).Error
	return txns, err
}

// ResolveAlert marks an alert resolved. Returns false when the alert doesn't
// exist or belongs to another user.
func (s *CashService) ResolveAlert(ctx context.Context, userID, alertID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.CashAlert{}).
		Where("id = ? AND user_id = ?", alertID, userID).
		Update("is_resolved", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type ReconciliationSummary struct {
	Withdrawals decimal.Decimal `json:"withdrawals"`
	Expenses    decimal.Decimal `json:"expenses"`
	Gap         decimal.Decimal `json:"gap"`
	Since       time.Time       `json:"since"`
}

// WeeklyReconciliation compares cash withdrawn against cash spend logged over
// the trailing window. The gap is unlogged cash the user should categorize.
func (s *CashService) WeeklyReconciliation(ctx context.Context, userID uint, windowDays int) (*ReconciliationSummary, error) {
	since := time.Now().UTC().AddDate(0, 0, -windowDays)

	var txns []models.CashTransaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND type IN ?", userID, since, []string{"withdrawal", "expense"}).
		Find(&txns).Error; err != nil {
		return nil, err
	}

	withdrawals, expenses := decimal.Zero, decimal.Zero
	for _, t := range txns {
		switch t.Type {
		case "withdrawal":
			withdrawals = withdrawals.Add(t.Amount)
		case "expense":
			expenses = expenses.Add(t.Amount)
		}
	}

	return &ReconciliationSummary{
		Withdrawals: withdrawals,
		Expenses:    expenses,
		Gap:         reconciliationGap(withdrawals, expenses),
		Since:       since,
	}, nil
}

// reconciliationGap is max(0, withdrawals - expenses).
func reconciliationGap(withdrawals, expenses decimal.Decimal) decimal.Decimal {
	gap := withdrawals.Sub(expenses)
	if gap.IsNegative() {
		return decimal.Zero
	}
	return gap
}

func (s *CashService) createReconciliationAlert(ctx context.Context, userID uint, gap decimal.Decimal) (*models.CashAlert, error) {
	alert := &models.CashAlert{
		UserID: userID,
		Message: fmt.Sprintf(
			"You withdrew Rs. %s more than logged cash expenses this week. Categorize remaining cash spending.",
			gap.StringFixed(2),
		),
		GapAmount: gap,
	}
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast(userID, map[string]any{
			"kind":  "alert.created",
			"alert": alert,
		})
	}
	return alert, nil
}

// RunWeeklyReconciliation checks every user and raises an alert where the
// weekly gap exceeds the threshold. Per-user failures are skipped, not fatal.
func (s *CashService) RunWeeklyReconciliation(ctx context.Context, threshold decimal.Decimal) ([]models.CashAlert, error) {
	var userIDs []uint
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("disabled = ?", false).
		Pluck("id", &userIDs).Error; err != nil {
		return nil, err
	}

	var created []models.CashAlert
	for _, id := range userIDs {
		summary, err := s.WeeklyReconciliation(ctx, id, 7)
		if err != nil {
			continue
		}
		if summary.Gap.GreaterThan(threshold) {
			alert, err := s.createReconciliationAlert(ctx, id, summary.Gap)
			if err != nil {
				continue
			}
			created = append(created, *alert)
		}
	}
	return created, nil
}
