package services

import (
	"context"
	"log"
	"time"

	"github.com/ammarlogade-max/Student-Expense-Analyzer/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const cashReconciliationJob = "cash_weekly_reconciliation"

// CashScheduler ticks hourly and runs the weekly reconciliation on Sundays,
// at most once per calendar day. The last-run marker lives in the job_runs
// table, not process memory, so restarts don't re-trigger the job.
type CashScheduler struct {
	db   *gorm.DB
	cash *CashService

	now  func() time.Time
	stop chan struct{}
}

func NewCashScheduler(db *gorm.DB, cash *CashService) *CashScheduler {
	return &CashScheduler{db: db, cash: cash, now: time.Now, stop: make(chan struct{})}
}

func (s *CashScheduler) Start() {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		s.tick()
		for {
			select {
			case <-ticker.C:
				s.tick()
			case <-s.stop:
				return
			}
		}
	}()
	log.Println("[CashScheduler] registered - weekly reconciliation on Sundays")
}

func (s *CashScheduler) Stop() { close(s.stop) }

func (s *CashScheduler) tick() {
	now := s.now()

	lastRun, err := s.lastRun()
	if err != nil {
		log.Printf("[CashScheduler] reading last run: %v", err)
		return
	}
	if !shouldRunWeeklyReconciliation(now, lastRun) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	created, err := s.cash.RunWeeklyReconciliation(ctx, LowCashThreshold)
	if err != nil {
		log.Printf("[CashScheduler] weekly cash reconciliation failed: %v", err)
		return
	}

	if err := s.markRun(now); err != nil {
		log.Printf("[CashScheduler] recording run: %v", err)
	}
	log.Printf("[CashScheduler] weekly cash reconciliation ran. Alerts created: %d", len(created))
}

// shouldRunWeeklyReconciliation gates the job to Sundays, once per UTC day.
func shouldRunWeeklyReconciliation(now, lastRun time.Time) bool {
	if now.UTC().Weekday() != time.Sunday {
		return false
	}
	if lastRun.IsZero() {
		return true
	}
	return lastRun.UTC().Format(dayFormat) != now.UTC().Format(dayFormat)
}

func (s *CashScheduler) lastRun() (time.Time, error) {
	var run models.JobRun
	err := s.db.Where("name = ?", cashReconciliationJob).First(&run).Error
	if err == gorm.ErrRecordNotFound {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return run.LastRun, nil
}

func (s *CashScheduler) markRun(t time.Time) error {
	return s.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_run"}),
		}).
		Create(&models.JobRun{Name: cashReconciliationJob, LastRun: t}).Error
}
