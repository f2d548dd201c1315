package services

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultScoreCronSpec = "15 18 * * *"

// ScoreScheduler recomputes and persists scores for every user with expense
// history, once per night. Users are processed in fixed-size batches; within a
// batch all users run concurrently, and a failure for one user never aborts
// the others or the job.
type ScoreScheduler struct {
	users  UserFeed
	scores *ScoreService

	batchSize   int
	userTimeout time.Duration // guards a whole batch against one hung feed

	cron *cron.Cron
}

func NewScoreScheduler(users UserFeed, scores *ScoreService) *ScoreScheduler {
	return &ScoreScheduler{
		users:       users,
		scores:      scores,
		batchSize:   10,
		userTimeout: 30 * time.Second,
	}
}

// Start registers the nightly job. The cron spec comes from SCORE_CRON_SPEC
// and is evaluated in the server's local zone; snapshot dates are always UTC
// midnight regardless of when the trigger fires.
func (s *ScoreScheduler) Start() {
	spec := os.Getenv("SCORE_CRON_SPEC")
	if spec == "" {
		spec = defaultScoreCronSpec
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, func() {
		s.RunOnce(context.Background())
	}); err != nil {
		log.Printf("[ScoreScheduler] invalid cron spec %q: %v", spec, err)
		return
	}
	s.cron.Start()
	log.Printf("[ScoreScheduler] registered - runs nightly at %q", spec)
}

func (s *ScoreScheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunOnce executes one full nightly pass.
func (s *ScoreScheduler) RunOnce(ctx context.Context) {
	log.Println("[ScoreScheduler] starting nightly score calculation...")
	start := time.Now()

	userIDs, err := s.users.ListWithAnyExpense(ctx)
	if err != nil {
		// Fatal for this run only; the next scheduled fire retries naturally.
		log.Printf("[ScoreScheduler] fatal: listing users: %v", err)
		return
	}

	success, failed := 0, 0
	for i := 0; i < len(userIDs); i += s.batchSize {
		end := i + s.batchSize
		if end > len(userIDs) {
			end = len(userIDs)
		}
		batchSuccess, batchFailed := s.runBatch(ctx, userIDs[i:end])
		success += batchSuccess
		failed += batchFailed
	}

	elapsed := time.Since(start).Seconds()
	log.Printf("[ScoreScheduler] done in %.1fs - %d success, %d failed", elapsed, success, failed)
}

// runBatch computes all users in the slice concurrently and waits for the
// whole batch before returning. Each goroutine writes only its own result
// slot; the tally happens after the join.
func (s *ScoreScheduler) runBatch(ctx context.Context, userIDs []uint) (success, failed int) {
	results := make([]error, len(userIDs))
	done := make(chan struct{})

	for i, id := range userIDs {
		go func(i int, id uint) {
			defer func() { done <- struct{}{} }()
			uctx, cancel := context.WithTimeout(ctx, s.userTimeout)
			defer cancel()
			_, err := s.scores.Recalculate(uctx, id)
			results[i] = err
		}(i, id)
	}
	for range userIDs {
		<-done
	}

	for i, err := range results {
		if err != nil {
			log.Printf("[ScoreScheduler] failed for user %d: %v", userIDs[i], err)
			failed++
		} else {
			success++
		}
	}
	return success, failed
}
