package services

import (
	"context"
	"math"
	"time"

	"github.com/ammarlogade-max/Student-Expense-Analyzer/models"

	"golang.org/x/sync/errgroup"
)

const maxSubScore = 25

const dayFormat = "2006-01-02"

// ScoreBreakdown is the fully aggregated daily score for one user.
type ScoreBreakdown struct {
	TotalScore       int    `json:"totalScore"`
	Level            string `json:"level"`
	LevelEmoji       string `json:"levelEmoji"`
	LevelColor       string `json:"levelColor"`
	ConsistencyScore int    `json:"consistencyScore"`
	BudgetScore      int    `json:"budgetScore"`
	CashScore        int    `json:"cashScore"`
	SavingsScore     int    `json:"savingsScore"`
	Streak           int    `json:"streak"`
	WeeklyDelta      int    `json:"weeklyDelta"`
	Insight          string `json:"insight"`
}

type ScoreHistoryEntry struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
	Level string `json:"level"`
}

// ScoreService computes and persists financial health scores. All day
// arithmetic uses UTC midnight boundaries, matching the snapshot key; the
// scheduler's wall-clock trigger time never changes which day a write lands on.
type ScoreService struct {
	expenses ExpenseFeed
	budgets  BudgetFeed
	wallets  WalletFeed
	alerts   AlertFeed
	store    ScoreStore

	now func() time.Time // injectable clock
}

func NewScoreService(expenses ExpenseFeed, budgets BudgetFeed, wallets WalletFeed, alerts AlertFeed, store ScoreStore) *ScoreService {
	return &ScoreService{
		expenses: expenses,
		budgets:  budgets,
		wallets:  wallets,
		alerts:   alerts,
		store:    store,
		now:      time.Now,
	}
}

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *ScoreService) daysAgo(n int) time.Time {
	return startOfDayUTC(s.now()).AddDate(0, 0, -n)
}

func (s *ScoreService) monthStart() time.Time {
	t := s.now().UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// calcConsistency scores how regularly the user logs expenses this month:
// 10 for logging today, up to 10 for the running streak, 5 for covering at
// least 90% of the elapsed days. Zero expenses this month means (0, 0).
func (s *ScoreService) calcConsistency(ctx context.Context, userID uint) (int, int, error) {
	timestamps, err := s.expenses.ListTimestampsSince(ctx, userID, s.monthStart())
	if err != nil {
		return 0, 0, err
	}
	if len(timestamps) == 0 {
		return 0, 0, nil
	}

	loggedDays := make(map[string]struct{}, len(timestamps))
	for _, t := range timestamps {
		loggedDays[t.UTC().Format(dayFormat)] = struct{}{}
	}

	today := s.now().UTC().Format(dayFormat)
	_, loggedToday := loggedDays[today]

	// Streak walk: start today if logged, else yesterday; stop at the first gap.
	streak := 0
	check := startOfDayUTC(s.now())
	if !loggedToday {
		check = check.AddDate(0, 0, -1)
	}
	for {
		if _, ok := loggedDays[check.Format(dayFormat)]; !ok {
			break
		}
		streak++
		check = check.AddDate(0, 0, -1)
	}

	daysElapsed := s.now().UTC().Day()
	coverageRatio := float64(len(loggedDays)) / float64(daysElapsed)

	score := 0
	if loggedToday {
		score += 10
	}
	if streak < 10 {
		score += streak
	} else {
		score += 10
	}
	if coverageRatio >= 0.9 {
		score += 5
	}
	if score > maxSubScore {
		score = maxSubScore
	}
	return score, streak, nil
}

// calcBudget scores month-to-date spend against the monthly limit. A user with
// no budget (or a zero limit) hasn't opted in, so they get a neutral 12.
func (s *ScoreService) calcBudget(ctx context.Context, userID uint) (int, error) {
	budget, err := s.budgets.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if budget == nil || budget.MonthlyLimit == 0 {
		return 12, nil
	}

	spent, err := s.expenses.TotalBetween(ctx, userID, s.monthStart(), s.now().UTC())
	if err != nil {
		return 0, err
	}

	ratio := spent / budget.MonthlyLimit
	switch {
	case ratio <= 0.7:
		return 25, nil
	case ratio <= 0.9:
		return 18, nil
	case ratio <= 1.0:
		return 10, nil
	}

	overshootPct := (ratio - 1) * 100
	score := 10 - int(math.Floor(overshootPct/5))
	if score < 0 {
		score = 0
	}
	return score, nil
}

// calcCash scores cash-wallet hygiene: a clean-alert bonus plus a balance
// bonus. No wallet means no signal, neutral 12.
func (s *ScoreService) calcCash(ctx context.Context, userID uint) (int, error) {
	wallet, err := s.wallets.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if wallet == nil {
		return 12, nil
	}

	unresolved, err := s.alerts.CountUnresolved(ctx, userID)
	if err != nil {
		return 0, err
	}

	score := 0
	if unresolved == 0 {
		score += 15
	} else {
		score -= int(unresolved) * 5
		if score < 0 {
			score = 0
		}
	}

	switch {
	case wallet.Balance >= 500:
		score += 10
	case wallet.Balance >= 200:
		score += 5
	}

	if score > maxSubScore {
		score = maxSubScore
	}
	return score, nil
}

// calcSavings compares the trailing 7-day spend window against the one before
// it. No spend last week means no baseline, neutral 12.
func (s *ScoreService) calcSavings(ctx context.Context, userID uint) (int, error) {
	today := startOfDayUTC(s.now())
	thisWeekStart := s.daysAgo(7)
	lastWeekStart := s.daysAgo(14)

	thisTotal, err := s.expenses.TotalBetween(ctx, userID, thisWeekStart, today)
	if err != nil {
		return 0, err
	}
	lastTotal, err := s.expenses.TotalBetween(ctx, userID, lastWeekStart, thisWeekStart)
	if err != nil {
		return 0, err
	}

	if lastTotal == 0 {
		return 12, nil
	}

	changeRatio := (thisTotal - lastTotal) / lastTotal
	switch {
	case changeRatio <= -0.1:
		return 25, nil
	case changeRatio <= 0.1:
		return 15, nil
	case changeRatio <= 0.3:
		return 8, nil
	}
	return 0, nil
}

// CalculateScore runs the four calculators concurrently, joins the results,
// resolves the level, and computes the week-over-week delta against the
// snapshot dated exactly 7 days ago (0 when none exists).
func (s *ScoreService) CalculateScore(ctx context.Context, userID uint) (*ScoreBreakdown, error) {
	var (
		consistencyScore, streak           int
		budgetScore, cashScore, savingsScore int
		prior                              *models.FinanceScore
		topCategory                        string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		consistencyScore, streak, err = s.calcConsistency(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		budgetScore, err = s.calcBudget(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		cashScore, err = s.calcCash(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		savingsScore, err = s.calcSavings(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		prior, err = s.store.GetByDate(gctx, userID, s.daysAgo(7))
		return err
	})
	g.Go(func() (err error) {
		// Upper bound is the wall clock, not midnight: expenses logged today
		// count toward the week's top category.
		topCategory, err = s.expenses.TopCategoryBetween(gctx, userID, s.daysAgo(7), s.now().UTC())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalScore := consistencyScore + budgetScore + cashScore + savingsScore
	level := GetLevel(totalScore)

	weeklyDelta := 0
	if prior != nil {
		weeklyDelta = totalScore - prior.TotalScore
	}

	breakdown := &ScoreBreakdown{
		TotalScore:       totalScore,
		Level:            level.Name,
		LevelEmoji:       level.Emoji,
		LevelColor:       level.Color,
		ConsistencyScore: consistencyScore,
		BudgetScore:      budgetScore,
		CashScore:        cashScore,
		SavingsScore:     savingsScore,
		Streak:           streak,
		WeeklyDelta:      weeklyDelta,
	}
	breakdown.Insight = generateInsight(breakdown, topCategory)

	return breakdown, nil
}

// SaveScore upserts today's snapshot. The write carries the complete
// breakdown; either the whole row lands or nothing does.
func (s *ScoreService) SaveScore(ctx context.Context, userID uint, breakdown *ScoreBreakdown) error {
	return s.store.Upsert(ctx, &models.FinanceScore{
		UserID:           userID,
		Date:             startOfDayUTC(s.now()),
		TotalScore:       breakdown.TotalScore,
		Level:            GetLevel(breakdown.TotalScore).Name,
		ConsistencyScore: breakdown.ConsistencyScore,
		BudgetScore:      breakdown.BudgetScore,
		CashScore:        breakdown.CashScore,
		SavingsScore:     breakdown.SavingsScore,
		Streak:           breakdown.Streak,
		WeeklyDelta:      breakdown.WeeklyDelta,
		Insight:          breakdown.Insight,
	})
}

// GetScore returns today's snapshot if one exists, otherwise computes,
// persists, and returns a fresh breakdown.
func (s *ScoreService) GetScore(ctx context.Context, userID uint) (*ScoreBreakdown, error) {
	cached, err := s.store.GetByDate(ctx, userID, startOfDayUTC(s.now()))
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return breakdownFromSnapshot(cached), nil
	}
	return s.Recalculate(ctx, userID)
}

// Recalculate always reruns the full pipeline and overwrites today's snapshot.
func (s *ScoreService) Recalculate(ctx context.Context, userID uint) (*ScoreBreakdown, error) {
	breakdown, err := s.CalculateScore(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.SaveScore(ctx, userID, breakdown); err != nil {
		return nil, err
	}
	return breakdown, nil
}

// History returns the user's snapshots from the last `days` days, ascending.
// An empty slice (not an error) when nothing has been scored yet.
func (s *ScoreService) History(ctx context.Context, userID uint, days int) ([]ScoreHistoryEntry, error) {
	recs, err := s.store.GetRange(ctx, userID, s.daysAgo(days))
	if err != nil {
		return nil, err
	}

	out := make([]ScoreHistoryEntry, 0, len(recs))
	for _, r := range recs {
		out = append(out, ScoreHistoryEntry{
			Date:  r.Date.UTC().Format(dayFormat),
			Score: r.TotalScore,
			Level: r.Level,
		})
	}
	return out, nil
}

func breakdownFromSnapshot(rec *models.FinanceScore) *ScoreBreakdown {
	level := GetLevel(rec.TotalScore)
	return &ScoreBreakdown{
		TotalScore:       rec.TotalScore,
		Level:            rec.Level,
		LevelEmoji:       level.Emoji,
		LevelColor:       level.Color,
		ConsistencyScore: rec.ConsistencyScore,
		BudgetScore:      rec.BudgetScore,
		CashScore:        rec.CashScore,
		SavingsScore:     rec.SavingsScore,
		Streak:           rec.Streak,
		WeeklyDelta:      rec.WeeklyDelta,
		Insight:          rec.Insight,
	}
}
