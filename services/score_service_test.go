package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ammarlogade-max/Student-Expense-Analyzer/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed clock: 2026-03-20 12:00 UTC. Month start, this-week start, and
// last-week start are all distinct days, so the fake can dispatch on `from`.
var testNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

var (
	testToday         = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	testMonthStart    = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	testThisWeekStart = time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	testLastWeekStart = time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
)

type fakeExpenses struct {
	timestamps  []time.Time
	monthTotal  float64
	thisWeek    float64
	lastWeek    float64
	topCategory string
	err         error
}

func (f *fakeExpenses) ListTimestampsSince(_ context.Context, _ uint, _ time.Time) ([]time.Time, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.timestamps, nil
}

func (f *fakeExpenses) TotalBetween(_ context.Context, _ uint, from, _ time.Time) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	switch {
	case from.Equal(testMonthStart):
		return f.monthTotal, nil
	case from.Equal(testThisWeekStart):
		return f.thisWeek, nil
	case from.Equal(testLastWeekStart):
		return f.lastWeek, nil
	}
	return 0, nil
}

func (f *fakeExpenses) TopCategoryBetween(_ context.Context, _ uint, _, _ time.Time) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.topCategory, nil
}

type fakeBudgets struct {
	info *BudgetInfo
	err  error
}

func (f *fakeBudgets) Get(_ context.Context, _ uint) (*BudgetInfo, error) { return f.info, f.err }

type fakeWallets struct {
	info *WalletInfo
	err  error
}

func (f *fakeWallets) Get(_ context.Context, _ uint) (*WalletInfo, error) { return f.info, f.err }

type fakeAlerts struct {
	unresolved int64
	err        error
}

func (f *fakeAlerts) CountUnresolved(_ context.Context, _ uint) (int64, error) {
	return f.unresolved, f.err
}

type fakeStore struct {
	mu        sync.Mutex
	snapshots map[string]models.FinanceScore
	upserts   int
	failWith  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{snapshots: make(map[string]models.FinanceScore)}
}

func storeKey(userID uint, date time.Time) string {
	return fmt.Sprintf("%d|%s", userID, date.UTC().Format(dayFormat))
}

func (f *fakeStore) Upsert(_ context.Context, s *models.FinanceScore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.upserts++
	f.snapshots[storeKey(s.UserID, s.Date)] = *s
	return nil
}

func (f *fakeStore) GetByDate(_ context.Context, userID uint, date time.Time) (*models.FinanceScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.snapshots[storeKey(userID, date)]; ok {
		out := s
		return &out, nil
	}
	return nil, nil
}

func (f *fakeStore) GetRange(_ context.Context, userID uint, from time.Time) ([]models.FinanceScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FinanceScore
	for _, s := range f.snapshots {
		if s.UserID == userID && !s.Date.Before(from) {
			out = append(out, s)
		}
	}
	// Map iteration is unordered; the store contract is ascending by date.
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func newTestService(expenses ExpenseFeed, budgets *fakeBudgets, wallets *fakeWallets, alerts *fakeAlerts, store *fakeStore) *ScoreService {
	s := NewScoreService(expenses, budgets, wallets, alerts, store)
	s.now = func() time.Time { return testNow }
	return s
}

func TestConsistencyStreakStopsAtGap(t *testing.T) {
	// Logged today, yesterday, and three days ago; gap at day-2 ends the walk.
	expenses := &fakeExpenses{timestamps: []time.Time{
		testNow,
		testNow.AddDate(0, 0, -1),
		testNow.AddDate(0, 0, -3),
	}}
	s := newTestService(expenses, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, newFakeStore())

	score, streak, err := s.calcConsistency(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
	// 10 for today + 2 streak, coverage 3/20 misses the bonus.
	assert.Equal(t, 12, score)
}

func TestConsistencyNoExpensesThisMonth(t *testing.T) {
	s := newTestService(&fakeExpenses{}, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, newFakeStore())

	score, streak, err := s.calcConsistency(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, score)
	assert.Zero(t, streak)
}

func TestConsistencyStreakStartsYesterdayWhenTodayUnlogged(t *testing.T) {
	expenses := &fakeExpenses{timestamps: []time.Time{
		testNow.AddDate(0, 0, -1),
		testNow.AddDate(0, 0, -2),
	}}
	s := newTestService(expenses, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, newFakeStore())

	score, streak, err := s.calcConsistency(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
	assert.Equal(t, 2, score) // no logged-today bonus
}

func TestConsistencyStreakCapAndCoverageBonus(t *testing.T) {
	// All 20 elapsed days logged: streak 20 capped at 10, coverage 100%.
	var ts []time.Time
	for i := 0; i < 20; i++ {
		ts = append(ts, testNow.AddDate(0, 0, -i))
	}
	s := newTestService(&fakeExpenses{timestamps: ts}, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, newFakeStore())

	score, streak, err := s.calcConsistency(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 20, streak)
	assert.Equal(t, 25, score) // 10 + 10 + 5
}

func TestBudgetScoreBands(t *testing.T) {
	cases := []struct {
		name  string
		limit float64
		spent float64
		want  int
	}{
		{"half of limit", 1000, 500, 25},
		{"seventy percent boundary", 1000, 700, 25},
		{"eighty percent", 1000, 800, 18},
		{"ninety percent boundary", 1000, 900, 18},
		{"ninety five percent", 1000, 950, 10},
		{"exactly at limit", 1000, 1000, 10},
		{"twenty five percent over", 1000, 1250, 5},
		{"blown through", 1000, 2000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expenses := &fakeExpenses{monthTotal: tc.spent}
			budgets := &fakeBudgets{info: &BudgetInfo{MonthlyLimit: tc.limit}}
			s := newTestService(expenses, budgets, &fakeWallets{}, &fakeAlerts{}, newFakeStore())

			score, err := s.calcBudget(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, score)
		})
	}
}

func TestBudgetNeutralWhenUnconfigured(t *testing.T) {
	s := newTestService(&fakeExpenses{monthTotal: 999}, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, newFakeStore())
	score, err := s.calcBudget(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 12, score)

	s = newTestService(&fakeExpenses{monthTotal: 999}, &fakeBudgets{info: &BudgetInfo{MonthlyLimit: 0}}, &fakeWallets{}, &fakeAlerts{}, newFakeStore())
	score, err = s.calcBudget(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 12, score)
}

func TestCashScore(t *testing.T) {
	cases := []struct {
		name       string
		wallet     *WalletInfo
		unresolved int64
		want       int
	}{
		{"no wallet is neutral", nil, 0, 12},
		{"clean with high balance", &WalletInfo{Balance: 600}, 0, 25},
		{"clean with mid balance", &WalletInfo{Balance: 300}, 0, 20},
		{"clean with low balance", &WalletInfo{Balance: 100}, 0, 15},
		{"one alert with high balance", &WalletInfo{Balance: 600}, 1, 10},
		{"three alerts low balance", &WalletInfo{Balance: 100}, 3, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestService(&fakeExpenses{}, &fakeBudgets{},
				&fakeWallets{info: tc.wallet}, &fakeAlerts{unresolved: tc.unresolved}, newFakeStore())

			score, err := s.calcCash(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, score)
		})
	}
}

func TestSavingsScoreBands(t *testing.T) {
	cases := []struct {
		name     string
		thisWeek float64
		lastWeek float64
		want     int
	}{
		{"no baseline is neutral", 500, 0, 12},
		{"down ten percent boundary", 900, 1000, 25},
		{"down sharply", 400, 1000, 25},
		{"flat", 1050, 1000, 15},
		{"up ten percent boundary", 1100, 1000, 15},
		{"up moderately", 1250, 1000, 8},
		{"up thirty percent boundary", 1300, 1000, 8},
		{"up sharply", 1400, 1000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expenses := &fakeExpenses{thisWeek: tc.thisWeek, lastWeek: tc.lastWeek}
			s := newTestService(expenses, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, newFakeStore())

			score, err := s.calcSavings(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, score)
		})
	}
}

func TestCalculateScoreNeutralDefaults(t *testing.T) {
	// No expenses, no budget, no wallet: 0 + 12 + 12 + 12 = 36, "Aware".
	s := newTestService(&fakeExpenses{}, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, newFakeStore())

	b, err := s.CalculateScore(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, b.ConsistencyScore)
	assert.Equal(t, 12, b.BudgetScore)
	assert.Equal(t, 12, b.CashScore)
	assert.Equal(t, 12, b.SavingsScore)
	assert.Equal(t, 36, b.TotalScore)
	assert.Equal(t, "Aware", b.Level)
	assert.Equal(t, "👀", b.LevelEmoji)
}

func TestCalculateScoreTotalIsSumAndBounded(t *testing.T) {
	expenses := &fakeExpenses{
		timestamps:  []time.Time{testNow, testNow.AddDate(0, 0, -1)},
		monthTotal:  300,
		thisWeek:    100,
		lastWeek:    200,
		topCategory: "Food",
	}
	budgets := &fakeBudgets{info: &BudgetInfo{MonthlyLimit: 1000}}
	wallets := &fakeWallets{info: &WalletInfo{Balance: 600}}
	s := newTestService(expenses, budgets, wallets, &fakeAlerts{}, newFakeStore())

	b, err := s.CalculateScore(context.Background(), 1)
	require.NoError(t, err)

	for _, sub := range []int{b.ConsistencyScore, b.BudgetScore, b.CashScore, b.SavingsScore} {
		assert.GreaterOrEqual(t, sub, 0)
		assert.LessOrEqual(t, sub, 25)
	}
	assert.Equal(t, b.ConsistencyScore+b.BudgetScore+b.CashScore+b.SavingsScore, b.TotalScore)
	assert.GreaterOrEqual(t, b.TotalScore, 0)
	assert.LessOrEqual(t, b.TotalScore, 100)
}

func TestWeeklyDeltaDefaultsToZero(t *testing.T) {
	s := newTestService(&fakeExpenses{}, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, newFakeStore())

	b, err := s.CalculateScore(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, b.WeeklyDelta)
}

func TestWeeklyDeltaAgainstSevenDaysAgo(t *testing.T) {
	store := newFakeStore()
	weekAgo := testToday.AddDate(0, 0, -7)
	require.NoError(t, store.Upsert(context.Background(), &models.FinanceScore{
		UserID: 1, Date: weekAgo, TotalScore: 30, Level: "Aware",
	}))

	s := newTestService(&fakeExpenses{}, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, store)

	b, err := s.CalculateScore(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 36, b.TotalScore)
	assert.Equal(t, 6, b.WeeklyDelta)
}

func TestGetScoreComputesOnceThenReadsCache(t *testing.T) {
	store := newFakeStore()
	s := newTestService(&fakeExpenses{}, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, store)

	first, err := s.GetScore(context.Background(), 1)
	require.NoError(t, err)
	second, err := s.GetScore(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, store.upserts, "second call must be a pure read")
	assert.Equal(t, first, second)
}

func TestRecalculateOverwritesSameDay(t *testing.T) {
	store := newFakeStore()
	budgets := &fakeBudgets{info: &BudgetInfo{MonthlyLimit: 1000}}
	expenses := &fakeExpenses{monthTotal: 500}
	s := newTestService(expenses, budgets, &fakeWallets{}, &fakeAlerts{}, store)

	_, err := s.Recalculate(context.Background(), 1)
	require.NoError(t, err)

	// The user blows the budget; the second recalculate must replace the row.
	expenses.monthTotal = 2000
	fresh, err := s.Recalculate(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, store.upserts)
	assert.Len(t, store.snapshots, 1, "same day must stay a single row")

	read, err := s.GetScore(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, fresh.TotalScore, read.TotalScore)
	assert.Equal(t, 0, read.BudgetScore)
}

func TestSnapshotDateIsUTCMidnight(t *testing.T) {
	store := newFakeStore()
	s := newTestService(&fakeExpenses{}, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, store)
	// A wall clock in IST; the snapshot key must still be the UTC day.
	ist := time.FixedZone("IST", 5*3600+1800)
	s.now = func() time.Time { return time.Date(2026, 3, 21, 1, 30, 0, 0, ist) } // 2026-03-20 20:00 UTC

	_, err := s.Recalculate(context.Background(), 1)
	require.NoError(t, err)

	snap, err := s.store.GetByDate(context.Background(), 1, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, snap)
}

type loggedExpense struct {
	at       time.Time
	category string
	amount   float64
}

// windowedExpenses resolves the top category from a real expense list, so the
// window bounds passed by the service are exercised rather than ignored.
type windowedExpenses struct {
	fakeExpenses
	logged []loggedExpense
}

func (f *windowedExpenses) TopCategoryBetween(_ context.Context, _ uint, from, to time.Time) (string, error) {
	totals := map[string]float64{}
	for _, e := range f.logged {
		if !e.at.Before(from) && e.at.Before(to) {
			totals[e.category] += e.amount
		}
	}
	top, best := "", 0.0
	for c, v := range totals {
		if v > best {
			top, best = c, v
		}
	}
	return top, nil
}

func TestTopCategoryWindowIncludesToday(t *testing.T) {
	// The user's only recent expense was logged earlier today. It must still
	// count toward the weekly top category, so the savings praise fires
	// instead of the generic fallback.
	loggedAt := testNow.Add(-time.Hour)
	expenses := &windowedExpenses{
		fakeExpenses: fakeExpenses{
			timestamps: []time.Time{loggedAt},
			thisWeek:   120,
			lastWeek:   1000,
		},
		logged: []loggedExpense{{at: loggedAt, category: "Food", amount: 120}},
	}
	s := newTestService(expenses, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, newFakeStore())

	b, err := s.CalculateScore(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 25, b.SavingsScore)
	assert.Equal(t, 1, b.Streak)
	assert.Equal(t, "Great week! Spending down vs last week. Keep it up.", b.Insight)
}

func TestHistoryAscendingByDate(t *testing.T) {
	store := newFakeStore()
	// Inserted newest-first; History must still come back oldest-first.
	for _, day := range []int{-1, -5, -3} {
		require.NoError(t, store.Upsert(context.Background(), &models.FinanceScore{
			UserID: 1, Date: testToday.AddDate(0, 0, day), TotalScore: 36, Level: "Aware",
		}))
	}
	s := newTestService(&fakeExpenses{}, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, store)

	history, err := s.History(context.Background(), 1, 30)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2026-03-15", history[0].Date)
	assert.Equal(t, "2026-03-17", history[1].Date)
	assert.Equal(t, "2026-03-19", history[2].Date)
}

func TestHistoryEmptyWhenNoSnapshots(t *testing.T) {
	s := newTestService(&fakeExpenses{}, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, newFakeStore())

	history, err := s.History(context.Background(), 1, 30)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}
