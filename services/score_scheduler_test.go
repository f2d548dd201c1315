package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	ids []uint
	err error
}

func (f *fakeUsers) ListWithAnyExpense(_ context.Context) ([]uint, error) { return f.ids, f.err }

// failingExpenses errors for exactly one user; everyone else is fine.
type failingExpenses struct {
	fakeExpenses
	failFor uint
}

func (f *failingExpenses) ListTimestampsSince(ctx context.Context, userID uint, from time.Time) ([]time.Time, error) {
	if userID == f.failFor {
		return nil, errors.New("expense feed unavailable")
	}
	return f.fakeExpenses.ListTimestampsSince(ctx, userID, from)
}

func TestRunOnceIsolatesPerUserFailures(t *testing.T) {
	store := newFakeStore()
	expenses := &failingExpenses{failFor: 4}
	scores := NewScoreService(expenses, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, store)
	scores.now = func() time.Time { return testNow }

	users := &fakeUsers{ids: []uint{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	sched := NewScoreScheduler(users, scores)
	sched.batchSize = 3 // force several batches

	sched.RunOnce(context.Background())

	assert.Len(t, store.snapshots, 9, "nine users succeed")
	missing, err := store.GetByDate(context.Background(), 4, testToday)
	require.NoError(t, err)
	assert.Nil(t, missing, "the failing user must not be persisted")

	for _, id := range []uint{1, 2, 3, 5, 6, 7, 8, 9, 10} {
		snap, err := store.GetByDate(context.Background(), id, testToday)
		require.NoError(t, err)
		require.NotNilf(t, snap, "user %d should have a snapshot", id)
		assert.Equal(t, 36, snap.TotalScore)
	}
}

func TestRunOnceEnumerationFailureAbortsQuietly(t *testing.T) {
	store := newFakeStore()
	scores := NewScoreService(&fakeExpenses{}, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, store)
	scores.now = func() time.Time { return testNow }

	sched := NewScoreScheduler(&fakeUsers{err: errors.New("db down")}, scores)

	// Must not panic; the next scheduled fire is the retry.
	sched.RunOnce(context.Background())
	assert.Empty(t, store.snapshots)
}

func TestRunOncePersistenceFailureCountsAsUserFailure(t *testing.T) {
	store := newFakeStore()
	store.failWith = errors.New("upsert failed")
	scores := NewScoreService(&fakeExpenses{}, &fakeBudgets{}, &fakeWallets{}, &fakeAlerts{}, store)
	scores.now = func() time.Time { return testNow }

	sched := NewScoreScheduler(&fakeUsers{ids: []uint{1, 2}}, scores)
	sched.RunOnce(context.Background())

	assert.Empty(t, store.snapshots)
}
