package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestShouldRunWeeklyReconciliation(t *testing.T) {
	sunday := time.Date(2026, 3, 22, 9, 0, 0, 0, time.UTC)
	monday := sunday.AddDate(0, 0, 1)

	assert.False(t, shouldRunWeeklyReconciliation(monday, time.Time{}), "never on a weekday")
	assert.True(t, shouldRunWeeklyReconciliation(sunday, time.Time{}), "first ever run")
	assert.True(t, shouldRunWeeklyReconciliation(sunday, sunday.AddDate(0, 0, -7)), "a week since the last run")

	// Already ran earlier the same day, including after a process restart.
	assert.False(t, shouldRunWeeklyReconciliation(sunday, sunday.Add(-2*time.Hour)))
}

func TestReconciliationGap(t *testing.T) {
	gap := reconciliationGap(decimal.NewFromInt(500), decimal.NewFromInt(320))
	assert.True(t, gap.Equal(decimal.NewFromInt(180)))

	// Logging more cash spend than withdrawals is not a gap.
	gap = reconciliationGap(decimal.NewFromInt(100), decimal.NewFromInt(250))
	assert.True(t, gap.IsZero())
}
