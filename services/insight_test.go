package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsightPriorityOrder(t *testing.T) {
	cases := []struct {
		name        string
		breakdown   ScoreBreakdown
		topCategory string
		want        string
	}{
		{
			name:      "long streak wins over everything",
			breakdown: ScoreBreakdown{Streak: 9, BudgetScore: 25, CashScore: 0},
			want:      "🔥 9-day streak! You're in the top habit zone.",
		},
		{
			name:      "zero streak prompts logging",
			breakdown: ScoreBreakdown{Streak: 0, BudgetScore: 25},
			want:      "Log today to start your streak and boost your score.",
		},
		{
			name:      "budget praise",
			breakdown: ScoreBreakdown{Streak: 2, BudgetScore: 20},
			want:      "Budget hero! You're well within your monthly limit.",
		},
		{
			name:      "over budget warning",
			breakdown: ScoreBreakdown{Streak: 2, BudgetScore: 3},
			want:      "Over budget this month - try logging before you spend.",
		},
		{
			name:        "savings praise needs a top category",
			breakdown:   ScoreBreakdown{Streak: 2, BudgetScore: 12, SavingsScore: 25},
			topCategory: "Food",
			want:        "Great week! Spending down vs last week. Keep it up.",
		},
		{
			name:        "rising category named",
			breakdown:   ScoreBreakdown{Streak: 2, BudgetScore: 12, SavingsScore: 0, CashScore: 12},
			topCategory: "Transport",
			want:        "Transport spending up this week - watch it.",
		},
		{
			name:      "savings rules skipped without a category",
			breakdown: ScoreBreakdown{Streak: 2, BudgetScore: 12, SavingsScore: 0, CashScore: 3},
			want:      "Cash gaps detected! Resolve alerts to boost your score.",
		},
		{
			name:      "consistency reinforcement",
			breakdown: ScoreBreakdown{Streak: 5, BudgetScore: 12, SavingsScore: 12, CashScore: 12, ConsistencyScore: 20},
			want:      "5-day streak going strong!",
		},
		{
			name:      "generic fallback",
			breakdown: ScoreBreakdown{Streak: 2, BudgetScore: 12, SavingsScore: 12, CashScore: 12, ConsistencyScore: 12},
			want:      "Keep logging daily to unlock a higher rank!",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.breakdown
			assert.Equal(t, tc.want, generateInsight(&b, tc.topCategory))
		})
	}
}
