package services

import "fmt"

// generateInsight picks one message from the breakdown plus the user's top
// weekly spend category. Rules apply in fixed priority order; the first match
// wins. Pure function, no side effects.
func generateInsight(b *ScoreBreakdown, topCategory string) string {
	switch {
	case b.Streak >= 7:
		return fmt.Sprintf("🔥 %d-day streak! You're in the top habit zone.", b.Streak)
	case b.Streak == 0:
		return "Log today to start your streak and boost your score."
	case b.BudgetScore >= 20:
		return "Budget hero! You're well within your monthly limit."
	case b.BudgetScore <= 5:
		return "Over budget this month - try logging before you spend."
	case b.SavingsScore >= 20 && topCategory != "":
		return "Great week! Spending down vs last week. Keep it up."
	case b.SavingsScore == 0 && topCategory != "":
		return fmt.Sprintf("%s spending up this week - watch it.", topCategory)
	case b.CashScore <= 5:
		return "Cash gaps detected! Resolve alerts to boost your score."
	case b.ConsistencyScore >= 20:
		return fmt.Sprintf("%d-day streak going strong!", b.Streak)
	}
	return "Keep logging daily to unlock a higher rank!"
}
