package routes

import (
	"github.com/ammarlogade-max/Student-Expense-Analyzer/config"
	"github.com/ammarlogade-max/Student-Expense-Analyzer/controllers"
	"github.com/ammarlogade-max/Student-Expense-Analyzer/middlewares"
	"github.com/ammarlogade-max/Student-Expense-Analyzer/services"

	"github.com/gin-gonic/gin"
)

type AppServices struct {
	Scores   *services.ScoreService
	Expenses *services.ExpenseService
	Budgets  *services.BudgetService
	Cash     *services.CashService
	Hub      *services.RealtimeHub
}

func NewAppServices() *AppServices {
	db := config.DB
	hub := services.NewRealtimeHub()

	scores := services.NewScoreService(
		services.NewGormExpenseFeed(db),
		services.NewGormBudgetFeed(db),
		services.NewGormWalletFeed(db),
		services.NewGormAlertFeed(db),
		services.NewGormScoreStore(db),
	)

	return &AppServices{
		Scores:   scores,
		Expenses: services.NewExpenseService(db),
		Budgets:  services.NewBudgetService(db),
		Cash:     services.NewCashService(db, hub),
		Hub:      hub,
	}
}

func SetupRouter(app *AppServices) *gin.Engine {
	r := gin.Default()

	scoreCtl := controllers.NewScoreController(app.Scores, app.Hub)
	expenseCtl := controllers.NewExpenseController(app.Expenses)
	budgetCtl := controllers.NewBudgetController(app.Budgets)
	cashCtl := controllers.NewCashController(app.Cash)
	realtimeCtl := controllers.NewRealtimeController(app.Hub)

	r.GET("/health", controllers.Health)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/auth/me", controllers.Me)

		api.GET("/score", scoreCtl.GetScore)
		api.GET("/score/history", scoreCtl.GetHistory)
		api.POST("/score/recalculate", scoreCtl.Recalculate)

		api.POST("/expenses", expenseCtl.Create)
		api.GET("/expenses", expenseCtl.List)
		api.PUT("/expenses/:id", expenseCtl.Update)
		api.DELETE("/expenses/:id", expenseCtl.Delete)
		api.GET("/expenses/summary", expenseCtl.MonthlySummary)

		api.GET("/budget", budgetCtl.Get)
		api.PUT("/budget", budgetCtl.Update)
		api.GET("/budget/status", budgetCtl.Status)

		api.GET("/cash", cashCtl.Overview)
		api.POST("/cash/withdrawals", cashCtl.Withdraw)
		api.POST("/cash/expenses", cashCtl.AddExpense)
		api.POST("/cash/adjustments", cashCtl.Adjust)
		api.GET("/cash/transactions", cashCtl.Transactions)
		api.POST("/cash/alerts/:id/resolve", cashCtl.ResolveAlert)
		api.GET("/cash/reconciliation", cashCtl.Reconciliation)

		api.GET("/realtime/events", realtimeCtl.EventsWS)
	}

	return r
}
