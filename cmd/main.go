package main

import (
	"github.com/ammarlogade-max/Student-Expense-Analyzer/config"
	"github.com/ammarlogade-max/Student-Expense-Analyzer/routes"
	"github.com/ammarlogade-max/Student-Expense-Analyzer/services"
)

func main() {
	config.InitDB()

	app := routes.NewAppServices()

	scoreScheduler := services.NewScoreScheduler(services.NewGormUserFeed(config.DB), app.Scores)
	scoreScheduler.Start()
	defer scoreScheduler.Stop()

	cashScheduler := services.NewCashScheduler(config.DB, app.Cash)
	cashScheduler.Start()
	defer cashScheduler.Stop()

	r := routes.SetupRouter(app)
	r.Run(":8080")
}
