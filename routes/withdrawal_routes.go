package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneylink/moneylink_job/handlers"
	"github.com/moneylink/moneylink_job/middleware"
)

func WithdrawalRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	withdrawals := api.Group("/withdrawals", middleware.Protected())
	withdrawals.Get("", handlers.ListMyWithdrawals)
	withdrawals.Post("", handlers.RequestWithdrawal)
}
