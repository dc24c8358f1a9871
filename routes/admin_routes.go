package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneylink/moneylink_job/handlers"
	"github.com/moneylink/moneylink_job/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/withdrawals", handlers.ListWithdrawals)
	admin.Post("/withdrawals/:withdrawalId/approve", handlers.ApproveWithdrawal)
	admin.Post("/withdrawals/:withdrawalId/reject", handlers.RejectWithdrawal)

	admin.Get("/users", handlers.ListUsers)
	admin.Get("/stats", handlers.GetAdminStats)
}
