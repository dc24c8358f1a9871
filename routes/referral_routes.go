package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneylink/moneylink_job/handlers"
	"github.com/moneylink/moneylink_job/middleware"
)

func ReferralRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/referrals", middleware.Protected(), handlers.ListMyReferrals)
}
