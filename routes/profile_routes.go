package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneylink/moneylink_job/handlers"
	"github.com/moneylink/moneylink_job/middleware"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile/me", middleware.Protected())
	profile.Get("", handlers.GetProfile)

	api.Get("/history", middleware.Protected(), handlers.GetHistory)
}
