package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneylink/moneylink_job/handlers"
	"github.com/moneylink/moneylink_job/middleware"
)

func TaskRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// The redirect page resolves slugs before the visitor signs in.
	api.Get("/tasks/slug/:slug", handlers.GetTaskBySlug)

	tasks := api.Group("/tasks", middleware.Protected())
	tasks.Get("", handlers.ListTasks)
	tasks.Post("", handlers.CreateTask)
	tasks.Post("/:linkId/complete", handlers.CompleteTask)
}
