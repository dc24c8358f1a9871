package main

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	config "github.com/moneylink/moneylink_job/configs"
	"github.com/moneylink/moneylink_job/database"
	"github.com/moneylink/moneylink_job/jobs"
	"github.com/moneylink/moneylink_job/logging"
	"github.com/moneylink/moneylink_job/monitoring"
	"github.com/moneylink/moneylink_job/notifications"
	"github.com/moneylink/moneylink_job/routes"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := logging.InitLogger(config.Config("ENV") == "production"); err != nil {
		log.Fatalf("🔥 Failed to initialize logger: %v", err)
	}
	defer logging.Logger.Sync()

	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	if n, err := strconv.Atoi(config.Config("SEED_DEMO_TASKS")); err == nil {
		database.SeedDemoTasks(n)
	}
	notifications.InitEmailService()

	c := cron.New()
	c.AddFunc("*/10 * * * *", jobs.BackfillMissingProfiles)
	go c.Start()
	log.Println("✅ Cron job for profile repair scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "MoneyLink Job",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		monitoring.HttpRequestsTotal.WithLabelValues(
			c.Method(), c.Route().Path, strconv.Itoa(c.Response().StatusCode()),
		).Inc()
		return err
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to MoneyLink Job API",
		})
	})

	routes.AuthRoutes(app)
	routes.ProfileRoutes(app)
	routes.TaskRoutes(app)
	routes.WithdrawalRoutes(app)
	routes.ReferralRoutes(app)
	routes.AdminRoutes(app)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ Server is running on port %s", port)
	err := app.Listen(":" + port)
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
