package main

import (
	"log"

	"quizhub/config"
	"quizhub/database"
	"quizhub/metrics"
	"quizhub/routers"
	"quizhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppConfig.CorsOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true, // auth cookie
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": true, "message": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	routers.Setup(app)

	utils.InitializeSchedulers(config.AppConfig.SessionSweepSpec)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
