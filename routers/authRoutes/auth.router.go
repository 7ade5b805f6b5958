package authRoutes

import (
	authController "quizhub/controllers/authController"
	"quizhub/middleware"
	authValidator "quizhub/validators/authValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app fiber.Router) {
	authGroup := app.Group("/Auth")

	authGroup.Post("/authenticate", authValidator.Authenticate(), authController.Authenticate)
	authGroup.Get("/user", middleware.JWTMiddleware, authController.GetUser)
	authGroup.Post("/logout", authController.Logout)
}
