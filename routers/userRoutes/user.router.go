package userRoutes

import (
	userController "quizhub/controllers/userController"
	"quizhub/middleware"
	authValidator "quizhub/validators/authValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserManagementRoutes(app fiber.Router) {
	userGroup := app.Group("/UserManagement")

	userGroup.Post("/store-user", authValidator.StoreUser(), userController.StoreUser)
	userGroup.Get("/all", middleware.JWTMiddleware, middleware.ContributorOnly, userController.GetAllUsers)
	userGroup.Get("/:userName", middleware.JWTMiddleware, userController.GetUser)
	userGroup.Patch("/:userName/role", middleware.JWTMiddleware, middleware.ContributorOnly, authValidator.UpdateRole(), userController.UpdateUserRole)
}

func SetupUserProfileRoutes(app fiber.Router) {
	profileGroup := app.Group("/UserProfile", middleware.JWTMiddleware)

	profileGroup.Get("/profile", userController.GetProfile)
	profileGroup.Get("/profile/:username", userController.GetProfileByUsername)
	profileGroup.Get("/all", middleware.ContributorOnly, userController.GetAllProfiles)
	profileGroup.Get("/summary/:id", userController.GetSummary)
	profileGroup.Get("/:id<int>/activity", userController.GetActivity)
	profileGroup.Get("/:username/contributions", userController.GetContributions)
	profileGroup.Get("/:id<int>", userController.GetProfileByID)
}
