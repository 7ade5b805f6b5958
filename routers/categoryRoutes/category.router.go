package categoryRoutes

import (
	categoryController "quizhub/controllers/categoryController"
	"quizhub/middleware"
	categoryValidator "quizhub/validators/categoryValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupCategoryRoutes(app fiber.Router) {
	categoryGroup := app.Group("/Category", middleware.JWTMiddleware)

	categoryGroup.Get("", categoryController.GetCategories)
	categoryGroup.Get("/usage", categoryController.GetCategoryUsage)
	categoryGroup.Post("", middleware.ContributorOnly, categoryValidator.Category(), categoryController.CreateCategory)
	categoryGroup.Patch("/:id", middleware.ContributorOnly, categoryValidator.Category(), categoryController.UpdateCategory)
	categoryGroup.Delete("/:id", middleware.ContributorOnly, categoryController.DeleteCategory)
}
