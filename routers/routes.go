package routers

import (
	"quizhub/routers/authRoutes"
	"quizhub/routers/categoryRoutes"
	"quizhub/routers/questionRoutes"
	"quizhub/routers/quizRoutes"
	"quizhub/routers/sessionRoutes"
	"quizhub/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
)

// Setup mounts every API group under /api.
func Setup(app *fiber.App) {
	api := app.Group("/api")

	authRoutes.SetupAuthRoutes(api)
	userRoutes.SetupUserManagementRoutes(api)
	userRoutes.SetupUserProfileRoutes(api)
	questionRoutes.SetupQuestionRoutes(api)
	questionRoutes.SetupAnswerRoutes(api)
	categoryRoutes.SetupCategoryRoutes(api)
	quizRoutes.SetupQuizRoutes(api)
	sessionRoutes.SetupSessionRoutes(api)
}
