package sessionRoutes

import (
	sessionController "quizhub/controllers/sessionController"
	"quizhub/middleware"
	sessionValidator "quizhub/validators/sessionValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupSessionRoutes(app fiber.Router) {
	sessionGroup := app.Group("/QuizSession", middleware.JWTMiddleware)

	sessionGroup.Get("", sessionValidator.ListSessions(), sessionController.GetSessions)
	sessionGroup.Post("", sessionValidator.CreateSession(), sessionController.CreateSession)
	sessionGroup.Get("/:id", sessionController.GetSession)
	sessionGroup.Patch("/:id", sessionValidator.UpdateSession(), sessionController.UpdateSession)
	sessionGroup.Post("/:id/answers", sessionValidator.SubmitAnswer(), sessionController.SubmitAnswer)
	sessionGroup.Get("/:id/results", sessionController.GetResults)
	sessionGroup.Get("/:id/review", sessionController.GetReview)
	sessionGroup.Post("/:id/complete", sessionController.CompleteSession)
	sessionGroup.Post("/complete/:id", sessionController.CompleteSession)
}
