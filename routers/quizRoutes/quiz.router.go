package quizRoutes

import (
	quizController "quizhub/controllers/quizController"
	"quizhub/middleware"
	quizValidator "quizhub/validators/quizValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(app fiber.Router) {
	quizGroup := app.Group("/Quiz", middleware.JWTMiddleware)

	quizGroup.Get("", quizController.GetQuizzes)
	quizGroup.Post("", quizValidator.Quiz(), quizController.CreateQuiz)
	quizGroup.Get("/created-by/:userId", quizController.GetQuizzesByUser)
	quizGroup.Get("/:id", quizController.GetQuiz)
	quizGroup.Get("/:id/withQuestions", quizController.GetQuizWithQuestions)
	quizGroup.Get("/:id/take", quizController.TakeQuiz)
	quizGroup.Put("/:id", quizValidator.Quiz(), quizController.UpdateQuiz)
	quizGroup.Delete("/:id", quizController.DeleteQuiz)
	quizGroup.Post("/:quizId/questions/:questionId", quizController.AddQuestion)
	quizGroup.Delete("/:quizId/questions/:questionId", quizController.RemoveQuestion)
}
