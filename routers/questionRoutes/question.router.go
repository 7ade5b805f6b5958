package questionRoutes

import (
	answerController "quizhub/controllers/answerController"
	questionController "quizhub/controllers/questionController"
	"quizhub/middleware"
	answerValidator "quizhub/validators/answerValidator"
	questionValidator "quizhub/validators/questionValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupQuestionRoutes(app fiber.Router) {
	questionGroup := app.Group("/Question", middleware.JWTMiddleware)

	questionGroup.Get("", questionController.GetQuestions)
	questionGroup.Post("", questionValidator.Question(), questionController.CreateQuestion)
	questionGroup.Post("/import", questionValidator.BulkImport(), questionController.ImportQuestions)
	questionGroup.Post("/import/opentdb", middleware.ContributorOnly, questionValidator.OpenTDBImport(), questionController.ImportOpenTDB)
	questionGroup.Get("/:id", questionController.GetQuestion)
	questionGroup.Put("/:id", questionValidator.Question(), questionController.UpdateQuestion)
	questionGroup.Delete("/:id", questionController.DeleteQuestion)
}

func SetupAnswerRoutes(app fiber.Router) {
	answerGroup := app.Group("/Answer", middleware.JWTMiddleware)

	answerGroup.Get("", answerValidator.AnswerList(), answerController.GetAnswers)
	answerGroup.Get("/:id", answerController.GetAnswer)
	answerGroup.Patch("/:id", answerValidator.AnswerPatch(), answerController.UpdateAnswer)
	answerGroup.Delete("/:id", answerController.DeleteAnswer)
}
