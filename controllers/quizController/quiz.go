package quizController

import (
	"log"

	"quizhub/database"
	"quizhub/middleware"
	"quizhub/services/apperror"
	"quizhub/services/catalog"
	"quizhub/utils"

	"github.com/gofiber/fiber/v2"
)

func GetQuizzes(c *fiber.Ctx) error {
	quizzes, err := catalog.ListQuizzes(database.Database.Db)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully.", catalog.ViewsOf(quizzes))
}

func GetQuiz(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}

	quiz, err := catalog.GetQuiz(database.Database.Db, id, false)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully.", catalog.ViewOf(*quiz))
}

// GetQuizWithQuestions exposes answer correctness, so it is limited to the
// quiz's creator or a contributor.
func GetQuizWithQuestions(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}

	quiz, err := catalog.GetQuiz(database.Database.Db, id, true)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !middleware.CanAccess(c, quiz.CreatedByID) {
		return middleware.ErrorResponse(c, apperror.Forbiddenf("Only the creator or administrators can see the answers of this quiz"))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully.", catalog.ViewOf(*quiz))
}

// TakeQuiz returns the quiz for answering: no correctness information.
func TakeQuiz(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}

	view, err := catalog.GetTakeView(database.Database.Db, id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully.", view)
}

func CreateQuiz(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuiz").(*catalog.QuizInput)
	userID, _ := middleware.CurrentUserID(c)

	quiz, err := catalog.CreateQuiz(database.Database.Db, userID, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully.", catalog.ViewOf(*quiz))
}

// authorizeQuiz loads the quiz and applies the creator-or-admin rule.
func authorizeQuiz(c *fiber.Ctx, id uint, action string) error {
	quiz, err := catalog.GetQuiz(database.Database.Db, id, false)
	if err != nil {
		return err
	}
	if !middleware.CanAccess(c, quiz.CreatedByID) {
		return apperror.Forbiddenf("Only the creator or administrators can %s this quiz", action)
	}
	return nil
}

func UpdateQuiz(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}
	reqData := c.Locals("validatedQuiz").(*catalog.QuizInput)

	if err := authorizeQuiz(c, id, "update"); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	quiz, err := catalog.UpdateQuiz(database.Database.Db, id, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	log.Printf("[QUIZ] Quiz %d updated with %d questions", id, len(quiz.Questions))
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully.", catalog.ViewOf(*quiz))
}

func AddQuestion(c *fiber.Ctx) error {
	quizID, ok := utils.ParamID(c, "quizId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}
	questionID, ok := utils.ParamID(c, "questionId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question ID!", nil)
	}

	if err := authorizeQuiz(c, quizID, "modify"); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := catalog.AddQuestion(database.Database.Db, quizID, questionID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question added to quiz.", nil)
}

func RemoveQuestion(c *fiber.Ctx) error {
	quizID, ok := utils.ParamID(c, "quizId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}
	questionID, ok := utils.ParamID(c, "questionId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question ID!", nil)
	}

	if err := authorizeQuiz(c, quizID, "modify"); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := catalog.RemoveQuestion(database.Database.Db, quizID, questionID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question removed from quiz.", nil)
}

func DeleteQuiz(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}

	if err := authorizeQuiz(c, id, "delete"); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := catalog.DeleteQuiz(database.Database.Db, id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully.", nil)
}

func GetQuizzesByUser(c *fiber.Ctx) error {
	userID, ok := utils.ParamID(c, "userId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}
	if !middleware.CanAccess(c, userID) {
		return middleware.ErrorResponse(c, apperror.Forbiddenf("You can only view your own created quizzes"))
	}

	quizzes, err := catalog.ListQuizzesByCreator(database.Database.Db, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully.", catalog.ViewsOf(quizzes))
}
