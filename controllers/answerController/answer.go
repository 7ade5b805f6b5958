package answerController

import (
	"quizhub/database"
	"quizhub/middleware"
	"quizhub/models"
	"quizhub/services/apperror"
	"quizhub/services/catalog"
	"quizhub/utils"

	"github.com/gofiber/fiber/v2"
)

func GetAnswer(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid answer ID!", nil)
	}

	db := database.Database.Db
	answer, err := catalog.GetAnswer(db, id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	question, err := catalog.GetQuestion(db, answer.QuestionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if !middleware.CanAccess(c, question.CreatedByID) {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer fetched successfully.", answer.Public())
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer fetched successfully.", answer)
}

// GetAnswers lists a question's answers. Callers other than the question's
// creator and administrators get them without the correctness flag.
func GetAnswers(c *fiber.Ctx) error {
	questionID := c.Locals("questionId").(uint)

	db := database.Database.Db
	question, err := catalog.GetQuestion(db, questionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	answers, err := catalog.ListAnswers(db, questionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if !middleware.CanAccess(c, question.CreatedByID) {
		public := make([]models.PublicAnswer, 0, len(answers))
		for _, a := range answers {
			public = append(public, a.Public())
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Answers fetched successfully.", public)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answers fetched successfully.", answers)
}

// ownerCheck loads the answer's question and applies the creator-or-admin rule.
func ownerCheck(c *fiber.Ctx, answerID uint) error {
	db := database.Database.Db
	answer, err := catalog.GetAnswer(db, answerID)
	if err != nil {
		return err
	}
	question, err := catalog.GetQuestion(db, answer.QuestionID)
	if err != nil {
		return err
	}
	if !middleware.CanAccess(c, question.CreatedByID) {
		return apperror.Forbiddenf("Only the question's creator or administrators can change its answers")
	}
	return nil
}

func UpdateAnswer(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid answer ID!", nil)
	}
	reqData := c.Locals("validatedAnswer").(*catalog.AnswerPatch)

	if err := ownerCheck(c, id); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	answer, err := catalog.UpdateAnswer(database.Database.Db, id, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer updated successfully.", answer)
}

func DeleteAnswer(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid answer ID!", nil)
	}

	if err := ownerCheck(c, id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := catalog.DeleteAnswer(database.Database.Db, id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer deleted successfully.", nil)
}
