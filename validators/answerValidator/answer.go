package answerValidator

import (
	"quizhub/middleware"
	"quizhub/services/catalog"
	"quizhub/services/validation"
	"quizhub/utils"

	"github.com/gofiber/fiber/v2"
)

func AnswerPatch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(catalog.AnswerPatch)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validation.Struct(reqData)
		if reqData.AnswerBody == nil && reqData.AnswerCorrect == nil && reqData.AnswerPosition == nil {
			errors["body"] = "No updatable fields supplied!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAnswer", reqData)
		return c.Next()
	}
}

// AnswerList requires ?questionId=.
func AnswerList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, present, ok := utils.QueryID(c, "questionId")
		if !present || !ok {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"questionId": "questionId must be a positive integer!",
			})
		}

		c.Locals("questionId", id)
		return c.Next()
	}
}
