package quizValidator

import (
	"strconv"
	"strings"

	"quizhub/middleware"
	"quizhub/services/catalog"
	"quizhub/services/validation"

	"github.com/gofiber/fiber/v2"
)

type quizRequest struct {
	ID uint `json:"id"`
	catalog.QuizInput
}

// Quiz validator middleware. On update a body id, when given, must match
// the route id.
func Quiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(quizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.QuizName = strings.TrimSpace(reqData.QuizName)

		errors := validation.Struct(reqData.QuizInput)
		if routeID := c.Params("id"); routeID != "" && reqData.ID != 0 {
			if routeID != strconv.FormatUint(uint64(reqData.ID), 10) {
				errors["id"] = "ID mismatch!"
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", &reqData.QuizInput)
		return c.Next()
	}
}
