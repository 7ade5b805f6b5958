package questionValidator

import (
	"fmt"
	"strings"

	"quizhub/middleware"
	"quizhub/services/catalog"
	"quizhub/services/validation"
	"quizhub/utils"

	"github.com/gofiber/fiber/v2"
)

const maxImportItems = 500

// Question validator middleware, shared by create and update.
func Question() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(catalog.QuestionInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.QuestionBody = strings.TrimSpace(reqData.QuestionBody)

		if errors := validation.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// BulkImport only checks the envelope; items are validated one by one so a
// bad item cannot fail the batch.
func BulkImport() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqData []catalog.QuestionInput
		if err := c.BodyParser(&reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if len(reqData) == 0 {
			errors["questions"] = "At least one question is required!"
		} else if len(reqData) > maxImportItems {
			errors["questions"] = fmt.Sprintf("At most %d questions can be imported at once!", maxImportItems)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedImport", reqData)
		return c.Next()
	}
}

func OpenTDBImport() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &utils.OpenTDBQuery{Amount: 10}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		if errors := validation.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedOpenTDB", reqData)
		return c.Next()
	}
}
