package categoryValidator

import (
	"strings"

	"quizhub/middleware"
	"quizhub/services/catalog"
	"quizhub/services/validation"

	"github.com/gofiber/fiber/v2"
)

func Category() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(catalog.CategoryInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Value = strings.TrimSpace(reqData.Value)
		reqData.Label = strings.TrimSpace(reqData.Label)

		if errors := validation.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCategory", reqData)
		return c.Next()
	}
}
