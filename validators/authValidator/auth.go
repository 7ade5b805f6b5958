package authValidator

import (
	"strings"

	"quizhub/middleware"
	"quizhub/models"
	"quizhub/services/users"
	"quizhub/services/validation"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Authenticate validator middleware
func Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.UserName = strings.TrimSpace(reqData.UserName)

		if errors := validation.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

// StoreUser validator middleware
func StoreUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(users.StoreInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.UserName = strings.TrimSpace(reqData.UserName)
		reqData.Email = strings.TrimSpace(reqData.Email)

		if errors := validation.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

type RoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// UpdateRole accepts {"role": "..."} or a bare JSON string.
func UpdateRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RoleRequest)
		body := strings.TrimSpace(string(c.Body()))
		if strings.HasPrefix(body, `"`) {
			reqData.Role = strings.Trim(body, `"`)
		} else if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validation.Struct(reqData)
		if _, ok := errors["role"]; !ok && !users.ValidRole(reqData.Role) {
			errors["role"] = "role must be one of: " + models.RoleUser + " " + models.RoleContributor + " " + models.RoleAdmin + "!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRole", reqData)
		return c.Next()
	}
}
