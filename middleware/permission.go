package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// ContributorOnly lets through callers holding the isQuizContributor claim.
// It must run after JWTMiddleware.
func ContributorOnly(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}
	if !IsContributor(c) {
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
	return c.Next()
}
