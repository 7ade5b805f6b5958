package middleware

import (
	"log"

	"quizhub/services/apperror"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.NotFound:
		return fiber.StatusNotFound
	case apperror.InvalidRequest, apperror.InvalidState:
		return fiber.StatusBadRequest
	case apperror.Forbidden:
		return fiber.StatusForbidden
	case apperror.Conflict:
		return fiber.StatusConflict
	case apperror.Unauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorResponse writes err in the response envelope. Internal errors are
// logged with their cause; the client only sees the message.
func ErrorResponse(c *fiber.Ctx, err error) error {
	kind := apperror.KindOf(err)
	if kind == apperror.Internal {
		log.Printf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
	}
	return JsonResponse(c, StatusFor(kind), false, apperror.Message(err), nil)
}
