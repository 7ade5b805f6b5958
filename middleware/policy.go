package middleware

import "github.com/gofiber/fiber/v2"

// CurrentUserID is the caller set by JWTMiddleware.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userId").(uint)
	return id, ok
}

func IsContributor(c *fiber.Ctx) bool {
	contributor, _ := c.Locals("isContributor").(bool)
	return contributor
}

// CanAccess is the single creator-or-admin rule: the caller owns the
// resource or holds the contributor claim.
func CanAccess(c *fiber.Ctx, ownerID uint) bool {
	if IsContributor(c) {
		return true
	}
	id, ok := CurrentUserID(c)
	return ok && id == ownerID
}
