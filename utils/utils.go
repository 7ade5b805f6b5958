package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ParamID reads a positive integer route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// QueryID reads an optional positive integer query parameter. present is
// false when the parameter is absent; ok is false when it is malformed.
func QueryID(c *fiber.Ctx, name string) (id uint, present, ok bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, true, false
	}
	return uint(v), true, true
}
