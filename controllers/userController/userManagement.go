package userController

import (
	"quizhub/config"
	"quizhub/database"
	"quizhub/middleware"
	"quizhub/services/users"
	authValidator "quizhub/validators/authValidator"

	"github.com/gofiber/fiber/v2"
)

// StoreUser registers a user, or returns the existing one with the same
// user name.
func StoreUser(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*users.StoreInput)

	user, created, err := users.Store(database.Database.Db, *reqData, config.AppConfig.SaltRound)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !created {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "User already exists.", user)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", user)
}

func GetUser(c *fiber.Ctx) error {
	user, err := users.GetByUserName(database.Database.Db, c.Params("userName"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully.", user)
}

func GetAllUsers(c *fiber.Ctx) error {
	all, err := users.List(database.Database.Db)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully.", all)
}

func UpdateUserRole(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRole").(*authValidator.RoleRequest)

	user, err := users.UpdateRole(database.Database.Db, c.Params("userName"), reqData.Role)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Role updated successfully.", user)
}
