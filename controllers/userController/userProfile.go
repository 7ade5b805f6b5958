package userController

import (
	"time"

	"quizhub/database"
	"quizhub/middleware"
	"quizhub/services/apperror"
	"quizhub/services/users"
	"quizhub/utils"

	"github.com/gofiber/fiber/v2"
)

func GetProfile(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)

	user, err := users.GetByID(database.Database.Db, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", users.ProfileOf(*user))
}

func GetProfileByUsername(c *fiber.Ctx) error {
	user, err := users.GetByUserName(database.Database.Db, c.Params("username"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", users.ProfileOf(*user))
}

func GetProfileByID(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}

	user, err := users.GetByID(database.Database.Db, id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", users.ProfileOf(*user))
}

func GetSummary(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}

	user, err := users.GetByID(database.Database.Db, id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Summary fetched successfully.", user.Summary())
}

func GetAllProfiles(c *fiber.Ctx) error {
	profiles, err := users.Profiles(database.Database.Db)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profiles fetched successfully.", profiles)
}

func GetContributions(c *fiber.Ctx) error {
	contributions, err := users.GetContributions(database.Database.Db, c.Params("username"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Contributions fetched successfully.", contributions)
}

// GetActivity is limited to the user themself or a contributor.
func GetActivity(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}
	if !middleware.CanAccess(c, id) {
		return middleware.ErrorResponse(c, apperror.Forbiddenf("You can only view your own quiz activity"))
	}

	activity, err := users.GetActivity(database.Database.Db, id, time.Now().UTC())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity fetched successfully.", activity)
}
