package authController

import (
	"log"

	"quizhub/config"
	"quizhub/database"
	"quizhub/middleware"
	"quizhub/services/users"
	authValidator "quizhub/validators/authValidator"

	"github.com/gofiber/fiber/v2"
)

// Authenticate checks the password, issues the auth cookie and returns the
// caller's identity.
func Authenticate(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)

	user, err := users.Authenticate(database.Database.Db, reqData.UserName, reqData.Password)
	if err != nil {
		log.Printf("[AUTH] Authentication failed for %s", reqData.UserName)
		return middleware.ErrorResponse(c, err)
	}

	contributor := users.IsContributor(*user, config.AppConfig.IsContributor)
	token, expires, err := middleware.GenerateJWT(*user, contributor)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}
	middleware.SetAuthCookie(c, token, expires)

	log.Printf("[AUTH] User %s authenticated", user.UserName)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Authenticated successfully.", fiber.Map{
		"user":              user.UserName,
		"userId":            user.ID,
		"isQuizContributor": contributor,
		"firstName":         user.FirstName,
		"lastName":          user.LastName,
		"displayName":       user.DisplayName,
		"email":             user.Email,
		"token":             token,
	})
}

func GetUser(c *fiber.Ctx) error {
	userName, _ := c.Locals("userName").(string)
	userID, _ := middleware.CurrentUserID(c)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully.", fiber.Map{
		"user":              userName,
		"userId":            userID,
		"isQuizContributor": middleware.IsContributor(c),
	})
}

func Logout(c *fiber.Ctx) error {
	middleware.ClearAuthCookie(c)
	log.Printf("[AUTH] User logged out. Cookie cleared.")
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out successfully", nil)
}
