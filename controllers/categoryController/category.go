package categoryController

import (
	"quizhub/database"
	"quizhub/middleware"
	"quizhub/services/catalog"
	"quizhub/utils"

	"github.com/gofiber/fiber/v2"
)

func GetCategories(c *fiber.Ctx) error {
	categories, err := catalog.ListCategories(database.Database.Db)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully.", categories)
}

func CreateCategory(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCategory").(*catalog.CategoryInput)

	category, err := catalog.CreateCategory(database.Database.Db, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Category created successfully.", category)
}

func UpdateCategory(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid category ID!", nil)
	}
	reqData := c.Locals("validatedCategory").(*catalog.CategoryInput)

	category, err := catalog.UpdateCategory(database.Database.Db, id, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category updated successfully.", category)
}

func DeleteCategory(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid category ID!", nil)
	}

	if err := catalog.DeleteCategory(database.Database.Db, id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category deleted successfully.", nil)
}

func GetCategoryUsage(c *fiber.Ctx) error {
	usage, err := catalog.CategoryUsages(database.Database.Db)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category usage fetched successfully.", usage)
}
