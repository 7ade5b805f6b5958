package questionController

import (
	"log"

	"quizhub/config"
	"quizhub/database"
	"quizhub/metrics"
	"quizhub/middleware"
	"quizhub/models"
	"quizhub/services/apperror"
	"quizhub/services/catalog"
	"quizhub/utils"

	"github.com/gofiber/fiber/v2"
)

// visible returns the question as the caller may see it. Answer correctness
// is only shown to the creator and administrators.
func visible(c *fiber.Ctx, q models.Question) any {
	if middleware.CanAccess(c, q.CreatedByID) {
		return q
	}
	return q.Public()
}

func GetQuestions(c *fiber.Ctx) error {
	questions, err := catalog.ListQuestions(database.Database.Db)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	out := make([]any, 0, len(questions))
	for _, q := range questions {
		out = append(out, visible(c, q))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully.", out)
}

func GetQuestion(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question ID!", nil)
	}

	question, err := catalog.GetQuestion(database.Database.Db, id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question fetched successfully.", visible(c, *question))
}

func CreateQuestion(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuestion").(*catalog.QuestionInput)
	userID, _ := middleware.CurrentUserID(c)

	question, err := catalog.CreateQuestion(database.Database.Db, userID, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created successfully.", question)
}

// UpdateQuestion is allowed to the question's creator or a contributor.
func UpdateQuestion(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question ID!", nil)
	}
	reqData := c.Locals("validatedQuestion").(*catalog.QuestionInput)

	db := database.Database.Db
	existing, err := catalog.GetQuestion(db, id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !middleware.CanAccess(c, existing.CreatedByID) {
		return middleware.ErrorResponse(c, apperror.Forbiddenf("Only the creator or administrators can update this question"))
	}

	question, err := catalog.UpdateQuestion(db, id, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully.", question)
}

func DeleteQuestion(c *fiber.Ctx) error {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question ID!", nil)
	}

	db := database.Database.Db
	existing, err := catalog.GetQuestion(db, id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !middleware.CanAccess(c, existing.CreatedByID) {
		return middleware.ErrorResponse(c, apperror.Forbiddenf("Only the creator or administrators can delete this question"))
	}

	if err := catalog.DeleteQuestion(db, id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully.", nil)
}

// ImportQuestions creates every valid item and reports the failures.
func ImportQuestions(c *fiber.Ctx) error {
	items := c.Locals("validatedImport").([]catalog.QuestionInput)
	userID, _ := middleware.CurrentUserID(c)

	summary := catalog.BulkImport(database.Database.Db, userID, items)
	countImport("bulk", summary)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Import finished.", summary)
}

func ImportOpenTDB(c *fiber.Ctx) error {
	reqData := c.Locals("validatedOpenTDB").(*utils.OpenTDBQuery)
	userID, _ := middleware.CurrentUserID(c)

	client := utils.NewOpenTDBClient(config.AppConfig.OpenTDBURL)
	summary, err := utils.ImportFromOpenTDB(c.UserContext(), database.Database.Db, client, userID, *reqData)
	if err != nil {
		log.Printf("[OPENTDB] Import failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to fetch questions from Open Trivia DB!", nil)
	}
	countImport("opentdb", summary)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Import finished.", summary)
}

func countImport(source string, summary catalog.ImportSummary) {
	metrics.QuestionsImported.WithLabelValues(source, "success").Add(float64(summary.SuccessCount))
	metrics.QuestionsImported.WithLabelValues(source, "failure").Add(float64(summary.FailureCount))
}
