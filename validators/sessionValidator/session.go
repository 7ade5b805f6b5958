package sessionValidator

import (
	"encoding/json"

	"quizhub/middleware"
	"quizhub/models"
	"quizhub/services/session"
	"quizhub/services/validation"
	"quizhub/utils"

	"github.com/gofiber/fiber/v2"
)

type CreateRequest struct {
	QuizID      uint            `json:"quizId" validate:"required"`
	UserID      uint            `json:"userId"`
	MaxDuration *int            `json:"maxDuration" validate:"omitempty,gte=1"`
	Metadata    json.RawMessage `json:"metadata"`
}

// CreateSession validator middleware. userId defaults to the caller.
func CreateSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.UserID == 0 {
			reqData.UserID, _ = middleware.CurrentUserID(c)
		}

		if errors := validation.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSession", reqData)
		return c.Next()
	}
}

type UpdateRequest struct {
	CurrentQuestionIndex *int                  `json:"currentQuestionIndex" validate:"omitempty,gte=0"`
	Status               *models.SessionStatus `json:"status"`
	Score                *float64              `json:"score" validate:"omitempty,gte=0,lte=100"`
	MaxDuration          *int                  `json:"maxDuration" validate:"omitempty,gte=1"`
}

// UpdateSession rejects unknown status values while parsing; a body without
// any known field is left for the service to reject.
func UpdateSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body: "+err.Error(), nil)
		}

		if errors := validation.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdate", &session.UpdateInput{
			CurrentQuestionIndex: reqData.CurrentQuestionIndex,
			Status:               reqData.Status,
			Score:                reqData.Score,
			MaxDuration:          reqData.MaxDuration,
		})
		return c.Next()
	}
}

type AnswerRequest struct {
	QuestionID        uint   `json:"questionId" validate:"required"`
	SelectedAnswerIDs []uint `json:"selectedAnswerIds"`
	TimeSpent         *int   `json:"timeSpent" validate:"omitempty,gte=0"`
}

func SubmitAnswer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AnswerRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validation.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAnswer", &session.AnswerInput{
			QuestionID:        reqData.QuestionID,
			SelectedAnswerIDs: reqData.SelectedAnswerIDs,
			TimeSpent:         reqData.TimeSpent,
		})
		return c.Next()
	}
}

// ListSessions reads the optional ?userId= filter.
func ListSessions() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, present, ok := utils.QueryID(c, "userId")
		if !ok {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"userId": "userId must be a positive integer!",
			})
		}
		if present {
			c.Locals("filterUserId", id)
		}
		return c.Next()
	}
}
