package sessionController

import (
	"log"
	"strconv"

	"quizhub/database"
	"quizhub/metrics"
	"quizhub/middleware"
	"quizhub/models"
	"quizhub/services/apperror"
	"quizhub/services/session"
	"quizhub/utils"
	sessionValidator "quizhub/validators/sessionValidator"

	"github.com/gofiber/fiber/v2"
)

// GetSessions lists sessions newest first. Without a contributor claim the
// caller only ever sees their own sessions.
func GetSessions(c *fiber.Ctx) error {
	callerID, _ := middleware.CurrentUserID(c)

	var filter *uint
	if id, ok := c.Locals("filterUserId").(uint); ok {
		if !middleware.CanAccess(c, id) {
			return middleware.ErrorResponse(c, apperror.Forbiddenf("You can only view your own quiz sessions"))
		}
		filter = &id
	} else if !middleware.IsContributor(c) {
		filter = &callerID
	}

	sessions, err := session.List(database.Database.Db, filter)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz sessions fetched successfully.", sessions)
}

// loadOwned fetches the session named by the :id route parameter and
// applies the owner-or-admin rule.
func loadOwned(c *fiber.Ctx) (*models.QuizSession, error) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return nil, apperror.InvalidRequestf("Invalid quiz session ID!")
	}

	s, err := session.Get(database.Database.Db, id)
	if err != nil {
		return nil, err
	}
	if !middleware.CanAccess(c, s.UserID) {
		return nil, apperror.Forbiddenf("You do not have access to this quiz session")
	}
	return s, nil
}

func GetSession(c *fiber.Ctx) error {
	s, err := loadOwned(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz session fetched successfully.", s)
}

func CreateSession(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSession").(*sessionValidator.CreateRequest)

	if !middleware.CanAccess(c, reqData.UserID) {
		return middleware.ErrorResponse(c, apperror.Forbiddenf("You can only start quiz sessions for yourself"))
	}

	log.Printf("[SESSION] Creating quiz session for quiz %d and user %d", reqData.QuizID, reqData.UserID)
	s, err := session.Start(database.Database.Db, session.StartInput{
		QuizID:      reqData.QuizID,
		UserID:      reqData.UserID,
		MaxDuration: reqData.MaxDuration,
		Metadata:    reqData.Metadata,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	metrics.SessionsStarted.Inc()
	c.Location("/api/QuizSession/" + strconv.FormatUint(uint64(s.ID), 10))
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz session created successfully.", s)
}

func UpdateSession(c *fiber.Ctx) error {
	before, err := loadOwned(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData := c.Locals("validatedUpdate").(*session.UpdateInput)

	s, ended, err := session.Update(database.Database.Db, before.ID, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if ended {
		var result *session.CompletionResult
		if s.Status == models.SessionCompleted {
			r := session.StoredResult(*s)
			result = &r
		}
		recordEnd(*s, result, "patch")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz session updated successfully.", s)
}

func SubmitAnswer(c *fiber.Ctx) error {
	s, err := loadOwned(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData := c.Locals("validatedAnswer").(*session.AnswerInput)

	answer, err := session.SubmitAnswer(database.Database.Db, s.ID, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	correct := answer.IsCorrect != nil && *answer.IsCorrect
	metrics.AnswersSubmitted.WithLabelValues(strconv.FormatBool(correct)).Inc()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer submitted successfully.", answer)
}

func GetResults(c *fiber.Ctx) error {
	s, err := loadOwned(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	results, err := session.GetResults(database.Database.Db, s.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz results fetched successfully.", results)
}

func GetReview(c *fiber.Ctx) error {
	s, err := loadOwned(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	review, err := session.GetReview(database.Database.Db, s.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz review fetched successfully.", review)
}

// CompleteSession scores the session. Completing an already completed
// session returns the stored result.
func CompleteSession(c *fiber.Ctx) error {
	before, err := loadOwned(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	result, err := session.Complete(database.Database.Db, before.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if result.Transitioned {
		completed := *before
		completed.Status = models.SessionCompleted
		recordEnd(completed, result, "complete")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz session completed.", result)
}

// recordEnd updates metrics for a session this request took out of
// in-progress and mails the result of a completion.
func recordEnd(s models.QuizSession, result *session.CompletionResult, trigger string) {
	metrics.SessionsEnded.WithLabelValues(string(s.Status), trigger).Inc()
	if s.Status != models.SessionCompleted || result == nil {
		return
	}
	metrics.SessionScore.Observe(result.Score)

	if !utils.EmailEnabled() {
		return
	}
	db := database.Database.Db
	go func(userID, quizID uint, result session.CompletionResult) {
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			log.Printf("[SESSION] Loading user %d for result e-mail failed: %v", userID, err)
			return
		}
		var quiz models.Quiz
		if err := db.Select("id", "quiz_name").First(&quiz, quizID).Error; err != nil {
			log.Printf("[SESSION] Loading quiz %d for result e-mail failed: %v", quizID, err)
			return
		}
		utils.SendCompletionEmail(user, quiz.QuizName, result)
	}(s.UserID, s.QuizID, *result)
}
