// Package session runs the quiz attempt lifecycle: starting a session,
// recording answers, moving it through its states and scoring it.
package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"time"

	"quizhub/models"
	"quizhub/services/apperror"
	"quizhub/services/scoring"

	"gorm.io/gorm"
)

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

// errLostRace means another request finished the session between our read and
// the conditional write.
var errLostRace = errors.New("session left in-progress concurrently")

type StartInput struct {
	QuizID      uint
	UserID      uint
	MaxDuration *int
	Metadata    json.RawMessage
}

// Start opens a new in-progress attempt of a quiz for a user.
func Start(db *gorm.DB, in StartInput) (*models.QuizSession, error) {
	if ok, err := exists(db, &models.Quiz{}, in.QuizID); err != nil {
		return nil, err
	} else if !ok {
		return nil, apperror.InvalidRequestf("Quiz with ID %d does not exist", in.QuizID)
	}
	if ok, err := exists(db, &models.User{}, in.UserID); err != nil {
		return nil, err
	} else if !ok {
		return nil, apperror.InvalidRequestf("User with ID %d does not exist", in.UserID)
	}

	index := 0
	s := models.QuizSession{
		QuizID:               in.QuizID,
		UserID:               in.UserID,
		StartedAt:            now(),
		Status:               models.SessionInProgress,
		CurrentQuestionIndex: &index,
		MaxDuration:          in.MaxDuration,
		Metadata:             EncodeMetadata(in.Metadata),
	}
	if err := db.Create(&s).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to create quiz session!")
	}
	s.UserAnswers = []models.UserAnswer{}
	return &s, nil
}

// EncodeMetadata turns client metadata into the stored string form. A JSON
// string is kept as its content; any other JSON value is stored compacted.
// Text that cannot be compacted is stored unchanged.
func EncodeMetadata(raw json.RawMessage) *string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return &s
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		s := string(raw)
		return &s
	}
	s := buf.String()
	return &s
}

// UpdateInput carries the fields of a sparse update; nil means untouched.
type UpdateInput struct {
	CurrentQuestionIndex *int
	Status               *models.SessionStatus
	Score                *float64
	MaxDuration          *int
}

func (in UpdateInput) Empty() bool {
	return in.CurrentQuestionIndex == nil && in.Status == nil && in.Score == nil && in.MaxDuration == nil
}

// Update applies the supplied fields. Moving to completed scores the session
// (a client supplied score is then ignored); moving to abandoned just ends it.
// ended reports whether this call took the session out of in-progress.
func Update(db *gorm.DB, id uint, in UpdateInput) (s *models.QuizSession, ended bool, err error) {
	if in.Empty() {
		return nil, false, apperror.InvalidRequestf("No updatable fields supplied")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var current models.QuizSession
		if err := tx.First(&current, id).Error; err != nil {
			return notFoundOr(err, "Quiz session not found")
		}

		if current.Status.Terminal() {
			if in.Status != nil && *in.Status == current.Status &&
				in.CurrentQuestionIndex == nil && in.Score == nil && in.MaxDuration == nil {
				return nil
			}
			return apperror.InvalidStatef("Quiz session is %s and can no longer be changed", current.Status)
		}
		if in.Status != nil && !current.Status.CanTransitionTo(*in.Status) {
			return apperror.InvalidStatef("Cannot move quiz session from %s to %s", current.Status, *in.Status)
		}

		updates := map[string]any{}
		if in.CurrentQuestionIndex != nil {
			updates["current_question_index"] = *in.CurrentQuestionIndex
		}
		if in.MaxDuration != nil {
			updates["max_duration"] = *in.MaxDuration
		}
		if in.Score != nil && (in.Status == nil || *in.Status != models.SessionCompleted) {
			updates["score"] = *in.Score
		}
		if in.Status != nil && *in.Status == models.SessionAbandoned {
			updates["status"] = models.SessionAbandoned
		}

		if len(updates) > 0 {
			res := tx.Model(&models.QuizSession{}).
				Where("id = ? AND status = ?", id, models.SessionInProgress).
				Updates(updates)
			if res.Error != nil {
				return apperror.Wrap(apperror.Internal, res.Error, "Failed to update quiz session!")
			}
			if res.RowsAffected == 0 {
				return apperror.InvalidStatef("Quiz session is no longer in progress")
			}
			_, ended = updates["status"]
		}

		if in.Status != nil && *in.Status == models.SessionCompleted {
			result, err := complete(tx, id)
			if errors.Is(err, errLostRace) {
				return apperror.InvalidStatef("Quiz session is no longer in progress")
			}
			if err != nil {
				return err
			}
			ended = result.Transitioned
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s, err = Get(db, id)
	if err != nil {
		return nil, false, err
	}
	return s, ended, nil
}

type AnswerInput struct {
	QuestionID        uint
	SelectedAnswerIDs []uint
	TimeSpent         *int
}

// SubmitAnswer records the answer to one question of an in-progress session
// and scores it straight away. A second submission for the same question
// replaces the first.
func SubmitAnswer(db *gorm.DB, sessionID uint, in AnswerInput) (*models.UserAnswer, error) {
	var stored models.UserAnswer

	err := db.Transaction(func(tx *gorm.DB) error {
		var s models.QuizSession
		if err := tx.First(&s, sessionID).Error; err != nil {
			return notFoundOr(err, "Quiz session not found")
		}
		if s.Status != models.SessionInProgress {
			return apperror.InvalidStatef("Cannot add answers to a completed or abandoned quiz session")
		}
		if exp := s.ExpiresAt(); exp != nil && now().After(*exp) {
			return apperror.InvalidStatef("Quiz session time limit has expired")
		}

		var question models.Question
		if err := tx.Preload("Answers").First(&question, in.QuestionID).Error; err != nil {
			return notFoundOr(err, "Question with ID %d does not exist", in.QuestionID)
		}

		var linked int64
		if err := tx.Model(&models.QuizQuestion{}).
			Where("quiz_id = ? AND question_id = ?", s.QuizID, in.QuestionID).
			Count(&linked).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to check quiz questions!")
		}
		if linked == 0 {
			return apperror.InvalidRequestf("Question %d is not part of quiz %d", in.QuestionID, s.QuizID)
		}

		selected := scoring.Dedupe(in.SelectedAnswerIDs)
		correct := scoring.IsCorrect(selected, question.CorrectAnswerIDs())

		err := tx.Where("quiz_session_id = ? AND question_id = ?", sessionID, in.QuestionID).First(&stored).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			stored = models.UserAnswer{QuizSessionID: sessionID, QuestionID: in.QuestionID}
		case err != nil:
			return apperror.Wrap(apperror.Internal, err, "Failed to load previous answer!")
		}

		stored.SelectedAnswerIDs = selected
		stored.IsCorrect = &correct
		stored.AnsweredAt = now()
		stored.TimeSpent = in.TimeSpent

		if err := tx.Save(&stored).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to store answer!")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

type CompletionResult struct {
	SessionID      uint    `json:"sessionId"`
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correctAnswers"`
	TotalQuestions int     `json:"totalQuestions"`

	// Transitioned is set when this call moved the session to completed.
	Transitioned bool `json:"-"`
}

// Complete scores every answer of the session and marks it completed. A
// session that is already completed, including one completed by a concurrent
// request, is returned as stored without scoring it again.
func Complete(db *gorm.DB, id uint) (*CompletionResult, error) {
	var result *CompletionResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = complete(tx, id)
		return err
	})
	if errors.Is(err, errLostRace) {
		var s models.QuizSession
		if err := db.Preload("UserAnswers").First(&s, id).Error; err != nil {
			return nil, notFoundOr(err, "Quiz session not found")
		}
		if s.Status != models.SessionCompleted {
			return nil, apperror.InvalidStatef("Quiz session is %s and cannot be completed", s.Status)
		}
		result := StoredResult(s)
		return &result, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func complete(tx *gorm.DB, id uint) (*CompletionResult, error) {
	var s models.QuizSession
	if err := tx.Preload("UserAnswers").First(&s, id).Error; err != nil {
		return nil, notFoundOr(err, "Quiz session not found")
	}

	switch s.Status {
	case models.SessionCompleted:
		result := StoredResult(s)
		return &result, nil
	case models.SessionAbandoned:
		return nil, apperror.InvalidStatef("Quiz session is abandoned and cannot be completed")
	}

	questionIDs := make([]uint, 0, len(s.UserAnswers))
	for _, ua := range s.UserAnswers {
		questionIDs = append(questionIDs, ua.QuestionID)
	}
	correctByQuestion, err := correctAnswerIDs(tx, questionIDs)
	if err != nil {
		return nil, err
	}

	correct := 0
	for _, ua := range s.UserAnswers {
		ok := scoring.IsCorrect(ua.SelectedAnswerIDs, correctByQuestion[ua.QuestionID])
		if ok {
			correct++
		}
		if err := tx.Model(&models.UserAnswer{}).Where("id = ?", ua.ID).Update("is_correct", ok).Error; err != nil {
			return nil, apperror.Wrap(apperror.Internal, err, "Failed to update answer correctness!")
		}
	}

	total := len(s.UserAnswers)
	score := scoring.CompletionScore(correct, total)

	res := tx.Model(&models.QuizSession{}).
		Where("id = ? AND status = ?", id, models.SessionInProgress).
		Updates(map[string]any{
			"status":       models.SessionCompleted,
			"score":        score,
			"completed_at": now(),
		})
	if res.Error != nil {
		return nil, apperror.Wrap(apperror.Internal, res.Error, "Failed to complete quiz session!")
	}
	if res.RowsAffected == 0 {
		return nil, errLostRace
	}

	log.Printf("[SESSION] Session %d completed: %d/%d correct, score %.0f", id, correct, total, score)
	return &CompletionResult{
		SessionID:      id,
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: total,
		Transitioned:   true,
	}, nil
}

// StoredResult reads the result of a completed session from its stored score
// and the correctness flags of its loaded answers. It writes nothing.
func StoredResult(s models.QuizSession) CompletionResult {
	tally := scoring.Count(correctnessFlags(s.UserAnswers))

	var score float64
	if s.Score != nil {
		score = *s.Score
	}
	return CompletionResult{
		SessionID:      s.ID,
		Score:          score,
		CorrectAnswers: tally.Correct,
		TotalQuestions: tally.Answered,
	}
}

// correctAnswerIDs maps each question to the IDs of its correct answers.
func correctAnswerIDs(db *gorm.DB, questionIDs []uint) (map[uint][]uint, error) {
	out := make(map[uint][]uint, len(questionIDs))
	if len(questionIDs) == 0 {
		return out, nil
	}

	var answers []models.Answer
	if err := db.Where("question_id IN ? AND answer_correct = ?", questionIDs, true).Find(&answers).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to load correct answers!")
	}
	for _, a := range answers {
		out[a.QuestionID] = append(out[a.QuestionID], a.ID)
	}
	return out, nil
}

// Get loads a session with its answers.
func Get(db *gorm.DB, id uint) (*models.QuizSession, error) {
	var s models.QuizSession
	if err := db.Preload("UserAnswers").First(&s, id).Error; err != nil {
		return nil, notFoundOr(err, "Quiz session not found")
	}
	return &s, nil
}

// List returns sessions newest first, optionally only those of one user.
func List(db *gorm.DB, userID *uint) ([]models.QuizSession, error) {
	query := db.Preload("UserAnswers").Order("started_at desc")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var sessions []models.QuizSession
	if err := query.Find(&sessions).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to list quiz sessions!")
	}
	return sessions, nil
}

// AbandonExpired ends in-progress sessions whose time limit passed before at.
func AbandonExpired(db *gorm.DB, at time.Time) (int64, error) {
	var candidates []models.QuizSession
	if err := db.Select("id", "started_at", "max_duration").
		Where("status = ? AND max_duration > 0", models.SessionInProgress).
		Find(&candidates).Error; err != nil {
		return 0, err
	}

	var expired []uint
	for _, s := range candidates {
		if exp := s.ExpiresAt(); exp != nil && at.After(*exp) {
			expired = append(expired, s.ID)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}

	res := db.Model(&models.QuizSession{}).
		Where("id IN ? AND status = ?", expired, models.SessionInProgress).
		Update("status", models.SessionAbandoned)
	return res.RowsAffected, res.Error
}

func exists(db *gorm.DB, model any, id uint) (bool, error) {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, apperror.Wrap(apperror.Internal, err, "Failed to query database!")
	}
	return n > 0, nil
}

func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf(format, args...)
	}
	return apperror.Wrap(apperror.Internal, err, "Failed to query database!")
}
