// Package catalog owns questions, their answers, categories and the ordered
// question lists that make up quizzes.
package catalog

import (
	"errors"
	"log"
	"time"

	"quizhub/models"
	"quizhub/services/apperror"
	"quizhub/services/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var now = func() time.Time { return time.Now().UTC() }

type AnswerInput struct {
	ID             uint   `json:"id"`
	AnswerBody     string `json:"answerBody" validate:"required"`
	AnswerCorrect  bool   `json:"answerCorrect"`
	AnswerPosition string `json:"answerPosition" validate:"max=16"`
}

type QuestionInput struct {
	QuestionBody    string        `json:"questionBody" validate:"required"`
	DifficultyLevel int           `json:"difficultyLevel" validate:"gte=1,lte=10"`
	QsChecked       bool          `json:"qsChecked"`
	Categories      []uint        `json:"categories"`
	Answers         []AnswerInput `json:"answers" validate:"dive"`
}

func (in QuestionInput) answers(questionID uint) []models.Answer {
	out := make([]models.Answer, 0, len(in.Answers))
	for _, a := range in.Answers {
		out = append(out, models.Answer{
			AnswerBody:     a.AnswerBody,
			AnswerCorrect:  a.AnswerCorrect,
			AnswerPosition: a.AnswerPosition,
			QuestionID:     questionID,
		})
	}
	return out
}

func categoryList(ids []uint) []uint {
	if ids == nil {
		return []uint{}
	}
	return ids
}

// CreateQuestion stores a question with its answers. Answer IDs in the input
// are ignored; every answer gets a fresh one.
func CreateQuestion(db *gorm.DB, creatorID uint, in QuestionInput) (*models.Question, error) {
	if errs := validation.Struct(in); len(errs) > 0 {
		return nil, apperror.InvalidRequestf("%s", validation.First(errs))
	}

	q := models.Question{
		QuestionBody:    in.QuestionBody,
		DifficultyLevel: in.DifficultyLevel,
		QsChecked:       in.QsChecked,
		CreatedByID:     creatorID,
		Created:         now(),
		Categories:      categoryList(in.Categories),
		Answers:         in.answers(0),
	}
	if err := db.Create(&q).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to create question!")
	}

	if len(q.Answers) == 0 {
		log.Printf("[CATALOG] Question %d was saved without answers", q.ID)
	}
	return GetQuestion(db, q.ID)
}

func GetQuestion(db *gorm.DB, id uint) (*models.Question, error) {
	var q models.Question
	err := db.Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).First(&q, id).Error
	if err != nil {
		return nil, notFoundOr(err, "Question with ID %d not found", id)
	}
	return &q, nil
}

func ListQuestions(db *gorm.DB) ([]models.Question, error) {
	var questions []models.Question
	err := db.Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Order("id asc").Find(&questions).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to list questions!")
	}
	return questions, nil
}

// AnswerPlan is the set of writes that turns a question's stored answers into
// the incoming list.
type AnswerPlan struct {
	Update []models.Answer
	Create []models.Answer
	Delete []uint
}

// ReconcileAnswers matches incoming answers to existing ones by ID. Matched
// answers are overwritten, unmatched existing answers are deleted and
// incoming answers without a known ID are created with a fresh ID. An ID
// listed twice only matches once.
func ReconcileAnswers(questionID uint, existing []models.Answer, incoming []AnswerInput) AnswerPlan {
	current := make(map[uint]models.Answer, len(existing))
	for _, a := range existing {
		current[a.ID] = a
	}

	var plan AnswerPlan
	matched := make(map[uint]bool, len(incoming))
	for _, in := range incoming {
		if a, ok := current[in.ID]; ok && in.ID != 0 && !matched[in.ID] {
			matched[in.ID] = true
			a.AnswerBody = in.AnswerBody
			a.AnswerCorrect = in.AnswerCorrect
			a.AnswerPosition = in.AnswerPosition
			plan.Update = append(plan.Update, a)
			continue
		}
		plan.Create = append(plan.Create, models.Answer{
			AnswerBody:     in.AnswerBody,
			AnswerCorrect:  in.AnswerCorrect,
			AnswerPosition: in.AnswerPosition,
			QuestionID:     questionID,
		})
	}

	for _, a := range existing {
		if !matched[a.ID] {
			plan.Delete = append(plan.Delete, a.ID)
		}
	}
	return plan
}

// UpdateQuestion replaces the question's fields and category list and
// reconciles its answers against in.Answers.
func UpdateQuestion(db *gorm.DB, id uint, in QuestionInput) (*models.Question, error) {
	if errs := validation.Struct(in); len(errs) > 0 {
		return nil, apperror.InvalidRequestf("%s", validation.First(errs))
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var q models.Question
		if err := tx.Preload("Answers").First(&q, id).Error; err != nil {
			return notFoundOr(err, "Question with ID %d not found", id)
		}

		q.QuestionBody = in.QuestionBody
		q.DifficultyLevel = in.DifficultyLevel
		q.QsChecked = in.QsChecked
		q.Categories = categoryList(in.Categories)
		if err := tx.Omit(clause.Associations).Save(&q).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to update question!")
		}

		plan := ReconcileAnswers(q.ID, q.Answers, in.Answers)
		if len(plan.Delete) > 0 {
			if err := tx.Where("id IN ?", plan.Delete).Delete(&models.Answer{}).Error; err != nil {
				return apperror.Wrap(apperror.Internal, err, "Failed to delete answers!")
			}
		}
		for i := range plan.Update {
			if err := tx.Save(&plan.Update[i]).Error; err != nil {
				return apperror.Wrap(apperror.Internal, err, "Failed to update answer!")
			}
		}
		if len(plan.Create) > 0 {
			if err := tx.Create(&plan.Create).Error; err != nil {
				return apperror.Wrap(apperror.Internal, err, "Failed to create answers!")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetQuestion(db, id)
}

// DeleteQuestion removes the question, its answers and any quiz links to it.
// Stored user answers keep pointing at the removed ID.
func DeleteQuestion(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var q models.Question
		if err := tx.First(&q, id).Error; err != nil {
			return notFoundOr(err, "Question with ID %d not found", id)
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to delete answers!")
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.QuizQuestion{}).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to unlink question from quizzes!")
		}
		if err := tx.Delete(&q).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to delete question!")
		}
		return nil
	})
}

type ImportError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

type ImportSummary struct {
	BatchID      string        `json:"batchId"`
	SuccessCount int           `json:"successCount"`
	FailureCount int           `json:"failureCount"`
	CreatedIDs   []uint        `json:"createdIds"`
	Errors       []ImportError `json:"errors"`
}

// BulkImport creates each question independently; a failing item is reported
// in the summary and does not stop the rest.
func BulkImport(db *gorm.DB, creatorID uint, items []QuestionInput) ImportSummary {
	summary := ImportSummary{
		BatchID:    uuid.NewString(),
		CreatedIDs: []uint{},
		Errors:     []ImportError{},
	}

	for i, item := range items {
		q, err := CreateQuestion(db, creatorID, item)
		if err != nil {
			summary.FailureCount++
			summary.Errors = append(summary.Errors, ImportError{Index: i, Message: apperror.Message(err)})
			log.Printf("[IMPORT %s] item %d failed: %v", summary.BatchID, i, err)
			continue
		}
		summary.SuccessCount++
		summary.CreatedIDs = append(summary.CreatedIDs, q.ID)
	}

	log.Printf("[IMPORT %s] %d imported, %d failed", summary.BatchID, summary.SuccessCount, summary.FailureCount)
	return summary
}

func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf(format, args...)
	}
	return apperror.Wrap(apperror.Internal, err, "Failed to query database!")
}
