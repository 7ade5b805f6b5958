package catalog

import (
	"quizhub/models"
	"quizhub/services/apperror"

	"gorm.io/gorm"
)

type AnswerPatch struct {
	AnswerBody     *string `json:"answerBody" validate:"omitempty,min=1"`
	AnswerCorrect  *bool   `json:"answerCorrect"`
	AnswerPosition *string `json:"answerPosition" validate:"omitempty,max=16"`
}

func GetAnswer(db *gorm.DB, id uint) (*models.Answer, error) {
	var a models.Answer
	if err := db.First(&a, id).Error; err != nil {
		return nil, notFoundOr(err, "Answer with ID %d not found", id)
	}
	return &a, nil
}

func ListAnswers(db *gorm.DB, questionID uint) ([]models.Answer, error) {
	answers := []models.Answer{}
	if err := db.Where("question_id = ?", questionID).Order("id asc").Find(&answers).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to list answers!")
	}
	return answers, nil
}

// UpdateAnswer changes only the fields present in p. Stored user answers are
// not rescored until their session completes.
func UpdateAnswer(db *gorm.DB, id uint, p AnswerPatch) (*models.Answer, error) {
	a, err := GetAnswer(db, id)
	if err != nil {
		return nil, err
	}

	if p.AnswerBody != nil {
		a.AnswerBody = *p.AnswerBody
	}
	if p.AnswerCorrect != nil {
		a.AnswerCorrect = *p.AnswerCorrect
	}
	if p.AnswerPosition != nil {
		a.AnswerPosition = *p.AnswerPosition
	}
	if err := db.Save(a).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to update answer!")
	}
	return a, nil
}

func DeleteAnswer(db *gorm.DB, id uint) error {
	res := db.Delete(&models.Answer{}, id)
	if res.Error != nil {
		return apperror.Wrap(apperror.Internal, res.Error, "Failed to delete answer!")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFoundf("Answer with ID %d not found", id)
	}
	return nil
}
