package models

import (
	"time"

	"gorm.io/datatypes"
)

type Question struct {
	ID              uint                      `json:"id" gorm:"primaryKey"`
	QuestionBody    string                    `json:"questionBody" gorm:"type:text;not null"`
	DifficultyLevel int                       `json:"difficultyLevel" gorm:"not null;default:1"`
	QsChecked       bool                      `json:"qsChecked" gorm:"default:false"`
	CreatedByID     uint                      `json:"createdById" gorm:"index"`
	Created         time.Time                 `json:"created"`
	Categories      datatypes.JSONSlice[uint] `json:"categories"` // category IDs, soft references
	Answers         []Answer                  `json:"answers" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

type Answer struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	AnswerBody     string `json:"answerBody" gorm:"type:text;not null"`
	AnswerCorrect  bool   `json:"answerCorrect" gorm:"default:false"`
	AnswerPosition string `json:"answerPosition" gorm:"type:varchar(16)"`
	QuestionID     uint   `json:"questionId" gorm:"index;not null"`
}

// CategoryIDs returns the stored category references as a plain slice.
func (q Question) CategoryIDs() []uint {
	return []uint(q.Categories)
}

// CorrectAnswerIDs lists the IDs of answers flagged correct.
func (q Question) CorrectAnswerIDs() []uint {
	ids := make([]uint, 0, len(q.Answers))
	for _, a := range q.Answers {
		if a.AnswerCorrect {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// PublicAnswer is an answer as shown while a quiz is being taken: the
// correctness flag is left out.
type PublicAnswer struct {
	ID             uint   `json:"id"`
	AnswerBody     string `json:"answerBody"`
	AnswerPosition string `json:"answerPosition"`
	QuestionID     uint   `json:"questionId"`
}

func (a Answer) Public() PublicAnswer {
	return PublicAnswer{
		ID:             a.ID,
		AnswerBody:     a.AnswerBody,
		AnswerPosition: a.AnswerPosition,
		QuestionID:     a.QuestionID,
	}
}

// PublicQuestion is a question whose answers carry no correctness flag.
type PublicQuestion struct {
	ID              uint                      `json:"id"`
	QuestionBody    string                    `json:"questionBody"`
	DifficultyLevel int                       `json:"difficultyLevel"`
	QsChecked       bool                      `json:"qsChecked"`
	CreatedByID     uint                      `json:"createdById"`
	Created         time.Time                 `json:"created"`
	Categories      datatypes.JSONSlice[uint] `json:"categories"`
	Answers         []PublicAnswer            `json:"answers"`
}

func (q Question) Public() PublicQuestion {
	answers := make([]PublicAnswer, 0, len(q.Answers))
	for _, a := range q.Answers {
		answers = append(answers, a.Public())
	}
	return PublicQuestion{
		ID:              q.ID,
		QuestionBody:    q.QuestionBody,
		DifficultyLevel: q.DifficultyLevel,
		QsChecked:       q.QsChecked,
		CreatedByID:     q.CreatedByID,
		Created:         q.Created,
		Categories:      q.Categories,
		Answers:         answers,
	}
}
