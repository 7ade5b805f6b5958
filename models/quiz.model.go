package models

import "time"

type Quiz struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	QuizName       string         `json:"quizName" gorm:"type:varchar(100);not null"`
	CreatedByID    uint           `json:"createdById" gorm:"index"`
	Creator        *User          `json:"creator,omitempty" gorm:"foreignKey:CreatedByID"`
	CreatedAt      time.Time      `json:"createdAt"`
	LastModifiedAt *time.Time     `json:"lastModifiedAt"`
	Questions      []QuizQuestion `json:"questions" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

// QuizQuestion places a question in a quiz at OrderIndex. Uniqueness of
// (QuizID, QuestionID) is checked by the handlers, not the schema.
type QuizQuestion struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	QuizID     uint      `json:"quizId" gorm:"index;not null"`
	QuestionID uint      `json:"questionId" gorm:"index;not null"`
	OrderIndex int       `json:"orderIndex" gorm:"default:0"`
	Question   *Question `json:"question,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}
