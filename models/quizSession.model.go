package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// SessionStatus is the lifecycle state of a quiz attempt.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in-progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// ParseSessionStatus accepts only the three known states.
func ParseSessionStatus(s string) (SessionStatus, error) {
	switch status := SessionStatus(s); status {
	case SessionInProgress, SessionCompleted, SessionAbandoned:
		return status, nil
	}
	return "", fmt.Errorf("unknown session status %q", s)
}

// Terminal reports whether no further transition is allowed.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

// CanTransitionTo allows in-progress -> completed|abandoned only.
// Staying in the same state is not a transition and is always allowed.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	if s == next {
		return true
	}
	return s == SessionInProgress && next.Terminal()
}

func (s *SessionStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	status, err := ParseSessionStatus(raw)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

type QuizSession struct {
	ID                   uint          `json:"id" gorm:"primaryKey"`
	QuizID               uint          `json:"quizId" gorm:"index;not null"`
	UserID               uint          `json:"userId" gorm:"index;not null"`
	StartedAt            time.Time     `json:"startedAt" gorm:"not null"`
	CompletedAt          *time.Time    `json:"completedAt"`
	CurrentQuestionIndex *int          `json:"currentQuestionIndex"`
	Status               SessionStatus `json:"status" gorm:"type:varchar(20);index;not null;default:'in-progress'"`
	Score                *float64      `json:"score"`
	MaxDuration          *int          `json:"maxDuration"` // minutes
	Metadata             *string       `json:"metadata" gorm:"type:text"`
	UserAnswers          []UserAnswer  `json:"userAnswers" gorm:"foreignKey:QuizSessionID;constraint:OnDelete:CASCADE"`
}

// ExpiresAt is nil when the session has no time limit.
func (s QuizSession) ExpiresAt() *time.Time {
	if s.MaxDuration == nil || *s.MaxDuration <= 0 {
		return nil
	}
	t := s.StartedAt.Add(time.Duration(*s.MaxDuration) * time.Minute)
	return &t
}

type UserAnswer struct {
	ID                uint                      `json:"id" gorm:"primaryKey"`
	QuizSessionID     uint                      `json:"quizSessionId" gorm:"uniqueIndex:idx_session_question;not null"`
	QuestionID        uint                      `json:"questionId" gorm:"uniqueIndex:idx_session_question;not null"`
	SelectedAnswerIDs datatypes.JSONSlice[uint] `json:"selectedAnswerIds"`
	IsCorrect         *bool                     `json:"isCorrect"`
	AnsweredAt        time.Time                 `json:"answeredAt"`
	TimeSpent         *int                      `json:"timeSpent"` // seconds
}
