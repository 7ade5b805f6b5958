package dbtest

import (
	"testing"
	"time"

	"quizhub/models"

	"gorm.io/gorm"
)

// User stores a user with the given name and role. The password hash is a
// placeholder that no password matches.
func User(t testing.TB, db *gorm.DB, name, role string) models.User {
	t.Helper()
	u := models.User{
		UserName:  name,
		Email:     name + "@example.com",
		Role:      role,
		Password:  "x",
		CreatedAt: time.Now().UTC(),
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

// Option describes one answer of a fixture question.
type Option struct {
	Body    string
	Correct bool
}

// Question stores a question with its options and returns it with the
// answer IDs filled in, in option order.
func Question(t testing.TB, db *gorm.DB, creatorID uint, body string, options ...Option) models.Question {
	t.Helper()
	q := models.Question{
		QuestionBody:    body,
		DifficultyLevel: 1,
		CreatedByID:     creatorID,
		Created:         time.Now().UTC(),
		Categories:      []uint{},
	}
	for i, o := range options {
		q.Answers = append(q.Answers, models.Answer{
			AnswerBody:     o.Body,
			AnswerCorrect:  o.Correct,
			AnswerPosition: string(rune('A' + i)),
		})
	}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

// Quiz stores a quiz linking questionIDs in order.
func Quiz(t testing.TB, db *gorm.DB, creatorID uint, name string, questionIDs ...uint) models.Quiz {
	t.Helper()
	quiz := models.Quiz{QuizName: name, CreatedByID: creatorID, CreatedAt: time.Now().UTC()}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	for i, id := range questionIDs {
		link := models.QuizQuestion{QuizID: quiz.ID, QuestionID: id, OrderIndex: i}
		if err := db.Create(&link).Error; err != nil {
			t.Fatalf("link question %d: %v", id, err)
		}
		quiz.Questions = append(quiz.Questions, link)
	}
	return quiz
}
