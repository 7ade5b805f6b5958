package utils

import (
	"testing"
	"time"

	"quizhub/config"
	"quizhub/database/dbtest"
	"quizhub/models"
	"quizhub/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionEmail(t *testing.T) {
	user := models.User{UserName: "jdoe", DisplayName: "<Jane>", Email: "jane@example.com"}
	result := session.CompletionResult{SessionID: 3, Score: 75, CorrectAnswers: 3, TotalQuestions: 4}

	subject, plain, body := CompletionEmail(user, "Capitals & Rivers", result)

	assert.Equal(t, "Your result for Capitals & Rivers", subject)
	assert.Equal(t, "You finished Capitals & Rivers with a score of 75% (3 of 4 correct).", plain)
	assert.Contains(t, body, "&lt;Jane&gt;")
	assert.Contains(t, body, "Capitals &amp; Rivers")
	assert.Contains(t, body, "75%")
}

func TestSendEmailWithoutKey(t *testing.T) {
	prev := config.AppConfig
	config.AppConfig = &config.Config{}
	t.Cleanup(func() { config.AppConfig = prev })

	assert.False(t, EmailEnabled())
	assert.NoError(t, SendEmail("jane@example.com", "Jane", "Hi", "plain", "<p>html</p>"))
}

func TestSweepExpiredSessions(t *testing.T) {
	db := dbtest.New(t)
	dbtest.Use(t, db)

	player := dbtest.User(t, db, "player", models.RoleUser)
	quiz := dbtest.Quiz(t, db, player.ID, "Timed")

	limit := 1
	stale := models.QuizSession{
		QuizID:      quiz.ID,
		UserID:      player.ID,
		StartedAt:   time.Now().UTC().Add(-time.Hour),
		Status:      models.SessionInProgress,
		MaxDuration: &limit,
	}
	require.NoError(t, db.Create(&stale).Error)

	sweepExpiredSessions()

	stored, err := session.Get(db, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionAbandoned, stored.Status)
}
