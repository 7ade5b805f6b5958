package session

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"quizhub/database/dbtest"
	"quizhub/models"
	"quizhub/services/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var start = time.Date(2025, 4, 11, 9, 0, 0, 0, time.UTC)

// freezeClock pins now to at; the returned pointer moves it.
func freezeClock(t *testing.T, at time.Time) *time.Time {
	t.Helper()
	current := at
	prev := now
	now = func() time.Time { return current }
	t.Cleanup(func() { now = prev })
	return &current
}

type fixture struct {
	db        *gorm.DB
	user      models.User
	quiz      models.Quiz
	questions []models.Question
}

// setup stores a user and a four question quiz. Every question has two
// correct answers (A and C) and one wrong answer (B).
func setup(t *testing.T) fixture {
	t.Helper()
	db := dbtest.New(t)
	user := dbtest.User(t, db, "alice", models.RoleUser)

	var questions []models.Question
	var ids []uint
	for i := 1; i <= 4; i++ {
		q := dbtest.Question(t, db, user.ID, fmt.Sprintf("Question %d", i),
			dbtest.Option{Body: "right", Correct: true},
			dbtest.Option{Body: "wrong"},
			dbtest.Option{Body: "also right", Correct: true},
		)
		questions = append(questions, q)
		ids = append(ids, q.ID)
	}
	quiz := dbtest.Quiz(t, db, user.ID, "Capitals", ids...)
	return fixture{db: db, user: user, quiz: quiz, questions: questions}
}

func (f fixture) correct(i int) []uint {
	return []uint{f.questions[i].Answers[0].ID, f.questions[i].Answers[2].ID}
}

func (f fixture) wrong(i int) []uint {
	return []uint{f.questions[i].Answers[1].ID}
}

func (f fixture) start(t *testing.T) *models.QuizSession {
	t.Helper()
	s, err := Start(f.db, StartInput{QuizID: f.quiz.ID, UserID: f.user.ID})
	require.NoError(t, err)
	return s
}

func (f fixture) answer(t *testing.T, sessionID uint, i int, selected []uint) *models.UserAnswer {
	t.Helper()
	ua, err := SubmitAnswer(f.db, sessionID, AnswerInput{QuestionID: f.questions[i].ID, SelectedAnswerIDs: selected})
	require.NoError(t, err)
	return ua
}

func countSessions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.QuizSession{}).Count(&n).Error)
	return n
}

func TestStart(t *testing.T) {
	f := setup(t)
	freezeClock(t, start)

	s := f.start(t)

	assert.NotZero(t, s.ID)
	assert.Equal(t, models.SessionInProgress, s.Status)
	require.NotNil(t, s.CurrentQuestionIndex)
	assert.Equal(t, 0, *s.CurrentQuestionIndex)
	assert.Nil(t, s.CompletedAt)
	assert.Nil(t, s.Score)
	assert.Empty(t, s.UserAnswers)
	assert.WithinDuration(t, start, s.StartedAt, time.Millisecond)
}

func TestStartRejectsUnknownQuizOrUser(t *testing.T) {
	f := setup(t)

	_, err := Start(f.db, StartInput{QuizID: 9999, UserID: f.user.ID})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.InvalidRequest))
	assert.Contains(t, apperror.Message(err), "Quiz with ID 9999 does not exist")

	_, err = Start(f.db, StartInput{QuizID: f.quiz.ID, UserID: 9999})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.InvalidRequest))

	assert.Zero(t, countSessions(t, f.db))
}

func TestEncodeMetadata(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want *string
	}{
		{"absent", "", nil},
		{"null", "null", nil},
		{"json string kept as content", `"{\"device\":\"web\"}"`, strPtr(`{"device":"web"}`)},
		{"plain string", `"mobile"`, strPtr("mobile")},
		{"object compacted", "{ \"device\": \"web\",\n \"attempt\": 2 }", strPtr(`{"device":"web","attempt":2}`)},
		{"array compacted", "[1, 2]", strPtr("[1,2]")},
		{"invalid text stored raw", "{not json", strPtr("{not json")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := EncodeMetadata(json.RawMessage(tc.raw))
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func strPtr(s string) *string { return &s }

func TestSubmitAnswerScoresImmediately(t *testing.T) {
	f := setup(t)
	s := f.start(t)

	right := f.answer(t, s.ID, 0, f.correct(0))
	require.NotNil(t, right.IsCorrect)
	assert.True(t, *right.IsCorrect)

	partial := f.answer(t, s.ID, 1, f.correct(1)[:1])
	require.NotNil(t, partial.IsCorrect)
	assert.False(t, *partial.IsCorrect, "a subset of the correct answers is not correct")

	extra := f.answer(t, s.ID, 2, append(f.correct(2), f.wrong(2)...))
	require.NotNil(t, extra.IsCorrect)
	assert.False(t, *extra.IsCorrect)
}

func TestSubmitAnswerReplacesEarlierAnswer(t *testing.T) {
	f := setup(t)
	s := f.start(t)

	first := f.answer(t, s.ID, 0, f.wrong(0))
	second := f.answer(t, s.ID, 0, f.correct(0))

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, *second.IsCorrect)

	stored, err := Get(f.db, s.ID)
	require.NoError(t, err)
	require.Len(t, stored.UserAnswers, 1)
	assert.ElementsMatch(t, f.correct(0), []uint(stored.UserAnswers[0].SelectedAnswerIDs))
}

func TestSubmitAnswerDedupesSelection(t *testing.T) {
	f := setup(t)
	s := f.start(t)

	ids := f.correct(0)
	ua := f.answer(t, s.ID, 0, []uint{ids[0], ids[1], ids[0]})

	assert.Equal(t, ids, []uint(ua.SelectedAnswerIDs))
	assert.True(t, *ua.IsCorrect)
}

func TestSubmitAnswerErrors(t *testing.T) {
	f := setup(t)
	s := f.start(t)

	other := dbtest.Question(t, f.db, f.user.ID, "Not in the quiz", dbtest.Option{Body: "x", Correct: true})

	testCases := []struct {
		name      string
		sessionID uint
		in        AnswerInput
		kind      apperror.Kind
	}{
		{"unknown session", 9999, AnswerInput{QuestionID: f.questions[0].ID}, apperror.NotFound},
		{"unknown question", s.ID, AnswerInput{QuestionID: 9999}, apperror.NotFound},
		{"question outside the quiz", s.ID, AnswerInput{QuestionID: other.ID}, apperror.InvalidRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SubmitAnswer(f.db, tc.sessionID, tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperror.KindOf(err))
		})
	}
}

func TestSubmitAnswerToEndedSession(t *testing.T) {
	for _, status := range []models.SessionStatus{models.SessionCompleted, models.SessionAbandoned} {
		t.Run(string(status), func(t *testing.T) {
			f := setup(t)
			s := f.start(t)
			_, _, err := Update(f.db, s.ID, UpdateInput{Status: &status})
			require.NoError(t, err)

			_, err = SubmitAnswer(f.db, s.ID, AnswerInput{QuestionID: f.questions[0].ID, SelectedAnswerIDs: f.correct(0)})
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.InvalidState))

			stored, err := Get(f.db, s.ID)
			require.NoError(t, err)
			assert.Empty(t, stored.UserAnswers)
		})
	}
}

func TestSubmitAnswerAfterTimeLimit(t *testing.T) {
	f := setup(t)
	clock := freezeClock(t, start)

	limit := 30
	s, err := Start(f.db, StartInput{QuizID: f.quiz.ID, UserID: f.user.ID, MaxDuration: &limit})
	require.NoError(t, err)

	*clock = start.Add(29 * time.Minute)
	f.answer(t, s.ID, 0, f.correct(0))

	*clock = start.Add(31 * time.Minute)
	_, err = SubmitAnswer(f.db, s.ID, AnswerInput{QuestionID: f.questions[1].ID, SelectedAnswerIDs: f.correct(1)})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.InvalidState))
}

func TestCompleteScoresSession(t *testing.T) {
	f := setup(t)
	clock := freezeClock(t, start)
	s := f.start(t)

	f.answer(t, s.ID, 0, f.correct(0))
	f.answer(t, s.ID, 1, f.correct(1))
	f.answer(t, s.ID, 2, f.correct(2))
	f.answer(t, s.ID, 3, f.wrong(3))

	*clock = start.Add(5 * time.Minute)
	result, err := Complete(f.db, s.ID)
	require.NoError(t, err)

	assert.Equal(t, s.ID, result.SessionID)
	assert.Equal(t, 75.0, result.Score)
	assert.Equal(t, 3, result.CorrectAnswers)
	assert.Equal(t, 4, result.TotalQuestions)

	stored, err := Get(f.db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, stored.Status)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 75.0, *stored.Score)
	require.NotNil(t, stored.CompletedAt)
	assert.WithinDuration(t, start.Add(5*time.Minute), *stored.CompletedAt, time.Millisecond)
}

func TestCompleteWithoutAnswers(t *testing.T) {
	f := setup(t)
	s := f.start(t)

	result, err := Complete(f.db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 0, result.TotalQuestions)
}

func TestCompleteRoundsToWholeNumber(t *testing.T) {
	f := setup(t)
	s := f.start(t)

	f.answer(t, s.ID, 0, f.correct(0))
	f.answer(t, s.ID, 1, f.correct(1))
	f.answer(t, s.ID, 2, f.wrong(2))

	result, err := Complete(f.db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 67.0, result.Score)
}

func TestCompleteIsIdempotent(t *testing.T) {
	f := setup(t)
	clock := freezeClock(t, start)
	s := f.start(t)
	f.answer(t, s.ID, 0, f.correct(0))
	f.answer(t, s.ID, 1, f.wrong(1))

	*clock = start.Add(time.Minute)
	first, err := Complete(f.db, s.ID)
	require.NoError(t, err)
	before, err := Get(f.db, s.ID)
	require.NoError(t, err)

	// flipping the key after completion must not change the stored score
	require.NoError(t, f.db.Model(&models.Answer{}).Where("id = ?", f.questions[1].Answers[1].ID).
		Update("answer_correct", true).Error)

	*clock = start.Add(time.Hour)
	second, err := Complete(f.db, s.ID)
	require.NoError(t, err)
	after, err := Get(f.db, s.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.CorrectAnswers, second.CorrectAnswers)
	assert.True(t, first.Transitioned)
	assert.False(t, second.Transitioned)
	assert.Equal(t, 50.0, *after.Score)
	assert.WithinDuration(t, *before.CompletedAt, *after.CompletedAt, time.Millisecond)
}

func TestCompleteRecomputesCorrectness(t *testing.T) {
	f := setup(t)
	s := f.start(t)
	f.answer(t, s.ID, 0, f.wrong(0))

	// the key changes after submission: only B is correct now
	q := f.questions[0]
	require.NoError(t, f.db.Model(&models.Answer{}).Where("question_id = ?", q.ID).Update("answer_correct", false).Error)
	require.NoError(t, f.db.Model(&models.Answer{}).Where("id = ?", q.Answers[1].ID).Update("answer_correct", true).Error)

	result, err := Complete(f.db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)

	stored, err := Get(f.db, s.ID)
	require.NoError(t, err)
	require.Len(t, stored.UserAnswers, 1)
	assert.True(t, *stored.UserAnswers[0].IsCorrect)
}

func TestCompleteAbandonedSession(t *testing.T) {
	f := setup(t)
	s := f.start(t)
	abandoned := models.SessionAbandoned
	_, _, err := Update(f.db, s.ID, UpdateInput{Status: &abandoned})
	require.NoError(t, err)

	_, err = Complete(f.db, s.ID)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.InvalidState))

	stored, err := Get(f.db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionAbandoned, stored.Status)
	assert.Nil(t, stored.CompletedAt)
}

func TestCompleteUnknownSession(t *testing.T) {
	f := setup(t)
	_, err := Complete(f.db, 9999)
	assert.True(t, apperror.Is(err, apperror.NotFound))
}

// competingCompletion makes the next conditional completion of sessionID miss,
// as if another request had completed the session after it was read. The
// write happens inside the caller's transaction and is rolled back with it.
// With commit set, the other request's completion (scored score) becomes
// visible to the next session query, like a commit that landed meanwhile.
func competingCompletion(t *testing.T, db *gorm.DB, sessionID uint, score float64, commit bool) *bool {
	t.Helper()
	const stmt = "UPDATE quiz_sessions SET status = ?, score = ?, completed_at = ? WHERE id = ?"
	completeElsewhere := func(tx *gorm.DB) {
		tx.Session(&gorm.Session{NewDB: true}).Exec(stmt, string(models.SessionCompleted), score, now(), sessionID)
	}
	isSessions := func(tx *gorm.DB) bool {
		return tx.Statement.Schema != nil && tx.Statement.Schema.Table == "quiz_sessions"
	}

	fired, pending := false, false
	update := db.Callback().Update()
	require.NoError(t, update.Before("gorm:update").Register("test:competing_completion", func(tx *gorm.DB) {
		if fired || !isSessions(tx) {
			return
		}
		values, ok := tx.Statement.Dest.(map[string]any)
		if !ok {
			return
		}
		if _, ok := values["completed_at"]; !ok {
			return
		}
		fired, pending = true, commit
		completeElsewhere(tx)
	}))
	query := db.Callback().Query()
	require.NoError(t, query.Before("gorm:query").Register("test:competing_commit", func(tx *gorm.DB) {
		if !pending || !isSessions(tx) {
			return
		}
		pending = false
		completeElsewhere(tx)
	}))
	t.Cleanup(func() {
		_ = update.Remove("test:competing_completion")
		_ = query.Remove("test:competing_commit")
	})
	return &fired
}

// rekey makes B the only correct answer of question i, so scoring the wrong
// answer again would flip it to correct.
func (f fixture) rekey(t *testing.T, i int) {
	t.Helper()
	q := f.questions[i]
	require.NoError(t, f.db.Model(&models.Answer{}).Where("question_id = ?", q.ID).Update("answer_correct", false).Error)
	require.NoError(t, f.db.Model(&models.Answer{}).Where("id = ?", q.Answers[1].ID).Update("answer_correct", true).Error)
}

func storedCorrectness(t *testing.T, db *gorm.DB, sessionID uint) map[uint]bool {
	t.Helper()
	s, err := Get(db, sessionID)
	require.NoError(t, err)
	out := map[uint]bool{}
	for _, ua := range s.UserAnswers {
		require.NotNil(t, ua.IsCorrect)
		out[ua.QuestionID] = *ua.IsCorrect
	}
	return out
}

func TestCompleteAfterConcurrentCompletion(t *testing.T) {
	f := setup(t)
	freezeClock(t, start)
	s := f.start(t)
	f.answer(t, s.ID, 0, f.correct(0))
	f.answer(t, s.ID, 1, f.wrong(1))
	f.rekey(t, 1)

	fired := competingCompletion(t, f.db, s.ID, 42, true)

	result, err := Complete(f.db, s.ID)
	require.NoError(t, err)
	require.True(t, *fired)

	assert.Equal(t, CompletionResult{SessionID: s.ID, Score: 42, CorrectAnswers: 1, TotalQuestions: 2}, *result)
	assert.False(t, result.Transitioned)

	stored, err := Get(f.db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, stored.Status)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 42.0, *stored.Score)
	assert.Equal(t, map[uint]bool{f.questions[0].ID: true, f.questions[1].ID: false},
		storedCorrectness(t, f.db, s.ID), "correctness rewrites are rolled back")
}

func TestCompleteAfterConcurrentChangeWithoutCompletion(t *testing.T) {
	f := setup(t)
	s := f.start(t)
	f.answer(t, s.ID, 1, f.wrong(1))
	f.rekey(t, 1)

	fired := competingCompletion(t, f.db, s.ID, 42, false)

	_, err := Complete(f.db, s.ID)
	require.True(t, *fired)
	assert.True(t, apperror.Is(err, apperror.InvalidState))

	stored, err := Get(f.db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionInProgress, stored.Status)
	assert.Equal(t, map[uint]bool{f.questions[1].ID: false}, storedCorrectness(t, f.db, s.ID))
}

func TestUpdateToCompletedAfterConcurrentCompletion(t *testing.T) {
	f := setup(t)
	s := f.start(t)
	f.answer(t, s.ID, 0, f.correct(0))
	f.answer(t, s.ID, 1, f.wrong(1))
	f.rekey(t, 1)

	fired := competingCompletion(t, f.db, s.ID, 42, false)

	completed := models.SessionCompleted
	_, ended, err := Update(f.db, s.ID, UpdateInput{Status: &completed})
	require.True(t, *fired)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.InvalidState))
	assert.Contains(t, err.Error(), "no longer in progress")
	assert.False(t, ended)

	stored, err := Get(f.db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionInProgress, stored.Status)
	assert.Nil(t, stored.Score)
	assert.Equal(t, map[uint]bool{f.questions[0].ID: true, f.questions[1].ID: false}, storedCorrectness(t, f.db, s.ID))
}

func TestStoredResultReadsWithoutWriting(t *testing.T) {
	f := setup(t)
	s := f.start(t)
	f.answer(t, s.ID, 0, f.correct(0))
	f.answer(t, s.ID, 1, f.wrong(1))
	f.answer(t, s.ID, 2, f.correct(2))

	loaded, err := Get(f.db, s.ID)
	require.NoError(t, err)
	result := StoredResult(*loaded)
	assert.Equal(t, CompletionResult{SessionID: s.ID, Score: 0, CorrectAnswers: 2, TotalQuestions: 3}, result)

	after, err := Get(f.db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionInProgress, after.Status)
	assert.Nil(t, after.CompletedAt)
}

func TestUpdate(t *testing.T) {
	f := setup(t)
	s := f.start(t)

	index := 2
	score := 40.0
	limit := 15
	updated, ended, err := Update(f.db, s.ID, UpdateInput{CurrentQuestionIndex: &index, Score: &score, MaxDuration: &limit})
	require.NoError(t, err)
	assert.False(t, ended)

	assert.Equal(t, 2, *updated.CurrentQuestionIndex)
	assert.Equal(t, 40.0, *updated.Score)
	assert.Equal(t, 15, *updated.MaxDuration)
	assert.Equal(t, models.SessionInProgress, updated.Status)
}

func TestUpdateWithoutFields(t *testing.T) {
	f := setup(t)
	s := f.start(t)

	_, _, err := Update(f.db, s.ID, UpdateInput{})
	assert.True(t, apperror.Is(err, apperror.InvalidRequest))
}

func TestUpdateToCompletedRunsScoring(t *testing.T) {
	f := setup(t)
	s := f.start(t)
	f.answer(t, s.ID, 0, f.correct(0))
	f.answer(t, s.ID, 1, f.wrong(1))

	completed := models.SessionCompleted
	clientScore := 99.0
	updated, ended, err := Update(f.db, s.ID, UpdateInput{Status: &completed, Score: &clientScore})
	require.NoError(t, err)
	assert.True(t, ended)

	assert.Equal(t, models.SessionCompleted, updated.Status)
	require.NotNil(t, updated.Score)
	assert.Equal(t, 50.0, *updated.Score, "client score is ignored on completion")
	assert.NotNil(t, updated.CompletedAt)
}

func TestUpdateEndedSession(t *testing.T) {
	f := setup(t)
	s := f.start(t)
	abandoned := models.SessionAbandoned
	_, ended, err := Update(f.db, s.ID, UpdateInput{Status: &abandoned})
	require.NoError(t, err)
	require.True(t, ended)

	t.Run("same status is a no-op", func(t *testing.T) {
		got, ended, err := Update(f.db, s.ID, UpdateInput{Status: &abandoned})
		require.NoError(t, err)
		assert.Equal(t, models.SessionAbandoned, got.Status)
		assert.False(t, ended, "the session had already ended")
	})

	t.Run("back to in-progress", func(t *testing.T) {
		inProgress := models.SessionInProgress
		_, _, err := Update(f.db, s.ID, UpdateInput{Status: &inProgress})
		assert.True(t, apperror.Is(err, apperror.InvalidState))
	})

	t.Run("to completed", func(t *testing.T) {
		completed := models.SessionCompleted
		_, _, err := Update(f.db, s.ID, UpdateInput{Status: &completed})
		assert.True(t, apperror.Is(err, apperror.InvalidState))
	})

	t.Run("other fields", func(t *testing.T) {
		index := 3
		_, _, err := Update(f.db, s.ID, UpdateInput{CurrentQuestionIndex: &index})
		assert.True(t, apperror.Is(err, apperror.InvalidState))
	})
}

func TestUpdateUnknownSession(t *testing.T) {
	f := setup(t)
	index := 1
	_, _, err := Update(f.db, 9999, UpdateInput{CurrentQuestionIndex: &index})
	assert.True(t, apperror.Is(err, apperror.NotFound))
}

func TestGetResults(t *testing.T) {
	f := setup(t)
	clock := freezeClock(t, start)
	s := f.start(t)
	f.answer(t, s.ID, 0, f.correct(0))
	f.answer(t, s.ID, 1, f.wrong(1))
	f.answer(t, s.ID, 2, f.correct(2))

	*clock = start.Add(90 * time.Second)
	results, err := GetResults(f.db, s.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, results.TotalQuestions)
	assert.Equal(t, 2, results.CorrectAnswers)
	assert.Equal(t, 1, results.IncorrectAnswers)
	assert.Equal(t, 1, results.UnansweredQuestions)
	assert.Equal(t, 50.0, results.ScorePercentage)
	assert.Equal(t, int64(90), results.TimeTaken, "live clock while in progress")
	assert.Equal(t, "Capitals", results.Quiz.QuizName)

	*clock = start.Add(2 * time.Minute)
	_, err = Complete(f.db, s.ID)
	require.NoError(t, err)

	*clock = start.Add(time.Hour)
	results, err = GetResults(f.db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(120), results.TimeTaken, "completion time once completed")
}

func TestGetResultsTwoDecimals(t *testing.T) {
	f := setup(t)
	s := f.start(t)

	// remove one question so the quiz has three
	require.NoError(t, f.db.Where("quiz_id = ? AND question_id = ?", f.quiz.ID, f.questions[3].ID).
		Delete(&models.QuizQuestion{}).Error)

	f.answer(t, s.ID, 0, f.correct(0))
	f.answer(t, s.ID, 1, f.correct(1))

	results, err := GetResults(f.db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, results.TotalQuestions)
	assert.Equal(t, 66.67, results.ScorePercentage)
}

func TestGetReview(t *testing.T) {
	f := setup(t)

	category := models.Category{Value: "geo", Label: "Geography"}
	require.NoError(t, f.db.Create(&category).Error)
	require.NoError(t, f.db.Model(&models.Question{}).Where("id = ?", f.questions[0].ID).
		Update("categories", datatypes.JSONSlice[uint]{category.ID, 424242}).Error)

	s := f.start(t)
	f.answer(t, s.ID, 0, f.correct(0))
	f.answer(t, s.ID, 1, f.correct(1))
	f.answer(t, s.ID, 2, f.wrong(2))

	_, err := GetReview(f.db, s.ID)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.InvalidState), "no review while in progress")

	_, err = Complete(f.db, s.ID)
	require.NoError(t, err)

	review, err := GetReview(f.db, s.ID)
	require.NoError(t, err)

	assert.Equal(t, "Capitals", review.QuizName)
	assert.Equal(t, 3, review.TotalQuestions, "answered questions only")
	assert.Equal(t, 2, review.CorrectAnswers)
	assert.Equal(t, 1, review.IncorrectAnswers)
	assert.Equal(t, 1, review.UnansweredQuestions)
	assert.Equal(t, 66.7, review.ScorePercentage)
	require.Len(t, review.QuestionReviews, 3)

	first := review.QuestionReviews[0]
	assert.Equal(t, f.questions[0].ID, first.QuestionID)
	assert.Equal(t, "multichoice", first.QuestionType)
	assert.True(t, first.IsCorrect)
	assert.Len(t, first.PossibleAnswers, 3)
	assert.Len(t, first.CorrectAnswers, 2)
	assert.Equal(t, []ReviewCategory{{ID: category.ID, Name: "Geography"}}, first.Categories, "dangling category IDs are dropped")
	assert.ElementsMatch(t, f.correct(0), first.UserAnswer.SelectedAnswerIDs)
}

func TestAbandonExpired(t *testing.T) {
	f := setup(t)
	freezeClock(t, start)

	short, long := 10, 120
	expiring, err := Start(f.db, StartInput{QuizID: f.quiz.ID, UserID: f.user.ID, MaxDuration: &short})
	require.NoError(t, err)
	running, err := Start(f.db, StartInput{QuizID: f.quiz.ID, UserID: f.user.ID, MaxDuration: &long})
	require.NoError(t, err)
	unlimited := f.start(t)

	n, err := AbandonExpired(f.db, start.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	for id, want := range map[uint]models.SessionStatus{
		expiring.ID:  models.SessionAbandoned,
		running.ID:   models.SessionInProgress,
		unlimited.ID: models.SessionInProgress,
	} {
		s, err := Get(f.db, id)
		require.NoError(t, err)
		assert.Equal(t, want, s.Status, "session %d", id)
	}
}

func TestList(t *testing.T) {
	f := setup(t)
	clock := freezeClock(t, start)
	bob := dbtest.User(t, f.db, "bob", models.RoleUser)

	older := f.start(t)
	*clock = start.Add(time.Hour)
	newer := f.start(t)
	_, err := Start(f.db, StartInput{QuizID: f.quiz.ID, UserID: bob.ID})
	require.NoError(t, err)

	all, err := List(f.db, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := List(f.db, &f.user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)
}
