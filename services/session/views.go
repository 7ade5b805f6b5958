package session

import (
	"time"

	"quizhub/models"
	"quizhub/services/apperror"
	"quizhub/services/catalog"
	"quizhub/services/scoring"

	"gorm.io/gorm"
)

type QuizInfo struct {
	ID          uint      `json:"id"`
	QuizName    string    `json:"quizName"`
	CreatedByID uint      `json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Results summarises a session against the full question count of its quiz.
type Results struct {
	QuizSession         models.QuizSession `json:"quizSession"`
	Quiz                QuizInfo           `json:"quiz"`
	TotalQuestions      int                `json:"totalQuestions"`
	CorrectAnswers      int                `json:"correctAnswers"`
	IncorrectAnswers    int                `json:"incorrectAnswers"`
	UnansweredQuestions int                `json:"unansweredQuestions"`
	ScorePercentage     float64            `json:"scorePercentage"`
	TimeTaken           int64              `json:"timeTaken"` // seconds
}

func GetResults(db *gorm.DB, id uint) (*Results, error) {
	s, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	var quiz models.Quiz
	if err := db.First(&quiz, s.QuizID).Error; err != nil {
		return nil, notFoundOr(err, "Associated quiz not found")
	}

	var totalQuestions int64
	if err := db.Model(&models.QuizQuestion{}).Where("quiz_id = ?", quiz.ID).Count(&totalQuestions).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to count quiz questions!")
	}

	tally := scoring.Count(correctnessFlags(s.UserAnswers))
	total := int(totalQuestions)

	return &Results{
		QuizSession: *s,
		Quiz: QuizInfo{
			ID:          quiz.ID,
			QuizName:    quiz.QuizName,
			CreatedByID: quiz.CreatedByID,
			CreatedAt:   quiz.CreatedAt,
		},
		TotalQuestions:      total,
		CorrectAnswers:      tally.Correct,
		IncorrectAnswers:    tally.Incorrect,
		UnansweredQuestions: max(total-tally.Answered, 0),
		ScorePercentage:     scoring.ResultsPercentage(tally.Correct, total),
		TimeTaken:           int64(scoring.TimeTaken(s.StartedAt, s.CompletedAt, now()).Seconds()),
	}, nil
}

type ReviewCategory struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ReviewAnswer struct {
	ID        uint   `json:"id"`
	Body      string `json:"body"`
	Position  string `json:"position"`
	IsCorrect bool   `json:"isCorrect"`
}

type ReviewUserAnswer struct {
	ID                uint      `json:"id"`
	SelectedAnswerIDs []uint    `json:"selectedAnswerIds"`
	AnsweredAt        time.Time `json:"answeredAt"`
	TimeSpent         *int      `json:"timeSpent"`
}

type QuestionReview struct {
	QuestionID      uint             `json:"questionId"`
	QuestionBody    string           `json:"questionBody"`
	QuestionType    string           `json:"questionType"`
	Categories      []ReviewCategory `json:"categories"`
	DifficultyLevel int              `json:"difficultyLevel"`
	UserAnswer      ReviewUserAnswer `json:"userAnswer"`
	PossibleAnswers []ReviewAnswer   `json:"possibleAnswers"`
	CorrectAnswers  []ReviewAnswer   `json:"correctAnswers"`
	IsCorrect       bool             `json:"isCorrect"`
}

// Review is the per-question breakdown shown after an attempt has ended. It
// exposes answer correctness, so it is never built for in-progress sessions.
type Review struct {
	SessionID           uint                 `json:"sessionId"`
	QuizID              uint                 `json:"quizId"`
	UserID              uint                 `json:"userId"`
	StartedAt           time.Time            `json:"startedAt"`
	CompletedAt         *time.Time           `json:"completedAt"`
	Status              models.SessionStatus `json:"status"`
	QuizName            string               `json:"quizName"`
	TotalQuestions      int                  `json:"totalQuestions"`
	CorrectAnswers      int                  `json:"correctAnswers"`
	IncorrectAnswers    int                  `json:"incorrectAnswers"`
	UnansweredQuestions int                  `json:"unansweredQuestions"`
	ScorePercentage     float64              `json:"scorePercentage"`
	TimeTaken           int64                `json:"timeTaken"` // seconds
	QuestionReviews     []QuestionReview     `json:"questionReviews"`
}

func GetReview(db *gorm.DB, id uint) (*Review, error) {
	s, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	if s.Status == models.SessionInProgress {
		return nil, apperror.InvalidStatef("Review is available once the quiz session has ended")
	}

	var quiz models.Quiz
	if err := db.First(&quiz, s.QuizID).Error; err != nil {
		return nil, notFoundOr(err, "Quiz with ID %d not found", s.QuizID)
	}

	var quizQuestions int64
	if err := db.Model(&models.QuizQuestion{}).Where("quiz_id = ?", quiz.ID).Count(&quizQuestions).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to count quiz questions!")
	}

	questionIDs := make([]uint, 0, len(s.UserAnswers))
	for _, ua := range s.UserAnswers {
		questionIDs = append(questionIDs, ua.QuestionID)
	}

	var questions []models.Question
	if len(questionIDs) > 0 {
		if err := db.Preload("Answers").Where("id IN ?", questionIDs).Find(&questions).Error; err != nil {
			return nil, apperror.Wrap(apperror.Internal, err, "Failed to load questions!")
		}
	}
	byID := make(map[uint]models.Question, len(questions))
	var categoryIDs []uint
	for _, q := range questions {
		byID[q.ID] = q
		categoryIDs = append(categoryIDs, q.CategoryIDs()...)
	}

	categories, err := catalog.LookupCategories(db, categoryIDs)
	if err != nil {
		return nil, err
	}

	tally := scoring.Count(correctnessFlags(s.UserAnswers))
	reviews := make([]QuestionReview, 0, len(s.UserAnswers))
	for _, ua := range s.UserAnswers {
		q, ok := byID[ua.QuestionID]
		if !ok {
			continue
		}
		reviews = append(reviews, buildQuestionReview(q, ua, categories))
	}

	return &Review{
		SessionID:           s.ID,
		QuizID:              s.QuizID,
		UserID:              s.UserID,
		StartedAt:           s.StartedAt,
		CompletedAt:         s.CompletedAt,
		Status:              s.Status,
		QuizName:            quiz.QuizName,
		TotalQuestions:      tally.Answered,
		CorrectAnswers:      tally.Correct,
		IncorrectAnswers:    tally.Answered - tally.Correct,
		UnansweredQuestions: max(int(quizQuestions)-tally.Answered, 0),
		ScorePercentage:     scoring.ReviewPercentage(tally.Correct, tally.Answered),
		TimeTaken:           int64(scoring.TimeTaken(s.StartedAt, s.CompletedAt, now()).Seconds()),
		QuestionReviews:     reviews,
	}, nil
}

func buildQuestionReview(q models.Question, ua models.UserAnswer, categories map[uint]models.Category) QuestionReview {
	possible := make([]ReviewAnswer, 0, len(q.Answers))
	correct := make([]ReviewAnswer, 0, len(q.Answers))
	for _, a := range q.Answers {
		ra := ReviewAnswer{ID: a.ID, Body: a.AnswerBody, Position: a.AnswerPosition, IsCorrect: a.AnswerCorrect}
		possible = append(possible, ra)
		if a.AnswerCorrect {
			correct = append(correct, ra)
		}
	}

	// dangling category IDs are skipped
	cats := make([]ReviewCategory, 0, len(q.Categories))
	for _, id := range q.CategoryIDs() {
		if c, ok := categories[id]; ok {
			cats = append(cats, ReviewCategory{ID: c.ID, Name: c.Label})
		}
	}

	selected := []uint(ua.SelectedAnswerIDs)
	if selected == nil {
		selected = []uint{}
	}

	return QuestionReview{
		QuestionID:      q.ID,
		QuestionBody:    q.QuestionBody,
		QuestionType:    "multichoice",
		Categories:      cats,
		DifficultyLevel: q.DifficultyLevel,
		UserAnswer: ReviewUserAnswer{
			ID:                ua.ID,
			SelectedAnswerIDs: selected,
			AnsweredAt:        ua.AnsweredAt,
			TimeSpent:         ua.TimeSpent,
		},
		PossibleAnswers: possible,
		CorrectAnswers:  correct,
		IsCorrect:       ua.IsCorrect != nil && *ua.IsCorrect,
	}
}

func correctnessFlags(answers []models.UserAnswer) []*bool {
	flags := make([]*bool, len(answers))
	for i := range answers {
		flags[i] = answers[i].IsCorrect
	}
	return flags
}
