package users

import (
	"time"

	"quizhub/models"
	"quizhub/services/apperror"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

type Profile struct {
	ID          uint      `json:"id"`
	UserName    string    `json:"userName"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ProfileOf(u models.User) Profile {
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	return Profile{
		ID:          u.ID,
		UserName:    u.UserName,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName,
		Role:        role,
		CreatedAt:   u.CreatedAt,
	}
}

func Profiles(db *gorm.DB) ([]Profile, error) {
	all, err := List(db)
	if err != nil {
		return nil, err
	}
	out := make([]Profile, 0, len(all))
	for _, u := range all {
		out = append(out, ProfileOf(u))
	}
	return out, nil
}

type RecentQuestion struct {
	ID           uint   `json:"id"`
	QuestionBody string `json:"questionBody"`
	Created      string `json:"created"` // yyyy-mm-dd
}

type Contributions struct {
	UserSummary      models.UserSummary `json:"userSummary"`
	QuizzesCreated   int64              `json:"quizzesCreated"`
	QuestionsCreated int64              `json:"questionsCreated"`
	RecentQuestions  []RecentQuestion   `json:"recentQuestions"`
}

const recentQuestionLimit = 5

func GetContributions(db *gorm.DB, userName string) (*Contributions, error) {
	u, err := GetByUserName(db, userName)
	if err != nil {
		return nil, err
	}

	out := &Contributions{UserSummary: u.Summary(), RecentQuestions: []RecentQuestion{}}
	if err := db.Model(&models.Quiz{}).Where("created_by_id = ?", u.ID).Count(&out.QuizzesCreated).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to count quizzes!")
	}
	if err := db.Model(&models.Question{}).Where("created_by_id = ?", u.ID).Count(&out.QuestionsCreated).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to count questions!")
	}

	var recent []models.Question
	if err := db.Select("id", "question_body", "created").
		Where("created_by_id = ?", u.ID).
		Order("created desc").Limit(recentQuestionLimit).
		Find(&recent).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to load recent questions!")
	}
	for _, q := range recent {
		out.RecentQuestions = append(out.RecentQuestions, RecentQuestion{
			ID:           q.ID,
			QuestionBody: q.QuestionBody,
			Created:      q.Created.Format("2006-01-02"),
		})
	}
	return out, nil
}

type ActivityItem struct {
	ID                uint                 `json:"id"`
	QuizID            uint                 `json:"quizId"`
	QuizName          string               `json:"quizName"`
	StartedAt         time.Time            `json:"startedAt"`
	CompletedAt       *time.Time           `json:"completedAt"`
	Score             float64              `json:"score"`
	QuestionsTotal    int64                `json:"questionsTotal"`
	QuestionsAnswered int                  `json:"questionsAnswered"`
	Status            models.SessionStatus `json:"status"`
}

type Activity struct {
	SessionsToday     int            `json:"sessionsToday"`
	SessionsThisWeek  int            `json:"sessionsThisWeek"`
	CompletedThisWeek int            `json:"completedThisWeek"`
	AverageScore      float64        `json:"averageScore"`
	Sessions          []ActivityItem `json:"sessions"`
}

// GetActivity lists a user's quiz sessions, newest first, with counts for
// the day and the week (weeks start on Monday) around at.
func GetActivity(db *gorm.DB, userID uint, at time.Time) (*Activity, error) {
	if _, err := GetByID(db, userID); err != nil {
		return nil, err
	}

	var sessions []models.QuizSession
	if err := db.Preload("UserAnswers").
		Where("user_id = ?", userID).
		Order("started_at desc").
		Find(&sessions).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to load quiz sessions!")
	}

	quizIDs := make([]uint, 0, len(sessions))
	for _, s := range sessions {
		quizIDs = append(quizIDs, s.QuizID)
	}
	names, totals, err := quizFacts(db, quizIDs)
	if err != nil {
		return nil, err
	}

	cal := &now.Config{WeekStartDay: time.Monday, TimeLocation: at.Location()}
	day := cal.With(at).BeginningOfDay()
	week := cal.With(at).BeginningOfWeek()

	out := &Activity{Sessions: make([]ActivityItem, 0, len(sessions))}
	var scoreSum float64
	var scored int
	for _, s := range sessions {
		if !s.StartedAt.Before(day) {
			out.SessionsToday++
		}
		if !s.StartedAt.Before(week) {
			out.SessionsThisWeek++
			if s.Status == models.SessionCompleted {
				out.CompletedThisWeek++
			}
		}

		var score float64
		if s.Score != nil {
			score = *s.Score
		}
		if s.Status == models.SessionCompleted {
			scoreSum += score
			scored++
		}

		out.Sessions = append(out.Sessions, ActivityItem{
			ID:                s.ID,
			QuizID:            s.QuizID,
			QuizName:          names[s.QuizID],
			StartedAt:         s.StartedAt,
			CompletedAt:       s.CompletedAt,
			Score:             score,
			QuestionsTotal:    totals[s.QuizID],
			QuestionsAnswered: len(s.UserAnswers),
			Status:            s.Status,
		})
	}
	if scored > 0 {
		out.AverageScore = scoreSum / float64(scored)
	}
	return out, nil
}

func quizFacts(db *gorm.DB, quizIDs []uint) (map[uint]string, map[uint]int64, error) {
	names := make(map[uint]string)
	totals := make(map[uint]int64)
	if len(quizIDs) == 0 {
		return names, totals, nil
	}

	var quizzes []models.Quiz
	if err := db.Select("id", "quiz_name").Where("id IN ?", quizIDs).Find(&quizzes).Error; err != nil {
		return nil, nil, apperror.Wrap(apperror.Internal, err, "Failed to load quizzes!")
	}
	for _, q := range quizzes {
		names[q.ID] = q.QuizName
	}

	var rows []struct {
		QuizID uint
		Total  int64
	}
	if err := db.Model(&models.QuizQuestion{}).
		Select("quiz_id, COUNT(*) AS total").
		Where("quiz_id IN ?", quizIDs).
		Group("quiz_id").
		Scan(&rows).Error; err != nil {
		return nil, nil, apperror.Wrap(apperror.Internal, err, "Failed to count quiz questions!")
	}
	for _, r := range rows {
		totals[r.QuizID] = r.Total
	}
	return names, totals, nil
}
