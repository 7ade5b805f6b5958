package catalog

import (
	"log"
	"time"

	"quizhub/models"
	"quizhub/services/apperror"

	"gorm.io/gorm"
)

type QuizInput struct {
	QuizName    string `json:"quizName" validate:"required,max=100"`
	QuestionIDs []uint `json:"questionIds"`
}

func orderedLinks(db *gorm.DB) *gorm.DB {
	return db.Order("order_index asc")
}

// GetQuiz loads a quiz with its ordered question links and creator. With
// answers set, each linked question also carries its answers, correctness
// included.
func GetQuiz(db *gorm.DB, id uint, answers bool) (*models.Quiz, error) {
	query := db.Preload("Questions", orderedLinks).Preload("Questions.Question").Preload("Creator")
	if answers {
		query = query.Preload("Questions.Question.Answers")
	}

	var quiz models.Quiz
	if err := query.First(&quiz, id).Error; err != nil {
		return nil, notFoundOr(err, "Quiz with ID %d not found", id)
	}
	return &quiz, nil
}

func ListQuizzes(db *gorm.DB) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := db.Preload("Questions", orderedLinks).Preload("Questions.Question").Preload("Creator").
		Order("id asc").Find(&quizzes).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to list quizzes!")
	}
	return quizzes, nil
}

// ListQuizzesByCreator returns a user's quizzes, newest first.
func ListQuizzesByCreator(db *gorm.DB, userID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := db.Preload("Questions", orderedLinks).
		Where("created_by_id = ?", userID).
		Order("created_at desc").Find(&quizzes).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to list quizzes!")
	}
	return quizzes, nil
}

// CreateQuiz stores a quiz with questionIDs in the given order. Unknown
// question IDs are skipped.
func CreateQuiz(db *gorm.DB, creatorID uint, in QuizInput) (*models.Quiz, error) {
	var quizID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		quiz := models.Quiz{
			QuizName:    in.QuizName,
			CreatedByID: creatorID,
			CreatedAt:   now(),
		}
		if err := tx.Create(&quiz).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to create quiz!")
		}
		quizID = quiz.ID
		return linkQuestions(tx, quiz.ID, in.QuestionIDs)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[CATALOG] Created quiz %d with %d requested questions", quizID, len(in.QuestionIDs))
	return GetQuiz(db, quizID, false)
}

// UpdateQuiz renames the quiz and replaces its question list.
func UpdateQuiz(db *gorm.DB, id uint, in QuizInput) (*models.Quiz, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.First(&quiz, id).Error; err != nil {
			return notFoundOr(err, "Quiz with ID %d not found", id)
		}

		modified := now()
		if err := tx.Model(&quiz).Updates(map[string]any{
			"quiz_name":        in.QuizName,
			"last_modified_at": modified,
		}).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to update quiz!")
		}

		if err := tx.Where("quiz_id = ?", id).Delete(&models.QuizQuestion{}).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to clear quiz questions!")
		}
		return linkQuestions(tx, id, in.QuestionIDs)
	})
	if err != nil {
		return nil, err
	}
	return GetQuiz(db, id, false)
}

func linkQuestions(tx *gorm.DB, quizID uint, questionIDs []uint) error {
	if len(questionIDs) == 0 {
		return nil
	}

	var found []uint
	if err := tx.Model(&models.Question{}).Where("id IN ?", questionIDs).Pluck("id", &found).Error; err != nil {
		return apperror.Wrap(apperror.Internal, err, "Failed to look up questions!")
	}
	known := make(map[uint]bool, len(found))
	for _, id := range found {
		known[id] = true
	}

	links := make([]models.QuizQuestion, 0, len(questionIDs))
	added := make(map[uint]bool, len(questionIDs))
	for _, qid := range questionIDs {
		if !known[qid] {
			log.Printf("[CATALOG] Question with ID %d not found when adding to quiz %d", qid, quizID)
			continue
		}
		if added[qid] {
			continue
		}
		added[qid] = true
		links = append(links, models.QuizQuestion{QuizID: quizID, QuestionID: qid, OrderIndex: len(links)})
	}
	if len(links) == 0 {
		return nil
	}
	if err := tx.Create(&links).Error; err != nil {
		return apperror.Wrap(apperror.Internal, err, "Failed to add questions to quiz!")
	}
	return nil
}

// AddQuestion appends a question after the quiz's current last position.
func AddQuestion(db *gorm.DB, quizID, questionID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Quiz{}, quizID).Error; err != nil {
			return notFoundOr(err, "Quiz not found")
		}
		if err := tx.First(&models.Question{}, questionID).Error; err != nil {
			return notFoundOr(err, "Question not found")
		}

		var existing int64
		if err := tx.Model(&models.QuizQuestion{}).
			Where("quiz_id = ? AND question_id = ?", quizID, questionID).
			Count(&existing).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to check quiz questions!")
		}
		if existing > 0 {
			return apperror.InvalidRequestf("Question is already in the quiz")
		}

		var maxIndex int
		if err := tx.Model(&models.QuizQuestion{}).
			Where("quiz_id = ?", quizID).
			Select("COALESCE(MAX(order_index), -1)").
			Scan(&maxIndex).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to read question order!")
		}

		link := models.QuizQuestion{QuizID: quizID, QuestionID: questionID, OrderIndex: maxIndex + 1}
		if err := tx.Create(&link).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to add question to quiz!")
		}
		return nil
	})
}

func RemoveQuestion(db *gorm.DB, quizID, questionID uint) error {
	res := db.Where("quiz_id = ? AND question_id = ?", quizID, questionID).Delete(&models.QuizQuestion{})
	if res.Error != nil {
		return apperror.Wrap(apperror.Internal, res.Error, "Failed to remove question from quiz!")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFoundf("Question is not in the quiz")
	}
	return nil
}

// DeleteQuiz removes the quiz and its question links. Sessions of the quiz
// are kept.
func DeleteQuiz(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.First(&quiz, id).Error; err != nil {
			return notFoundOr(err, "Quiz with ID %d not found", id)
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&models.QuizQuestion{}).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to remove quiz questions!")
		}
		if err := tx.Delete(&quiz).Error; err != nil {
			return apperror.Wrap(apperror.Internal, err, "Failed to delete quiz!")
		}
		return nil
	})
}

type TakeQuestion struct {
	ID              uint                  `json:"id"`
	OrderIndex      int                   `json:"orderIndex"`
	QuestionBody    string                `json:"questionBody"`
	DifficultyLevel int                   `json:"difficultyLevel"`
	Categories      []models.Category     `json:"categories"`
	Answers         []models.PublicAnswer `json:"answers"`
}

// TakeView is a quiz as presented to someone answering it: no answer is
// marked correct.
type TakeView struct {
	ID        uint           `json:"id"`
	QuizName  string         `json:"quizName"`
	Questions []TakeQuestion `json:"questions"`
}

func GetTakeView(db *gorm.DB, id uint) (*TakeView, error) {
	quiz, err := GetQuiz(db, id, true)
	if err != nil {
		return nil, err
	}

	var categoryIDs []uint
	for _, link := range quiz.Questions {
		if link.Question != nil {
			categoryIDs = append(categoryIDs, link.Question.CategoryIDs()...)
		}
	}
	categories, err := LookupCategories(db, categoryIDs)
	if err != nil {
		return nil, err
	}

	view := &TakeView{ID: quiz.ID, QuizName: quiz.QuizName, Questions: make([]TakeQuestion, 0, len(quiz.Questions))}
	for _, link := range quiz.Questions {
		q := link.Question
		if q == nil {
			continue
		}

		cats := make([]models.Category, 0, len(q.Categories))
		for _, cid := range q.CategoryIDs() {
			if c, ok := categories[cid]; ok {
				cats = append(cats, c)
			}
		}
		answers := make([]models.PublicAnswer, 0, len(q.Answers))
		for _, a := range q.Answers {
			answers = append(answers, a.Public())
		}

		view.Questions = append(view.Questions, TakeQuestion{
			ID:              q.ID,
			OrderIndex:      link.OrderIndex,
			QuestionBody:    q.QuestionBody,
			DifficultyLevel: q.DifficultyLevel,
			Categories:      cats,
			Answers:         answers,
		})
	}
	return view, nil
}

// QuizView is a quiz as returned by the API, with the creator trimmed to a
// summary.
type QuizView struct {
	ID             uint                  `json:"id"`
	QuizName       string                `json:"quizName"`
	CreatedByID    uint                  `json:"createdById"`
	Creator        *models.UserSummary   `json:"creator"`
	CreatedAt      time.Time             `json:"createdAt"`
	LastModifiedAt *time.Time            `json:"lastModifiedAt"`
	Questions      []models.QuizQuestion `json:"questions"`
}

func ViewOf(q models.Quiz) QuizView {
	v := QuizView{
		ID:             q.ID,
		QuizName:       q.QuizName,
		CreatedByID:    q.CreatedByID,
		CreatedAt:      q.CreatedAt,
		LastModifiedAt: q.LastModifiedAt,
		Questions:      q.Questions,
	}
	if q.Creator != nil {
		s := q.Creator.Summary()
		v.Creator = &s
	}
	if v.Questions == nil {
		v.Questions = []models.QuizQuestion{}
	}
	return v
}

func ViewsOf(quizzes []models.Quiz) []QuizView {
	out := make([]QuizView, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, ViewOf(q))
	}
	return out
}
