package utils

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"quizhub/services/catalog"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

// OpenTDBQuery selects questions from the Open Trivia DB. Zero values leave
// the filter out.
type OpenTDBQuery struct {
	Amount     int    `json:"amount" validate:"gte=1,lte=50"`
	Category   int    `json:"category" validate:"gte=0"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

type OpenTDBQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []OpenTDBQuestion `json:"results"`
}

var openTDBCodes = map[int]string{
	1: "not enough questions for the query",
	2: "invalid parameter",
	3: "session token not found",
	4: "session token exhausted",
	5: "rate limited",
}

type OpenTDBClient struct {
	client *resty.Client
}

func NewOpenTDBClient(baseURL string) *OpenTDBClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)
	return &OpenTDBClient{client: client}
}

// Fetch downloads questions and decodes their RFC 3986 encoded text.
func (o *OpenTDBClient) Fetch(ctx context.Context, q OpenTDBQuery) ([]OpenTDBQuestion, error) {
	params := map[string]string{
		"amount": fmt.Sprint(q.Amount),
		"encode": "url3986",
	}
	if q.Category > 0 {
		params["category"] = fmt.Sprint(q.Category)
	}
	if q.Difficulty != "" {
		params["difficulty"] = q.Difficulty
	}

	var body openTDBResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&body).
		Get("/api.php")
	if err != nil {
		return nil, fmt.Errorf("opentdb request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("opentdb status %d", resp.StatusCode())
	}
	if body.ResponseCode != 0 {
		reason, ok := openTDBCodes[body.ResponseCode]
		if !ok {
			reason = "unknown response code"
		}
		return nil, fmt.Errorf("opentdb: %s (%d)", reason, body.ResponseCode)
	}

	out := make([]OpenTDBQuestion, 0, len(body.Results))
	for _, r := range body.Results {
		d := OpenTDBQuestion{
			Type:          decode(r.Type),
			Difficulty:    decode(r.Difficulty),
			Category:      decode(r.Category),
			Question:      decode(r.Question),
			CorrectAnswer: decode(r.CorrectAnswer),
		}
		for _, a := range r.IncorrectAnswers {
			d.IncorrectAnswers = append(d.IncorrectAnswers, decode(a))
		}
		out = append(out, d)
	}
	return out, nil
}

func decode(s string) string {
	v, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return v
}

// OpenTDBDifficulty maps easy/medium/hard to 1/2/3.
func OpenTDBDifficulty(d string) int {
	switch d {
	case "medium":
		return 2
	case "hard":
		return 3
	default:
		return 1
	}
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// CategorySlug turns an Open Trivia DB category name into a category value,
// e.g. "Entertainment: Books" becomes "entertainment-books".
func CategorySlug(name string) string {
	return strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// ToQuestionInput converts one trivia question. Answers are ordered
// alphabetically and labelled A, B, C... so the correct one has no fixed slot.
func ToQuestionInput(q OpenTDBQuestion, categoryIDs []uint) catalog.QuestionInput {
	type option struct {
		body    string
		correct bool
	}
	options := []option{{body: q.CorrectAnswer, correct: true}}
	for _, a := range q.IncorrectAnswers {
		options = append(options, option{body: a})
	}
	sort.SliceStable(options, func(i, j int) bool { return options[i].body < options[j].body })

	answers := make([]catalog.AnswerInput, 0, len(options))
	for i, o := range options {
		answers = append(answers, catalog.AnswerInput{
			AnswerBody:     o.body,
			AnswerCorrect:  o.correct,
			AnswerPosition: string(rune('A' + i)),
		})
	}

	return catalog.QuestionInput{
		QuestionBody:    q.Question,
		DifficultyLevel: OpenTDBDifficulty(q.Difficulty),
		Categories:      categoryIDs,
		Answers:         answers,
	}
}

// ImportFromOpenTDB fetches questions, creates any missing categories and
// bulk imports the result.
func ImportFromOpenTDB(ctx context.Context, db *gorm.DB, client *OpenTDBClient, creatorID uint, q OpenTDBQuery) (catalog.ImportSummary, error) {
	fetched, err := client.Fetch(ctx, q)
	if err != nil {
		return catalog.ImportSummary{}, err
	}

	categoryIDs := make(map[string]uint)
	items := make([]catalog.QuestionInput, 0, len(fetched))
	for _, f := range fetched {
		var ids []uint
		if f.Category != "" {
			id, ok := categoryIDs[f.Category]
			if !ok {
				c, err := catalog.EnsureCategory(db, CategorySlug(f.Category), f.Category)
				if err != nil {
					return catalog.ImportSummary{}, err
				}
				id = c.ID
				categoryIDs[f.Category] = id
			}
			ids = []uint{id}
		}
		items = append(items, ToQuestionInput(f, ids))
	}

	log.Printf("[OPENTDB] Fetched %d questions for user %d", len(items), creatorID)
	return catalog.BulkImport(db, creatorID, items), nil
}
