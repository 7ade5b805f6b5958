package utils

import (
	"fmt"
	"io"

	"quizhub/services/catalog"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// QuestionBank is the YAML layout read by the import script.
type QuestionBank struct {
	Creator    string         `yaml:"creator"`
	Categories []BankCategory `yaml:"categories"`
	Questions  []BankQuestion `yaml:"questions"`
}

type BankCategory struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type BankQuestion struct {
	Body       string       `yaml:"body"`
	Difficulty int          `yaml:"difficulty"`
	Checked    bool         `yaml:"checked"`
	Categories []string     `yaml:"categories"` // category values
	Answers    []BankAnswer `yaml:"answers"`
}

type BankAnswer struct {
	Body     string `yaml:"body"`
	Correct  bool   `yaml:"correct"`
	Position string `yaml:"position"`
}

func ParseQuestionBank(r io.Reader) (*QuestionBank, error) {
	bank := &QuestionBank{}
	if err := yaml.NewDecoder(r).Decode(bank); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	if bank.Creator == "" {
		return nil, fmt.Errorf("question bank has no creator")
	}
	return bank, nil
}

// Inputs converts the bank's questions, creating its categories first.
// Unknown category values are reported as an error for that bank.
func (b *QuestionBank) Inputs(db *gorm.DB) ([]catalog.QuestionInput, error) {
	ids := make(map[string]uint, len(b.Categories))
	for _, bc := range b.Categories {
		label := bc.Label
		if label == "" {
			label = bc.Value
		}
		c, err := catalog.EnsureCategory(db, bc.Value, label)
		if err != nil {
			return nil, err
		}
		ids[bc.Value] = c.ID
	}

	items := make([]catalog.QuestionInput, 0, len(b.Questions))
	for i, q := range b.Questions {
		in := catalog.QuestionInput{
			QuestionBody:    q.Body,
			DifficultyLevel: q.Difficulty,
			QsChecked:       q.Checked,
			Categories:      []uint{},
		}
		if in.DifficultyLevel == 0 {
			in.DifficultyLevel = 1
		}
		for _, value := range q.Categories {
			id, ok := ids[value]
			if !ok {
				return nil, fmt.Errorf("question %d: unknown category %q", i, value)
			}
			in.Categories = append(in.Categories, id)
		}
		for _, a := range q.Answers {
			in.Answers = append(in.Answers, catalog.AnswerInput{
				AnswerBody:     a.Body,
				AnswerCorrect:  a.Correct,
				AnswerPosition: a.Position,
			})
		}
		items = append(items, in)
	}
	return items, nil
}
