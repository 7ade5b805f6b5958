package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsCorrect(t *testing.T) {
	correct := []uint{1, 3}

	testCases := []struct {
		name     string
		selected []uint
		correct  []uint
		want     bool
	}{
		{"exact match", []uint{1, 3}, correct, true},
		{"order ignored", []uint{3, 1}, correct, true},
		{"missing a correct answer", []uint{1}, correct, false},
		{"extra wrong answer", []uint{1, 3, 4}, correct, false},
		{"nothing selected", []uint{}, correct, false},
		{"repeated id does not fill the gap", []uint{1, 1}, correct, false},
		{"repeated ids of the full set", []uint{1, 3, 3}, correct, true},
		{"both empty", nil, nil, true},
		{"selection for question with no correct answer", []uint{2}, nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsCorrect(tc.selected, tc.correct))
		})
	}
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []uint{4, 2, 9}, Dedupe([]uint{4, 2, 4, 9, 2}))
	assert.Empty(t, Dedupe(nil))
}

func TestPercentages(t *testing.T) {
	assert.Equal(t, 75.0, ResultsPercentage(3, 4))
	assert.Equal(t, 75.0, ReviewPercentage(3, 4))
	assert.Equal(t, 75.0, CompletionScore(3, 4))

	assert.Equal(t, 66.67, ResultsPercentage(2, 3))
	assert.Equal(t, 66.7, ReviewPercentage(2, 3))
	assert.Equal(t, 67.0, CompletionScore(2, 3))

	assert.Equal(t, 0.0, ResultsPercentage(0, 0))
	assert.Equal(t, 0.0, ReviewPercentage(0, 0))
	assert.Equal(t, 0.0, CompletionScore(0, 0))
}

func TestCount(t *testing.T) {
	yes, no := true, false
	tally := Count([]*bool{&yes, &no, nil, &yes})

	assert.Equal(t, Tally{Correct: 2, Incorrect: 1, Answered: 4}, tally)
}

func TestTimeTaken(t *testing.T) {
	started := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	completed := started.Add(90 * time.Second)
	now := started.Add(10 * time.Minute)

	assert.Equal(t, 90*time.Second, TimeTaken(started, &completed, now))
	assert.Equal(t, 10*time.Minute, TimeTaken(started, nil, now))
}
