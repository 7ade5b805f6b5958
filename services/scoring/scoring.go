// Package scoring decides whether a submitted selection is correct and turns
// per-answer outcomes into session percentages.
package scoring

import (
	"math"
	"time"
)

// IsCorrect reports whether selected and correct contain the same answer IDs.
// Order is irrelevant and repeated IDs collapse, so a selection that covers
// only part of the correct set, or adds a wrong answer, is incorrect.
func IsCorrect(selected, correct []uint) bool {
	s := toSet(selected)
	c := toSet(correct)
	if len(s) != len(c) {
		return false
	}
	for id := range s {
		if _, ok := c[id]; !ok {
			return false
		}
	}
	return true
}

// Dedupe returns ids without repeats, keeping first-seen order.
func Dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Tally counts answer outcomes. Answers whose correctness was never computed
// count towards neither Correct nor Incorrect.
type Tally struct {
	Correct   int
	Incorrect int
	Answered  int
}

// Count builds a Tally from stored correctness flags.
func Count(flags []*bool) Tally {
	t := Tally{Answered: len(flags)}
	for _, f := range flags {
		switch {
		case f == nil:
		case *f:
			t.Correct++
		default:
			t.Incorrect++
		}
	}
	return t
}

// Percentage is 100*correct/total rounded to decimals places, 0 when total
// is zero.
func Percentage(correct, total, decimals int) float64 {
	if total <= 0 {
		return 0
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(float64(correct)/float64(total)*100*scale) / scale
}

// CompletionScore is the whole-number score stored on a completed session.
func CompletionScore(correct, total int) float64 {
	return Percentage(correct, total, 0)
}

// ResultsPercentage is used by the results summary (two decimals).
func ResultsPercentage(correct, total int) float64 {
	return Percentage(correct, total, 2)
}

// ReviewPercentage is used by the per-question review (one decimal).
func ReviewPercentage(correct, total int) float64 {
	return Percentage(correct, total, 1)
}

// TimeTaken measures a finished attempt up to completedAt, and an unfinished
// one up to now.
func TimeTaken(startedAt time.Time, completedAt *time.Time, now time.Time) time.Duration {
	if completedAt != nil {
		return completedAt.Sub(startedAt)
	}
	return now.Sub(startedAt)
}
