// Package leverage classifies translation memory matches and computes
// word-level and segment-level reuse figures.
package leverage

import (
	"math"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

const (
	// ExactThreshold and FuzzyThreshold are inclusive lower bounds on a 0-100 score.
	ExactThreshold = 95.0
	FuzzyThreshold = 75.0

	// FuzzyWeight is the partial credit a fuzzy-matched word earns in leverage figures.
	FuzzyWeight = 0.7
)

// Classify maps a TM score to exact, fuzzy or new (no usable match).
func Classify(score float64) domain.MatchType {
	switch {
	case score >= ExactThreshold:
		return domain.MatchExact
	case score >= FuzzyThreshold:
		return domain.MatchFuzzy
	default:
		return domain.MatchNew
	}
}

// Percentage is 100*(exact + FuzzyWeight*fuzzy)/total, clamped to [0,100].
func Percentage(exact, fuzzy, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := 100 * (float64(exact) + FuzzyWeight*float64(fuzzy)) / float64(total)
	return clamp(pct, 0, 100)
}

// Stats builds LeverageData from word counts.
func Stats(exact, fuzzy, newWords int) domain.LeverageData {
	return domain.LeverageData{
		ExactMatchWords:    exact,
		FuzzyMatchWords:    fuzzy,
		NewWords:           newWords,
		LeveragePercentage: Percentage(exact, fuzzy, exact+fuzzy+newWords),
	}
}

// NoLeverage is the stats of a segment translated without any TM reuse.
func NoLeverage(wordCount int) domain.LeverageData {
	return Stats(0, 0, wordCount)
}

// ClampScore bounds a TM score to [0,100].
func ClampScore(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
