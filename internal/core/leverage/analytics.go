package leverage

import (
	"strings"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

// Aggregate rolls segments up into document analytics. It is a pure function
// of its inputs. LeverageRate here counts segments, not words.
func Aggregate(segments []domain.Segment, ratePerWord float64) domain.LeverageAnalytics {
	out := domain.LeverageAnalytics{TotalSegments: len(segments)}
	if len(segments) == 0 {
		return out
	}

	scored := 0
	scoreSum := 0.0
	for _, seg := range segments {
		if seg.TMMatchScore == nil {
			out.NoMatches++
		} else {
			score := ClampScore(*seg.TMMatchScore)
			scored++
			scoreSum += score
			switch Classify(score) {
			case domain.MatchExact:
				out.ExactMatches++
			case domain.MatchFuzzy:
				out.FuzzyMatches++
			default:
				out.NoMatches++
			}
		}

		if seg.AIScores != nil && seg.TMLeverageData != nil && seg.TMLeverageData.NewWords > 0 {
			out.CulturalAdaptations++
		}
		if seg.TherapeuticAreaMatch {
			out.TherapeuticAreaMatches++
		}
	}

	if scored > 0 {
		out.AvgMatchScore = scoreSum / float64(scored)
	}
	out.TotalCostSavings = CostSavings(segments, ratePerWord)
	out.LeverageRate = Percentage(out.ExactMatches, out.FuzzyMatches, out.TotalSegments)
	return out
}

// CostSavings estimates Σ(wordCount * ratePerWord * tmMatchScore/100) over
// segments that carry a TM score.
func CostSavings(segments []domain.Segment, ratePerWord float64) float64 {
	total := 0.0
	for _, seg := range segments {
		if seg.TMMatchScore == nil {
			continue
		}
		total += float64(seg.WordCount) * ratePerWord * ClampScore(*seg.TMMatchScore) / 100
	}
	return total
}

// WordLeverage is the word-weighted leverage across segments that have stats.
func WordLeverage(segments []domain.Segment) float64 {
	exact, fuzzy, total := 0, 0, 0
	for _, seg := range segments {
		if seg.TMLeverageData == nil {
			continue
		}
		exact += seg.TMLeverageData.ExactMatchWords
		fuzzy += seg.TMLeverageData.FuzzyMatchWords
		total += seg.TMLeverageData.ExactMatchWords + seg.TMLeverageData.FuzzyMatchWords + seg.TMLeverageData.NewWords
	}
	return Percentage(exact, fuzzy, total)
}

// SameDomain compares therapeutic areas case-insensitively; empty never matches.
func SameDomain(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
