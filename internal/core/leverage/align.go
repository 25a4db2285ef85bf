package leverage

import (
	"sort"
	"strings"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

// MinAlignmentRatio is the share of a candidate's tokens that must be found,
// in order, inside a segment window before the window is credited to it.
const MinAlignmentRatio = 0.5

// Span is a contiguous run of segment tokens with one classification.
// Match is nil for new spans.
type Span struct {
	Start int
	End   int
	Type  domain.MatchType
	Match *domain.TMMatch
	Text  string
}

func (s Span) Words() int {
	return s.End - s.Start
}

type Alignment struct {
	Tokens []string
	Spans  []Span
	Stats  domain.LeverageData

	// BestScore is the highest segment-level candidate score, nil when the
	// lookup returned no segment-level candidate.
	BestScore      *float64
	BestSuggestion string
	BestDomain     string
}

// Align classifies every token of content against the TM candidates.
// Candidates are applied best score first; each claims the window of
// unassigned tokens that best matches its source text. Candidates with a blank
// target are dropped since they carry nothing to reuse.
func Align(content string, matches []domain.TMMatch) Alignment {
	tokens := Tokenize(content)
	normalized := normalizeTokens(tokens)
	owner := make([]int, len(tokens))
	for i := range owner {
		owner[i] = -1
	}

	candidates := make([]domain.TMMatch, 0, len(matches))
	for _, m := range matches {
		if strings.TrimSpace(m.TargetText) == "" {
			continue
		}
		m.MatchScore = ClampScore(m.MatchScore)
		candidates = append(candidates, m)
	}
	candidateTokens := make([][]string, len(candidates))
	for i, m := range candidates {
		candidateTokens[i] = normalizeTokens(Tokenize(m.SourceText))
	}

	order := make([]int, 0, len(candidates))
	for i, m := range candidates {
		if Classify(m.MatchScore) == domain.MatchNew || len(candidateTokens[i]) == 0 {
			continue
		}
		order = append(order, i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		ma, mb := candidates[order[a]], candidates[order[b]]
		if ma.MatchScore != mb.MatchScore {
			return ma.MatchScore > mb.MatchScore
		}
		return len(candidateTokens[order[a]]) > len(candidateTokens[order[b]])
	})

	for _, ci := range order {
		start, width, ok := bestWindow(normalized, owner, candidateTokens[ci])
		if !ok {
			continue
		}
		for i := start; i < start+width; i++ {
			owner[i] = ci
		}
	}

	out := Alignment{Tokens: tokens}
	out.Spans = buildSpans(tokens, owner, candidates)

	exact, fuzzy, fresh := 0, 0, 0
	for _, span := range out.Spans {
		switch span.Type {
		case domain.MatchExact:
			exact += span.Words()
		case domain.MatchFuzzy:
			fuzzy += span.Words()
		default:
			fresh += span.Words()
		}
	}
	out.Stats = Stats(exact, fuzzy, fresh)

	for _, m := range candidates {
		if m.Phrase {
			continue
		}
		if out.BestScore == nil || m.MatchScore > *out.BestScore {
			score := m.MatchScore
			out.BestScore = &score
			out.BestSuggestion = m.TargetText
			out.BestDomain = m.Domain
		}
	}
	return out
}

// bestWindow finds the leftmost window of unassigned tokens, as wide as the
// candidate (capped at the segment), with the highest in-order token overlap.
func bestWindow(segment []string, owner []int, candidate []string) (int, int, bool) {
	width := len(candidate)
	if width > len(segment) {
		width = len(segment)
	}
	if width == 0 {
		return 0, 0, false
	}

	bestStart, bestHits := -1, 0
	for start := 0; start+width <= len(segment); start++ {
		if !windowFree(owner, start, width) {
			continue
		}
		hits := lcsLength(segment[start:start+width], candidate)
		if hits > bestHits {
			bestStart, bestHits = start, hits
		}
	}
	if bestStart < 0 {
		return 0, 0, false
	}
	if float64(bestHits)/float64(len(candidate)) < MinAlignmentRatio {
		return 0, 0, false
	}
	return bestStart, width, true
}

func windowFree(owner []int, start, width int) bool {
	for i := start; i < start+width; i++ {
		if owner[i] >= 0 {
			return false
		}
	}
	return true
}

func lcsLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func buildSpans(tokens []string, owner []int, candidates []domain.TMMatch) []Span {
	spans := make([]Span, 0, 4)
	for i := 0; i < len(tokens); {
		j := i + 1
		for j < len(tokens) && owner[j] == owner[i] {
			j++
		}
		span := Span{Start: i, End: j, Type: domain.MatchNew, Text: strings.Join(tokens[i:j], " ")}
		if owner[i] >= 0 {
			m := candidates[owner[i]]
			span.Match = &m
			span.Type = Classify(m.MatchScore)
		}
		spans = append(spans, span)
		i = j
	}
	return spans
}
