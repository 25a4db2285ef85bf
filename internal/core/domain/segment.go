package domain

import (
	"strings"
	"time"
)

type TranslationStatus string

const (
	StatusPending    TranslationStatus = "pending"
	StatusInProgress TranslationStatus = "in_progress"
	StatusCompleted  TranslationStatus = "completed"
)

type SegmentType string

const (
	SegmentSubject    SegmentType = "subject"
	SegmentGreeting   SegmentType = "greeting"
	SegmentBody       SegmentType = "body"
	SegmentCTA        SegmentType = "cta"
	SegmentRegulatory SegmentType = "regulatory"
	SegmentClosing    SegmentType = "closing"
)

type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchFuzzy MatchType = "fuzzy"
	MatchNew   MatchType = "new"
)

// LeverageData is the word-level reuse summary of one segment.
// ExactMatchWords+FuzzyMatchWords+NewWords always equals the segment word count.
type LeverageData struct {
	ExactMatchWords    int     `json:"exactMatchWords"`
	FuzzyMatchWords    int     `json:"fuzzyMatchWords"`
	NewWords           int     `json:"newWords"`
	LeveragePercentage float64 `json:"leveragePercentage"`
}

// WordUnit is one translated token or phrase of a segment, in source order.
type WordUnit struct {
	Word         string    `json:"word"`
	Type         MatchType `json:"type"`
	MatchScore   *float64  `json:"matchScore,omitempty"`
	TMSourceText string    `json:"tmSourceText,omitempty"`
	SourceWords  int       `json:"sourceWords"`
}

type AIScores struct {
	Accuracy         float64 `json:"accuracy"`
	BrandConsistency float64 `json:"brandConsistency"`
	CulturalFit      float64 `json:"culturalFit"`
}

type Segment struct {
	ID      string      `json:"id"`
	Order   int         `json:"order"`
	Title   string      `json:"title"`
	Type    SegmentType `json:"type"`
	Content string      `json:"content"`

	WordCount int `json:"wordCount"`

	TranslationStatus TranslationStatus `json:"translationStatus"`
	TranslatedText    string            `json:"translatedText"`

	TMMatchScore   *float64      `json:"tmMatchScore,omitempty"`
	TMSuggestion   string        `json:"tmSuggestion,omitempty"`
	TMLeverageData *LeverageData `json:"tmLeverageData,omitempty"`

	WordLevelBreakdown []WordUnit `json:"wordLevelBreakdown,omitempty"`
	AIScores           *AIScores  `json:"aiScores,omitempty"`

	NeedsReview  bool     `json:"needsReview"`
	ReviewFlags  []string `json:"reviewFlags,omitempty"`
	EditRequired bool     `json:"editRequired,omitempty"`

	TherapeuticAreaMatch bool      `json:"therapeuticAreaMatch,omitempty"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// NewSegment builds a pending segment. WordCount is fixed here and never recomputed.
func NewSegment(id string, order int, title string, segmentType SegmentType, content string) Segment {
	return Segment{
		ID:                id,
		Order:             order,
		Title:             title,
		Type:              segmentType,
		Content:           content,
		WordCount:         CountWords(content),
		TranslationStatus: StatusPending,
	}
}

// CountWords counts whitespace separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Clone returns a deep copy so callers can work on a snapshot without sharing slices.
func (s Segment) Clone() Segment {
	out := s
	if s.TMMatchScore != nil {
		score := *s.TMMatchScore
		out.TMMatchScore = &score
	}
	if s.TMLeverageData != nil {
		data := *s.TMLeverageData
		out.TMLeverageData = &data
	}
	if s.AIScores != nil {
		scores := *s.AIScores
		out.AIScores = &scores
	}
	if s.WordLevelBreakdown != nil {
		out.WordLevelBreakdown = make([]WordUnit, len(s.WordLevelBreakdown))
		for i, unit := range s.WordLevelBreakdown {
			if unit.MatchScore != nil {
				score := *unit.MatchScore
				unit.MatchScore = &score
			}
			out.WordLevelBreakdown[i] = unit
		}
	}
	if s.ReviewFlags != nil {
		out.ReviewFlags = append([]string(nil), s.ReviewFlags...)
	}
	return out
}

// TranslationResult is what the orchestrator produces for one segment.
type TranslationResult struct {
	SegmentID            string       `json:"segmentId"`
	TranslatedText       string       `json:"translatedText"`
	WordLevelBreakdown   []WordUnit   `json:"wordLevelBreakdown"`
	TMStats              LeverageData `json:"tmStats"`
	ReviewFlags          []string     `json:"reviewFlags"`
	AIScores             *AIScores    `json:"aiScores,omitempty"`
	TMMatchScore         *float64     `json:"tmMatchScore,omitempty"`
	TMSuggestion         string       `json:"tmSuggestion,omitempty"`
	TherapeuticAreaMatch bool         `json:"therapeuticAreaMatch,omitempty"`
}

// NeedsReview reports whether any review flag was raised.
func (r TranslationResult) NeedsReview() bool {
	return len(r.ReviewFlags) > 0
}
