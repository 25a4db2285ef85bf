package usecase

import (
	"strings"
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/leverage"
)

const draftSeparator = "\n\n"

// BuildDraft concatenates translated text in document order. Every segment
// must be completed; otherwise the error lists the ones that are not.
func BuildDraft(doc domain.Document, segments []domain.Segment, ratePerWord float64) (*domain.DraftTranslation, error) {
	var incomplete []string
	for _, seg := range segments {
		if seg.TranslationStatus != domain.StatusCompleted {
			incomplete = append(incomplete, seg.ID)
		}
	}
	if len(incomplete) > 0 {
		return nil, &domain.IncompleteSegmentsError{SegmentIDs: incomplete}
	}

	texts := make([]string, 0, len(segments))
	words := 0
	reviewed := 0
	var generatedAt time.Time
	for _, seg := range segments {
		texts = append(texts, seg.TranslatedText)
		words += seg.WordCount
		// anything short of a full exact match went through a reviewer
		if seg.TMLeverageData == nil || seg.TMLeverageData.FuzzyMatchWords+seg.TMLeverageData.NewWords > 0 {
			reviewed++
		}
		if seg.UpdatedAt.After(generatedAt) {
			generatedAt = seg.UpdatedAt
		}
	}

	analytics := leverage.Aggregate(segments, ratePerWord)
	return &domain.DraftTranslation{
		DraftText: strings.Join(texts, draftSeparator),
		Metadata: domain.DraftMetadata{
			TotalSegments:  len(segments),
			TotalWords:     words,
			TargetLanguage: doc.TargetLanguage,
			LeverageRate:   analytics.LeverageRate,
			WordLeverage:   leverage.WordLeverage(segments),
			CostSavings:    analytics.TotalCostSavings,
			ReviewedCount:  reviewed,
			GeneratedAt:    generatedAt,
		},
	}, nil
}
