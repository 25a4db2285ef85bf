package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/leverage"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/ports"
)

const reviewFlagTMUnavailable = "translation memory unavailable: segment translated without TM leverage"

type TranslatorOptions struct {
	SourceLanguage string
	TargetLanguage string
	Domain         string
	Glossary       []domain.GlossaryTerm
}

// SegmentTranslator turns one segment into a TranslationResult: TM lookup,
// word classification, AI generation for the unmatched spans, reassembly.
type SegmentTranslator struct {
	tm        ports.TMSearcher
	generator ports.TranslationGenerator
	observer  ports.TranslationObserver
	opts      TranslatorOptions
}

func NewSegmentTranslator(
	tm ports.TMSearcher,
	generator ports.TranslationGenerator,
	observer ports.TranslationObserver,
	opts TranslatorOptions,
) *SegmentTranslator {
	if observer == nil {
		observer = noopObserver{}
	}
	return &SegmentTranslator{
		tm:        tm,
		generator: generator,
		observer:  observer,
		opts:      opts,
	}
}

// Translate never mutates seg. TM failures degrade to new-only output with a
// review flag; AI failures return ErrTranslationUnavailable.
func (t *SegmentTranslator) Translate(ctx context.Context, seg domain.Segment) (domain.TranslationResult, error) {
	start := time.Now()
	result, err := t.translate(ctx, seg)
	if err != nil {
		reason := "error"
		switch {
		case domain.IsKind(err, domain.ErrTranslationUnavailable):
			reason = "translation_unavailable"
		case domain.IsKind(err, domain.ErrInvalidInput):
			reason = "invalid_input"
		}
		t.observer.SegmentFailed(reason, time.Since(start))
		return domain.TranslationResult{}, err
	}
	t.observer.SegmentTranslated(result.TMStats, result.NeedsReview(), time.Since(start))
	slog.Debug("segment_translated",
		"segment_id", seg.ID,
		"exact_words", result.TMStats.ExactMatchWords,
		"fuzzy_words", result.TMStats.FuzzyMatchWords,
		"new_words", result.TMStats.NewWords,
		"needs_review", result.NeedsReview(),
	)
	return result, nil
}

func (t *SegmentTranslator) translate(ctx context.Context, seg domain.Segment) (domain.TranslationResult, error) {
	if seg.WordCount == 0 || strings.TrimSpace(seg.Content) == "" {
		return domain.TranslationResult{}, domain.WrapError(domain.ErrInvalidInput, "translate segment", fmt.Errorf("segment %s has no source text", seg.ID))
	}

	flags := make([]string, 0, 2)
	matches, err := t.findMatches(ctx, seg)
	if err != nil {
		slog.Warn("tm_lookup_degraded", "segment_id", seg.ID, "error", err)
		t.observer.TMDegraded()
		flags = append(flags, reviewFlagTMUnavailable)
		matches = nil
	}

	alignment := leverage.Align(seg.Content, matches)
	tc := t.translationContext(seg, alignment)

	pieces := make([]string, 0, len(alignment.Spans))
	breakdown := make([]domain.WordUnit, 0, len(alignment.Spans))
	scores := make([]domain.AIScores, 0, len(alignment.Spans))
	areaMatch := false

	for _, span := range alignment.Spans {
		if span.Match != nil {
			score := span.Match.MatchScore
			pieces = append(pieces, span.Match.TargetText)
			breakdown = append(breakdown, domain.WordUnit{
				Word:         span.Match.TargetText,
				Type:         span.Type,
				MatchScore:   &score,
				TMSourceText: span.Match.SourceText,
				SourceWords:  span.Words(),
			})
			if span.Type == domain.MatchFuzzy {
				flags = append(flags, fmt.Sprintf("fuzzy TM match (%.0f%%) used for %q", score, span.Text))
			}
			if leverage.SameDomain(span.Match.Domain, t.opts.Domain) {
				areaMatch = true
			}
			continue
		}

		generated, err := t.generate(ctx, seg, span.Text, tc)
		if err != nil {
			return domain.TranslationResult{}, err
		}
		pieces = append(pieces, generated.TranslatedText)
		breakdown = append(breakdown, domain.WordUnit{
			Word:        generated.TranslatedText,
			Type:        domain.MatchNew,
			SourceWords: span.Words(),
		})
		if generated.QualityScores != nil {
			scores = append(scores, *generated.QualityScores)
		}
	}

	return domain.TranslationResult{
		SegmentID:            seg.ID,
		TranslatedText:       strings.Join(pieces, " "),
		WordLevelBreakdown:   breakdown,
		TMStats:              alignment.Stats,
		ReviewFlags:          flags,
		AIScores:             averageScores(scores),
		TMMatchScore:         alignment.BestScore,
		TMSuggestion:         alignment.BestSuggestion,
		TherapeuticAreaMatch: areaMatch,
	}, nil
}

func (t *SegmentTranslator) findMatches(ctx context.Context, seg domain.Segment) ([]domain.TMMatch, error) {
	if t.tm == nil {
		return nil, domain.WrapError(domain.ErrTMUnavailable, "find tm matches", errors.New("no tm backend configured"))
	}
	matches, err := t.tm.FindTMMatches(ctx, domain.TMQuery{
		Text:           seg.Content,
		SegmentType:    seg.Type,
		SourceLanguage: t.opts.SourceLanguage,
		TargetLanguage: t.opts.TargetLanguage,
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrTMUnavailable, "find tm matches", err)
	}
	return matches, nil
}

// Lookup runs only the raw TM query and returns the best segment-level candidate.
func (t *SegmentTranslator) Lookup(ctx context.Context, seg domain.Segment) (*float64, string, error) {
	matches, err := t.findMatches(ctx, seg)
	if err != nil {
		return nil, "", err
	}
	alignment := leverage.Align(seg.Content, matches)
	return alignment.BestScore, alignment.BestSuggestion, nil
}

func (t *SegmentTranslator) generate(ctx context.Context, seg domain.Segment, text string, tc domain.TranslationContext) (domain.GeneratedTranslation, error) {
	generated, err := t.generator.GenerateTranslation(ctx, text, tc)
	if err != nil {
		return domain.GeneratedTranslation{}, domain.WrapError(domain.ErrTranslationUnavailable, "generate translation", fmt.Errorf("segment %s: %w", seg.ID, err))
	}
	generated.TranslatedText = strings.TrimSpace(generated.TranslatedText)
	if generated.TranslatedText == "" {
		return domain.GeneratedTranslation{}, domain.WrapError(domain.ErrTranslationUnavailable, "generate translation", fmt.Errorf("segment %s: empty output", seg.ID))
	}
	return generated, nil
}

func (t *SegmentTranslator) translationContext(seg domain.Segment, alignment leverage.Alignment) domain.TranslationContext {
	spans := make([]domain.TMSpan, 0, len(alignment.Spans))
	for _, span := range alignment.Spans {
		if span.Match == nil {
			continue
		}
		spans = append(spans, domain.TMSpan{
			SourceText: span.Text,
			TargetText: span.Match.TargetText,
			Type:       span.Type,
			MatchScore: span.Match.MatchScore,
		})
	}
	return domain.TranslationContext{
		TMSpans:        spans,
		TargetLanguage: t.opts.TargetLanguage,
		Domain:         t.opts.Domain,
		SegmentType:    seg.Type,
		SegmentText:    seg.Content,
		Glossary:       t.opts.Glossary,
	}
}

func averageScores(scores []domain.AIScores) *domain.AIScores {
	if len(scores) == 0 {
		return nil
	}
	var sum domain.AIScores
	for _, s := range scores {
		sum.Accuracy += unit(s.Accuracy)
		sum.BrandConsistency += unit(s.BrandConsistency)
		sum.CulturalFit += unit(s.CulturalFit)
	}
	n := float64(len(scores))
	return &domain.AIScores{
		Accuracy:         sum.Accuracy / n,
		BrandConsistency: sum.BrandConsistency / n,
		CulturalFit:      sum.CulturalFit / n,
	}
}

func unit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
