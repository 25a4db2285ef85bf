package segment

import (
	"strings"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

// Transition rules. Every function either mutates seg and returns nil or
// returns an error and leaves seg untouched.

func invalid(seg *domain.Segment, action, reason string) error {
	return &domain.TransitionError{
		SegmentID: seg.ID,
		From:      seg.TranslationStatus,
		Action:    action,
		Reason:    reason,
	}
}

func applyTranslation(seg *domain.Segment, result domain.TranslationResult) error {
	if seg.TranslationStatus == domain.StatusCompleted {
		return invalid(seg, "apply translation", "reopen the segment first")
	}
	if strings.TrimSpace(result.TranslatedText) == "" {
		return invalid(seg, "apply translation", "empty translated text")
	}

	seg.TranslatedText = result.TranslatedText
	seg.WordLevelBreakdown = result.WordLevelBreakdown
	stats := result.TMStats
	seg.TMLeverageData = &stats
	seg.AIScores = result.AIScores
	seg.TMMatchScore = result.TMMatchScore
	seg.TMSuggestion = result.TMSuggestion
	seg.TherapeuticAreaMatch = result.TherapeuticAreaMatch
	seg.ReviewFlags = append([]string(nil), result.ReviewFlags...)
	seg.NeedsReview = len(seg.ReviewFlags) > 0
	seg.EditRequired = false
	seg.TranslationStatus = domain.StatusInProgress
	return nil
}

func applyTMLookup(seg *domain.Segment, score *float64, suggestion string) error {
	if seg.TranslationStatus == domain.StatusCompleted {
		return invalid(seg, "apply tm lookup", "reopen the segment first")
	}
	seg.TMMatchScore = score
	seg.TMSuggestion = suggestion
	seg.TranslationStatus = domain.StatusInProgress
	return nil
}

func markComplete(seg *domain.Segment) error {
	switch {
	case seg.TranslationStatus != domain.StatusInProgress:
		return invalid(seg, "mark complete", "")
	case strings.TrimSpace(seg.TranslatedText) == "":
		return invalid(seg, "mark complete", "translated text is empty")
	case seg.NeedsReview:
		return invalid(seg, "mark complete", "review pending, approve or reject first")
	}
	seg.TranslationStatus = domain.StatusCompleted
	return nil
}

func approve(seg *domain.Segment) error {
	if !seg.NeedsReview {
		return invalid(seg, "approve", "segment is not flagged for review")
	}
	if seg.EditRequired {
		return invalid(seg, "approve", "segment was rejected and needs a replacement edit")
	}
	seg.NeedsReview = false
	seg.ReviewFlags = nil
	return nil
}

func reject(seg *domain.Segment) error {
	if !seg.NeedsReview {
		return invalid(seg, "reject", "segment is not flagged for review")
	}
	seg.EditRequired = true
	if seg.TranslationStatus == domain.StatusCompleted {
		seg.TranslationStatus = domain.StatusInProgress
	}
	return nil
}

func editTranslation(seg *domain.Segment, text string) error {
	if seg.TranslationStatus == domain.StatusCompleted {
		return invalid(seg, "edit translation", "reopen the segment first")
	}
	seg.TranslatedText = text
	if seg.EditRequired {
		seg.EditRequired = false
		seg.NeedsReview = false
		seg.ReviewFlags = nil
	}
	seg.TranslationStatus = domain.StatusInProgress
	return nil
}

func reopen(seg *domain.Segment) error {
	if seg.TranslationStatus != domain.StatusCompleted {
		return invalid(seg, "reopen", "")
	}
	seg.TranslationStatus = domain.StatusInProgress
	return nil
}
