package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/ports"
)

// AnalysisCache memoizes quality analysis per (segment, source, translation).
// Concurrent identical requests share one analyzer call; failures are not cached.
type AnalysisCache struct {
	analyzer ports.QualityAnalyzer
	observer ports.TranslationObserver

	mu      sync.RWMutex
	entries map[string]domain.AnalysisResult
	group   singleflight.Group
}

func NewAnalysisCache(analyzer ports.QualityAnalyzer, observer ports.TranslationObserver) *AnalysisCache {
	if observer == nil {
		observer = noopObserver{}
	}
	return &AnalysisCache{
		analyzer: analyzer,
		observer: observer,
		entries:  make(map[string]domain.AnalysisResult),
	}
}

func (c *AnalysisCache) GetOrCompute(ctx context.Context, segmentID, sourceText, translatedText string) (*domain.AnalysisResult, error) {
	key := analysisKey(segmentID, sourceText, translatedText)

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.observer.AnalysisCacheLookup(true)
		return copyAnalysis(cached), nil
	}
	c.observer.AnalysisCacheLookup(false)

	value, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		if c.analyzer == nil {
			return nil, domain.WrapError(domain.ErrAnalysisUnavailable, "analyze segment", fmt.Errorf("segment %s: no analyzer configured", segmentID))
		}
		assessment, err := c.analyzer.Analyze(ctx, sourceText, translatedText)
		if err != nil {
			return nil, domain.WrapError(domain.ErrAnalysisUnavailable, "analyze segment", fmt.Errorf("segment %s: %w", segmentID, err))
		}
		result := domain.AnalysisResult{
			SegmentID:      segmentID,
			AccuracyScore:  percent(assessment.AccuracyScore),
			QualityScore:   percent(assessment.QualityScore),
			CulturalScore:  percent(assessment.CulturalScore),
			AccuracyIssues: append([]string(nil), assessment.AccuracyIssues...),
		}

		c.mu.Lock()
		c.entries[key] = result
		c.mu.Unlock()
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return copyAnalysis(value.(domain.AnalysisResult)), nil
}

// Reset drops every entry, as when the segment set is replaced.
func (c *AnalysisCache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]domain.AnalysisResult)
	c.mu.Unlock()
}

func (c *AnalysisCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// analysisKey is length-prefixed so no two distinct triples collide.
func analysisKey(segmentID, sourceText, translatedText string) string {
	return strconv.Itoa(len(segmentID)) + ":" + segmentID +
		strconv.Itoa(len(sourceText)) + ":" + sourceText +
		strconv.Itoa(len(translatedText)) + ":" + translatedText
}

func copyAnalysis(in domain.AnalysisResult) *domain.AnalysisResult {
	out := in
	out.AccuracyIssues = append([]string(nil), in.AccuracyIssues...)
	return &out
}

func percent(v float64) float64 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
