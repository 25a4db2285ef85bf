package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

func TestAnalysisCacheCallsAnalyzerOncePerInput(t *testing.T) {
	analyzer := &analyzerFake{result: domain.QualityAssessment{AccuracyScore: 91, QualityScore: 88, CulturalScore: 120}}
	observer := &observerFake{}
	cache := NewAnalysisCache(analyzer, observer)

	first, err := cache.GetOrCompute(context.Background(), "seg-001", "source", "cible")
	if err != nil {
		t.Fatalf("GetOrCompute() error: %v", err)
	}
	second, err := cache.GetOrCompute(context.Background(), "seg-001", "source", "cible")
	if err != nil {
		t.Fatalf("GetOrCompute() error: %v", err)
	}

	if analyzer.callCount() != 1 {
		t.Fatalf("expected one analyzer call, got %d", analyzer.callCount())
	}
	if first.AccuracyScore != second.AccuracyScore || second.QualityScore != 88 {
		t.Fatalf("cached result differs: %+v vs %+v", first, second)
	}
	if second.CulturalScore != 100 {
		t.Fatalf("expected cultural score clamped to 100, got %v", second.CulturalScore)
	}
	if observer.cacheHits != 1 || observer.cacheMiss != 1 {
		t.Fatalf("unexpected cache events hits=%d misses=%d", observer.cacheHits, observer.cacheMiss)
	}
}

func TestAnalysisCacheSharesConcurrentCalls(t *testing.T) {
	analyzer := &analyzerFake{delay: 30 * time.Millisecond, result: domain.QualityAssessment{AccuracyScore: 90}}
	cache := NewAnalysisCache(analyzer, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.GetOrCompute(context.Background(), "seg-001", "source", "cible"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("GetOrCompute() error: %v", err)
	}
	if analyzer.callCount() != 1 {
		t.Fatalf("expected one analyzer call for concurrent identical input, got %d", analyzer.callCount())
	}
}

func TestAnalysisCacheKeyIncludesTranslatedText(t *testing.T) {
	analyzer := &analyzerFake{result: domain.QualityAssessment{AccuracyScore: 90}}
	cache := NewAnalysisCache(analyzer, nil)

	if _, err := cache.GetOrCompute(context.Background(), "seg-001", "source", "v1"); err != nil {
		t.Fatalf("GetOrCompute() error: %v", err)
	}
	if _, err := cache.GetOrCompute(context.Background(), "seg-001", "source", "v2"); err != nil {
		t.Fatalf("GetOrCompute() error: %v", err)
	}
	if _, err := cache.GetOrCompute(context.Background(), "seg-002", "source", "v2"); err != nil {
		t.Fatalf("GetOrCompute() error: %v", err)
	}
	if analyzer.callCount() != 3 {
		t.Fatalf("expected 3 analyzer calls, got %d", analyzer.callCount())
	}
	if cache.Len() != 3 {
		t.Fatalf("expected 3 cache entries, got %d", cache.Len())
	}
}

func TestAnalysisCacheDoesNotCacheFailures(t *testing.T) {
	analyzer := &analyzerFake{err: errors.New("model offline")}
	cache := NewAnalysisCache(analyzer, nil)

	result, err := cache.GetOrCompute(context.Background(), "seg-001", "source", "cible")
	if !domain.IsKind(err, domain.ErrAnalysisUnavailable) {
		t.Fatalf("expected ErrAnalysisUnavailable, got %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result on failure, got %+v", result)
	}

	analyzer.err = nil
	analyzer.result = domain.QualityAssessment{AccuracyScore: 75}
	result, err = cache.GetOrCompute(context.Background(), "seg-001", "source", "cible")
	if err != nil {
		t.Fatalf("GetOrCompute() after recovery error: %v", err)
	}
	if result.AccuracyScore != 75 || analyzer.callCount() != 2 {
		t.Fatalf("expected fresh call after failure, result=%+v calls=%d", result, analyzer.callCount())
	}
}

func TestAnalysisCacheResetDropsEntries(t *testing.T) {
	analyzer := &analyzerFake{result: domain.QualityAssessment{AccuracyScore: 90}}
	cache := NewAnalysisCache(analyzer, nil)

	_, _ = cache.GetOrCompute(context.Background(), "seg-001", "source", "cible")
	cache.Reset()
	_, _ = cache.GetOrCompute(context.Background(), "seg-001", "source", "cible")

	if analyzer.callCount() != 2 {
		t.Fatalf("expected analyzer call after reset, got %d", analyzer.callCount())
	}
}

func TestAnalysisKeyDoesNotCollide(t *testing.T) {
	if analysisKey("a", "bc", "d") == analysisKey("ab", "c", "d") {
		t.Fatal("distinct triples produced the same key")
	}
}
