package config

import (
	"testing"
	"time"
)

func TestLoadIncludesEngineDefaults(t *testing.T) {
	t.Setenv("SEGMENT_MAX_WORDS", "")
	t.Setenv("RATE_PER_WORD", "")
	t.Setenv("BULK_CONCURRENCY", "")
	t.Setenv("AUTOSAVE_DEBOUNCE", "")
	t.Setenv("SEMANTIC_TM_ENABLED", "")

	cfg := Load()
	if cfg.SegmentMaxWords != 120 {
		t.Fatalf("expected default segment max words 120, got %d", cfg.SegmentMaxWords)
	}
	if cfg.RatePerWord != 0.12 {
		t.Fatalf("expected default rate per word 0.12, got %v", cfg.RatePerWord)
	}
	if cfg.BulkConcurrency != 4 {
		t.Fatalf("expected default bulk concurrency 4, got %d", cfg.BulkConcurrency)
	}
	if cfg.AutosaveDebounce != 1500*time.Millisecond {
		t.Fatalf("expected default autosave debounce 1.5s, got %v", cfg.AutosaveDebounce)
	}
	if !cfg.SemanticTMEnabled {
		t.Fatalf("expected semantic TM enabled by default")
	}
}

func TestLoadParsesEngineOverrides(t *testing.T) {
	t.Setenv("SEGMENT_MAX_WORDS", "80")
	t.Setenv("RATE_PER_WORD", "0.2")
	t.Setenv("BULK_CONCURRENCY", "8")
	t.Setenv("AUTOSAVE_DEBOUNCE", "2s")
	t.Setenv("SEMANTIC_TM_ENABLED", "false")
	t.Setenv("API_QUEUE_WAIT", "500")

	cfg := Load()
	if cfg.SegmentMaxWords != 80 {
		t.Fatalf("expected segment max words 80, got %d", cfg.SegmentMaxWords)
	}
	if cfg.RatePerWord != 0.2 {
		t.Fatalf("expected rate per word 0.2, got %v", cfg.RatePerWord)
	}
	if cfg.BulkConcurrency != 8 {
		t.Fatalf("expected bulk concurrency 8, got %d", cfg.BulkConcurrency)
	}
	if cfg.AutosaveDebounce != 2*time.Second {
		t.Fatalf("expected autosave debounce 2s, got %v", cfg.AutosaveDebounce)
	}
	if cfg.SemanticTMEnabled {
		t.Fatalf("expected semantic TM disabled")
	}
	if cfg.APIQueueWait != 500*time.Millisecond {
		t.Fatalf("expected plain milliseconds to parse, got %v", cfg.APIQueueWait)
	}
}

func TestLoadFallsBackOnMalformedValues(t *testing.T) {
	t.Setenv("BULK_CONCURRENCY", "many")
	t.Setenv("RATE_PER_WORD", "cheap")
	t.Setenv("AUTOSAVE_DEBOUNCE", "soon")

	cfg := Load()
	if cfg.BulkConcurrency != 4 || cfg.RatePerWord != 0.12 || cfg.AutosaveDebounce != 1500*time.Millisecond {
		t.Fatalf("expected fallbacks, got %d %v %v", cfg.BulkConcurrency, cfg.RatePerWord, cfg.AutosaveDebounce)
	}
}
