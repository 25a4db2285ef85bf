package usecase

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/ports"
)

const defaultBulkConcurrency = 4

type segmentTranslator interface {
	Translate(ctx context.Context, seg domain.Segment) (domain.TranslationResult, error)
}

// ApplyFunc commits one successful result. A non-nil error turns the segment
// into a failure for the run.
type ApplyFunc func(seg domain.Segment, result domain.TranslationResult) error

// BulkCoordinator translates many segments with bounded concurrency. A failing
// segment never aborts the run.
type BulkCoordinator struct {
	translator  segmentTranslator
	concurrency int
	observer    ports.TranslationObserver
}

func NewBulkCoordinator(translator segmentTranslator, concurrency int, observer ports.TranslationObserver) *BulkCoordinator {
	if concurrency <= 0 {
		concurrency = defaultBulkConcurrency
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &BulkCoordinator{
		translator:  translator,
		concurrency: concurrency,
		observer:    observer,
	}
}

// Run calls onProgress exactly once per segment, in increasing order, and
// once with (0, 0) for an empty input. Failed segments are absent from the
// returned map. Cancelling ctx stops new launches; unstarted segments count
// as failures.
func (c *BulkCoordinator) Run(
	ctx context.Context,
	segments []domain.Segment,
	onProgress ports.ProgressFunc,
	apply ApplyFunc,
) map[string]domain.TranslationResult {
	total := len(segments)
	results := make(map[string]domain.TranslationResult, total)
	if onProgress == nil {
		onProgress = func(int, int) {}
	}
	if total == 0 {
		onProgress(0, 0)
		c.observer.BulkProgress(0, 0)
		return results
	}

	var (
		mu   sync.Mutex
		done int
	)
	record := func(seg domain.Segment, result *domain.TranslationResult) {
		mu.Lock()
		defer mu.Unlock()
		if result != nil {
			results[seg.ID] = *result
		}
		done++
		onProgress(done, total)
		c.observer.BulkProgress(done, total)
	}

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, seg := range segments {
		if ctx.Err() != nil {
			slog.Warn("bulk_segment_skipped", "segment_id", seg.ID, "error", ctx.Err())
			record(seg, nil)
			continue
		}
		g.Go(func() error {
			result, err := c.translator.Translate(ctx, seg)
			if err == nil && apply != nil {
				err = apply(seg, result)
			}
			if err != nil {
				slog.Error("bulk_segment_failed", "segment_id", seg.ID, "error", err)
				record(seg, nil)
				return nil
			}
			record(seg, &result)
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("bulk_translation_finished",
		"segments", total,
		"succeeded", len(results),
		"failed", total-len(results),
	)
	return results
}
