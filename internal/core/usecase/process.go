package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/ports"
)

type bulkRunner interface {
	ports.BulkTranslator
	Flush(ctx context.Context, documentID string) error
}

// ProcessBulkJobUseCase runs a queued bulk translation job and persists the
// outcome before the job is acknowledged.
type ProcessBulkJobUseCase struct {
	runner bulkRunner
}

func NewProcessBulkJobUseCase(runner bulkRunner) *ProcessBulkJobUseCase {
	return &ProcessBulkJobUseCase{runner: runner}
}

func (uc *ProcessBulkJobUseCase) Process(ctx context.Context, job domain.BulkTranslationJob) error {
	if strings.TrimSpace(job.DocumentID) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "process bulk job", errors.New("document id is required"))
	}

	logger := slog.With("document_id", job.DocumentID, "request_id", job.RequestID)
	logger.Info("bulk_job_started", "segments_requested", len(job.SegmentIDs))

	results, err := uc.runner.TranslateAll(ctx, job.DocumentID, job.SegmentIDs, progressLogger(logger))
	if err != nil {
		return fmt.Errorf("translate document: %w", err)
	}

	if err := uc.runner.Flush(ctx, job.DocumentID); err != nil {
		return fmt.Errorf("persist bulk results: %w", err)
	}

	logger.Info("bulk_job_finished", "translated", len(results))
	return nil
}

// progressLogger logs roughly every tenth of the run plus the last segment.
func progressLogger(logger *slog.Logger) ports.ProgressFunc {
	return func(completed, total int) {
		step := total / 10
		if step == 0 {
			step = 1
		}
		if completed == total || completed%step == 0 {
			logger.Info("bulk_job_progress", "completed", completed, "total", total)
		}
	}
}
