package ports

import (
	"context"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

// ProgressFunc is called after every processed segment of a bulk run.
type ProgressFunc func(completed, total int)

// DocumentImporter is the inbound contract for turning source text into a segmented document.
type DocumentImporter interface {
	Import(ctx context.Context, req domain.ImportRequest) (*domain.DocumentRecord, error)
	Reimport(ctx context.Context, documentID, sourceText string) (*domain.DocumentRecord, error)
}

// DocumentReader is the inbound read model for documents and their derived views.
type DocumentReader interface {
	GetDocument(ctx context.Context, documentID string) (*domain.DocumentRecord, error)
	GetAnalytics(ctx context.Context, documentID string) (domain.LeverageAnalytics, error)
	GenerateDraft(ctx context.Context, documentID string) (*domain.DraftTranslation, error)
	ExportReview(ctx context.Context, documentID string) ([]byte, error)
}

// SegmentWorkflow is the inbound contract for single-segment actions.
type SegmentWorkflow interface {
	TranslateSegment(ctx context.Context, documentID, segmentID string) (*domain.TranslationResult, error)
	LookupTM(ctx context.Context, documentID, segmentID string) (*domain.Segment, error)
	MarkComplete(ctx context.Context, documentID, segmentID string) (*domain.Segment, error)
	Approve(ctx context.Context, documentID, segmentID string) (*domain.Segment, error)
	Reject(ctx context.Context, documentID, segmentID string) (*domain.Segment, error)
	Reopen(ctx context.Context, documentID, segmentID string) (*domain.Segment, error)
	EditTranslation(ctx context.Context, documentID, segmentID, text string) (*domain.Segment, error)
	AnalyzeSegment(ctx context.Context, documentID, segmentID string) (*domain.AnalysisResult, error)
}

// BulkTranslator runs or schedules translation of many segments.
type BulkTranslator interface {
	TranslateAll(ctx context.Context, documentID string, segmentIDs []string, onProgress ProgressFunc) (map[string]domain.TranslationResult, error)
	EnqueueBulk(ctx context.Context, job domain.BulkTranslationJob) error
}

// TMImporter adds approved translation pairs to translation memory.
type TMImporter interface {
	AddEntries(ctx context.Context, entries []domain.TMEntry) (int, error)
}
