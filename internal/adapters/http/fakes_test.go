package httpadapter

import (
	"context"
	"net/http"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/config"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/ports"
)

type docsFake struct {
	err      error
	record   domain.DocumentRecord
	results  map[string]domain.TranslationResult
	enqueued []domain.BulkTranslationJob
	imported []domain.ImportRequest
	edited   string
}

func (f *docsFake) Import(_ context.Context, req domain.ImportRequest) (*domain.DocumentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.imported = append(f.imported, req)
	rec := f.record
	return &rec, nil
}

func (f *docsFake) Reimport(context.Context, string, string) (*domain.DocumentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	rec := f.record
	return &rec, nil
}

func (f *docsFake) GetDocument(_ context.Context, id string) (*domain.DocumentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id != f.record.Document.ID {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", context.Canceled)
	}
	rec := f.record
	return &rec, nil
}

func (f *docsFake) GetAnalytics(context.Context, string) (domain.LeverageAnalytics, error) {
	return f.record.LeverageAnalytics, f.err
}

func (f *docsFake) GenerateDraft(context.Context, string) (*domain.DraftTranslation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.DraftTranslation{DraftText: "Hola"}, nil
}

func (f *docsFake) ExportReview(context.Context, string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("PK"), nil
}

func (f *docsFake) TranslateSegment(_ context.Context, _, segmentID string) (*domain.TranslationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.TranslationResult{SegmentID: segmentID, TranslatedText: "Hola"}, nil
}

func (f *docsFake) segment(segmentID string) (*domain.Segment, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, seg := range f.record.Segments {
		if seg.ID == segmentID {
			return &seg, nil
		}
	}
	return nil, domain.WrapError(domain.ErrSegmentNotFound, "segment", context.Canceled)
}

func (f *docsFake) LookupTM(_ context.Context, _, id string) (*domain.Segment, error) {
	return f.segment(id)
}

func (f *docsFake) MarkComplete(_ context.Context, _, id string) (*domain.Segment, error) {
	return f.segment(id)
}

func (f *docsFake) Approve(_ context.Context, _, id string) (*domain.Segment, error) {
	return f.segment(id)
}

func (f *docsFake) Reject(_ context.Context, _, id string) (*domain.Segment, error) {
	return f.segment(id)
}

func (f *docsFake) Reopen(_ context.Context, _, id string) (*domain.Segment, error) {
	return f.segment(id)
}

func (f *docsFake) EditTranslation(_ context.Context, _, id, text string) (*domain.Segment, error) {
	f.edited = text
	return f.segment(id)
}

func (f *docsFake) AnalyzeSegment(_ context.Context, _, id string) (*domain.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AnalysisResult{SegmentID: id}, nil
}

func (f *docsFake) TranslateAll(_ context.Context, _ string, _ []string, onProgress ports.ProgressFunc) (map[string]domain.TranslationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	total := len(f.record.Segments)
	for i := 1; i <= total; i++ {
		onProgress(i, total)
	}
	return f.results, nil
}

func (f *docsFake) EnqueueBulk(_ context.Context, job domain.BulkTranslationJob) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, job)
	return nil
}

type tmFake struct {
	entries []domain.TMEntry
	err     error
}

func (f *tmFake) AddEntries(_ context.Context, entries []domain.TMEntry) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.entries = append(f.entries, entries...)
	return len(entries), nil
}

func sampleRecord() domain.DocumentRecord {
	return domain.DocumentRecord{
		Document: domain.Document{ID: "doc-1", Title: "Launch email", TargetLanguage: "es"},
		Segments: []domain.Segment{
			domain.NewSegment("seg-001", 1, "Greeting", domain.SegmentGreeting, "Dear Doctor,"),
			domain.NewSegment("seg-002", 2, "Body 1", domain.SegmentBody, "Take one tablet daily."),
		},
	}
}

func newTestHandler(cfg config.Config) http.Handler {
	docs := &docsFake{record: sampleRecord()}
	return NewRouter(cfg, docs, &tmFake{}, nil).Handler()
}
