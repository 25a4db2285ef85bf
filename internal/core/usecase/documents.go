package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/ports"
)

type DocumentServiceDeps struct {
	Documents ports.DocumentStore
	Segmenter ports.Segmenter
	TM        ports.TMSearcher
	Generator ports.TranslationGenerator
	Analyzer  ports.QualityAnalyzer
	Queue     ports.BulkJobQueue
	Exporter  ports.DraftExporter
	Review    ports.ReviewWorkbookBuilder
	Glossary  ports.GlossaryProvider
	Observer  ports.TranslationObserver
}

// DocumentService keeps one Engine per open document and routes inbound
// calls to it. Engines are reloaded when another process (the worker) has
// saved a newer version and no local save is pending.
type DocumentService struct {
	deps DocumentServiceDeps
	cfg  EngineConfig

	mu      sync.Mutex
	engines map[string]*Engine
}

func NewDocumentService(deps DocumentServiceDeps, cfg EngineConfig) *DocumentService {
	return &DocumentService{
		deps:    deps,
		cfg:     cfg,
		engines: make(map[string]*Engine),
	}
}

func (s *DocumentService) engine(ctx context.Context, documentID string) (*Engine, error) {
	rec, err := s.deps.Documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if eng, ok := s.engines[documentID]; ok {
		if eng.Dirty() || !rec.LastUpdated.After(eng.LastSaved()) {
			return eng, nil
		}
		eng.Close()
		slog.Info("document_reloaded", "document_id", documentID, "last_updated", rec.LastUpdated)
	}
	eng := s.newEngine(*rec)
	s.engines[documentID] = eng
	return eng, nil
}

func (s *DocumentService) newEngine(rec domain.DocumentRecord) *Engine {
	cfg := s.cfg
	if s.deps.Glossary != nil {
		terms := s.deps.Glossary.TermsFor(rec.Document.TargetLanguage)
		cfg.Glossary = append(append([]domain.GlossaryTerm(nil), cfg.Glossary...), terms...)
	}
	eng := NewEngine(rec, EngineDeps{
		TM:        s.deps.TM,
		Generator: s.deps.Generator,
		Analyzer:  s.deps.Analyzer,
		Documents: s.deps.Documents,
		Observer:  s.deps.Observer,
	}, cfg)
	eng.Prime(rec)
	return eng
}

func (s *DocumentService) GetDocument(ctx context.Context, documentID string) (*domain.DocumentRecord, error) {
	eng, err := s.engine(ctx, documentID)
	if err != nil {
		return nil, err
	}
	rec := eng.Record()
	rec.LastUpdated = eng.LastSaved()
	return &rec, nil
}

func (s *DocumentService) GetAnalytics(ctx context.Context, documentID string) (domain.LeverageAnalytics, error) {
	eng, err := s.engine(ctx, documentID)
	if err != nil {
		return domain.LeverageAnalytics{}, err
	}
	return eng.GetAnalytics(), nil
}

// GenerateDraft builds the draft and, when an exporter is configured, writes
// it out. Export failures are logged; the draft is still returned.
func (s *DocumentService) GenerateDraft(ctx context.Context, documentID string) (*domain.DraftTranslation, error) {
	eng, err := s.engine(ctx, documentID)
	if err != nil {
		return nil, err
	}
	draft, err := eng.GenerateDraft()
	if err != nil {
		return nil, err
	}
	if s.deps.Exporter != nil {
		location, err := s.deps.Exporter.ExportDraft(ctx, documentID, *draft)
		if err != nil {
			slog.Error("draft_export_failed", "document_id", documentID, "error", err)
		} else {
			slog.Info("draft_exported", "document_id", documentID, "location", location)
		}
	}
	return draft, nil
}

func (s *DocumentService) ExportReview(ctx context.Context, documentID string) ([]byte, error) {
	if s.deps.Review == nil {
		return nil, errors.New("review export is not configured")
	}
	eng, err := s.engine(ctx, documentID)
	if err != nil {
		return nil, err
	}
	body, err := s.deps.Review.Build(eng.Record())
	if err != nil {
		return nil, fmt.Errorf("build review workbook: %w", err)
	}
	return body, nil
}

func (s *DocumentService) TranslateSegment(ctx context.Context, documentID, segmentID string) (*domain.TranslationResult, error) {
	eng, err := s.engine(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return eng.TranslateSegment(ctx, segmentID)
}

func (s *DocumentService) LookupTM(ctx context.Context, documentID, segmentID string) (*domain.Segment, error) {
	return s.segmentAction(ctx, documentID, func(eng *Engine) (domain.Segment, error) {
		return eng.LookupTM(ctx, segmentID)
	})
}

func (s *DocumentService) MarkComplete(ctx context.Context, documentID, segmentID string) (*domain.Segment, error) {
	return s.segmentAction(ctx, documentID, func(eng *Engine) (domain.Segment, error) {
		return eng.MarkComplete(segmentID)
	})
}

func (s *DocumentService) Approve(ctx context.Context, documentID, segmentID string) (*domain.Segment, error) {
	return s.segmentAction(ctx, documentID, func(eng *Engine) (domain.Segment, error) {
		return eng.Approve(segmentID)
	})
}

func (s *DocumentService) Reject(ctx context.Context, documentID, segmentID string) (*domain.Segment, error) {
	return s.segmentAction(ctx, documentID, func(eng *Engine) (domain.Segment, error) {
		return eng.Reject(segmentID)
	})
}

func (s *DocumentService) Reopen(ctx context.Context, documentID, segmentID string) (*domain.Segment, error) {
	return s.segmentAction(ctx, documentID, func(eng *Engine) (domain.Segment, error) {
		return eng.Reopen(segmentID)
	})
}

func (s *DocumentService) EditTranslation(ctx context.Context, documentID, segmentID, text string) (*domain.Segment, error) {
	return s.segmentAction(ctx, documentID, func(eng *Engine) (domain.Segment, error) {
		return eng.EditTranslation(segmentID, text)
	})
}

func (s *DocumentService) AnalyzeSegment(ctx context.Context, documentID, segmentID string) (*domain.AnalysisResult, error) {
	eng, err := s.engine(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return eng.Analyze(ctx, segmentID)
}

func (s *DocumentService) segmentAction(ctx context.Context, documentID string, fn func(*Engine) (domain.Segment, error)) (*domain.Segment, error) {
	eng, err := s.engine(ctx, documentID)
	if err != nil {
		return nil, err
	}
	seg, err := fn(eng)
	if err != nil {
		return nil, err
	}
	return &seg, nil
}

func (s *DocumentService) TranslateAll(ctx context.Context, documentID string, segmentIDs []string, onProgress ports.ProgressFunc) (map[string]domain.TranslationResult, error) {
	eng, err := s.engine(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return eng.TranslateAll(ctx, segmentIDs, onProgress)
}

func (s *DocumentService) EnqueueBulk(ctx context.Context, job domain.BulkTranslationJob) error {
	if s.deps.Queue == nil {
		return errors.New("bulk queue is not configured")
	}
	if _, err := s.deps.Documents.GetByID(ctx, job.DocumentID); err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}
	// the worker reads the stored record, so local edits must land first
	if err := s.Flush(ctx, job.DocumentID); err != nil {
		return err
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = s.now()
	}
	if err := s.deps.Queue.PublishBulkTranslation(ctx, job); err != nil {
		return fmt.Errorf("publish bulk translation job: %w", err)
	}
	return nil
}

// Flush writes pending changes of one open document immediately.
func (s *DocumentService) Flush(ctx context.Context, documentID string) error {
	s.mu.Lock()
	eng, ok := s.engines[documentID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return eng.Flush(ctx)
}

// Close flushes every open document and releases its timers.
func (s *DocumentService) Close(ctx context.Context) error {
	s.mu.Lock()
	engines := make(map[string]*Engine, len(s.engines))
	for id, eng := range s.engines {
		engines[id] = eng
	}
	s.engines = make(map[string]*Engine)
	s.mu.Unlock()

	var errs []error
	for id, eng := range engines {
		if err := eng.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush document %s: %w", id, err))
		}
		eng.Close()
	}
	return errors.Join(errs...)
}

func (s *DocumentService) register(eng *Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.engines[eng.Document().ID]; ok {
		old.Close()
	}
	s.engines[eng.Document().ID] = eng
}

func (s *DocumentService) now() time.Time {
	return time.Now().UTC()
}
