package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/leverage"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/ports"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/segment"
)

type EngineDeps struct {
	TM        ports.TMSearcher
	Generator ports.TranslationGenerator
	Analyzer  ports.QualityAnalyzer
	Documents ports.DocumentStore
	Observer  ports.TranslationObserver
}

type EngineConfig struct {
	RatePerWord     float64
	BulkConcurrency int
	AutosaveDelay   time.Duration
	Glossary        []domain.GlossaryTerm
}

// Engine owns the segment set of one document together with its analysis
// cache and autosave controller. Every successful mutation schedules a save.
type Engine struct {
	doc        domain.Document
	store      *segment.Store
	translator *SegmentTranslator
	bulk       *BulkCoordinator
	cache      *AnalysisCache
	autosave   *Autosaver
	cfg        EngineConfig
}

func NewEngine(record domain.DocumentRecord, deps EngineDeps, cfg EngineConfig) *Engine {
	translator := NewSegmentTranslator(deps.TM, deps.Generator, deps.Observer, TranslatorOptions{
		SourceLanguage: record.Document.SourceLanguage,
		TargetLanguage: record.Document.TargetLanguage,
		Domain:         record.Document.Domain,
		Glossary:       cfg.Glossary,
	})
	e := &Engine{
		doc:        record.Document,
		store:      segment.NewStore(record.Segments),
		translator: translator,
		bulk:       NewBulkCoordinator(translator, cfg.BulkConcurrency, deps.Observer),
		cache:      NewAnalysisCache(deps.Analyzer, deps.Observer),
		cfg:        cfg,
	}
	e.autosave = NewAutosaver(deps.Documents, cfg.AutosaveDelay, e.Record, deps.Observer)
	return e
}

func (e *Engine) Document() domain.Document {
	return e.doc
}

func (e *Engine) Segments() []domain.Segment {
	return e.store.Snapshot()
}

func (e *Engine) Segment(id string) (domain.Segment, error) {
	return e.store.Get(id)
}

// Record is the current persisted view of the document.
func (e *Engine) Record() domain.DocumentRecord {
	segments := e.store.Snapshot()
	rec := domain.DocumentRecord{
		Document:          e.doc,
		Segments:          segments,
		LeverageAnalytics: leverage.Aggregate(segments, e.cfg.RatePerWord),
	}
	if draft, err := BuildDraft(e.doc, segments, e.cfg.RatePerWord); err == nil {
		rec.DraftTranslation = draft
	}
	return rec
}

func (e *Engine) TranslateSegment(ctx context.Context, id string) (*domain.TranslationResult, error) {
	seg, rev, err := e.store.GetRevision(id)
	if err != nil {
		return nil, err
	}
	if seg.TranslationStatus == domain.StatusCompleted {
		return nil, &domain.TransitionError{SegmentID: id, From: seg.TranslationStatus, Action: "translate", Reason: "reopen the segment first"}
	}
	result, err := e.translator.Translate(ctx, seg)
	if err != nil {
		return nil, err
	}
	if err := e.store.ApplyTranslationIf(id, rev, result); err != nil {
		return nil, err
	}
	e.changed()
	return &result, nil
}

// TranslateAll translates the given segments, or every segment when ids is
// empty. Completed segments are skipped. A segment changed by another call
// while its translation was running counts as failed.
func (e *Engine) TranslateAll(ctx context.Context, ids []string, onProgress ports.ProgressFunc) (map[string]domain.TranslationResult, error) {
	work, revs, err := e.bulkWork(ids)
	if err != nil {
		return nil, err
	}
	results := e.bulk.Run(ctx, work, onProgress, func(seg domain.Segment, result domain.TranslationResult) error {
		return e.store.ApplyTranslationIf(seg.ID, revs[seg.ID], result)
	})
	if len(results) > 0 {
		e.changed()
	}
	return results, nil
}

func (e *Engine) bulkWork(ids []string) ([]domain.Segment, map[string]uint64, error) {
	segments, revs := e.store.SnapshotRevisions()
	if len(ids) > 0 {
		byID := make(map[string]domain.Segment, len(segments))
		for _, seg := range segments {
			byID[seg.ID] = seg
		}
		selected := make([]domain.Segment, 0, len(ids))
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			seg, ok := byID[id]
			if !ok {
				return nil, nil, domain.WrapError(domain.ErrSegmentNotFound, "translate all", fmt.Errorf("id=%s", id))
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			selected = append(selected, seg)
		}
		segments = selected
	}

	work := make([]domain.Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.TranslationStatus != domain.StatusCompleted {
			work = append(work, seg)
		}
	}
	return work, revs, nil
}

func (e *Engine) LookupTM(ctx context.Context, id string) (domain.Segment, error) {
	seg, rev, err := e.store.GetRevision(id)
	if err != nil {
		return domain.Segment{}, err
	}
	if seg.TranslationStatus == domain.StatusCompleted {
		return domain.Segment{}, &domain.TransitionError{SegmentID: id, From: seg.TranslationStatus, Action: "look up TM", Reason: "reopen the segment first"}
	}
	score, suggestion, err := e.translator.Lookup(ctx, seg)
	if err != nil {
		return domain.Segment{}, err
	}
	return e.mutate(id, func() error { return e.store.ApplyTMLookupIf(id, rev, score, suggestion) })
}

func (e *Engine) MarkComplete(id string) (domain.Segment, error) {
	return e.mutate(id, func() error { return e.store.MarkComplete(id) })
}

func (e *Engine) Approve(id string) (domain.Segment, error) {
	return e.mutate(id, func() error { return e.store.Approve(id) })
}

func (e *Engine) Reject(id string) (domain.Segment, error) {
	return e.mutate(id, func() error { return e.store.Reject(id) })
}

func (e *Engine) Reopen(id string) (domain.Segment, error) {
	return e.mutate(id, func() error { return e.store.Reopen(id) })
}

func (e *Engine) EditTranslation(id, text string) (domain.Segment, error) {
	return e.mutate(id, func() error { return e.store.EditTranslation(id, text) })
}

func (e *Engine) mutate(id string, fn func() error) (domain.Segment, error) {
	if err := fn(); err != nil {
		return domain.Segment{}, err
	}
	e.changed()
	return e.store.Get(id)
}

// Analyze returns quality scores for the segment's current translation. Scores
// are cached per text pair; breakdown and leverage reflect the live segment.
func (e *Engine) Analyze(ctx context.Context, id string) (*domain.AnalysisResult, error) {
	seg, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}
	if seg.TranslatedText == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze segment", fmt.Errorf("segment %s has no translation", id))
	}
	result, err := e.cache.GetOrCompute(ctx, seg.ID, seg.Content, seg.TranslatedText)
	if err != nil {
		return nil, err
	}
	result.WordBreakdown = seg.WordLevelBreakdown
	result.TMLeverage = seg.TMLeverageData
	return result, nil
}

func (e *Engine) GetAnalytics() domain.LeverageAnalytics {
	return leverage.Aggregate(e.store.Snapshot(), e.cfg.RatePerWord)
}

func (e *Engine) GenerateDraft() (*domain.DraftTranslation, error) {
	return BuildDraft(e.doc, e.store.Snapshot(), e.cfg.RatePerWord)
}

// ReplaceSegments swaps the whole segment set, as on re-import.
func (e *Engine) ReplaceSegments(segments []domain.Segment) {
	e.store.Replace(segments)
	e.cache.Reset()
	e.changed()
}

// Prime marks rec as the state already held by the document store. The
// engine's own snapshot is recorded so recomputed analytics never read as an
// unsaved change.
func (e *Engine) Prime(rec domain.DocumentRecord) {
	current := e.Record()
	current.LastUpdated = rec.LastUpdated
	e.autosave.Prime(current)
}

func (e *Engine) Flush(ctx context.Context) error {
	return e.autosave.Flush(ctx)
}

// Dirty reports whether local state has not been persisted yet.
func (e *Engine) Dirty() bool {
	return e.autosave.Dirty()
}

func (e *Engine) LastSaved() time.Time {
	return e.autosave.LastSaved()
}

func (e *Engine) Close() {
	e.autosave.Stop()
}

func (e *Engine) changed() {
	e.autosave.Schedule()
}
