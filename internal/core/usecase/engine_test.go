package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

type engineFixture struct {
	engine   *Engine
	tm       *tmFake
	gen      *generatorFake
	analyzer *analyzerFake
	store    *documentStoreFake
}

func newEngineFixture(t *testing.T, segments ...domain.Segment) engineFixture {
	t.Helper()
	f := engineFixture{
		tm:       &tmFake{byText: map[string][]domain.TMMatch{}},
		gen:      &generatorFake{},
		analyzer: &analyzerFake{result: domain.QualityAssessment{AccuracyScore: 90, QualityScore: 85, CulturalScore: 80}},
		store:    newDocumentStoreFake(),
	}
	rec := domain.DocumentRecord{
		Document: domain.Document{ID: "doc-1", TargetLanguage: "fr", Domain: "cardiology"},
		Segments: segments,
	}
	f.engine = NewEngine(rec, EngineDeps{
		TM:        f.tm,
		Generator: f.gen,
		Analyzer:  f.analyzer,
		Documents: f.store,
	}, EngineConfig{RatePerWord: 0.1, BulkConcurrency: 2, AutosaveDelay: time.Hour})
	t.Cleanup(f.engine.Close)
	return f
}

func TestEngineTranslateThenCompleteBlockedByReview(t *testing.T) {
	f := newEngineFixture(t, seg("seg-001", 1, dosingText))
	f.tm.byText[dosingText] = []domain.TMMatch{{SourceText: "Take one tablet daily", TargetText: "Prenez un comprimé par jour", MatchScore: 80}}

	if _, err := f.engine.TranslateSegment(context.Background(), "seg-001"); err != nil {
		t.Fatalf("TranslateSegment() error: %v", err)
	}
	s, _ := f.engine.Segment("seg-001")
	if s.TranslationStatus != domain.StatusInProgress || !s.NeedsReview {
		t.Fatalf("expected in_progress with review, got %s review=%v", s.TranslationStatus, s.NeedsReview)
	}

	if _, err := f.engine.MarkComplete("seg-001"); !domain.IsKind(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition while review pending, got %v", err)
	}
	if _, err := f.engine.Approve("seg-001"); err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	done, err := f.engine.MarkComplete("seg-001")
	if err != nil {
		t.Fatalf("MarkComplete() error: %v", err)
	}
	if done.TranslationStatus != domain.StatusCompleted {
		t.Fatalf("expected completed, got %s", done.TranslationStatus)
	}
	if !f.engine.Dirty() {
		t.Fatal("mutations must schedule an autosave")
	}
}

func TestEngineFailedTranslationLeavesSegmentUntouched(t *testing.T) {
	f := newEngineFixture(t, seg("seg-001", 1, dosingText))
	f.gen.err = errors.New("model offline")

	if _, err := f.engine.TranslateSegment(context.Background(), "seg-001"); !domain.IsKind(err, domain.ErrTranslationUnavailable) {
		t.Fatalf("expected ErrTranslationUnavailable, got %v", err)
	}
	s, _ := f.engine.Segment("seg-001")
	if s.TranslationStatus != domain.StatusPending || s.TranslatedText != "" {
		t.Fatalf("segment mutated on failure: %+v", s)
	}
	if f.engine.Dirty() {
		t.Fatal("failed translation must not schedule a save")
	}
}

func TestEngineTranslateCompletedSegmentNeedsReopen(t *testing.T) {
	f := newEngineFixture(t, seg("seg-001", 1, "hello world"))
	ctx := context.Background()

	if _, err := f.engine.TranslateSegment(ctx, "seg-001"); err != nil {
		t.Fatalf("TranslateSegment() error: %v", err)
	}
	if _, err := f.engine.MarkComplete("seg-001"); err != nil {
		t.Fatalf("MarkComplete() error: %v", err)
	}
	calls := f.gen.callCount()
	if _, err := f.engine.TranslateSegment(ctx, "seg-001"); !domain.IsKind(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if f.gen.callCount() != calls {
		t.Fatal("completed segment must not reach the generator")
	}
	if _, err := f.engine.Reopen("seg-001"); err != nil {
		t.Fatalf("Reopen() error: %v", err)
	}
	if _, err := f.engine.TranslateSegment(ctx, "seg-001"); err != nil {
		t.Fatalf("TranslateSegment() after reopen error: %v", err)
	}
}

func TestEngineTranslateAllIsIdempotentOnCompletedSet(t *testing.T) {
	f := newEngineFixture(t, seg("seg-001", 1, "hello world"), seg("seg-002", 2, "good morning"))
	ctx := context.Background()

	results, err := f.engine.TranslateAll(ctx, nil, nil)
	if err != nil {
		t.Fatalf("TranslateAll() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, id := range []string{"seg-001", "seg-002"} {
		if _, err := f.engine.MarkComplete(id); err != nil {
			t.Fatalf("MarkComplete(%s) error: %v", id, err)
		}
	}

	calls := f.gen.callCount()
	progress := &progressRecorder{}
	results, err = f.engine.TranslateAll(ctx, nil, progress.record)
	if err != nil {
		t.Fatalf("TranslateAll() error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no work on completed set, got %d", len(results))
	}
	if len(progress.calls) != 1 || progress.calls[0] != [2]int{0, 0} {
		t.Fatalf("expected (0,0) progress, got %v", progress.calls)
	}
	if f.gen.callCount() != calls {
		t.Fatal("completed segments must not be retranslated")
	}
}

func TestEngineTranslateKeepsConcurrentEdit(t *testing.T) {
	f := newEngineFixture(t, seg("seg-001", 1, dosingText))
	f.gen.delay = 100 * time.Millisecond

	errCh := make(chan error, 1)
	go func() {
		_, err := f.engine.TranslateSegment(context.Background(), "seg-001")
		errCh <- err
	}()
	if !waitFor(func() bool { return f.gen.callCount() > 0 }, time.Second) {
		t.Fatal("translation never reached the generator")
	}
	if _, err := f.engine.EditTranslation("seg-001", "manual reviewer text"); err != nil {
		t.Fatalf("EditTranslation() error: %v", err)
	}

	if err := <-errCh; !domain.IsKind(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for stale result, got %v", err)
	}
	s, _ := f.engine.Segment("seg-001")
	if s.TranslatedText != "manual reviewer text" {
		t.Fatalf("edit was overwritten by the generated text: %q", s.TranslatedText)
	}
}

func TestEngineTranslateAllCountsEditedSegmentAsFailed(t *testing.T) {
	f := newEngineFixture(t, seg("seg-001", 1, "hello world"), seg("seg-002", 2, "good morning"))
	f.gen.delay = 100 * time.Millisecond

	type outcome struct {
		results map[string]domain.TranslationResult
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		results, err := f.engine.TranslateAll(context.Background(), nil, nil)
		done <- outcome{results, err}
	}()
	if !waitFor(func() bool { return f.gen.callCount() == 2 }, time.Second) {
		t.Fatal("bulk run never reached the generator")
	}
	if _, err := f.engine.EditTranslation("seg-002", "bonjour"); err != nil {
		t.Fatalf("EditTranslation() error: %v", err)
	}

	out := <-done
	if out.err != nil {
		t.Fatalf("TranslateAll() error: %v", out.err)
	}
	if _, ok := out.results["seg-002"]; ok || len(out.results) != 1 {
		t.Fatalf("expected only seg-001 to succeed, got %v", out.results)
	}
	s, _ := f.engine.Segment("seg-002")
	if s.TranslatedText != "bonjour" {
		t.Fatalf("edit was overwritten during bulk run: %q", s.TranslatedText)
	}
}

func TestEngineTranslateAllUnknownSegment(t *testing.T) {
	f := newEngineFixture(t, seg("seg-001", 1, "hello world"))

	_, err := f.engine.TranslateAll(context.Background(), []string{"seg-001", "seg-404"}, nil)
	if !domain.IsKind(err, domain.ErrSegmentNotFound) {
		t.Fatalf("expected ErrSegmentNotFound, got %v", err)
	}
	if f.gen.callCount() != 0 {
		t.Fatal("no segment should be translated when the request is invalid")
	}
}

func TestEngineGenerateDraft(t *testing.T) {
	f := newEngineFixture(t, seg("seg-001", 1, "hello world"), seg("seg-002", 2, "see you soon"))
	ctx := context.Background()

	if _, err := f.engine.TranslateSegment(ctx, "seg-001"); err != nil {
		t.Fatalf("TranslateSegment() error: %v", err)
	}
	if _, err := f.engine.MarkComplete("seg-001"); err != nil {
		t.Fatalf("MarkComplete() error: %v", err)
	}

	_, err := f.engine.GenerateDraft()
	var incomplete *domain.IncompleteSegmentsError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteSegmentsError, got %v", err)
	}
	if len(incomplete.SegmentIDs) != 1 || incomplete.SegmentIDs[0] != "seg-002" {
		t.Fatalf("unexpected incomplete ids: %v", incomplete.SegmentIDs)
	}

	if _, err := f.engine.EditTranslation("seg-002", "à bientôt"); err != nil {
		t.Fatalf("EditTranslation() error: %v", err)
	}
	if _, err := f.engine.MarkComplete("seg-002"); err != nil {
		t.Fatalf("MarkComplete() error: %v", err)
	}

	draft, err := f.engine.GenerateDraft()
	if err != nil {
		t.Fatalf("GenerateDraft() error: %v", err)
	}
	if draft.DraftText != "HELLO WORLD\n\nà bientôt" {
		t.Fatalf("unexpected draft text: %q", draft.DraftText)
	}
	if draft.Metadata.TotalWords != 5 || draft.Metadata.TotalSegments != 2 {
		t.Fatalf("unexpected metadata: %+v", draft.Metadata)
	}
	if draft.Metadata.TargetLanguage != "fr" {
		t.Fatalf("unexpected target language: %q", draft.Metadata.TargetLanguage)
	}
	if rec := f.engine.Record(); rec.DraftTranslation == nil {
		t.Fatal("record of a fully completed document must carry the draft")
	}
}

func TestEngineAnalyzeUsesCacheAndLiveBreakdown(t *testing.T) {
	f := newEngineFixture(t, seg("seg-001", 1, "hello world"))
	ctx := context.Background()

	if _, err := f.engine.Analyze(ctx, "seg-001"); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput before translation, got %v", err)
	}
	if _, err := f.engine.TranslateSegment(ctx, "seg-001"); err != nil {
		t.Fatalf("TranslateSegment() error: %v", err)
	}

	first, err := f.engine.Analyze(ctx, "seg-001")
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if _, err := f.engine.Analyze(ctx, "seg-001"); err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if f.analyzer.callCount() != 1 {
		t.Fatalf("expected one analyzer call, got %d", f.analyzer.callCount())
	}
	if first.TMLeverage == nil || first.TMLeverage.NewWords != 2 || len(first.WordBreakdown) != 1 {
		t.Fatalf("expected live breakdown on result, got %+v", first)
	}

	if _, err := f.engine.EditTranslation("seg-001", "salut le monde"); err != nil {
		t.Fatalf("EditTranslation() error: %v", err)
	}
	if _, err := f.engine.Analyze(ctx, "seg-001"); err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if f.analyzer.callCount() != 2 {
		t.Fatalf("edited text must be analyzed again, got %d calls", f.analyzer.callCount())
	}
}

func TestEngineReplaceSegmentsResetsState(t *testing.T) {
	f := newEngineFixture(t, seg("seg-001", 1, "hello world"))
	ctx := context.Background()

	if _, err := f.engine.TranslateSegment(ctx, "seg-001"); err != nil {
		t.Fatalf("TranslateSegment() error: %v", err)
	}
	if _, err := f.engine.Analyze(ctx, "seg-001"); err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	f.engine.ReplaceSegments([]domain.Segment{seg("seg-001", 1, "hello world"), seg("seg-002", 2, "bye")})
	segments := f.engine.Segments()
	if len(segments) != 2 || segments[0].TranslationStatus != domain.StatusPending {
		t.Fatalf("expected fresh pending set, got %+v", segments)
	}
	if f.engine.cache.Len() != 0 {
		t.Fatal("re-import must clear the analysis cache")
	}
}

func TestEngineAnalyticsAreSegmentLevel(t *testing.T) {
	f := newEngineFixture(t,
		seg("seg-001", 1, "alpha beta gamma delta"),
		seg("seg-002", 2, "epsilon zeta"),
	)
	f.tm.byText["alpha beta gamma delta"] = []domain.TMMatch{{SourceText: "alpha beta gamma delta", TargetText: "ALPHA", MatchScore: 100}}

	if _, err := f.engine.TranslateAll(context.Background(), nil, nil); err != nil {
		t.Fatalf("TranslateAll() error: %v", err)
	}
	analytics := f.engine.GetAnalytics()
	if analytics.TotalSegments != 2 || analytics.ExactMatches != 1 || analytics.NoMatches != 1 {
		t.Fatalf("unexpected analytics: %+v", analytics)
	}
	if analytics.LeverageRate != 50 {
		t.Fatalf("expected segment-level leverage 50, got %v", analytics.LeverageRate)
	}
}

func TestEngineFlushPersistsRecord(t *testing.T) {
	f := newEngineFixture(t, seg("seg-001", 1, "hello world"))

	if _, err := f.engine.EditTranslation("seg-001", "bonjour le monde"); err != nil {
		t.Fatalf("EditTranslation() error: %v", err)
	}
	if err := f.engine.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	if f.store.saveCount() != 1 {
		t.Fatalf("expected one save, got %d", f.store.saveCount())
	}
	saved := f.store.lastSave()
	if saved.Segments[0].TranslatedText != "bonjour le monde" || saved.LastUpdated.IsZero() {
		t.Fatalf("unexpected saved record: %+v", saved)
	}
	if f.engine.Dirty() {
		t.Fatal("flush must clear the pending save")
	}
}
