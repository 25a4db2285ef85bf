package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

type tmFake struct {
	mu     sync.Mutex
	byText map[string][]domain.TMMatch
	err    error
	calls  int
	lastQ  domain.TMQuery
}

func (f *tmFake) FindTMMatches(_ context.Context, query domain.TMQuery) ([]domain.TMMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastQ = query
	if f.err != nil {
		return nil, f.err
	}
	return f.byText[query.Text], nil
}

// generatorFake upper-cases its input so assembled output is easy to assert.
type generatorFake struct {
	mu       sync.Mutex
	err      error
	failOn   map[string]bool
	empty    bool
	scores   *domain.AIScores
	delay    time.Duration
	inputs   []string
	contexts []domain.TranslationContext

	inFlight    int
	maxInFlight int
}

func (f *generatorFake) GenerateTranslation(ctx context.Context, text string, tc domain.TranslationContext) (domain.GeneratedTranslation, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, text)
	f.contexts = append(f.contexts, tc)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return domain.GeneratedTranslation{}, ctx.Err()
		}
	}
	if f.err != nil {
		return domain.GeneratedTranslation{}, f.err
	}
	if f.failOn[tc.SegmentText] {
		return domain.GeneratedTranslation{}, errors.New("model overloaded")
	}
	if f.empty {
		return domain.GeneratedTranslation{TranslatedText: "   "}, nil
	}
	return domain.GeneratedTranslation{TranslatedText: strings.ToUpper(text), QualityScores: f.scores}, nil
}

func (f *generatorFake) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

type analyzerFake struct {
	mu     sync.Mutex
	calls  int
	err    error
	delay  time.Duration
	result domain.QualityAssessment
}

func (f *analyzerFake) Analyze(context.Context, string, string) (domain.QualityAssessment, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return domain.QualityAssessment{}, f.err
	}
	return f.result, nil
}

func (f *analyzerFake) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type documentStoreFake struct {
	mu        sync.Mutex
	records   map[string]domain.DocumentRecord
	saves     []domain.DocumentRecord
	createErr error
	saveErr   error
}

func newDocumentStoreFake() *documentStoreFake {
	return &documentStoreFake{records: make(map[string]domain.DocumentRecord)}
}

func (f *documentStoreFake) Create(_ context.Context, rec *domain.DocumentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.records[rec.Document.ID] = *rec
	return nil
}

func (f *documentStoreFake) Save(_ context.Context, rec *domain.DocumentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[rec.Document.ID] = *rec
	f.saves = append(f.saves, *rec)
	return nil
}

func (f *documentStoreFake) GetByID(_ context.Context, id string) (*domain.DocumentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New(id))
	}
	return &rec, nil
}

func (f *documentStoreFake) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *documentStoreFake) lastSave() domain.DocumentRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves[len(f.saves)-1]
}

type segmenterFake struct {
	segments []domain.Segment
}

func (f *segmenterFake) Split(string) []domain.Segment {
	out := make([]domain.Segment, len(f.segments))
	copy(out, f.segments)
	return out
}

type queueFake struct {
	published []domain.BulkTranslationJob
	err       error
}

func (f *queueFake) PublishBulkTranslation(_ context.Context, job domain.BulkTranslationJob) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, job)
	return nil
}

func (f *queueFake) SubscribeBulkTranslation(context.Context, func(context.Context, domain.BulkTranslationJob) error) error {
	return nil
}

type exporterFake struct {
	drafts []domain.DraftTranslation
	err    error
}

func (f *exporterFake) ExportDraft(_ context.Context, documentID string, draft domain.DraftTranslation) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.drafts = append(f.drafts, draft)
	return "/drafts/" + documentID + ".txt", nil
}

type observerFake struct {
	noopObserver
	mu         sync.Mutex
	degraded   int
	failures   []string
	cacheHits  int
	cacheMiss  int
	autosaves  []string
	translated int
}

func (f *observerFake) SegmentTranslated(domain.LeverageData, bool, time.Duration) {
	f.mu.Lock()
	f.translated++
	f.mu.Unlock()
}

func (f *observerFake) SegmentFailed(reason string, _ time.Duration) {
	f.mu.Lock()
	f.failures = append(f.failures, reason)
	f.mu.Unlock()
}

func (f *observerFake) TMDegraded() {
	f.mu.Lock()
	f.degraded++
	f.mu.Unlock()
}

func (f *observerFake) AnalysisCacheLookup(hit bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if hit {
		f.cacheHits++
		return
	}
	f.cacheMiss++
}

func (f *observerFake) AutosaveWrite(outcome string) {
	f.mu.Lock()
	f.autosaves = append(f.autosaves, outcome)
	f.mu.Unlock()
}

func seg(id string, order int, content string) domain.Segment {
	return domain.NewSegment(id, order, id, domain.SegmentBody, content)
}

func waitFor(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
