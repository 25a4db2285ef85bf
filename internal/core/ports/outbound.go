package ports

import (
	"context"
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

// TMSearcher finds translation memory candidates for a piece of source text.
type TMSearcher interface {
	FindTMMatches(ctx context.Context, query domain.TMQuery) ([]domain.TMMatch, error)
}

// TMWriter adds approved pairs to a translation memory backend.
type TMWriter interface {
	AddEntries(ctx context.Context, entries []domain.TMEntry) error
}

// TranslationGenerator produces AI translations constrained by TM context.
type TranslationGenerator interface {
	GenerateTranslation(ctx context.Context, text string, tc domain.TranslationContext) (domain.GeneratedTranslation, error)
}

// QualityAnalyzer scores a translation against its source.
type QualityAnalyzer interface {
	Analyze(ctx context.Context, sourceText, translatedText string) (domain.QualityAssessment, error)
}

// DocumentStore persists document records with their segment sets.
type DocumentStore interface {
	Create(ctx context.Context, record *domain.DocumentRecord) error
	Save(ctx context.Context, record *domain.DocumentRecord) error
	GetByID(ctx context.Context, id string) (*domain.DocumentRecord, error)
}

// BulkJobQueue publishes/consumes bulk translation jobs.
type BulkJobQueue interface {
	PublishBulkTranslation(ctx context.Context, job domain.BulkTranslationJob) error
	SubscribeBulkTranslation(ctx context.Context, handler func(context.Context, domain.BulkTranslationJob) error) error
}

// Segmenter splits raw source text into ordered pending segments.
type Segmenter interface {
	Split(text string) []domain.Segment
}

// DraftExporter writes a generated draft somewhere durable and returns its location.
type DraftExporter interface {
	ExportDraft(ctx context.Context, documentID string, draft domain.DraftTranslation) (string, error)
}

// ReviewWorkbookBuilder renders a bilingual review file for a document.
type ReviewWorkbookBuilder interface {
	Build(record domain.DocumentRecord) ([]byte, error)
}

// GlossaryProvider returns the brand terminology that applies to a target language.
type GlossaryProvider interface {
	TermsFor(targetLanguage string) []domain.GlossaryTerm
}

// TranslationObserver receives engine events, typically for metrics.
type TranslationObserver interface {
	SegmentTranslated(stats domain.LeverageData, needsReview bool, duration time.Duration)
	SegmentFailed(reason string, duration time.Duration)
	TMDegraded()
	BulkProgress(done, total int)
	AnalysisCacheLookup(hit bool)
	AutosaveWrite(outcome string)
}
