package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

const defaultSourceLanguage = "en"

// Import splits source text into pending segments and stores the new document.
func (s *DocumentService) Import(ctx context.Context, req domain.ImportRequest) (*domain.DocumentRecord, error) {
	if err := validateImport(req); err != nil {
		return nil, err
	}
	segments, err := s.split(req.SourceText)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = segments[0].Title
	}
	sourceLanguage := strings.TrimSpace(req.SourceLanguage)
	if sourceLanguage == "" {
		sourceLanguage = defaultSourceLanguage
	}
	doc := domain.Document{
		ID:             uuid.NewString(),
		Title:          title,
		SourceLanguage: sourceLanguage,
		TargetLanguage: strings.TrimSpace(req.TargetLanguage),
		Domain:         strings.TrimSpace(req.Domain),
		CreatedAt:      s.now().Truncate(time.Microsecond),
	}

	eng := s.newEngine(domain.DocumentRecord{Document: doc, Segments: segments})
	rec := eng.Record()
	rec.LastUpdated = doc.CreatedAt
	if err := s.deps.Documents.Create(ctx, &rec); err != nil {
		eng.Close()
		return nil, fmt.Errorf("create document: %w", err)
	}
	eng.Prime(rec)
	s.register(eng)

	slog.Info("document_imported",
		"document_id", doc.ID,
		"segments", len(segments),
		"target_language", doc.TargetLanguage,
	)
	return &rec, nil
}

// Reimport replaces the whole segment set of an existing document. Previous
// translations and cached analyses are discarded.
func (s *DocumentService) Reimport(ctx context.Context, documentID, sourceText string) (*domain.DocumentRecord, error) {
	segments, err := s.split(sourceText)
	if err != nil {
		return nil, err
	}
	eng, err := s.engine(ctx, documentID)
	if err != nil {
		return nil, err
	}
	eng.ReplaceSegments(segments)
	if err := eng.Flush(ctx); err != nil {
		return nil, err
	}
	slog.Info("document_reimported", "document_id", documentID, "segments", len(segments))

	rec := eng.Record()
	rec.LastUpdated = eng.LastSaved()
	return &rec, nil
}

func (s *DocumentService) split(sourceText string) ([]domain.Segment, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "import document", errors.New("source text is empty"))
	}
	segments := s.deps.Segmenter.Split(sourceText)
	if len(segments) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "import document", errors.New("segmentation produced zero segments"))
	}
	return segments, nil
}

func validateImport(req domain.ImportRequest) error {
	if strings.TrimSpace(req.TargetLanguage) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "import document", errors.New("target language is required"))
	}
	return nil
}
