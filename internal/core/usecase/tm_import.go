package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/ports"
)

// ImportTMUseCase stores approved pairs in every configured TM backend.
type ImportTMUseCase struct {
	writers []ports.TMWriter
}

func NewImportTMUseCase(writers ...ports.TMWriter) *ImportTMUseCase {
	active := make([]ports.TMWriter, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			active = append(active, w)
		}
	}
	return &ImportTMUseCase{writers: active}
}

func (uc *ImportTMUseCase) AddEntries(ctx context.Context, entries []domain.TMEntry) (int, error) {
	if len(entries) == 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "import tm", errors.New("no entries"))
	}
	if len(uc.writers) == 0 {
		return 0, errors.New("no tm backend configured")
	}

	clean := make([]domain.TMEntry, 0, len(entries))
	for i, e := range entries {
		e.SourceText = strings.TrimSpace(e.SourceText)
		e.TargetText = strings.TrimSpace(e.TargetText)
		e.SourceLanguage = strings.TrimSpace(e.SourceLanguage)
		e.TargetLanguage = strings.TrimSpace(e.TargetLanguage)
		if e.SourceText == "" || e.TargetText == "" || e.TargetLanguage == "" {
			return 0, domain.WrapError(domain.ErrInvalidInput, "import tm", fmt.Errorf("entry %d: source, target and target language are required", i))
		}
		if e.SourceLanguage == "" {
			e.SourceLanguage = defaultSourceLanguage
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		clean = append(clean, e)
	}

	var errs []error
	for _, w := range uc.writers {
		if err := w.AddEntries(ctx, clean); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == len(uc.writers) {
		return 0, fmt.Errorf("store tm entries: %w", errors.Join(errs...))
	}
	if len(errs) > 0 {
		slog.Warn("tm_import_partial", "entries", len(clean), "error", errors.Join(errs...))
	}
	return len(clean), nil
}
