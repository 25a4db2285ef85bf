package localfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

// Storage keeps exported drafts under a base directory, one folder per document.
type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/drafts"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

// ExportDraft writes the draft text and its metadata side by side and returns
// the path of the text file. A later export for the same document overwrites it.
func (s *Storage) ExportDraft(ctx context.Context, documentID string, draft domain.DraftTranslation) (string, error) {
	dir := safeName(documentID)
	if dir == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "export draft", fmt.Errorf("invalid document id %q", documentID))
	}
	lang := safeName(draft.Metadata.TargetLanguage)
	if lang == "" {
		lang = "draft"
	}

	meta, err := json.MarshalIndent(draft.Metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal draft metadata: %w", err)
	}

	textKey := filepath.Join(dir, lang+".txt")
	if err := s.save(ctx, textKey, strings.NewReader(draft.DraftText)); err != nil {
		return "", err
	}
	if err := s.save(ctx, filepath.Join(dir, lang+".meta.json"), bytes.NewReader(meta)); err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, textKey), nil
}

func (s *Storage) save(_ context.Context, key string, data io.Reader) error {
	path := filepath.Join(s.basePath, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// safeName keeps ids usable as a single path element.
func safeName(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == "." || v == ".." {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == 0:
			return '_'
		default:
			return r
		}
	}, v)
}
