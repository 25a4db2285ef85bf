package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

const defaultTMLimit = 10

// TMRepository is the lexical translation memory backed by pg_trgm.
type TMRepository struct {
	db    *sql.DB
	limit int
}

func NewTMRepository(db *sql.DB, limit int) *TMRepository {
	if limit <= 0 {
		limit = defaultTMLimit
	}
	return &TMRepository{db: db, limit: limit}
}

func (r *TMRepository) AddEntries(ctx context.Context, entries []domain.TMEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tm tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO tm_entries (id, source_text, target_text, source_language, target_language, domain, segment_type, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE
SET source_text = EXCLUDED.source_text, target_text = EXCLUDED.target_text,
	source_language = EXCLUDED.source_language, target_language = EXCLUDED.target_language,
	domain = EXCLUDED.domain, segment_type = EXCLUDED.segment_type
`)
	if err != nil {
		return fmt.Errorf("prepare tm insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.ID, e.SourceText, e.TargetText,
			normalizeLanguage(e.SourceLanguage), normalizeLanguage(e.TargetLanguage),
			e.Domain, string(e.SegmentType), now,
		); err != nil {
			return fmt.Errorf("insert tm entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tm tx: %w", err)
	}
	return nil
}

// FindTMMatches returns segment-level candidates scored by trigram
// similarity against the whole text, followed by phrase candidates: stored
// entries shorter than the text that word-match some extent of it.
func (r *TMRepository) FindTMMatches(ctx context.Context, query domain.TMQuery) ([]domain.TMMatch, error) {
	text := strings.TrimSpace(query.Text)
	if text == "" {
		return nil, nil
	}
	target := normalizeLanguage(query.TargetLanguage)
	source := normalizeLanguage(query.SourceLanguage)

	segmentMatches, err := r.queryMatches(ctx, `
SELECT source_text, target_text, domain, similarity(source_text, $1) AS score
FROM tm_entries
WHERE target_language = $2 AND ($3 = '' OR source_language = $3) AND source_text % $1
ORDER BY score DESC
LIMIT $4
`, false, text, target, source, r.limit)
	if err != nil {
		return nil, fmt.Errorf("find segment tm matches: %w", err)
	}

	phraseMatches, err := r.queryMatches(ctx, `
SELECT source_text, target_text, domain, word_similarity(source_text, $1) AS score
FROM tm_entries
WHERE target_language = $2 AND ($3 = '' OR source_language = $3)
	AND char_length(source_text) < char_length($1) AND source_text <% $1
ORDER BY score DESC, char_length(source_text) DESC
LIMIT $4
`, true, text, target, source, r.limit)
	if err != nil {
		return nil, fmt.Errorf("find phrase tm matches: %w", err)
	}

	return append(segmentMatches, phraseMatches...), nil
}

func (r *TMRepository) queryMatches(ctx context.Context, query string, phrase bool, args ...any) ([]domain.TMMatch, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.TMMatch, 0)
	for rows.Next() {
		m, err := scanTMMatch(rows)
		if err != nil {
			return nil, err
		}
		m.Phrase = phrase
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tm matches: %w", err)
	}
	return out, nil
}

type matchScanner interface {
	Scan(dest ...interface{}) error
}

func scanTMMatch(row matchScanner) (domain.TMMatch, error) {
	var m domain.TMMatch
	var similarity float64
	if err := row.Scan(&m.SourceText, &m.TargetText, &m.Domain, &similarity); err != nil {
		return domain.TMMatch{}, err
	}
	m.MatchScore = similarityToPercent(similarity)
	return m, nil
}

func similarityToPercent(v float64) float64 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 100
	default:
		return v * 100
	}
}

func normalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
