package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

// DocumentRepository stores each document record as a single JSONB payload
// next to a few indexed columns.
type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE EXTENSION IF NOT EXISTS pg_trgm;

CREATE TABLE IF NOT EXISTS translation_documents (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	source_language TEXT NOT NULL,
	target_language TEXT NOT NULL,
	domain TEXT NOT NULL DEFAULT '',
	record JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	last_updated TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_translation_documents_last_updated ON translation_documents(last_updated DESC);

CREATE TABLE IF NOT EXISTS tm_entries (
	id TEXT PRIMARY KEY,
	source_text TEXT NOT NULL,
	target_text TEXT NOT NULL,
	source_language TEXT NOT NULL,
	target_language TEXT NOT NULL,
	domain TEXT NOT NULL DEFAULT '',
	segment_type TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tm_entries_languages ON tm_entries(target_language, source_language);
CREATE INDEX IF NOT EXISTS idx_tm_entries_source_trgm ON tm_entries USING GIN (source_text gin_trgm_ops);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, record *domain.DocumentRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal document record: %w", err)
	}

	doc := record.Document
	_, err = r.db.ExecContext(ctx, `
INSERT INTO translation_documents (
	id, title, source_language, target_language, domain, record, created_at, last_updated
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		doc.ID, doc.Title, doc.SourceLanguage, doc.TargetLanguage, doc.Domain, payload, doc.CreatedAt, record.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Save(ctx context.Context, record *domain.DocumentRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal document record: %w", err)
	}

	doc := record.Document
	result, err := r.db.ExecContext(ctx, `
UPDATE translation_documents
SET title = $2, domain = $3, record = $4, last_updated = $5
WHERE id = $1
`, doc.ID, doc.Title, doc.Domain, payload, record.LastUpdated)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save document rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "save document", fmt.Errorf("id=%s", doc.ID))
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT record, last_updated
FROM translation_documents
WHERE id = $1
`, id)

	var raw []byte
	var lastUpdated time.Time
	if err := row.Scan(&raw, &lastUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	var record domain.DocumentRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("unmarshal document record: %w", err)
	}
	record.LastUpdated = lastUpdated.UTC()
	return &record, nil
}
