package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

// LawRepository persists law document ingestion state.
type LawRepository struct {
	db *sql.DB
}

func NewLawRepository(db *sql.DB) *LawRepository {
	return &LawRepository{db: db}
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

func (r *LawRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082201)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS law_documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	law_name TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_law_documents_status ON law_documents(status);
CREATE INDEX IF NOT EXISTS idx_law_documents_created_at ON law_documents(created_at DESC);

CREATE TABLE IF NOT EXISTS law_chunks (
	id TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	article_no TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	law_name TEXT NOT NULL DEFAULT '',
	chunk_index INTEGER NOT NULL DEFAULT 0,
	total_chunks INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_law_chunks_law_name ON law_chunks(law_name);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *LawRepository) Create(ctx context.Context, doc *domain.LawDocument) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO law_documents (
	id, filename, mime_type, storage_path, law_name, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		doc.ID, doc.Filename, doc.MimeType, doc.StoragePath, doc.LawName,
		string(doc.Status), doc.Error, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert law document: %w", err)
	}
	return nil
}

func (r *LawRepository) GetByID(ctx context.Context, id string) (*domain.LawDocument, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, mime_type, storage_path, law_name, status, error_message, created_at, updated_at
FROM law_documents
WHERE id = $1
`, id)

	var doc domain.LawDocument
	var status string

	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.MimeType, &doc.StoragePath, &doc.LawName,
		&status, &doc.Error, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get law document", err)
		}
		return nil, fmt.Errorf("scan law document: %w", err)
	}

	doc.Status = domain.LawDocumentStatus(status)
	return &doc, nil
}

func (r *LawRepository) UpdateStatus(ctx context.Context, id string, status domain.LawDocumentStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE law_documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update law document status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update law document status: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "update law document status", sql.ErrNoRows)
	}
	return nil
}
