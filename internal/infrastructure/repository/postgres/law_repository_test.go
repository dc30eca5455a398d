package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

func newLawRepoWithMock(t *testing.T) (*LawRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &LawRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestLawGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newLawRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLawGetByIDScansRow(t *testing.T) {
	repo, mock, done := newLawRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "filename", "mime_type", "storage_path", "law_name", "status", "error_message", "created_at", "updated_at",
	}).AddRow("doc-1", "kanun.json", "application/json", "doc-1_kanun.json", "Ceza İnfaz Kanunu", "indexed", "", now, now)

	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Status != domain.StatusIndexed || doc.LawName != "Ceza İnfaz Kanunu" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLawUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newLawRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE law_documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLawCreateInsertsRow(t *testing.T) {
	repo, mock, done := newLawRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	doc := &domain.LawDocument{
		ID: "doc-1", Filename: "kanun.json", MimeType: "application/json",
		StoragePath: "doc-1_kanun.json", Status: domain.StatusUploaded,
		CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO law_documents").
		WithArgs("doc-1", "kanun.json", "application/json", "doc-1_kanun.json", "", "uploaded", "", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
