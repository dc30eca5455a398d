package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

func newChunkRepoWithMock(t *testing.T) (*ChunkRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &ChunkRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestInsertChunksUpsertsInOneTransaction(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	chunks := []domain.LawChunk{
		{
			ID: "doc-1_105_0", Content: "izin metni",
			Metadata: domain.ChunkMetadata{ArticleNo: "105", Title: "İzin", LawName: "CİK", TotalChunks: 2},
		},
		{
			ID: "doc-1_105_1", Content: "devamı",
			Metadata: domain.ChunkMetadata{ArticleNo: "105", Title: "İzin", LawName: "CİK", ChunkIndex: 1, TotalChunks: 2},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO law_chunks").
		WithArgs("doc-1_105_0", "izin metni", "105", "İzin", "CİK", 0, 2).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO law_chunks").
		WithArgs("doc-1_105_1", "devamı", "105", "İzin", "CİK", 1, 2).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.InsertChunks(context.Background(), chunks); err != nil {
		t.Fatalf("InsertChunks() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertChunksNoopOnEmptyInput(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	if err := repo.InsertChunks(context.Background(), nil); err != nil {
		t.Fatalf("InsertChunks() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListChunksScansMetadata(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{
		"id", "content", "article_no", "title", "law_name", "chunk_index", "total_chunks",
	}).
		AddRow("doc-1_105_0", "izin metni", "105", "İzin", "CİK", 0, 2).
		AddRow("doc-1_105_1", "devamı", "105", "İzin", "CİK", 1, 2)

	mock.ExpectQuery("SELECT id, content, article_no").WillReturnRows(rows)

	chunks, err := repo.ListChunks(context.Background())
	if err != nil {
		t.Fatalf("ListChunks() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].Metadata.ChunkIndex != 1 || chunks[1].Metadata.LawName != "CİK" {
		t.Fatalf("metadata lost: %+v", chunks[1].Metadata)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStatsAggregatesCorpus(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count", "count"}).AddRow(42, 17))
	mock.ExpectQuery("SELECT DISTINCT law_name").
		WillReturnRows(sqlmock.NewRows([]string{"law_name"}).AddRow("Ceza İnfaz Kanunu").AddRow("Gümrük Kanunu"))

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalChunks != 42 || stats.UniqueArticles != 17 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if len(stats.LawNames) != 2 {
		t.Fatalf("expected 2 law names, got %v", stats.LawNames)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
