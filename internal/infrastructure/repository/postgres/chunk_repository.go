package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

// ChunkRepository is the relational mirror of the vector index: the lexical
// scorer reads the whole chunk corpus from here, and the stats endpoint
// aggregates over it.
type ChunkRepository struct {
	db *sql.DB
}

func NewChunkRepository(db *sql.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// InsertChunks upserts by chunk id, so reprocessing a law replaces its rows.
func (r *ChunkRepository) InsertChunks(ctx context.Context, chunks []domain.LawChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chunk tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
INSERT INTO law_chunks (id, content, article_no, title, law_name, chunk_index, total_chunks)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
	content = EXCLUDED.content,
	article_no = EXCLUDED.article_no,
	title = EXCLUDED.title,
	law_name = EXCLUDED.law_name,
	chunk_index = EXCLUDED.chunk_index,
	total_chunks = EXCLUDED.total_chunks
`
	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, query,
			chunk.ID, chunk.Content, chunk.Metadata.ArticleNo, chunk.Metadata.Title,
			chunk.Metadata.LawName, chunk.Metadata.ChunkIndex, chunk.Metadata.TotalChunks,
		); err != nil {
			return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunk tx: %w", err)
	}
	return nil
}

// ListChunks returns the full corpus in id order. The lexical scorer needs
// every chunk per query; the corpus is small enough that this stays cheap.
func (r *ChunkRepository) ListChunks(ctx context.Context) ([]domain.LawChunk, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, content, article_no, title, law_name, chunk_index, total_chunks
FROM law_chunks
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var out []domain.LawChunk
	for rows.Next() {
		var chunk domain.LawChunk
		if err := rows.Scan(
			&chunk.ID, &chunk.Content, &chunk.Metadata.ArticleNo, &chunk.Metadata.Title,
			&chunk.Metadata.LawName, &chunk.Metadata.ChunkIndex, &chunk.Metadata.TotalChunks,
		); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		out = append(out, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return out, nil
}

func (r *ChunkRepository) Stats(ctx context.Context) (*domain.CorpusStats, error) {
	var stats domain.CorpusStats

	row := r.db.QueryRowContext(ctx, `
SELECT COUNT(*), COUNT(DISTINCT (law_name, article_no))
FROM law_chunks
`)
	if err := row.Scan(&stats.TotalChunks, &stats.UniqueArticles); err != nil {
		return nil, fmt.Errorf("scan corpus counts: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT law_name
FROM law_chunks
WHERE law_name <> ''
ORDER BY law_name
`)
	if err != nil {
		return nil, fmt.Errorf("query law names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan law name: %w", err)
		}
		stats.LawNames = append(stats.LawNames, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate law names: %w", err)
	}
	return &stats, nil
}
