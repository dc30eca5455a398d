package ports

import (
	"context"
	"io"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

// Embedder builds vectors for passages and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex performs semantic nearest-neighbor search and indexing. Search
// results are the semantic candidate pool; minScore is the similarity floor.
type VectorIndex interface {
	IndexChunks(ctx context.Context, chunks []domain.LawChunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int, minScore float64) ([]domain.Candidate, error)
}

// CorpusReader gives the lexical scorer read access to the full chunk corpus.
type CorpusReader interface {
	ListChunks(ctx context.Context) ([]domain.LawChunk, error)
	Stats(ctx context.Context) (*domain.CorpusStats, error)
}

// ChunkStore persists indexed passages.
type ChunkStore interface {
	InsertChunks(ctx context.Context, chunks []domain.LawChunk) error
}

// LawDocumentRepository persists and reads ingestion state.
type LawDocumentRepository interface {
	Create(ctx context.Context, doc *domain.LawDocument) error
	GetByID(ctx context.Context, id string) (*domain.LawDocument, error)
	UpdateStatus(ctx context.Context, id string, status domain.LawDocumentStatus, errMessage string) error
}

// ObjectStorage stores uploaded law source files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes law ingestion events.
type MessageQueue interface {
	PublishLawIngested(ctx context.Context, documentID string) error
	SubscribeLawIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// ArticleExtractor parses law articles out of a stored source file.
type ArticleExtractor interface {
	Extract(ctx context.Context, doc *domain.LawDocument) ([]domain.LawArticle, error)
}

// Chunker splits long article bodies into indexable passages.
type Chunker interface {
	Split(text string) []string
}

// AnswerGenerator produces the downstream natural-language answer from the
// ranked passages. It sits outside the retrieval core.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question string, results []domain.ScoredResult) (string, error)
}
