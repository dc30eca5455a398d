package ports

import (
	"context"
	"io"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

// LegalSearcher is the inbound contract for the retrieval pipeline.
type LegalSearcher interface {
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchOutcome, error)
}

// QualityEvaluator runs batch search-quality evaluation over test queries.
type QualityEvaluator interface {
	EvaluateQuality(ctx context.Context, testQueries []string) (*domain.QualityReport, error)
}

// LawIngestor is the inbound contract for law source file upload.
type LawIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.LawDocument, error)
}

// LawProcessor is the inbound contract for asynchronous law indexing.
type LawProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// LawDocumentReader is the inbound read model for ingestion state.
type LawDocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.LawDocument, error)
}
