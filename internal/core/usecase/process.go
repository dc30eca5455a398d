package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
	"github.com/mevzuatlab/legal-search/internal/core/ports"
)

// ProcessLawUseCase turns an uploaded law source file into indexed corpus
// chunks: extract articles, split long bodies, embed, then write the chunks
// to both the vector index and the relational corpus.
type ProcessLawUseCase struct {
	repo      ports.LawDocumentRepository
	extractor ports.ArticleExtractor
	chunker   ports.Chunker
	embedder  ports.Embedder
	vectorDB  ports.VectorIndex
	chunks    ports.ChunkStore
}

func NewProcessLawUseCase(
	repo ports.LawDocumentRepository,
	extractor ports.ArticleExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorIndex,
	chunks ports.ChunkStore,
) *ProcessLawUseCase {
	return &ProcessLawUseCase{
		repo:      repo,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		vectorDB:  vectorDB,
		chunks:    chunks,
	}
}

func (uc *ProcessLawUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.processPipeline(ctx, documentID); err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusIndexed, ""); err != nil {
		return fmt.Errorf("set status=indexed: %w", err)
	}

	return nil
}

func (uc *ProcessLawUseCase) processPipeline(ctx context.Context, documentID string) error {
	doc, err := uc.loadDocument(ctx, documentID)
	if err != nil {
		return err
	}

	articles, err := uc.extractArticles(ctx, doc)
	if err != nil {
		return err
	}

	chunks := uc.buildChunks(doc, articles)
	if len(chunks) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "chunk articles", errors.New("chunking produced zero chunks"))
	}

	vectors, err := uc.embed(ctx, chunks)
	if err != nil {
		return err
	}

	if err := uc.vectorDB.IndexChunks(ctx, chunks, vectors); err != nil {
		return fmt.Errorf("index chunks in vector db: %w", err)
	}
	if err := uc.chunks.InsertChunks(ctx, chunks); err != nil {
		return fmt.Errorf("persist chunks to corpus store: %w", err)
	}
	return nil
}

func (uc *ProcessLawUseCase) loadDocument(ctx context.Context, documentID string) (*domain.LawDocument, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch law document by id: %w", err)
	}
	return doc, nil
}

func (uc *ProcessLawUseCase) extractArticles(ctx context.Context, doc *domain.LawDocument) ([]domain.LawArticle, error) {
	articles, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract articles: %w", err)
	}
	if len(articles) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract articles", errors.New("no articles found in source"))
	}
	return articles, nil
}

// buildChunks flattens each article through the splitter. Chunk ids are
// deterministic (document id, article number, position), so reprocessing the
// same document overwrites its previous chunks instead of duplicating them.
func (uc *ProcessLawUseCase) buildChunks(doc *domain.LawDocument, articles []domain.LawArticle) []domain.LawChunk {
	var out []domain.LawChunk
	for _, article := range articles {
		lawName := article.LawName
		if lawName == "" {
			lawName = doc.LawName
		}

		pieces := uc.chunker.Split(articleText(article))
		for i, piece := range pieces {
			out = append(out, domain.LawChunk{
				ID:      fmt.Sprintf("%s_%s_%d", doc.ID, article.ArticleNo, i),
				Content: piece,
				Metadata: domain.ChunkMetadata{
					ArticleNo:   article.ArticleNo,
					Title:       article.Title,
					LawName:     lawName,
					ChunkIndex:  i,
					TotalChunks: len(pieces),
				},
			})
		}
	}
	return out
}

// articleText joins the article body with its numbered paragraphs so a chunk
// never loses paragraph text that the source kept separate from the body.
func articleText(article domain.LawArticle) string {
	text := article.Content
	for _, paragraph := range article.Paragraphs {
		if paragraph.Content == "" {
			continue
		}
		if text != "" {
			text += "\n"
		}
		if paragraph.No != "" {
			text += fmt.Sprintf("(%s) %s", paragraph.No, paragraph.Content)
		} else {
			text += paragraph.Content
		}
	}
	return text
}

func (uc *ProcessLawUseCase) embed(ctx context.Context, chunks []domain.LawChunk) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}
	return vectors, nil
}

func (uc *ProcessLawUseCase) markStatus(ctx context.Context, documentID string, status domain.LawDocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessLawUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
