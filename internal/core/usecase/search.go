package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
	"github.com/mevzuatlab/legal-search/internal/core/ontology"
	"github.com/mevzuatlab/legal-search/internal/core/ports"
)

const (
	defaultMaxResults        = 5
	defaultMinPrecisionAtOne = 0.70
	minCandidatePool         = 50
	candidatePoolFactor      = 10
	semanticSimilarityFloor  = 0.2
	maxDomainExpansions      = 2
)

// SearchUseCase is the professional search orchestrator: it classifies the
// query, expands it, retrieves lexical and semantic candidate pools, fuses
// them, reranks with the cross-encoder and applies the quality gate. The
// embedding/vector-store round trip is its only external dependency; every
// other stage is pure and in-memory.
type SearchUseCase struct {
	ontology   *ontology.Ontology
	classifier *ontology.Classifier
	encoder    *CrossEncoder
	embedder   ports.Embedder
	vectorDB   ports.VectorIndex
	corpus     ports.CorpusReader
	logger     *slog.Logger
}

func NewSearchUseCase(
	o *ontology.Ontology,
	classifier *ontology.Classifier,
	encoder *CrossEncoder,
	embedder ports.Embedder,
	vectorDB ports.VectorIndex,
	corpus ports.CorpusReader,
	logger *slog.Logger,
) *SearchUseCase {
	return &SearchUseCase{
		ontology:   o,
		classifier: classifier,
		encoder:    encoder,
		embedder:   embedder,
		vectorDB:   vectorDB,
		corpus:     corpus,
		logger:     logger,
	}
}

func (uc *SearchUseCase) Search(
	ctx context.Context,
	query string,
	opts domain.SearchOptions,
) (*domain.SearchOutcome, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search", errors.New("query is empty"))
	}
	opts = normalizeOptions(opts)

	queryContext := uc.classifier.ClassifyQuery(query)
	queryEntities := uc.ontology.ExtractEntities(query)
	expandedQuery := uc.expandQuery(query, queryContext, queryEntities)

	uc.logger.Info("search_query_classified",
		"domain", queryContext.Primary,
		"confidence", queryContext.Confidence,
		"entities", len(queryEntities),
		"expanded_query", expandedQuery,
	)

	candidateLimit := opts.MaxResults * candidatePoolFactor
	if candidateLimit < minCandidatePool {
		candidateLimit = minCandidatePool
	}

	// Lexical scoring and semantic retrieval are independent until fusion.
	var (
		semantic []domain.Candidate
		lexical  []domain.Candidate
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		queryVector, err := uc.embedder.EmbedQuery(groupCtx, expandedQuery)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}
		semantic, err = uc.vectorDB.Search(groupCtx, queryVector, candidateLimit, semanticSimilarityFloor)
		if err != nil {
			return fmt.Errorf("semantic search: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		chunks, err := uc.corpus.ListChunks(groupCtx)
		if err != nil {
			return fmt.Errorf("load corpus: %w", err)
		}
		lexical = lexicalSearch(query, chunks, candidateLimit)
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	fused := mergeCandidates(lexical, semantic)
	uc.logger.Debug("search_candidates_fused",
		"lexical", len(lexical),
		"semantic", len(semantic),
		"fused", len(fused),
	)

	reranked := uc.encoder.ReRank(query, fused)
	gated, warning := applyQualityGate(reranked, queryContext, opts.Profile, opts.MinPrecisionAtOne)
	if warning != "" {
		uc.logger.Warn("search_quality_warning", "warning", warning)
	}

	if len(gated) > opts.MaxResults {
		gated = gated[:opts.MaxResults]
	}

	if len(gated) > 0 {
		uc.logger.Info("search_completed",
			"results", len(gated),
			"precision_at_one", gated[0].FinalScore,
			"confidence", gated[0].Confidence,
		)
	}

	return &domain.SearchOutcome{
		Results:      gated,
		QueryContext: queryContext,
		Warning:      warning,
	}, nil
}

// expandQuery appends up to two domain synonyms and one strong synonym per
// matched entity, so the embedding sees more of the domain vocabulary than
// the raw query carries.
func (uc *SearchUseCase) expandQuery(
	query string,
	queryContext domain.DomainContext,
	entities []domain.LegalEntity,
) string {
	var sb strings.Builder
	sb.WriteString(query)

	if queryContext.Primary != domain.DomainUnknown {
		synonyms := uc.ontology.DomainSynonyms(queryContext.Primary)
		for i, synonym := range synonyms {
			if i == maxDomainExpansions {
				break
			}
			sb.WriteString(" ")
			sb.WriteString(synonym)
		}
	}

	for _, entity := range entities {
		if len(entity.Synonyms) > 0 {
			sb.WriteString(" ")
			sb.WriteString(entity.Synonyms[0])
		}
	}

	return sb.String()
}

func normalizeOptions(opts domain.SearchOptions) domain.SearchOptions {
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}
	if !opts.Profile.Valid() {
		opts.Profile = domain.ProfileBalanced
	}
	if opts.MinPrecisionAtOne <= 0 || opts.MinPrecisionAtOne > 1 {
		opts.MinPrecisionAtOne = defaultMinPrecisionAtOne
	}
	return opts
}
