// Package bootstrap wires the full dependency graph for the api and worker
// binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mevzuatlab/legal-search/internal/config"
	"github.com/mevzuatlab/legal-search/internal/core/ontology"
	"github.com/mevzuatlab/legal-search/internal/core/ports"
	"github.com/mevzuatlab/legal-search/internal/core/usecase"
	"github.com/mevzuatlab/legal-search/internal/infrastructure/chunking"
	"github.com/mevzuatlab/legal-search/internal/infrastructure/extractor"
	"github.com/mevzuatlab/legal-search/internal/infrastructure/extractor/lawjson"
	pdfextractor "github.com/mevzuatlab/legal-search/internal/infrastructure/extractor/pdf"
	"github.com/mevzuatlab/legal-search/internal/infrastructure/llm/ollama"
	"github.com/mevzuatlab/legal-search/internal/infrastructure/queue/nats"
	"github.com/mevzuatlab/legal-search/internal/infrastructure/repository/postgres"
	"github.com/mevzuatlab/legal-search/internal/infrastructure/resilience"
	"github.com/mevzuatlab/legal-search/internal/infrastructure/storage/localfs"
	"github.com/mevzuatlab/legal-search/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue  ports.MessageQueue
	Docs   ports.LawDocumentReader
	Corpus ports.CorpusReader

	SearchUC   ports.LegalSearcher
	EvaluateUC ports.QualityEvaluator
	AnswerUC   *usecase.AnswerUseCase
	IngestUC   ports.LawIngestor
	ProcessUC  ports.LawProcessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	lawRepo := postgres.NewLawRepository(db)
	if err := lawRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	chunkRepo := postgres.NewChunkRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.NewWithOptions(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, ollama.Options{
		ResilienceExecutor: executor,
	})
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	articleExtractor := extractor.NewDispatcher(
		lawjson.NewExtractor(storage),
		pdfextractor.NewExtractor(storage),
	)

	legalOntology, err := ontology.New()
	if err != nil {
		return nil, fmt.Errorf("load legal ontology: %w", err)
	}
	classifier := ontology.NewClassifier(legalOntology)
	encoder := usecase.NewCrossEncoder(legalOntology, classifier, logger)

	searchUC := usecase.NewSearchUseCase(legalOntology, classifier, encoder, embedder, vectorDB, chunkRepo, logger)
	evaluateUC := usecase.NewEvaluateUseCase(searchUC, logger)
	answerUC := usecase.NewAnswerUseCase(searchUC, generator, logger)
	ingestUC := usecase.NewIngestLawUseCase(lawRepo, storage, queue)
	processUC := usecase.NewProcessLawUseCase(lawRepo, articleExtractor, chunker, embedder, vectorDB, chunkRepo)

	return &App{
		Config: cfg,
		Queue:  queue,
		Docs:   lawRepo,
		Corpus: chunkRepo,

		SearchUC:   searchUC,
		EvaluateUC: evaluateUC,
		AnswerUC:   answerUC,
		IngestUC:   ingestUC,
		ProcessUC:  processUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
