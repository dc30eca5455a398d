package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
	"github.com/mevzuatlab/legal-search/internal/core/ports"
)

// AnswerUseCase runs a search and hands the ranked passages to the external
// generation provider. Retrieval quality, not generation, decides the answer:
// the generator only sees what the pipeline let through.
type AnswerUseCase struct {
	searcher  ports.LegalSearcher
	generator ports.AnswerGenerator
	logger    *slog.Logger
}

func NewAnswerUseCase(searcher ports.LegalSearcher, generator ports.AnswerGenerator, logger *slog.Logger) *AnswerUseCase {
	return &AnswerUseCase{searcher: searcher, generator: generator, logger: logger}
}

// AnswerOutcome pairs the generated text with the passages it was grounded on.
type AnswerOutcome struct {
	Answer  string                `json:"answer"`
	Sources []domain.ScoredResult `json:"sources"`
	Warning string                `json:"warning,omitempty"`
}

func (uc *AnswerUseCase) Answer(ctx context.Context, question string, opts domain.SearchOptions) (*AnswerOutcome, error) {
	outcome, err := uc.searcher.Search(ctx, question, opts)
	if err != nil {
		return nil, fmt.Errorf("retrieve passages: %w", err)
	}

	if len(outcome.Results) == 0 {
		uc.logger.Warn("answer_no_passages", "question", question)
		return &AnswerOutcome{Warning: outcome.Warning}, nil
	}

	answer, err := uc.generator.GenerateAnswer(ctx, question, outcome.Results)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &AnswerOutcome{
		Answer:  answer,
		Sources: outcome.Results,
		Warning: outcome.Warning,
	}, nil
}
