package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
	"github.com/mevzuatlab/legal-search/internal/core/ports"
)

const evaluationMaxResults = 3

// EvaluateUseCase runs the retrieval pipeline over a batch of test queries
// and aggregates precision diagnostics. Evaluation always uses the strict
// profile so the numbers reflect the tightest gate.
type EvaluateUseCase struct {
	searcher ports.LegalSearcher
	logger   *slog.Logger
}

func NewEvaluateUseCase(searcher ports.LegalSearcher, logger *slog.Logger) *EvaluateUseCase {
	return &EvaluateUseCase{searcher: searcher, logger: logger}
}

func (uc *EvaluateUseCase) EvaluateQuality(ctx context.Context, testQueries []string) (*domain.QualityReport, error) {
	if len(testQueries) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "evaluate quality", errors.New("no test queries"))
	}

	var (
		precisionAtOneSum   float64
		precisionAtThreeSum float64
		relevanceSum        float64
		resultCount         int
		falsePositives      int
		evaluatedQueries    int
	)

	for _, query := range testQueries {
		outcome, err := uc.searcher.Search(ctx, query, domain.SearchOptions{
			MaxResults: evaluationMaxResults,
			Profile:    domain.ProfileStrict,
		})
		if err != nil {
			return nil, err
		}
		if len(outcome.Results) == 0 {
			uc.logger.Warn("evaluate_query_empty", "query", query)
			evaluatedQueries++
			continue
		}

		precisionAtOneSum += outcome.Results[0].FinalScore

		topSum := 0.0
		for _, result := range outcome.Results {
			topSum += result.FinalScore
			relevanceSum += result.FinalScore
			resultCount++
			if isFalsePositive(result) {
				falsePositives++
			}
		}
		precisionAtThreeSum += topSum / float64(len(outcome.Results))
		evaluatedQueries++
	}

	report := &domain.QualityReport{
		PrecisionAtOne:   precisionAtOneSum / float64(evaluatedQueries),
		PrecisionAtThree: precisionAtThreeSum / float64(evaluatedQueries),
	}
	if resultCount > 0 {
		report.FalsePositiveRate = float64(falsePositives) / float64(resultCount)
		report.AverageRelevance = relevanceSum / float64(resultCount)
	}

	uc.logger.Info("evaluate_completed",
		"queries", evaluatedQueries,
		"precision_at_one", report.PrecisionAtOne,
		"precision_at_three", report.PrecisionAtThree,
		"false_positive_rate", report.FalsePositiveRate,
	)
	return report, nil
}

// isFalsePositive mirrors the quality gate's domain/entity thresholds: a
// result counted here would have been a cross-domain or entity-less leak.
func isFalsePositive(result domain.ScoredResult) bool {
	if result.Scores.Domain < domainMismatchFloor {
		return true
	}
	return result.Scores.Entity < entityMismatchFloor && len(result.MatchedEntities) == 0
}
