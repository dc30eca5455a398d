package usecase

import (
	"fmt"
	"sort"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

// gateThresholds is one precision profile's threshold bundle.
type gateThresholds struct {
	minScore  float64
	minDomain float64
	minEntity float64
}

var profileThresholds = map[domain.PrecisionProfile]gateThresholds{
	domain.ProfileStrict:   {minScore: 0.4, minDomain: 0.6, minEntity: 0.3},
	domain.ProfileBalanced: {minScore: 0.35, minDomain: 0.5, minEntity: 0.25},
	domain.ProfileRecall:   {minScore: 0.3, minDomain: 0.4, minEntity: 0.2},
}

const fallbackResultCount = 3

// applyQualityGate filters the reranked results per the precision profile.
// If filtering would empty the set, the top results by final score are
// returned instead: the gate never returns fewer than min(3, len(input))
// results for a non-empty input. The returned warning is non-empty when the
// top surviving result misses the caller's precision target; it is a
// diagnostic, never an error.
func applyQualityGate(
	results []domain.ScoredResult,
	queryContext domain.DomainContext,
	profile domain.PrecisionProfile,
	minPrecisionAtOne float64,
) (filtered []domain.ScoredResult, warning string) {
	thresholds, ok := profileThresholds[profile]
	if !ok {
		thresholds = profileThresholds[domain.ProfileBalanced]
	}

	filtered = make([]domain.ScoredResult, 0, len(results))
	for _, result := range results {
		if result.FinalScore < thresholds.minScore {
			continue
		}
		if queryContext.Primary != domain.DomainUnknown && queryContext.Confidence > 0.8 &&
			result.Scores.Domain < thresholds.minDomain {
			continue
		}
		if profile == domain.ProfileStrict &&
			result.Scores.Entity < thresholds.minEntity &&
			len(result.MatchedEntities) == 0 &&
			result.FinalScore < 0.5 {
			continue
		}
		filtered = append(filtered, result)
	}

	// When nothing survives, hand the caller the best available matches with
	// a warning instead of an empty set.
	if len(filtered) == 0 && len(results) > 0 {
		fallback := make([]domain.ScoredResult, len(results))
		copy(fallback, results)
		sort.SliceStable(fallback, func(i, j int) bool {
			return fallback[i].FinalScore > fallback[j].FinalScore
		})
		if len(fallback) > fallbackResultCount {
			fallback = fallback[:fallbackResultCount]
		}
		return fallback, fmt.Sprintf("no results passed %s filtering, returning top %d best matches", profile, len(fallback))
	}

	if len(filtered) > 0 && filtered[0].FinalScore < minPrecisionAtOne {
		warning = fmt.Sprintf("top result precision %.3f below target %.2f", filtered[0].FinalScore, minPrecisionAtOne)
	}
	return filtered, warning
}
