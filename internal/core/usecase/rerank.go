package usecase

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
	"github.com/mevzuatlab/legal-search/internal/core/ontology"
)

// Fixed fusion weights for the six component scores.
const (
	weightLexical      = 0.15
	weightSemantic     = 0.25
	weightCrossEncoder = 0.20
	weightEntity       = 0.15
	weightDomain       = 0.20
	weightContext      = 0.05
)

// Multiplicative penalties applied after the weighted sum.
const (
	domainMismatchFloor   = 0.3
	domainMismatchPenalty = 0.3
	entityMismatchFloor   = 0.2
	entityMismatchPenalty = 0.7
)

// CrossEncoder is the heuristic reranker: it fuses six independent relevance
// signals per candidate into one calibrated score. It is a pure function of
// its inputs plus the static ontology tables; no I/O happens here.
type CrossEncoder struct {
	ontology   *ontology.Ontology
	classifier *ontology.Classifier
	logger     *slog.Logger
}

func NewCrossEncoder(o *ontology.Ontology, classifier *ontology.Classifier, logger *slog.Logger) *CrossEncoder {
	return &CrossEncoder{
		ontology:   o,
		classifier: classifier,
		logger:     logger,
	}
}

// ReRank scores every candidate against the query and returns the results
// ordered by final score descending. Candidates are scored independently of
// each other, so the result for a fixed input is byte-for-byte identical
// across calls.
func (ce *CrossEncoder) ReRank(query string, candidates []domain.Candidate) []domain.ScoredResult {
	queryContext := ce.classifier.ClassifyQuery(query)
	queryEntities := ce.ontology.ExtractEntities(query)

	ce.logger.Debug("rerank_query_classified",
		"domain", queryContext.Primary,
		"confidence", queryContext.Confidence,
		"entities", len(queryEntities),
	)

	results := make([]domain.ScoredResult, 0, len(candidates))
	for _, candidate := range candidates {
		results = append(results, ce.scoreCandidate(query, candidate, queryContext, queryEntities))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].ID < results[j].ID
	})
	return results
}

func (ce *CrossEncoder) scoreCandidate(
	query string,
	candidate domain.Candidate,
	queryContext domain.DomainContext,
	queryEntities []domain.LegalEntity,
) domain.ScoredResult {
	resultContext := ce.classifier.ClassifyDocument(candidate.Content, candidate.Metadata.LawName)
	resultEntities := ce.ontology.ExtractEntities(candidate.Content)

	scores := domain.ComponentScores{
		Lexical:      termCoverage(query, candidate.Content),
		Semantic:     clamp01(candidate.Semantic),
		CrossEncoder: crossEncoderScore(query, candidate),
		Entity:       entityScore(queryEntities, resultEntities),
		Domain:       ce.domainScore(queryContext, resultContext),
		Context:      contextScore(query, candidate, queryEntities, resultEntities),
	}

	metrics := qualityMetrics(scores, queryEntities)
	final := finalScore(scores, metrics)

	return domain.ScoredResult{
		ID:              candidate.ID,
		Content:         candidate.Content,
		Metadata:        candidate.Metadata,
		Scores:          scores,
		FinalScore:      final,
		QualityMetrics:  metrics,
		MatchedEntities: resultEntities,
		DomainContext:   resultContext,
		Explanation:     explain(scores, queryContext, resultContext),
		Confidence:      confidenceTier(metrics, final),
	}
}

// termCoverage is the fraction of whitespace-split query terms found anywhere
// in the document content.
func termCoverage(query, content string) float64 {
	queryTerms := strings.Fields(strings.ToLower(query))
	if len(queryTerms) == 0 {
		return 0
	}
	contentLower := strings.ToLower(content)

	matches := 0
	for _, term := range queryTerms {
		if strings.Contains(contentLower, term) {
			matches++
		}
	}
	return float64(matches) / float64(len(queryTerms))
}

// crossEncoderScore is the title-aware heuristic stand-in for a learned
// cross-encoder: a capped share of the vector similarity plus a title-overlap
// bonus with substring matching in either direction.
func crossEncoderScore(query string, candidate domain.Candidate) float64 {
	score := math.Min(0.3, candidate.Semantic)

	titleWords := strings.Fields(strings.ToLower(candidate.Metadata.Title))
	queryWords := strings.Fields(strings.ToLower(query))
	if len(titleWords) == 0 || len(queryWords) == 0 {
		return clamp01(score)
	}

	titleMatches := 0
	for _, queryWord := range queryWords {
		for _, titleWord := range titleWords {
			if strings.Contains(titleWord, queryWord) || strings.Contains(queryWord, titleWord) {
				titleMatches++
				break
			}
		}
	}
	score += float64(titleMatches) / float64(len(queryWords)) * 0.2

	return clamp01(score)
}

// entityScore measures how many of the query's extracted entities reappear in
// the document, with a bonus per exact canonical match. A query without
// entities scores a neutral 0.5.
func entityScore(queryEntities, resultEntities []domain.LegalEntity) float64 {
	if len(queryEntities) == 0 {
		return 0.5
	}

	matches := 0
	exactMatches := 0
	for _, queryEntity := range queryEntities {
		for _, resultEntity := range resultEntities {
			if queryEntity.Value == resultEntity.Value {
				matches++
				exactMatches++
				break
			}
			if synonymsOverlap(queryEntity.Synonyms, resultEntity.Synonyms) {
				matches++
				break
			}
		}
	}

	base := float64(matches) / float64(len(queryEntities))
	return clamp01(base + float64(exactMatches)*0.1)
}

func synonymsOverlap(a, b []string) bool {
	for _, syn := range a {
		for _, other := range b {
			if syn == other {
				return true
			}
		}
	}
	return false
}

// domainScore grades how well the document's classified domain fits the
// query's: exact match, secondary candidate, fixed related pair, confident
// mismatch, or unclassified.
func (ce *CrossEncoder) domainScore(queryContext, resultContext domain.DomainContext) float64 {
	if queryContext.Primary == domain.DomainUnknown {
		return 0.5
	}
	if queryContext.Primary == resultContext.Primary {
		return 1.0
	}
	if containsDomain(queryContext.Secondary, resultContext.Primary) ||
		containsDomain(resultContext.Secondary, queryContext.Primary) {
		return 0.6
	}
	if ce.ontology.Related(queryContext.Primary, resultContext.Primary) {
		return 0.7
	}
	if resultContext.Primary != domain.DomainUnknown && resultContext.Confidence > 0.3 {
		if queryContext.Confidence > 0.8 && resultContext.Confidence > 0.8 {
			ce.logger.Debug("rerank_domain_mismatch",
				"query_domain", queryContext.Primary,
				"result_domain", resultContext.Primary,
			)
		}
		return 0.1
	}
	return 0.3
}

func containsDomain(list []domain.DomainID, id domain.DomainID) bool {
	for _, candidate := range list {
		if candidate == id {
			return true
		}
	}
	return false
}

// contextScore rewards co-occurrence of specific entity-type patterns: a
// person entity together with a furlough/permission term on both sides, an
// institution entity on both sides, and an article-number query aligning with
// the passage's article metadata.
func contextScore(
	query string,
	candidate domain.Candidate,
	queryEntities, resultEntities []domain.LegalEntity,
) float64 {
	score := 0.0
	queryLower := strings.ToLower(query)
	contentLower := strings.ToLower(candidate.Content)

	if strings.Contains(queryLower, "izin") && hasEntityType(queryEntities, domain.EntityPerson) {
		if strings.Contains(contentLower, "izin") && hasEntityType(resultEntities, domain.EntityPerson) {
			score += 0.3
		}
	}

	if hasEntityType(queryEntities, domain.EntityInstitution) && hasEntityType(resultEntities, domain.EntityInstitution) {
		score += 0.2
	}

	if candidate.Metadata.ArticleNo != "" && strings.Contains(queryLower, "madde") {
		score += 0.1
	}

	return clamp01(score)
}

func hasEntityType(entities []domain.LegalEntity, entityType domain.EntityType) bool {
	for _, entity := range entities {
		if entity.Type == entityType {
			return true
		}
	}
	return false
}

// qualityMetrics derives the diagnostic record. DiagnosticScore is the
// unweighted four-way average and is never used as the ranking key.
func qualityMetrics(scores domain.ComponentScores, queryEntities []domain.LegalEntity) domain.QualityMetrics {
	precision := scores.Semantic*0.3 + scores.Entity*0.4 + scores.Domain*0.3

	entityMatch := 1.0
	if len(queryEntities) > 0 {
		entityMatch = scores.Entity
	}

	metrics := domain.QualityMetrics{
		Precision:           precision,
		EntityMatch:         entityMatch,
		DomainMatch:         scores.Domain,
		ContextualRelevance: scores.Context,
	}
	metrics.DiagnosticScore = (metrics.Precision + metrics.EntityMatch + metrics.DomainMatch + metrics.ContextualRelevance) / 4
	return metrics
}

// finalScore is the ranking key: the weighted six-term sum, penalized
// multiplicatively on a domain mismatch and again on an entity mismatch.
func finalScore(scores domain.ComponentScores, metrics domain.QualityMetrics) float64 {
	score := scores.Lexical*weightLexical +
		scores.Semantic*weightSemantic +
		scores.CrossEncoder*weightCrossEncoder +
		scores.Entity*weightEntity +
		scores.Domain*weightDomain +
		scores.Context*weightContext

	if metrics.DomainMatch < domainMismatchFloor {
		score *= domainMismatchPenalty
	}
	if metrics.EntityMatch < entityMismatchFloor {
		score *= entityMismatchPenalty
	}
	return clamp01(score)
}

func confidenceTier(metrics domain.QualityMetrics, final float64) domain.Confidence {
	switch {
	case final >= 0.8 && metrics.DomainMatch >= 0.8 && metrics.EntityMatch >= 0.7:
		return domain.ConfidenceHigh
	case final >= 0.6 && metrics.DomainMatch >= 0.5:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func explain(scores domain.ComponentScores, queryContext, resultContext domain.DomainContext) string {
	var parts []string

	switch {
	case scores.Domain >= 0.8:
		parts = append(parts, fmt.Sprintf("perfect domain match (%s)", queryContext.Primary))
	case scores.Domain >= 0.5:
		parts = append(parts, fmt.Sprintf("related domain (%s -> %s)", queryContext.Primary, resultContext.Primary))
	case scores.Domain < 0.3:
		parts = append(parts, fmt.Sprintf("domain mismatch (%s != %s)", queryContext.Primary, resultContext.Primary))
	}

	if scores.Entity >= 0.8 {
		parts = append(parts, "strong entity match")
	} else if scores.Entity < 0.3 {
		parts = append(parts, "weak entity match")
	}

	if scores.Semantic >= 0.8 {
		parts = append(parts, "high semantic similarity")
	} else if scores.Semantic < 0.5 {
		parts = append(parts, "low semantic similarity")
	}

	return strings.Join(parts, ", ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
