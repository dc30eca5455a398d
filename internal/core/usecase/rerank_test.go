package usecase

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
	"github.com/mevzuatlab/legal-search/internal/core/ontology"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEncoder(t *testing.T) (*ontology.Ontology, *ontology.Classifier, *CrossEncoder) {
	t.Helper()
	o, err := ontology.New()
	if err != nil {
		t.Fatalf("ontology.New() error = %v", err)
	}
	classifier := ontology.NewClassifier(o)
	return o, classifier, NewCrossEncoder(o, classifier, discardLogger())
}

func furloughCandidates() []domain.Candidate {
	return []domain.Candidate{
		{
			ID:      "gumruk-15-0",
			Content: "Gümrük vergisi, eşyanın tarife pozisyonuna göre hesaplanır ve ithalat sırasında tahsil edilir.",
			Metadata: domain.ChunkMetadata{
				ArticleNo: "15", Title: "Gümrük tarifesi", LawName: "Gümrük Kanunu",
			},
			Semantic: 0.9,
			Source:   domain.SourceSemantic,
		},
		{
			ID:      "infaz-105-0",
			Content: "Çocuk eğitimevinde bulunan hükümlü, kurum dışı izin hakkından yararlanabilir.",
			Metadata: domain.ChunkMetadata{
				ArticleNo: "105", Title: "Hükümlü izinleri", LawName: "Ceza İnfaz Kanunu",
			},
			Semantic: 0.7,
			Source:   domain.SourceBoth,
			Lexical:  1.8,
		},
	}
}

// A customs passage with higher vector similarity must not outrank the
// in-domain furlough passage.
func TestReRankPenalizesCrossDomainFalsePositive(t *testing.T) {
	_, _, encoder := newTestEncoder(t)

	results := encoder.ReRank("Çocuk eğitimevinde hükümlü izni", furloughCandidates())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "infaz-105-0" {
		t.Fatalf("expected infaz passage first, got %s", results[0].ID)
	}

	customs := results[1]
	if customs.FinalScore >= 0.2 {
		t.Fatalf("expected penalized customs score < 0.2, got %v", customs.FinalScore)
	}
	if customs.Scores.Domain >= 0.3 {
		t.Fatalf("expected confident domain mismatch score, got %v", customs.Scores.Domain)
	}
	if customs.Confidence != domain.ConfidenceLow {
		t.Fatalf("expected low confidence for customs passage, got %s", customs.Confidence)
	}
}

func TestReRankComponentScoresStayInUnitRange(t *testing.T) {
	_, _, encoder := newTestEncoder(t)

	results := encoder.ReRank("hükümlü izin madde 105", furloughCandidates())
	for _, result := range results {
		for name, v := range map[string]float64{
			"lexical":       result.Scores.Lexical,
			"semantic":      result.Scores.Semantic,
			"cross_encoder": result.Scores.CrossEncoder,
			"entity":        result.Scores.Entity,
			"domain":        result.Scores.Domain,
			"context":       result.Scores.Context,
			"final":         result.FinalScore,
		} {
			if v < 0 || v > 1 {
				t.Fatalf("%s score %v out of [0,1] for %s", name, v, result.ID)
			}
		}
	}
}

func TestReRankEntityNeutralityWithoutQueryEntities(t *testing.T) {
	_, _, encoder := newTestEncoder(t)

	results := encoder.ReRank("madde 105 uygulanması", furloughCandidates())
	for _, result := range results {
		if result.Scores.Entity != 0.5 {
			t.Fatalf("expected neutral entity score 0.5, got %v for %s", result.Scores.Entity, result.ID)
		}
	}
}

func TestReRankIsIdempotent(t *testing.T) {
	_, _, encoder := newTestEncoder(t)

	first := encoder.ReRank("Çocuk eğitimevinde hükümlü izni", furloughCandidates())
	second := encoder.ReRank("Çocuk eğitimevinde hükümlü izni", furloughCandidates())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("rerank not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestReRankEmptyCandidates(t *testing.T) {
	_, _, encoder := newTestEncoder(t)
	if got := encoder.ReRank("hükümlü", nil); len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}

func TestReRankExplainsDomainMatch(t *testing.T) {
	_, _, encoder := newTestEncoder(t)

	results := encoder.ReRank("Çocuk eğitimevinde hükümlü izni", furloughCandidates())
	if results[0].Explanation == "" {
		t.Fatalf("expected non-empty explanation for top result")
	}
	if results[0].Scores.Domain != 1.0 {
		t.Fatalf("expected perfect domain match, got %v", results[0].Scores.Domain)
	}
}

func TestFinalScoreAppliesPenaltiesMultiplicatively(t *testing.T) {
	scores := domain.ComponentScores{
		Lexical: 1, Semantic: 1, CrossEncoder: 1, Entity: 1, Domain: 1, Context: 1,
	}
	clean := finalScore(scores, domain.QualityMetrics{DomainMatch: 1, EntityMatch: 1})
	if clean < 0.99 {
		t.Fatalf("expected weighted sum ~1.0 for perfect scores, got %v", clean)
	}

	domainPenalized := finalScore(scores, domain.QualityMetrics{DomainMatch: 0.1, EntityMatch: 1})
	if domainPenalized < 0.29 || domainPenalized > 0.31 {
		t.Fatalf("expected ~0.3 after domain penalty, got %v", domainPenalized)
	}

	bothPenalized := finalScore(scores, domain.QualityMetrics{DomainMatch: 0.1, EntityMatch: 0.1})
	if bothPenalized < 0.2 || bothPenalized > 0.22 {
		t.Fatalf("expected ~0.21 after both penalties, got %v", bothPenalized)
	}
}
