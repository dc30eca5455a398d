package ontology

import (
	"math"
	"strings"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

const (
	entityHitWeight  = 0.3
	keywordHitWeight = 0.2
	maxSecondary     = 2
)

// Classifier assigns a primary domain, up to two secondary candidates and a
// confidence score to free text, using the ontology's entity table plus the
// denser per-domain keyword lists.
type Classifier struct {
	ontology *Ontology
}

func NewClassifier(o *Ontology) *Classifier {
	return &Classifier{ontology: o}
}

// ClassifyQuery scores every known domain against the text: 0.3 per distinct
// extracted entity in that domain, 0.2 per keyword hit. Domains with zero
// evidence are dropped; ties break by keyword-table declaration order.
func (c *Classifier) ClassifyQuery(text string) domain.DomainContext {
	textLower := strings.ToLower(text)
	entities := c.ontology.ExtractEntities(text)

	scores := make(map[domain.DomainID]float64, len(c.ontology.KeywordDomains()))
	for _, entity := range entities {
		scores[entity.Domain] += entityHitWeight
	}

	for _, id := range c.ontology.KeywordDomains() {
		for _, keyword := range c.ontology.Keywords(id) {
			if strings.Contains(textLower, keyword) {
				scores[id] += keywordHitWeight
			}
		}
	}

	ranked := c.rankDomains(scores)
	if len(ranked) == 0 {
		return domain.DomainContext{Primary: domain.DomainUnknown}
	}

	secondary := make([]domain.DomainID, 0, maxSecondary)
	for _, id := range ranked[1:] {
		if len(secondary) == maxSecondary {
			break
		}
		secondary = append(secondary, id)
	}

	indicators := make([]string, 0, len(entities))
	for _, entity := range entities {
		indicators = append(indicators, entity.Value)
	}

	return domain.DomainContext{
		Primary:    ranked[0],
		Secondary:  secondary,
		Confidence: math.Min(1, scores[ranked[0]]),
		Indicators: indicators,
	}
}

// ClassifyDocument classifies an indexed passage by its content plus the name
// of the law it belongs to.
func (c *Classifier) ClassifyDocument(content, lawName string) domain.DomainContext {
	return c.ClassifyQuery(content + " " + lawName)
}

// rankDomains orders positive-scoring domains by score descending, keeping
// the keyword-table declaration order as a stable tie-break.
func (c *Classifier) rankDomains(scores map[domain.DomainID]float64) []domain.DomainID {
	ordered := c.ontology.KeywordDomains()
	ranked := make([]domain.DomainID, 0, len(ordered))
	for _, id := range ordered {
		if scores[id] > 0 {
			ranked = append(ranked, id)
		}
	}
	// insertion sort keeps the declaration-order tie-break stable
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && scores[ranked[j]] > scores[ranked[j-1]]; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}
