// Package ontology holds the static legal knowledge the retrieval pipeline
// ranks against: canonical entities with synonym sets, per-domain expansion
// synonyms, and the keyword lists the domain classifier scans for. All tables
// are embedded configuration parsed once at construction; an Ontology is
// immutable afterwards and safe for unlimited concurrent readers.
package ontology

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

//go:embed tables.yaml
var tablesYAML []byte

type tablesFile struct {
	Entities       []domain.LegalEntity            `yaml:"entities"`
	DomainSynonyms map[domain.DomainID][]string    `yaml:"domain_synonyms"`
	DomainKeywords []domainKeywordEntry            `yaml:"domain_keywords"`
	RelatedDomains [][]domain.DomainID             `yaml:"related_domains"`
}

type domainKeywordEntry struct {
	Domain   domain.DomainID `yaml:"domain"`
	Keywords []string        `yaml:"keywords"`
}

// Ontology is the read-only entity/synonym lookup table.
type Ontology struct {
	// surface form (lower-cased canonical value or synonym) -> entity index
	surfaceToEntity map[string]int
	// lookup order is fixed so extraction stays deterministic
	surfaces []string
	entities []domain.LegalEntity

	domainSynonyms map[domain.DomainID][]string

	keywordOrder   []domain.DomainID
	domainKeywords map[domain.DomainID][]string

	relatedPairs [][2]domain.DomainID
}

// New parses the embedded tables. It is called once at process start; the
// returned Ontology is shared by reference across all requests.
func New() (*Ontology, error) {
	return parse(tablesYAML)
}

func parse(raw []byte) (*Ontology, error) {
	var file tablesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse ontology tables: %w", err)
	}
	if len(file.Entities) == 0 {
		return nil, fmt.Errorf("ontology tables contain no entities")
	}

	o := &Ontology{
		surfaceToEntity: make(map[string]int, len(file.Entities)*6),
		entities:        file.Entities,
		domainSynonyms:  file.DomainSynonyms,
		domainKeywords:  make(map[domain.DomainID][]string, len(file.DomainKeywords)),
	}

	for i, entity := range file.Entities {
		o.addSurface(entity.Value, i)
		for _, synonym := range entity.Synonyms {
			o.addSurface(synonym, i)
		}
	}

	for _, entry := range file.DomainKeywords {
		o.keywordOrder = append(o.keywordOrder, entry.Domain)
		o.domainKeywords[entry.Domain] = entry.Keywords
	}

	for _, pair := range file.RelatedDomains {
		if len(pair) != 2 {
			return nil, fmt.Errorf("related domain pair must have two members, got %d", len(pair))
		}
		o.relatedPairs = append(o.relatedPairs, [2]domain.DomainID{pair[0], pair[1]})
	}

	return o, nil
}

func (o *Ontology) addSurface(surface string, entityIndex int) {
	key := strings.ToLower(strings.TrimSpace(surface))
	if key == "" {
		return
	}
	if _, exists := o.surfaceToEntity[key]; !exists {
		o.surfaces = append(o.surfaces, key)
	}
	o.surfaceToEntity[key] = entityIndex
}

// ExtractEntities scans lower-cased text for the canonical value or any
// synonym of every known entity. At most one entry per canonical value is
// returned no matter how many synonyms matched.
func (o *Ontology) ExtractEntities(text string) []domain.LegalEntity {
	textLower := strings.ToLower(text)

	seen := make(map[string]bool, 4)
	var found []domain.LegalEntity
	for _, surface := range o.surfaces {
		if !strings.Contains(textLower, surface) {
			continue
		}
		entity := o.entities[o.surfaceToEntity[surface]]
		if seen[entity.Value] {
			continue
		}
		seen[entity.Value] = true
		found = append(found, entity)
	}
	return found
}

// DomainSynonyms returns the query-expansion synonyms for a domain, or nil
// when the domain has none.
func (o *Ontology) DomainSynonyms(id domain.DomainID) []string {
	return o.domainSynonyms[id]
}

// KeywordDomains returns the classifier's domains in declaration order.
func (o *Ontology) KeywordDomains() []domain.DomainID {
	return o.keywordOrder
}

// Keywords returns the classifier keyword list for a domain.
func (o *Ontology) Keywords(id domain.DomainID) []string {
	return o.domainKeywords[id]
}

// Related reports whether two domains form one of the fixed related pairs
// (e.g. execution law and criminal law).
func (o *Ontology) Related(a, b domain.DomainID) bool {
	for _, pair := range o.relatedPairs {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return true
		}
	}
	return false
}
