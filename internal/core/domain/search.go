package domain

// DomainID identifies one of the fixed legal subject areas the pipeline knows about.
type DomainID string

const (
	DomainInfaz   DomainID = "infaz"   // execution law
	DomainCeza    DomainID = "ceza"    // criminal law
	DomainGumruk  DomainID = "gumruk"  // customs law
	DomainMedeni  DomainID = "medeni"  // civil law
	DomainIs      DomainID = "is"      // labor law
	DomainTicaret DomainID = "ticaret" // commercial law
	DomainUnknown DomainID = "unknown"
)

type EntityType string

const (
	EntityPerson      EntityType = "person"
	EntityInstitution EntityType = "institution"
	EntityProcedure   EntityType = "procedure"
	EntityConcept     EntityType = "concept"
)

// LegalEntity is a canonical legal person/institution/procedure/concept with
// its synonym set, tagged to exactly one domain. Entities are immutable and
// loaded once at process start.
type LegalEntity struct {
	Type     EntityType `json:"type"`
	Value    string     `json:"value"`
	Synonyms []string   `json:"synonyms"`
	Domain   DomainID   `json:"domain"`
}

// DomainContext is the outcome of classifying a query or a document.
// Primary == DomainUnknown implies Confidence 0 and empty Secondary/Indicators.
type DomainContext struct {
	Primary    DomainID   `json:"primary"`
	Secondary  []DomainID `json:"secondary"`
	Confidence float64    `json:"confidence"`
	Indicators []string   `json:"indicators"`
}

// ChunkMetadata carries the legal provenance of an indexed passage.
type ChunkMetadata struct {
	ArticleNo   string `json:"article_no"`
	Title       string `json:"title"`
	LawName     string `json:"law_name"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
}

// CandidateSource records which retrieval channel produced a candidate.
type CandidateSource string

const (
	SourceLexical  CandidateSource = "lexical"
	SourceSemantic CandidateSource = "semantic"
	SourceBoth     CandidateSource = "both"
)

// Candidate is a passage under consideration for ranking. It may come from
// lexical retrieval, semantic retrieval, or both; fusion keeps both score
// channels either way.
type Candidate struct {
	ID       string          `json:"id"`
	Content  string          `json:"content"`
	Metadata ChunkMetadata   `json:"metadata"`
	Semantic float64         `json:"semantic_similarity"`
	Lexical  float64         `json:"lexical_score"`
	Source   CandidateSource `json:"source"`
}

// ComponentScores are the six independent relevance signals, each in [0,1].
type ComponentScores struct {
	Lexical      float64 `json:"lexical"`
	Semantic     float64 `json:"semantic"`
	CrossEncoder float64 `json:"cross_encoder"`
	Entity       float64 `json:"entity"`
	Domain       float64 `json:"domain"`
	Context      float64 `json:"context"`
}

// QualityMetrics are diagnostic quality signals derived from the component
// scores. DiagnosticScore is the unweighted four-way average; it is reported
// alongside results but is never the ranking key.
type QualityMetrics struct {
	Precision           float64 `json:"precision"`
	EntityMatch         float64 `json:"entity_match"`
	DomainMatch         float64 `json:"domain_match"`
	ContextualRelevance float64 `json:"contextual_relevance"`
	DiagnosticScore     float64 `json:"diagnostic_score"`
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ScoredResult is a fully reranked candidate with its score breakdown.
type ScoredResult struct {
	ID       string        `json:"id"`
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`

	Scores     ComponentScores `json:"scores"`
	FinalScore float64         `json:"final_score"`

	QualityMetrics  QualityMetrics `json:"quality_metrics"`
	MatchedEntities []LegalEntity  `json:"matched_entities"`
	DomainContext   DomainContext  `json:"domain_context"`
	Explanation     string         `json:"relevance_explanation"`
	Confidence      Confidence     `json:"confidence"`
}

// PrecisionProfile names a threshold bundle for the quality gate.
type PrecisionProfile string

const (
	ProfileStrict   PrecisionProfile = "strict"
	ProfileBalanced PrecisionProfile = "balanced"
	ProfileRecall   PrecisionProfile = "recall"
)

func (p PrecisionProfile) Valid() bool {
	switch p {
	case ProfileStrict, ProfileBalanced, ProfileRecall:
		return true
	}
	return false
}

// SearchOptions controls one professional search request.
type SearchOptions struct {
	MaxResults        int              `json:"max_results"`
	Profile           PrecisionProfile `json:"precision_profile"`
	MinPrecisionAtOne float64          `json:"min_precision_at_one"`
}

// SearchOutcome is the ranked result list plus request-level diagnostics.
type SearchOutcome struct {
	Results      []ScoredResult `json:"results"`
	QueryContext DomainContext  `json:"query_context"`
	Warning      string         `json:"warning,omitempty"`
}

// QualityReport aggregates batch evaluation over a set of test queries.
type QualityReport struct {
	PrecisionAtOne    float64 `json:"precision_at_one"`
	PrecisionAtThree  float64 `json:"precision_at_three"`
	FalsePositiveRate float64 `json:"false_positive_rate"`
	AverageRelevance  float64 `json:"average_relevance"`
}
