package usecase

import "github.com/mevzuatlab/legal-search/internal/core/domain"

// mergeCandidates fuses the lexical and semantic result sets keyed by chunk
// id. Lexical results enter first; a semantic hit on an existing id only
// fills the semantic score channel, so neither source's contribution is ever
// lost and every id appears exactly once. Output keeps insertion order; the
// reranker re-sorts downstream.
func mergeCandidates(lexical, semantic []domain.Candidate) []domain.Candidate {
	byID := make(map[string]int, len(lexical)+len(semantic))
	out := make([]domain.Candidate, 0, len(lexical)+len(semantic))

	for _, candidate := range lexical {
		if _, exists := byID[candidate.ID]; exists {
			continue
		}
		candidate.Source = domain.SourceLexical
		candidate.Semantic = 0
		byID[candidate.ID] = len(out)
		out = append(out, candidate)
	}

	for _, candidate := range semantic {
		if i, exists := byID[candidate.ID]; exists {
			out[i].Semantic = candidate.Semantic
			out[i].Source = domain.SourceBoth
			continue
		}
		candidate.Source = domain.SourceSemantic
		candidate.Lexical = 0
		byID[candidate.ID] = len(out)
		out = append(out, candidate)
	}

	return out
}
