package usecase

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

// BM25 constants. Fixed, not tunable at runtime.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// lexicalVariants is the small static synonym-expansion table applied to
// matched query tokens. It is not a general thesaurus.
var lexicalVariants = map[string][]string{
	"hükümlü":   {"mahkum", "tutuklu", "hükümlü"},
	"eğitimevi": {"eğitim", "kurum", "müessese"},
	"izin":      {"izin", "müsaade", "ruhsat", "çıkma"},
	"çocuk":     {"çocuk", "küçük", "reşit olmayan"},
	"kurum":     {"kurum", "müessese", "tesis", "eğitimevi"},
	"infaz":     {"infaz", "cezaevi", "hapishane"},
	"denetimli": {"denetimli", "serbestlik", "gözetim"},
}

// prepareQueryTerms lower-cases the query, strips everything but word
// characters and Turkish diacritics, drops tokens of length <= 2 and appends
// the static variant expansions. Order is deterministic, duplicates removed.
func prepareQueryTerms(query string) []string {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, query)

	var terms []string
	for _, token := range strings.Fields(normalized) {
		if utf8.RuneCountInString(token) <= 2 {
			continue
		}
		terms = append(terms, token)
	}

	expanded := make([]string, 0, len(terms)*2)
	seen := make(map[string]bool, len(terms)*2)
	appendTerm := func(term string) {
		if !seen[term] {
			seen[term] = true
			expanded = append(expanded, term)
		}
	}
	for _, term := range terms {
		appendTerm(term)
	}
	for _, term := range terms {
		for _, variant := range lexicalVariants[term] {
			appendTerm(variant)
		}
	}
	return expanded
}

// scoredDoc is one corpus document prepared for BM25 scoring.
type scoredDoc struct {
	chunk        domain.LawChunk
	contentLower string
	termCount    int
}

// lexicalSearch computes BM25 scores for every corpus chunk against the
// query and returns the positive-scoring ones ordered by score descending,
// truncated to limit. Corpus statistics (document frequency, average length)
// are recomputed from the chunks passed in; nothing is cached between calls.
func lexicalSearch(query string, corpus []domain.LawChunk, limit int) []domain.Candidate {
	terms := prepareQueryTerms(query)
	if len(terms) == 0 || len(corpus) == 0 {
		return nil
	}

	docs := make([]scoredDoc, len(corpus))
	totalTerms := 0
	for i, chunk := range corpus {
		lower := strings.ToLower(chunk.Content)
		count := len(strings.Fields(lower))
		docs[i] = scoredDoc{chunk: chunk, contentLower: lower, termCount: count}
		totalTerms += count
	}
	avgDocLength := float64(totalTerms) / float64(len(docs))

	// document frequency per term, substring containment like the matcher
	docFreq := make(map[string]int, len(terms))
	for _, term := range terms {
		for i := range docs {
			if strings.Contains(docs[i].contentLower, term) {
				docFreq[term]++
			}
		}
	}

	out := make([]domain.Candidate, 0, limit)
	for i := range docs {
		score := bm25Score(terms, &docs[i], docFreq, len(docs), avgDocLength)
		if score <= 0 {
			continue
		}
		out = append(out, domain.Candidate{
			ID:       docs[i].chunk.ID,
			Content:  docs[i].chunk.Content,
			Metadata: docs[i].chunk.Metadata,
			Lexical:  score,
			Source:   domain.SourceLexical,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Lexical != out[j].Lexical {
			return out[i].Lexical > out[j].Lexical
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func bm25Score(terms []string, doc *scoredDoc, docFreq map[string]int, corpusSize int, avgDocLength float64) float64 {
	docWords := strings.Fields(doc.contentLower)
	docLength := float64(len(docWords))

	score := 0.0
	for _, term := range terms {
		termFreq := 0.0
		for _, word := range docWords {
			if strings.Contains(word, term) {
				termFreq++
			}
		}
		if termFreq == 0 {
			continue
		}

		df := float64(docFreq[term])
		idf := math.Log((float64(corpusSize) - df + 0.5) / (df + 0.5))

		numerator := termFreq * (bm25K1 + 1)
		denominator := termFreq + bm25K1*(1-bm25B+bm25B*(docLength/avgDocLength))
		score += idf * (numerator / denominator)
	}
	return score
}
