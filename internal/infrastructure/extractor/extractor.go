// Package extractor routes a stored law source file to the parser for its
// format.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
	"github.com/mevzuatlab/legal-search/internal/core/ports"
)

type Dispatcher struct {
	json ports.ArticleExtractor
	pdf  ports.ArticleExtractor
}

func NewDispatcher(json, pdf ports.ArticleExtractor) *Dispatcher {
	return &Dispatcher{json: json, pdf: pdf}
}

func (d *Dispatcher) Extract(ctx context.Context, doc *domain.LawDocument) ([]domain.LawArticle, error) {
	switch {
	case isJSON(doc):
		return d.json.Extract(ctx, doc)
	case isPDF(doc):
		return d.pdf.Extract(ctx, doc)
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "dispatch extractor",
			fmt.Errorf("unsupported law source format: mime=%q filename=%q", doc.MimeType, doc.Filename))
	}
}

func isJSON(doc *domain.LawDocument) bool {
	if strings.HasPrefix(doc.MimeType, "application/json") || strings.HasPrefix(doc.MimeType, "text/json") {
		return true
	}
	return strings.EqualFold(filepath.Ext(doc.Filename), ".json")
}

func isPDF(doc *domain.LawDocument) bool {
	if strings.HasPrefix(doc.MimeType, "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(doc.Filename), ".pdf")
}
