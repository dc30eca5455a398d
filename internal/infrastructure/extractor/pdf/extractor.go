// Package pdf extracts law articles from scanned-to-text PDF sources. The
// official gazette PDFs carry no structure, so articles are recovered from
// the "MADDE n" markers in the plain text.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
	"github.com/mevzuatlab/legal-search/internal/core/ports"
)

var articleMarker = regexp.MustCompile(`(?i)\bMADDE\s+(\d+)\s*[-.:]?`)

type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.LawDocument) ([]domain.LawArticle, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open law source: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read law source: %w", err)
	}

	text, err := plainText(raw)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract pdf text", err)
	}

	articles := splitArticles(text, doc.LawName)
	if len(articles) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract pdf text", errors.New("no MADDE markers found"))
	}
	return articles, nil
}

func plainText(raw []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", err
	}
	body, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	text, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// splitArticles carves the text at every MADDE marker. The slice between two
// markers is one article body; text before the first marker is the preamble
// and is dropped.
func splitArticles(text, lawName string) []domain.LawArticle {
	marks := articleMarker.FindAllStringSubmatchIndex(text, -1)
	if len(marks) == 0 {
		return nil
	}

	articles := make([]domain.LawArticle, 0, len(marks))
	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}

		body := strings.TrimSpace(text[m[1]:end])
		if body == "" {
			continue
		}
		articles = append(articles, domain.LawArticle{
			ArticleNo: text[m[2]:m[3]],
			Content:   body,
			LawName:   lawName,
		})
	}
	return articles
}
