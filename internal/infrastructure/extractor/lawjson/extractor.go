// Package lawjson parses the structured JSON law corpus format.
package lawjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
	"github.com/mevzuatlab/legal-search/internal/core/ports"
)

type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

// lawFile is the wrapped corpus form: law name once at the top, articles in
// a maddeler list. The bare form is a top-level article array.
type lawFile struct {
	LawName  string              `json:"kanun_adi"`
	Articles []domain.LawArticle `json:"maddeler"`
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

	articles, err := parseArticles(raw)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse law json", err)
	}

	out := articles[:0]
	for _, a := range articles {
		if strings.TrimSpace(a.ArticleNo) == "" {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func parseArticles(raw []byte) ([]domain.LawArticle, error) {
	var articles []domain.LawArticle
	arrayErr := json.Unmarshal(raw, &articles)
	if arrayErr == nil {
		return articles, nil
	}

	var file lawFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, arrayErr
	}
	if len(file.Articles) == 0 {
		return nil, errors.New("no maddeler entries")
	}
	for i := range file.Articles {
		if file.Articles[i].LawName == "" {
			file.Articles[i].LawName = file.LawName
		}
	}
	return file.Articles, nil
}
