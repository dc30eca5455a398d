package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

type extractorFake struct {
	articles []domain.LawArticle
	err      error
}

func (f *extractorFake) Extract(context.Context, *domain.LawDocument) ([]domain.LawArticle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

type chunkerFake struct {
	pieces int
}

func (f *chunkerFake) Split(text string) []string {
	if f.pieces <= 1 {
		return []string{text}
	}
	out := make([]string, f.pieces)
	for i := range out {
		out[i] = text
	}
	return out
}

type processEmbedderFake struct {
	texts []string
	short bool
	err   error
}

func (f *processEmbedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.texts = texts
	if f.err != nil {
		return nil, f.err
	}
	n := len(texts)
	if f.short {
		n--
	}
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = []float32{0.1}
	}
	return vectors, nil
}

func (f *processEmbedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{0.1}, nil
}

type processVectorFake struct {
	chunks []domain.LawChunk
	err    error
}

func (f *processVectorFake) IndexChunks(_ context.Context, chunks []domain.LawChunk, _ [][]float32) error {
	if f.err != nil {
		return f.err
	}
	f.chunks = chunks
	return nil
}

func (f *processVectorFake) Search(context.Context, []float32, int, float64) ([]domain.Candidate, error) {
	return nil, nil
}

type chunkStoreFake struct {
	chunks []domain.LawChunk
	err    error
}

func (f *chunkStoreFake) InsertChunks(_ context.Context, chunks []domain.LawChunk) error {
	if f.err != nil {
		return f.err
	}
	f.chunks = chunks
	return nil
}

func furloughArticle() domain.LawArticle {
	return domain.LawArticle{
		ArticleNo: "105",
		Title:     "Hükümlü izinleri",
		Content:   "Hükümlüye kurum dışı izin verilebilir.",
		LawName:   "Ceza İnfaz Kanunu",
		Paragraphs: []domain.LawParagraph{
			{No: "1", Content: "İzin süresi yol hariç yedi gündür."},
		},
	}
}

func TestProcessByIDHappyPath(t *testing.T) {
	repo := &lawRepoFake{doc: &domain.LawDocument{ID: "doc-1", Status: domain.StatusUploaded}}
	vector := &processVectorFake{}
	store := &chunkStoreFake{}
	uc := NewProcessLawUseCase(repo, &extractorFake{articles: []domain.LawArticle{furloughArticle()}},
		&chunkerFake{}, &processEmbedderFake{}, vector, store)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}

	wantStatuses := []domain.LawDocumentStatus{domain.StatusProcessing, domain.StatusIndexed}
	if len(repo.statuses) != 2 || repo.statuses[0] != wantStatuses[0] || repo.statuses[1] != wantStatuses[1] {
		t.Fatalf("expected statuses %v, got %v", wantStatuses, repo.statuses)
	}
	if len(vector.chunks) != 1 || len(store.chunks) != 1 {
		t.Fatalf("expected one chunk in both stores, got %d/%d", len(vector.chunks), len(store.chunks))
	}

	chunk := vector.chunks[0]
	if chunk.ID != "doc-1_105_0" {
		t.Fatalf("expected deterministic chunk id, got %s", chunk.ID)
	}
	if chunk.Metadata.ArticleNo != "105" || chunk.Metadata.LawName != "Ceza İnfaz Kanunu" {
		t.Fatalf("chunk metadata lost provenance: %+v", chunk.Metadata)
	}
	if !strings.Contains(chunk.Content, "(1) İzin süresi") {
		t.Fatalf("paragraph text must be folded into the chunk body: %q", chunk.Content)
	}
}

func TestProcessByIDSplitsLongArticles(t *testing.T) {
	repo := &lawRepoFake{doc: &domain.LawDocument{ID: "doc-1"}}
	vector := &processVectorFake{}
	uc := NewProcessLawUseCase(repo, &extractorFake{articles: []domain.LawArticle{furloughArticle()}},
		&chunkerFake{pieces: 3}, &processEmbedderFake{}, vector, &chunkStoreFake{})

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(vector.chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(vector.chunks))
	}
	for i, chunk := range vector.chunks {
		if chunk.Metadata.ChunkIndex != i || chunk.Metadata.TotalChunks != 3 {
			t.Fatalf("bad chunk position metadata: %+v", chunk.Metadata)
		}
	}
}

func TestProcessByIDMarksFailedOnExtractError(t *testing.T) {
	repo := &lawRepoFake{doc: &domain.LawDocument{ID: "doc-1"}}
	uc := NewProcessLawUseCase(repo, &extractorFake{err: errors.New("parse failed")},
		&chunkerFake{}, &processEmbedderFake{}, &processVectorFake{}, &chunkStoreFake{})

	if err := uc.ProcessByID(context.Background(), "doc-1"); err == nil {
		t.Fatalf("expected error")
	}
	last := repo.statuses[len(repo.statuses)-1]
	if last != domain.StatusFailed {
		t.Fatalf("expected failed status, got %v", repo.statuses)
	}
	if repo.errs[len(repo.errs)-1] == "" {
		t.Fatalf("expected failure message recorded")
	}
}

func TestProcessByIDRejectsEmptyExtraction(t *testing.T) {
	repo := &lawRepoFake{doc: &domain.LawDocument{ID: "doc-1"}}
	uc := NewProcessLawUseCase(repo, &extractorFake{}, &chunkerFake{}, &processEmbedderFake{},
		&processVectorFake{}, &chunkStoreFake{})

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestProcessByIDVectorCountMismatch(t *testing.T) {
	repo := &lawRepoFake{doc: &domain.LawDocument{ID: "doc-1"}}
	uc := NewProcessLawUseCase(repo, &extractorFake{articles: []domain.LawArticle{furloughArticle()}},
		&chunkerFake{pieces: 2}, &processEmbedderFake{short: true}, &processVectorFake{}, &chunkStoreFake{})

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil || !strings.Contains(err.Error(), "mismatch") {
		t.Fatalf("expected vectors/chunks mismatch error, got %v", err)
	}
}

func TestProcessByIDFallsBackToDocumentLawName(t *testing.T) {
	repo := &lawRepoFake{doc: &domain.LawDocument{ID: "doc-1", LawName: "Gümrük Kanunu"}}
	article := furloughArticle()
	article.LawName = ""
	vector := &processVectorFake{}
	uc := NewProcessLawUseCase(repo, &extractorFake{articles: []domain.LawArticle{article}},
		&chunkerFake{}, &processEmbedderFake{}, vector, &chunkStoreFake{})

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if vector.chunks[0].Metadata.LawName != "Gümrük Kanunu" {
		t.Fatalf("expected document law name fallback, got %q", vector.chunks[0].Metadata.LawName)
	}
}
