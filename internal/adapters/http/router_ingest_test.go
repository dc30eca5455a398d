package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mevzuatlab/legal-search/internal/config"
	"github.com/mevzuatlab/legal-search/internal/core/domain"
	"github.com/mevzuatlab/legal-search/internal/core/usecase"
)

type ingestFake struct {
	err error
}

func (f ingestFake) Upload(_ context.Context, filename, mimeType string, body io.Reader) (*domain.LawDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", io.EOF)
	}

	now := time.Now().UTC()
	return &domain.LawDocument{
		ID:          "doc-1",
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: "doc-1_kanun.json",
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type searcherRouterFake struct {
	err     error
	outcome *domain.SearchOutcome
}

func (f searcherRouterFake) Search(context.Context, string, domain.SearchOptions) (*domain.SearchOutcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.outcome != nil {
		return f.outcome, nil
	}
	return &domain.SearchOutcome{}, nil
}

type evaluatorRouterFake struct {
	err    error
	report *domain.QualityReport
}

func (f evaluatorRouterFake) EvaluateQuality(context.Context, []string) (*domain.QualityReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.report != nil {
		return f.report, nil
	}
	return &domain.QualityReport{}, nil
}

type answererRouterFake struct {
	err error
}

func (f answererRouterFake) Answer(context.Context, string, domain.SearchOptions) (*usecase.AnswerOutcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.AnswerOutcome{Answer: "ok"}, nil
}

type docsRouterFake struct {
	err error
}

func (f docsRouterFake) GetByID(context.Context, string) (*domain.LawDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.LawDocument{ID: "doc-1", Filename: "kanun.json", Status: domain.StatusIndexed}, nil
}

type corpusRouterFake struct {
	err error
}

func (f corpusRouterFake) ListChunks(context.Context) ([]domain.LawChunk, error) { return nil, f.err }

func (f corpusRouterFake) Stats(context.Context) (*domain.CorpusStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CorpusStats{TotalChunks: 42, UniqueArticles: 17, LawNames: []string{"Ceza İnfaz Kanunu"}}, nil
}

type routerFakes struct {
	cfg       config.Config
	ingest    ingestFake
	searcher  searcherRouterFake
	evaluator evaluatorRouterFake
	answerer  answererRouterFake
	docs      docsRouterFake
	corpus    corpusRouterFake
}

func newTestHandler(f routerFakes) http.Handler {
	return NewRouter(f.cfg, f.searcher, f.evaluator, f.answerer, f.ingest, f.docs, f.corpus, nil).Handler()
}

func TestHealthzEndpoint(t *testing.T) {
	handler := newTestHandler(routerFakes{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestUploadLawSuccess(t *testing.T) {
	handler := newTestHandler(routerFakes{})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "kanun.json")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte(`[{"madde_no":"105"}]`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/laws", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", res.Code)
	}

	var docResp map[string]any
	if err := json.NewDecoder(res.Body).Decode(&docResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if docResp["id"] != "doc-1" {
		t.Fatalf("unexpected response: %+v", docResp)
	}
}

func TestUploadLawMissingMultipartField(t *testing.T) {
	handler := newTestHandler(routerFakes{})

	req := httptest.NewRequest(http.MethodPost, "/v1/laws", bytes.NewBufferString("plain-text"))
	req.Header.Set("Content-Type", "text/plain")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestCorpusStatsEndpoint(t *testing.T) {
	handler := newTestHandler(routerFakes{})

	req := httptest.NewRequest(http.MethodGet, "/v1/corpus/stats", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var stats domain.CorpusStats
	if err := json.NewDecoder(res.Body).Decode(&stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.TotalChunks != 42 || len(stats.LawNames) != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
