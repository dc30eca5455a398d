package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestSearchMapsInvalidInputTo400(t *testing.T) {
	handler := newTestHandler(routerFakes{
		searcher: searcherRouterFake{err: domain.WrapError(domain.ErrInvalidInput, "search", errors.New("blank query"))},
	})

	res := postJSON(t, handler, "/v1/legal/search", map[string]any{"query": "izin"})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestSearchMapsTemporaryTo503(t *testing.T) {
	handler := newTestHandler(routerFakes{
		searcher: searcherRouterFake{err: domain.WrapError(domain.ErrTemporary, "embed query", errors.New("ollama down"))},
	})

	res := postJSON(t, handler, "/v1/legal/search", map[string]any{"query": "izin"})
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	handler := newTestHandler(routerFakes{})

	res := postJSON(t, handler, "/v1/legal/search", map[string]any{"query": "   "})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestSearchReturnsOutcomeWithWarning(t *testing.T) {
	handler := newTestHandler(routerFakes{
		searcher: searcherRouterFake{outcome: &domain.SearchOutcome{
			Results: []domain.ScoredResult{{ID: "infaz-105-0", FinalScore: 0.8}},
			QueryContext: domain.DomainContext{
				Primary:    domain.DomainInfaz,
				Confidence: 1,
			},
			Warning: "arama kalitesi hedefin altında",
		}},
	})

	res := postJSON(t, handler, "/v1/legal/search", map[string]any{
		"query": "hükümlü izni", "max_results": 3, "precision_profile": "strict",
	})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var outcome domain.SearchOutcome
	if err := json.NewDecoder(res.Body).Decode(&outcome); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(outcome.Results) != 1 || outcome.Results[0].ID != "infaz-105-0" {
		t.Fatalf("results lost: %+v", outcome.Results)
	}
	if outcome.QueryContext.Primary != domain.DomainInfaz || outcome.Warning == "" {
		t.Fatalf("diagnostics lost: %+v", outcome)
	}
}

func TestAnswerRejectsBlankQuestion(t *testing.T) {
	handler := newTestHandler(routerFakes{})

	res := postJSON(t, handler, "/v1/legal/answer", map[string]any{"question": ""})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestEvaluateMapsInvalidInputTo400(t *testing.T) {
	handler := newTestHandler(routerFakes{
		evaluator: evaluatorRouterFake{err: domain.WrapError(domain.ErrInvalidInput, "evaluate", errors.New("no queries"))},
	})

	res := postJSON(t, handler, "/v1/legal/evaluate", map[string]any{"queries": []string{}})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestEvaluateReturnsReport(t *testing.T) {
	handler := newTestHandler(routerFakes{
		evaluator: evaluatorRouterFake{report: &domain.QualityReport{
			PrecisionAtOne:   0.82,
			PrecisionAtThree: 0.74,
			AverageRelevance: 0.69,
		}},
	})

	res := postJSON(t, handler, "/v1/legal/evaluate", map[string]any{"queries": []string{"hükümlü izni"}})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var report domain.QualityReport
	if err := json.NewDecoder(res.Body).Decode(&report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if report.PrecisionAtOne != 0.82 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestGetLawByIDReturns404ForNotFound(t *testing.T) {
	handler := newTestHandler(routerFakes{
		docs: docsRouterFake{err: domain.WrapError(domain.ErrDocumentNotFound, "get", errors.New("id=missing"))},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/laws/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}
