package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/mevzuatlab/legal-search/internal/config"
	"github.com/mevzuatlab/legal-search/internal/core/domain"
	"github.com/mevzuatlab/legal-search/internal/core/ports"
	"github.com/mevzuatlab/legal-search/internal/core/usecase"
	"github.com/mevzuatlab/legal-search/internal/observability/metrics"
)

const backpressureWait = 100 * time.Millisecond

// AnswerProvider runs retrieval plus grounded generation.
type AnswerProvider interface {
	Answer(ctx context.Context, question string, opts domain.SearchOptions) (*usecase.AnswerOutcome, error)
}

type Router struct {
	cfg       config.Config
	searcher  ports.LegalSearcher
	evaluator ports.QualityEvaluator
	answerer  AnswerProvider
	ingest    ports.LawIngestor
	docs      ports.LawDocumentReader
	corpus    ports.CorpusReader
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	searcher ports.LegalSearcher,
	evaluator ports.QualityEvaluator,
	answerer AnswerProvider,
	ingest ports.LawIngestor,
	docs ports.LawDocumentReader,
	corpus ports.CorpusReader,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:       cfg,
		searcher:  searcher,
		evaluator: evaluator,
		answerer:  answerer,
		ingest:    ingest,
		docs:      docs,
		corpus:    corpus,
		metrics:   m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/laws", rt.uploadLaw)
	mux.HandleFunc("/v1/laws/", rt.getLawByID)
	mux.HandleFunc("/v1/corpus/stats", rt.corpusStats)
	mux.HandleFunc("/v1/legal/search", rt.search)
	mux.HandleFunc("/v1/legal/answer", rt.answer)
	mux.HandleFunc("/v1/legal/evaluate", rt.evaluate)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.HTTPMaxInFlight, backpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.HTTPRateLimitRPS, rt.cfg.HTTPRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadLaw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getLawByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/laws/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.docs.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) corpusStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	stats, err := rt.corpus.Stats(r.Context())
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type searchRequest struct {
	Query             string  `json:"query"`
	MaxResults        int     `json:"max_results"`
	Profile           string  `json:"precision_profile"`
	MinPrecisionAtOne float64 `json:"min_precision_at_one"`
}

func (req searchRequest) options() domain.SearchOptions {
	return domain.SearchOptions{
		MaxResults:        req.MaxResults,
		Profile:           domain.PrecisionProfile(req.Profile),
		MinPrecisionAtOne: req.MinPrecisionAtOne,
	}
}

func (rt *Router) search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	start := time.Now()
	outcome, err := rt.searcher.Search(r.Context(), req.Query, req.options())
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	if rt.metrics != nil {
		profile := string(req.options().Profile)
		if profile == "" {
			profile = string(domain.ProfileBalanced)
		}
		rt.metrics.RecordSearch("api", profile, string(outcome.QueryContext.Primary), len(outcome.Results), time.Since(start))
		rt.metrics.RecordQualityOutcome("api", profile, outcome.Warning)
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (rt *Router) answer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Question string `json:"question"`
		searchRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	outcome, err := rt.answerer.Answer(r.Context(), req.Question, req.options())
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (rt *Router) evaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Queries []string `json:"queries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	report, err := rt.evaluator.EvaluateQuality(r.Context(), req.Queries)
	if rt.metrics != nil {
		precision := 0.0
		if report != nil {
			precision = report.PrecisionAtOne
		}
		rt.metrics.RecordEvaluationRun("api", precision, err)
	}
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
