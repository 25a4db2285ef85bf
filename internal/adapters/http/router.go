package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/config"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/ports"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/observability/metrics"
)

const serviceName = "api"

// DocumentAPI is everything the router needs from the document service.
type DocumentAPI interface {
	ports.DocumentImporter
	ports.DocumentReader
	ports.SegmentWorkflow
	ports.BulkTranslator
}

type Router struct {
	cfg     config.Config
	docs    DocumentAPI
	tm      ports.TMImporter
	metrics *metrics.HTTPServerMetrics
}

// NewRouter wires the HTTP API. tm and httpMetrics may be nil.
func NewRouter(cfg config.Config, docs DocumentAPI, tm ports.TMImporter, httpMetrics *metrics.HTTPServerMetrics) *Router {
	return &Router{
		cfg:     cfg,
		docs:    docs,
		tm:      tm,
		metrics: httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("POST /v1/documents", rt.importDocument)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocument)
	mux.HandleFunc("PUT /v1/documents/{id}/source", rt.reimportDocument)
	mux.HandleFunc("GET /v1/documents/{id}/analytics", rt.getAnalytics)
	mux.HandleFunc("GET /v1/documents/{id}/draft", rt.getDraft)
	mux.HandleFunc("GET /v1/documents/{id}/review.xlsx", rt.getReviewWorkbook)
	mux.HandleFunc("POST /v1/documents/{id}/translate", rt.translateDocument)
	mux.HandleFunc("POST /v1/documents/{id}/translate/async", rt.enqueueTranslation)

	mux.HandleFunc("POST /v1/documents/{id}/segments/{segmentID}/translate", rt.translateSegment)
	mux.HandleFunc("POST /v1/documents/{id}/segments/{segmentID}/tm-lookup", rt.segmentAction(rt.docs.LookupTM))
	mux.HandleFunc("POST /v1/documents/{id}/segments/{segmentID}/complete", rt.segmentAction(rt.docs.MarkComplete))
	mux.HandleFunc("POST /v1/documents/{id}/segments/{segmentID}/approve", rt.segmentAction(rt.docs.Approve))
	mux.HandleFunc("POST /v1/documents/{id}/segments/{segmentID}/reject", rt.segmentAction(rt.docs.Reject))
	mux.HandleFunc("POST /v1/documents/{id}/segments/{segmentID}/reopen", rt.segmentAction(rt.docs.Reopen))
	mux.HandleFunc("PUT /v1/documents/{id}/segments/{segmentID}/translation", rt.editTranslation)
	mux.HandleFunc("GET /v1/documents/{id}/segments/{segmentID}/analysis", rt.analyzeSegment)

	mux.HandleFunc("POST /v1/tm/entries", rt.addTMEntries)

	var handler http.Handler = mux
	handler = bodyLimitMiddleware(handler, rt.cfg.APIRequestBodyMax)
	var onLimited func()
	if rt.metrics != nil {
		onLimited = func() { rt.metrics.RecordRateLimited(serviceName) }
	}
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, onLimited)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIQueueWait)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON reads a request body into dst. An empty body is accepted when
// allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.WrapError(domain.ErrInvalidInput, "decode request", fmt.Errorf("body exceeds %d bytes", tooLarge.Limit))
		}
		return domain.WrapError(domain.ErrInvalidInput, "decode request", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
