package httpadapter

import (
	"errors"
	"net/http"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrDocumentNotFound), domain.IsKind(err, domain.ErrSegmentNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrInvalidTransition), domain.IsKind(err, domain.ErrIncompleteSegments):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrTranslationUnavailable),
		domain.IsKind(err, domain.ErrAnalysisUnavailable),
		domain.IsKind(err, domain.ErrTMUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error      string   `json:"error"`
	Kind       string   `json:"kind,omitempty"`
	SegmentIDs []string `json:"segmentIds,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	resp := errorResponse{Error: err.Error(), Kind: errorKind(err)}

	var incomplete *domain.IncompleteSegmentsError
	if errors.As(err, &incomplete) {
		resp.SegmentIDs = incomplete.SegmentIDs
	}
	var transition *domain.TransitionError
	if errors.As(err, &transition) {
		resp.SegmentIDs = []string{transition.SegmentID}
	}
	writeJSON(w, status, resp)
}

func errorKind(err error) string {
	kinds := []struct {
		kind error
		name string
	}{
		{domain.ErrInvalidInput, "invalid_input"},
		{domain.ErrDocumentNotFound, "document_not_found"},
		{domain.ErrSegmentNotFound, "segment_not_found"},
		{domain.ErrInvalidTransition, "invalid_transition"},
		{domain.ErrIncompleteSegments, "incomplete_segments"},
		{domain.ErrTranslationUnavailable, "translation_unavailable"},
		{domain.ErrAnalysisUnavailable, "analysis_unavailable"},
		{domain.ErrTMUnavailable, "tm_unavailable"},
		{domain.ErrTemporary, "temporary"},
	}
	for _, k := range kinds {
		if domain.IsKind(err, k.kind) {
			return k.name
		}
	}
	return ""
}
