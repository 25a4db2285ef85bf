package httpadapter

import (
	"context"
	"net/http"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

type segmentActionFunc func(ctx context.Context, documentID, segmentID string) (*domain.Segment, error)

func (rt *Router) segmentAction(action segmentActionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seg, err := action(r.Context(), r.PathValue("id"), r.PathValue("segmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, seg)
	}
}

func (rt *Router) translateSegment(w http.ResponseWriter, r *http.Request) {
	result, err := rt.docs.TranslateSegment(r.Context(), r.PathValue("id"), r.PathValue("segmentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) editTranslation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	seg, err := rt.docs.EditTranslation(r.Context(), r.PathValue("id"), r.PathValue("segmentID"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seg)
}

func (rt *Router) analyzeSegment(w http.ResponseWriter, r *http.Request) {
	analysis, err := rt.docs.AnalyzeSegment(r.Context(), r.PathValue("id"), r.PathValue("segmentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}
