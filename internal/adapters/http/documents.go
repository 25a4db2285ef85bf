package httpadapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

func (rt *Router) importDocument(w http.ResponseWriter, r *http.Request) {
	var req domain.ImportRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	rec, err := rt.docs.Import(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	rec, err := rt.docs.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (rt *Router) reimportDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceText string `json:"sourceText"`
	}
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	rec, err := rt.docs.Reimport(r.Context(), r.PathValue("id"), req.SourceText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (rt *Router) getAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := rt.docs.GetAnalytics(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

func (rt *Router) getDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := rt.docs.GenerateDraft(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (rt *Router) getReviewWorkbook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, err := rt.docs.ExportReview(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+"-review.xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type bulkRequest struct {
	SegmentIDs []string `json:"segmentIds"`
}

type bulkResponse struct {
	Results   map[string]domain.TranslationResult `json:"results"`
	Failed    []string                            `json:"failed"`
	Completed int                                 `json:"completed"`
	Total     int                                 `json:"total"`
}

// translateDocument runs a bulk translation inside the request. Segments that
// failed are listed but do not fail the request.
func (rt *Router) translateDocument(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, err)
		return
	}
	id := r.PathValue("id")

	var completed, total int
	results, err := rt.docs.TranslateAll(r.Context(), id, req.SegmentIDs, func(done, all int) {
		completed, total = done, all
	})
	if err != nil {
		writeError(w, err)
		return
	}

	rec, err := rt.docs.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bulkResponse{
		Results:   results,
		Failed:    failedSegments(rec.Segments, req.SegmentIDs, results),
		Completed: completed,
		Total:     total,
	})
}

// failedSegments lists the targeted segments that produced no result. With no
// explicit ids every segment that was not already completed was targeted.
func failedSegments(segments []domain.Segment, requested []string, results map[string]domain.TranslationResult) []string {
	targeted := make(map[string]bool, len(requested))
	for _, id := range requested {
		targeted[id] = true
	}
	failed := make([]string, 0)
	for _, seg := range segments {
		if len(requested) > 0 && !targeted[seg.ID] {
			continue
		}
		if seg.TranslationStatus == domain.StatusCompleted {
			continue
		}
		if _, ok := results[seg.ID]; !ok {
			failed = append(failed, seg.ID)
		}
	}
	return failed
}

func (rt *Router) enqueueTranslation(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, err)
		return
	}
	job := domain.BulkTranslationJob{
		DocumentID: r.PathValue("id"),
		SegmentIDs: req.SegmentIDs,
		RequestID:  requestIDFromContext(r.Context()),
	}
	if err := rt.docs.EnqueueBulk(r.Context(), job); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"documentId": job.DocumentID,
		"requestId":  job.RequestID,
		"status":     "queued",
	})
}

func (rt *Router) addTMEntries(w http.ResponseWriter, r *http.Request) {
	if rt.tm == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "translation memory import is not configured"})
		return
	}
	var req struct {
		Entries []domain.TMEntry `json:"entries"`
	}
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	for i := range req.Entries {
		req.Entries[i].SourceLanguage = strings.ToLower(req.Entries[i].SourceLanguage)
		req.Entries[i].TargetLanguage = strings.ToLower(req.Entries[i].TargetLanguage)
	}
	n, err := rt.tm.AddEntries(r.Context(), req.Entries)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"added": n})
}
