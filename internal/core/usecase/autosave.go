package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/ports"
)

const (
	DefaultAutosaveDelay = 1500 * time.Millisecond
	autosaveWriteTimeout = 30 * time.Second
	autosaveMaxBackoff   = time.Minute

	autosaveWritten = "written"
	autosaveSkipped = "skipped"
	autosaveFailed  = "failed"
)

// Autosaver debounces document writes. A burst of Schedule calls collapses
// into one write of the latest snapshot, and a snapshot identical to the last
// successful write is never written again. A failed timed write is re-armed
// with a doubling delay until it succeeds or a newer Schedule takes over.
type Autosaver struct {
	store    ports.DocumentStore
	snapshot func() domain.DocumentRecord
	delay    time.Duration
	observer ports.TranslationObserver
	now      func() time.Time

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	failures   int

	writeMu     sync.Mutex
	lastPayload []byte
	lastSaved   time.Time
}

func NewAutosaver(
	store ports.DocumentStore,
	delay time.Duration,
	snapshot func() domain.DocumentRecord,
	observer ports.TranslationObserver,
) *Autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &Autosaver{
		store:    store,
		snapshot: snapshot,
		delay:    delay,
		observer: observer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Prime records rec as already persisted.
func (a *Autosaver) Prime(rec domain.DocumentRecord) {
	payload, err := persistedPayload(rec)
	if err != nil {
		return
	}
	a.writeMu.Lock()
	a.lastPayload = payload
	a.lastSaved = rec.LastUpdated
	a.writeMu.Unlock()
}

// Schedule (re)starts the debounce window.
func (a *Autosaver) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	gen := a.generation
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() { a.fire(gen) })
}

// Pending reports whether a debounced write is waiting to run.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

// Dirty reports whether the current snapshot differs from what was last
// persisted, including after a failed write with no timer armed.
func (a *Autosaver) Dirty() bool {
	if a.Pending() {
		return true
	}
	payload, err := persistedPayload(a.snapshot())
	if err != nil {
		return true
	}
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	return a.lastPayload == nil || !bytes.Equal(payload, a.lastPayload)
}

func (a *Autosaver) LastSaved() time.Time {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	return a.lastSaved
}

// Flush cancels any pending timer and writes immediately if state changed.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.cancelPending()
	if err := a.write(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	a.failures = 0
	a.mu.Unlock()
	return nil
}

// Stop cancels a pending write without running it.
func (a *Autosaver) Stop() {
	a.cancelPending()
}

func (a *Autosaver) cancelPending() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Autosaver) fire(gen uint64) {
	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), autosaveWriteTimeout)
	defer cancel()
	err := a.write(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err == nil {
		a.failures = 0
		return
	}
	// A Schedule or Stop since this timer fired owns the next attempt.
	if gen != a.generation || a.timer != nil {
		return
	}
	a.failures++
	backoff := a.backoff()
	slog.Warn("autosave_retry_scheduled", "attempt", a.failures, "backoff", backoff, "error", err)
	a.timer = time.AfterFunc(backoff, func() { a.fire(gen) })
}

func (a *Autosaver) backoff() time.Duration {
	d := a.delay
	for i := 0; i < a.failures && d < autosaveMaxBackoff; i++ {
		d *= 2
	}
	return min(d, autosaveMaxBackoff)
}

func (a *Autosaver) write(ctx context.Context) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	rec := a.snapshot()
	payload, err := persistedPayload(rec)
	if err != nil {
		a.observer.AutosaveWrite(autosaveFailed)
		return fmt.Errorf("autosave encode document %s: %w", rec.Document.ID, err)
	}
	if a.lastPayload != nil && bytes.Equal(payload, a.lastPayload) {
		a.observer.AutosaveWrite(autosaveSkipped)
		return nil
	}

	rec.LastUpdated = a.now().Truncate(time.Microsecond)
	if err := a.store.Save(ctx, &rec); err != nil {
		a.observer.AutosaveWrite(autosaveFailed)
		slog.Error("autosave_failed", "document_id", rec.Document.ID, "error", err)
		return fmt.Errorf("autosave document %s: %w", rec.Document.ID, err)
	}
	a.lastPayload = payload
	a.lastSaved = rec.LastUpdated
	a.observer.AutosaveWrite(autosaveWritten)
	slog.Debug("autosave_written", "document_id", rec.Document.ID, "segments", len(rec.Segments))
	return nil
}

// persistedPayload is the content used for change detection. LastUpdated is
// excluded so an unchanged document never looks dirty.
func persistedPayload(rec domain.DocumentRecord) ([]byte, error) {
	return json.Marshal(struct {
		Segments          []domain.Segment         `json:"segments"`
		LeverageAnalytics domain.LeverageAnalytics `json:"leverageAnalytics"`
		DraftTranslation  *domain.DraftTranslation `json:"draftTranslation,omitempty"`
	}{rec.Segments, rec.LeverageAnalytics, rec.DraftTranslation})
}
