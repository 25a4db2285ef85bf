package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

type snapshotSource struct {
	mu  sync.Mutex
	rec domain.DocumentRecord
}

func (s *snapshotSource) get() domain.DocumentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec
}

func (s *snapshotSource) setText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	segments := []domain.Segment{seg("seg-001", 1, "hello world")}
	segments[0].TranslatedText = text
	s.rec.Segments = segments
}

func newSnapshotSource() *snapshotSource {
	src := &snapshotSource{rec: domain.DocumentRecord{Document: domain.Document{ID: "doc-1"}}}
	src.setText("")
	return src
}

func TestAutosaverCollapsesBurstIntoOneWrite(t *testing.T) {
	store := newDocumentStoreFake()
	src := newSnapshotSource()
	saver := NewAutosaver(store, 20*time.Millisecond, src.get, nil)

	for _, text := range []string{"b", "bo", "bon", "bonj", "bonjour"} {
		src.setText(text)
		saver.Schedule()
	}

	if !waitFor(func() bool { return store.saveCount() == 1 }, time.Second) {
		t.Fatalf("expected one write, got %d", store.saveCount())
	}
	time.Sleep(60 * time.Millisecond)
	if store.saveCount() != 1 {
		t.Fatalf("expected exactly one write after the burst, got %d", store.saveCount())
	}
	if got := store.lastSave().Segments[0].TranslatedText; got != "bonjour" {
		t.Fatalf("expected latest state to be written, got %q", got)
	}
	if saver.Pending() {
		t.Fatal("no write should be pending after the timer fired")
	}
}

func TestAutosaverSkipsUnchangedContent(t *testing.T) {
	store := newDocumentStoreFake()
	src := newSnapshotSource()
	observer := &observerFake{}
	saver := NewAutosaver(store, time.Hour, src.get, observer)

	src.setText("bonjour")
	if err := saver.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	if err := saver.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}

	if store.saveCount() != 1 {
		t.Fatalf("expected unchanged state to be skipped, got %d writes", store.saveCount())
	}
	if len(observer.autosaves) != 2 || observer.autosaves[0] != autosaveWritten || observer.autosaves[1] != autosaveSkipped {
		t.Fatalf("unexpected autosave events: %v", observer.autosaves)
	}
}

func TestAutosaverPrimeTreatsRecordAsWritten(t *testing.T) {
	store := newDocumentStoreFake()
	src := newSnapshotSource()
	saver := NewAutosaver(store, time.Hour, src.get, nil)

	saver.Prime(src.get())
	if err := saver.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	if store.saveCount() != 0 {
		t.Fatalf("expected primed state not to be rewritten, got %d writes", store.saveCount())
	}
}

func TestAutosaverFlushCancelsPendingTimer(t *testing.T) {
	store := newDocumentStoreFake()
	src := newSnapshotSource()
	saver := NewAutosaver(store, 30*time.Millisecond, src.get, nil)

	src.setText("bonjour")
	saver.Schedule()
	if err := saver.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	time.Sleep(80 * time.Millisecond)

	if store.saveCount() != 1 {
		t.Fatalf("expected only the flushed write, got %d", store.saveCount())
	}
	if saver.LastSaved().IsZero() {
		t.Fatal("expected last saved timestamp")
	}
}

func TestAutosaverRetriesAfterFailedWrite(t *testing.T) {
	store := newDocumentStoreFake()
	store.saveErr = errors.New("db down")
	src := newSnapshotSource()
	saver := NewAutosaver(store, time.Hour, src.get, nil)

	src.setText("bonjour")
	if err := saver.Flush(context.Background()); err == nil {
		t.Fatal("expected flush error")
	}

	store.mu.Lock()
	store.saveErr = nil
	store.mu.Unlock()
	if err := saver.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	if store.saveCount() != 1 {
		t.Fatalf("expected state to be written after recovery, got %d", store.saveCount())
	}
}

func TestAutosaverTimerRetriesFailedWrite(t *testing.T) {
	store := newDocumentStoreFake()
	store.saveErr = errors.New("db down")
	src := newSnapshotSource()
	saver := NewAutosaver(store, 10*time.Millisecond, src.get, nil)
	saver.Prime(src.get())

	src.setText("bonjour")
	saver.Schedule()
	time.Sleep(50 * time.Millisecond)
	if store.saveCount() != 0 {
		t.Fatalf("expected no successful write while store is down, got %d", store.saveCount())
	}
	if !saver.Dirty() {
		t.Fatal("unsaved edit must keep the saver dirty after a failed write")
	}

	store.mu.Lock()
	store.saveErr = nil
	store.mu.Unlock()
	if !waitFor(func() bool { return store.saveCount() == 1 }, 2*time.Second) {
		t.Fatal("failed write was never retried by the timer")
	}
	if got := store.lastSave().Segments[0].TranslatedText; got != "bonjour" {
		t.Fatalf("expected retried write to carry the edit, got %q", got)
	}
	if saver.Dirty() {
		t.Fatal("saver should be clean after the retry succeeded")
	}
}

func TestAutosaverDirtyTracksPayload(t *testing.T) {
	store := newDocumentStoreFake()
	src := newSnapshotSource()
	saver := NewAutosaver(store, time.Hour, src.get, nil)
	saver.Prime(src.get())

	if saver.Dirty() {
		t.Fatal("primed snapshot must not be dirty")
	}
	src.setText("bonjour")
	if !saver.Dirty() {
		t.Fatal("changed snapshot must be dirty without a timer")
	}
	src.setText("")
	if saver.Dirty() {
		t.Fatal("reverting to the persisted content must be clean")
	}
}

func TestAutosaverBackoffIsCapped(t *testing.T) {
	saver := NewAutosaver(newDocumentStoreFake(), time.Second, newSnapshotSource().get, nil)
	for failures, want := range map[int]time.Duration{
		1:  2 * time.Second,
		3:  8 * time.Second,
		20: autosaveMaxBackoff,
	} {
		saver.failures = failures
		if got := saver.backoff(); got != want {
			t.Fatalf("backoff after %d failures = %v, want %v", failures, got, want)
		}
	}
}

func TestAutosaverStopDropsPendingWrite(t *testing.T) {
	store := newDocumentStoreFake()
	src := newSnapshotSource()
	saver := NewAutosaver(store, 20*time.Millisecond, src.get, nil)

	src.setText("bonjour")
	saver.Schedule()
	saver.Stop()
	time.Sleep(60 * time.Millisecond)

	if store.saveCount() != 0 {
		t.Fatalf("expected no write after Stop, got %d", store.saveCount())
	}
}
