// Package segment holds the ordered segment set of one document and enforces
// the segment state machine. It performs no I/O.
package segment

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

type Store struct {
	mu       sync.RWMutex
	segments []domain.Segment
	revs     []uint64
	index    map[string]int
	version  uint64
	now      func() time.Time
}

func NewStore(segments []domain.Segment) *Store {
	s := &Store{now: func() time.Time { return time.Now().UTC() }}
	s.replace(segments)
	return s
}

// Replace swaps the whole segment set, as on re-import.
func (s *Store) Replace(segments []domain.Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	s.replace(segments)
}

func (s *Store) replace(segments []domain.Segment) {
	s.segments = make([]domain.Segment, len(segments))
	s.revs = make([]uint64, len(segments))
	s.index = make(map[string]int, len(segments))
	for i, seg := range segments {
		s.segments[i] = seg.Clone()
		s.revs[i] = s.version
		s.index[seg.ID] = i
	}
}

// Snapshot returns deep copies of all segments in document order.
func (s *Store) Snapshot() []domain.Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Segment, len(s.segments))
	for i, seg := range s.segments {
		out[i] = seg.Clone()
	}
	return out
}

func (s *Store) Get(id string) (domain.Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.index[id]
	if !ok {
		return domain.Segment{}, notFound(id)
	}
	return s.segments[idx].Clone(), nil
}

// GetRevision returns the segment with its revision. Revisions are unique
// across the life of the store, including re-imports.
func (s *Store) GetRevision(id string) (domain.Segment, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.index[id]
	if !ok {
		return domain.Segment{}, 0, notFound(id)
	}
	return s.segments[idx].Clone(), s.revs[idx], nil
}

// SnapshotRevisions is Snapshot plus the revision of every segment, taken
// under one lock.
func (s *Store) SnapshotRevisions() ([]domain.Segment, map[string]uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Segment, len(s.segments))
	revs := make(map[string]uint64, len(s.segments))
	for i, seg := range s.segments {
		out[i] = seg.Clone()
		revs[seg.ID] = s.revs[i]
	}
	return out, revs
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.segments)
}

// Version increases on every successful mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) ApplyTranslation(id string, result domain.TranslationResult) error {
	return s.mutate(id, func(seg *domain.Segment) error {
		return applyTranslation(seg, result)
	})
}

// ApplyTranslationIf commits result only if the segment is still at rev, so a
// slow translation never overwrites an edit made while it was running.
func (s *Store) ApplyTranslationIf(id string, rev uint64, result domain.TranslationResult) error {
	return s.mutateIf(id, rev, "apply translation", func(seg *domain.Segment) error {
		return applyTranslation(seg, result)
	})
}

func (s *Store) ApplyTMLookup(id string, score *float64, suggestion string) error {
	return s.mutate(id, func(seg *domain.Segment) error {
		return applyTMLookup(seg, score, suggestion)
	})
}

func (s *Store) ApplyTMLookupIf(id string, rev uint64, score *float64, suggestion string) error {
	return s.mutateIf(id, rev, "apply tm lookup", func(seg *domain.Segment) error {
		return applyTMLookup(seg, score, suggestion)
	})
}

func (s *Store) MarkComplete(id string) error {
	return s.mutate(id, markComplete)
}

func (s *Store) Approve(id string) error {
	return s.mutate(id, approve)
}

func (s *Store) Reject(id string) error {
	return s.mutate(id, reject)
}

func (s *Store) EditTranslation(id, text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "edit translation", fmt.Errorf("segment %s: translated text is empty", id))
	}
	return s.mutate(id, func(seg *domain.Segment) error {
		return editTranslation(seg, text)
	})
}

func (s *Store) Reopen(id string) error {
	return s.mutate(id, reopen)
}

func (s *Store) mutate(id string, fn func(*domain.Segment) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.index[id]
	if !ok {
		return notFound(id)
	}
	return s.commit(idx, fn)
}

func (s *Store) mutateIf(id string, rev uint64, action string, fn func(*domain.Segment) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.index[id]
	if !ok {
		return notFound(id)
	}
	if s.revs[idx] != rev {
		return invalid(&s.segments[idx], action, "segment changed while the result was being prepared")
	}
	return s.commit(idx, fn)
}

// commit runs fn on a copy and stores it only when fn succeeds.
func (s *Store) commit(idx int, fn func(*domain.Segment) error) error {
	working := s.segments[idx].Clone()
	if err := fn(&working); err != nil {
		return err
	}
	working.UpdatedAt = s.now()
	s.version++
	s.segments[idx] = working
	s.revs[idx] = s.version
	return nil
}

func notFound(id string) error {
	return domain.WrapError(domain.ErrSegmentNotFound, "segment store", fmt.Errorf("id=%s", id))
}
