// Package memory is an in-process journal, used when no external backend is
// configured and in tests.
package memory

import (
	"context"
	"sync"

	"billetera/internal/core"
	"billetera/internal/journal"
)

type Store struct {
	mu     sync.Mutex
	limit  int
	seen   map[string]struct{}
	events []core.Event
}

// New returns a journal keeping at most limit events (oldest dropped first).
// A non-positive limit keeps everything.
func New(limit int) *Store {
	return &Store{limit: limit, seen: make(map[string]struct{})}
}

// RecordEvents appends events, ignoring ids already stored.
func (s *Store) RecordEvents(ctx context.Context, events []core.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		if _, ok := s.seen[e.ID]; ok {
			continue
		}
		s.seen[e.ID] = struct{}{}
		s.events = append(s.events, e)
	}
	if s.limit > 0 && len(s.events) > s.limit {
		drop := len(s.events) - s.limit
		for _, e := range s.events[:drop] {
			delete(s.seen, e.ID)
		}
		s.events = append([]core.Event(nil), s.events[drop:]...)
	}
	return nil
}

// ListEvents returns up to limit events, newest first.
func (s *Store) ListEvents(_ context.Context, limit int) ([]core.Event, error) {
	limit = journal.ClampLimit(limit)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Event, 0, min(limit, len(s.events)))
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}

// ListEventsByKind returns up to limit events of one kind, newest first.
func (s *Store) ListEventsByKind(_ context.Context, kind core.EventKind, limit int) ([]core.Event, error) {
	limit = journal.ClampLimit(limit)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Event
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		if s.events[i].Kind == kind {
			out = append(out, s.events[i])
		}
	}
	return out, nil
}

// CountEvents returns how many events are held.
func (s *Store) CountEvents(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events), nil
}
