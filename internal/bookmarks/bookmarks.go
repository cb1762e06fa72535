// Package bookmarks tracks the set of item ids the current user has
// bookmarked. Membership is always server-derived: the set is replaced
// wholesale after each refresh, never inferred locally from a toggle.
package bookmarks

import (
	"sort"
	"sync"
)

// Set holds bookmark membership plus per-id toggle bookkeeping.
// Safe for concurrent use.
type Set struct {
	mu      sync.RWMutex
	ids     map[string]struct{}
	pending map[string]struct{}
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{
		ids:     make(map[string]struct{}),
		pending: make(map[string]struct{}),
	}
}

// Replace swaps the membership set for the server's authoritative one.
func (s *Set) Replace(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the set. Used on logout; makes no network call.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
}

// Contains reports whether id is bookmarked.
func (s *Set) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns the bookmarked ids in sorted order.
func (s *Set) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of bookmarked ids.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// BeginToggle marks a toggle round trip for id as pending. Returns false
// when one is already pending: concurrent toggles on the same id are
// serialized so a stale refresh cannot overwrite a newer toggle. Toggles
// on different ids are independent.
func (s *Set) BeginToggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.pending[id]; busy {
		return false
	}
	s.pending[id] = struct{}{}
	return true
}

// EndToggle clears the pending mark for id, whatever the outcome.
func (s *Set) EndToggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// ToggleBusy reports whether a toggle round trip for id is pending.
func (s *Set) ToggleBusy(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, busy := s.pending[id]
	return busy
}
