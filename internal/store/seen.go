package store

import (
	"container/list"
	"sync"
	"time"
)

// SeenIndex tracks event fingerprints that have already been reported, so a
// fingerprint is emitted as new at most once while its entry lives. Entries
// expire after a TTL and the index is capped, evicting the least recently
// seen fingerprint first; without the bound the index would grow for the
// lifetime of the process.
type SeenIndex struct {
	mu      sync.Mutex
	cap     int
	ttl     time.Duration
	ll      *list.List               // most recently seen at front
	entries map[string]*list.Element // fingerprint -> element
}

type seenEntry struct {
	fingerprint string
	rendered    string
	expiresAt   time.Time
}

// NewSeenIndex creates a SeenIndex holding at most maxEntries fingerprints,
// each for at most ttl after its last sighting. Non-positive arguments fall
// back to 10000 entries and 24h.
func NewSeenIndex(maxEntries int, ttl time.Duration) *SeenIndex {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SeenIndex{
		cap:     maxEntries,
		ttl:     ttl,
		ll:      list.New(),
		entries: make(map[string]*list.Element, maxEntries),
	}
}

// IsNew reports whether the fingerprint has no live entry. An expired entry
// counts as never seen and is dropped.
func (s *SeenIndex) IsNew(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[fingerprint]
	if !ok {
		return true
	}
	if clock.Now().Before(el.Value.(seenEntry).expiresAt) {
		return false
	}
	s.ll.Remove(el)
	delete(s.entries, fingerprint)
	return true
}

// Record stores or refreshes the fingerprint with its rendered line. It must
// be called for every processed event, new or not, so later cycles treat the
// event as already seen.
func (s *SeenIndex) Record(fingerprint, rendered string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := clock.Now().Add(s.ttl)
	if el, ok := s.entries[fingerprint]; ok {
		el.Value = seenEntry{fingerprint: fingerprint, rendered: rendered, expiresAt: expiresAt}
		s.ll.MoveToFront(el)
		return
	}

	el := s.ll.PushFront(seenEntry{fingerprint: fingerprint, rendered: rendered, expiresAt: expiresAt})
	s.entries[fingerprint] = el

	for s.ll.Len() > s.cap {
		s.evictBack()
	}
	// Opportunistically drop expired entries from the tail.
	for {
		back := s.ll.Back()
		if back == nil || clock.Now().Before(back.Value.(seenEntry).expiresAt) {
			break
		}
		s.evictBack()
	}
}

// Rendered returns the stored rendered line for a fingerprint, if any.
func (s *SeenIndex) Rendered(fingerprint string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[fingerprint]
	if !ok {
		return "", false
	}
	return el.Value.(seenEntry).rendered, true
}

// Len returns the number of live and not-yet-evicted entries.
func (s *SeenIndex) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ll.Len()
}

func (s *SeenIndex) evictBack() {
	back := s.ll.Back()
	if back == nil {
		return
	}
	s.ll.Remove(back)
	delete(s.entries, back.Value.(seenEntry).fingerprint)
}
