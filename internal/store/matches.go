package store

import "sync"

// MatchLog accumulates rendered lines for events that fell inside the watch
// region. It is deliberately not deduplicated: the same event may match in
// consecutive cycles and each sighting is kept. The log is capped; once full,
// the oldest entries are dropped.
type MatchLog struct {
	mu      sync.Mutex
	cap     int
	lines   []string
	dropped int
}

// NewMatchLog creates a MatchLog keeping at most maxEntries lines.
// Non-positive maxEntries falls back to 1000.
func NewMatchLog(maxEntries int) *MatchLog {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &MatchLog{cap: maxEntries}
}

// Append adds a rendered line, dropping the oldest line when the log is full.
func (m *MatchLog) Append(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.lines) == m.cap {
		copy(m.lines, m.lines[1:])
		m.lines[len(m.lines)-1] = line
		m.dropped++
		return
	}
	m.lines = append(m.lines, line)
}

// Snapshot returns a copy of the retained lines, oldest first.
func (m *MatchLog) Snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.lines))
	copy(out, m.lines)
	return out
}

// Dropped returns how many lines were discarded to honor the cap.
func (m *MatchLog) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// Len returns the number of retained lines.
func (m *MatchLog) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}
