package parallel

import "sync"

// DigestSet remembers the first cycle at which each digest was seen
type DigestSet struct {
	mu  sync.RWMutex
	set map[[32]byte]int
}

// NewDigestSet creates an empty set
func NewDigestSet() *DigestSet {
	return &DigestSet{
		set: make(map[[32]byte]int),
	}
}

// Insert records digest at cycle. When the digest was already present it returns the
// cycle it was first seen at and true, and keeps that first cycle.
func (m *DigestSet) Insert(digest [32]byte, cycle int) (first int, seen bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if first, seen = m.set[digest]; seen {
		return first, true
	}
	m.set[digest] = cycle
	return cycle, false
}

// Len is the number of distinct digests
func (m *DigestSet) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.set)
}
