package cache

import "sync"

// Memory is the default in-process store. Entries live for the process
// lifetime; Evict is a deliberate no-op because batch volume is low.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Result
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Result)}
}

func (m *Memory) Get(key string) (Result, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.entries[key]
	return r, ok, nil
}

// Put stores the result unless the key is already present, so a race
// between two equal-hash groups converges on whichever wrote first.
func (m *Memory) Put(key string, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		m.entries[key] = r
	}
	return nil
}

// Len reports the number of cached results.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Evict is the store's eviction policy: keep everything.
func (m *Memory) Evict() {}
