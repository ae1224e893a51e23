package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

const defaultMemoryCap = 256

var _ SnapshotCache = (*Memory)(nil)

// Memory is an in-process SnapshotCache with a hard entry cap.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
	cap     int
}

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = defaultMemoryCap
	}
	return &Memory{
		entries: make(map[string]string),
		cap:     capacity,
	}
}

func (m *Memory) Get(ctx context.Context, songID uuid.UUID, version int64) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.entries[snapshotKey(songID, version)]
	return content, ok
}

func (m *Memory) Set(ctx context.Context, songID uuid.UUID, version int64, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) >= m.cap {
		// drop an arbitrary entry to stay under the cap
		for k := range m.entries {
			delete(m.entries, k)
			break
		}
	}
	m.entries[snapshotKey(songID, version)] = content
}

func (m *Memory) Delete(ctx context.Context, songID uuid.UUID, version int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, snapshotKey(songID, version))
}
