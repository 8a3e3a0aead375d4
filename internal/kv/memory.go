package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store used as the default backend and in tests.
type Memory struct {
	mu       sync.Mutex
	data     map[string][]byte
	watchers map[int]chan string
	nextID   int
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string][]byte),
		watchers: make(map[int]chan string),
	}
}

// Get returns a copy of the stored value.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set stores a copy of value under key and fans the key out to watchers.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	m.data[key] = stored
	watchers := make([]chan string, 0, len(m.watchers))
	for _, ch := range m.watchers {
		watchers = append(watchers, ch)
	}
	m.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- key:
		default:
			// A slow watcher drops notifications rather than blocking writers.
		}
	}
	return nil
}

// Delete removes key without notifying watchers.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Watch registers a change listener that lives until ctx is cancelled.
func (m *Memory) Watch(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 16)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = ch
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// Close is a no-op for the in-memory backend.
func (m *Memory) Close() {}
