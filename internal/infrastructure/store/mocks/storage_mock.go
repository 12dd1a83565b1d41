package mocks

import (
	"context"
	"sync"
)

// MockStorage is an in-memory store.Storage that records calls and can be
// told to fail.
type MockStorage struct {
	mu   sync.RWMutex
	data map[string][]byte

	// For tracking calls in tests
	GetCalls []string
	SetCalls []SetCall

	GetErr error
	SetErr error
}

// SetCall records parameters passed to Set
type SetCall struct {
	Key   string
	Value []byte
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		data:     make(map[string][]byte),
		GetCalls: make([]string, 0),
		SetCalls: make([]SetCall, 0),
	}
}

func (m *MockStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, key)
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MockStorage) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: append([]byte(nil), value...)})
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Seed writes a value directly, without recording a call.
func (m *MockStorage) Seed(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
}

// Value returns the stored bytes for key.
func (m *MockStorage) Value(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// LastSet returns the most recent Set call.
func (m *MockStorage) LastSet() (SetCall, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.SetCalls) == 0 {
		return SetCall{}, false
	}
	return m.SetCalls[len(m.SetCalls)-1], true
}

// Reset clears all data, recorded calls and injected errors
func (m *MockStorage) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	m.GetCalls = make([]string, 0)
	m.SetCalls = make([]SetCall, 0)
	m.GetErr = nil
	m.SetErr = nil
}
