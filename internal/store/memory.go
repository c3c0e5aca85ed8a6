// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process Store used by tests and dry runs.
type Memory struct {
	mu      sync.RWMutex
	records map[Kind]map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[Kind]map[string][]byte)}
}

func (m *Memory) Exists(_ context.Context, kind Kind, id string) (bool, error) {
	if err := validate(kind, id); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[kind][id]
	return ok, nil
}

func (m *Memory) ListIDs(_ context.Context, kind Kind) ([]string, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.records[kind]))
	for id := range m.records[kind] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *Memory) Read(_ context.Context, kind Kind, id string) ([]byte, error) {
	if err := validate(kind, id); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.records[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(data), nil
}

func (m *Memory) Write(_ context.Context, kind Kind, id string, data []byte) error {
	if err := validate(kind, id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records[kind] == nil {
		m.records[kind] = make(map[string][]byte)
	}
	m.records[kind][id] = slices.Clone(data)
	return nil
}

func (m *Memory) Close() error { return nil }
