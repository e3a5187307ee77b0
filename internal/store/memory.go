package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process Store used by tests. It mirrors the gateway's
// failure semantics, including the disconnected state.
type Memory struct {
	mu        sync.RWMutex
	available bool

	blacklist map[string]BlacklistEntry
	users     map[string]UserRecord
	activity  []ActivityRecord
}

func NewMemory() *Memory {
	return &Memory{
		available: true,
		blacklist: make(map[string]BlacklistEntry),
		users:     make(map[string]UserRecord),
	}
}

// SetAvailable toggles the simulated connection state.
func (m *Memory) SetAvailable(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = v
}

func (m *Memory) Available() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.available
}

func (m *Memory) ListBlacklist(_ context.Context) ([]BlacklistEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]BlacklistEntry, 0, len(m.blacklist))
	if !m.available {
		return entries, nil
	}
	for _, e := range m.blacklist {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (m *Memory) GetBlacklistEntry(_ context.Context, id string) (*BlacklistEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.available {
		return nil, ErrNotFound
	}
	e, ok := m.blacklist[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *Memory) UpsertBlacklistEntry(_ context.Context, e BlacklistEntry) (UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return UpsertResult{}, errors.New("store: database not available")
	}
	_, exists := m.blacklist[e.ID]
	m.blacklist[e.ID] = e
	if exists {
		return UpsertResult{Updated: true}, nil
	}
	return UpsertResult{Inserted: true}, nil
}

func (m *Memory) AppendActivity(_ context.Context, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return
	}
	m.activity = append(m.activity, ActivityRecord{
		Message:   message,
		Timestamp: time.Now(),
	})
}

func (m *Memory) RecentActivity(_ context.Context, limit int) ([]ActivityRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []ActivityRecord{}
	if !m.available {
		return records, nil
	}
	for i := len(m.activity) - 1; i >= 0 && len(records) < limit; i-- {
		records = append(records, m.activity[i])
	}
	return records, nil
}

func (m *Memory) UpsertUser(_ context.Context, u UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return errors.New("store: database not available")
	}
	m.users[u.ID] = u
	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.available {
		return nil, ErrNotFound
	}
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) ListUsers(_ context.Context) ([]UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]UserRecord, 0, len(m.users))
	if !m.available {
		return users, nil
	}
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *Memory) Close(_ context.Context) error {
	return nil
}
