package gcal

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockClient is an in-memory Client for tests.
type MockClient struct {
	mu      sync.Mutex
	nextID  int
	Events  map[string]Event
	Err     error
	Creates int
	Updates int
}

func NewMock() *MockClient {
	return &MockClient{Events: make(map[string]Event)}
}

func (m *MockClient) Create(_ context.Context, ev Event) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.nextID++
	id := fmt.Sprintf("gcal-%d", m.nextID)
	ev.ID = id
	m.Events[id] = ev
	m.Creates++
	return id, nil
}

func (m *MockClient) Update(_ context.Context, externalID string, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	ev.ID = externalID
	m.Events[externalID] = ev
	m.Updates++
	return nil
}

func (m *MockClient) Get(_ context.Context, externalID string) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	ev, ok := m.Events[externalID]
	if !ok {
		return nil, fmt.Errorf("mock calendar: no event %s", externalID)
	}
	return &ev, nil
}

func (m *MockClient) List(_ context.Context, from, to time.Time) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]Event, 0, len(m.Events))
	for _, ev := range m.Events {
		if ev.Start.Before(from) || ev.Start.After(to) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}
