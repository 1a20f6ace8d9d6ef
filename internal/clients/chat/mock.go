package chat

import (
	"context"
	"sync"
)

// MockClient records every send for assertions in tests and works as
// a no-network stand-in during local development.
type MockClient struct {
	mu   sync.Mutex
	Sent []MockMessage
	Err  error
}

type MockMessage struct {
	To   string
	Body string
}

func NewMock() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Send(_ context.Context, to string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, MockMessage{To: to, Body: body})
	return nil
}

// Bodies returns just the message texts, in send order.
func (m *MockClient) Bodies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Sent))
	for _, s := range m.Sent {
		out = append(out, s.Body)
	}
	return out
}
