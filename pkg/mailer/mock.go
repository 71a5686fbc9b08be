package mailer

import (
	"context"
	"sync"
)

// MockClient is a mock mail sender for testing
type MockClient struct {
	mu      sync.Mutex
	sent    []Message
	sendErr error
	failFor map[string]error
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithSendError makes every Send fail with err
func WithSendError(err error) MockOption {
	return func(m *MockClient) {
		m.sendErr = err
	}
}

// WithRecipientError makes Send fail with err for one recipient only
func WithRecipientError(to string, err error) MockOption {
	return func(m *MockClient) {
		m.failFor[to] = err
	}
}

// NewMockClient creates a mock sender
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{failFor: make(map[string]error)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send records msg unless an error is configured for it
func (m *MockClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendErr != nil {
		return m.sendErr
	}
	if err, ok := m.failFor[msg.To]; ok {
		return err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of the delivered messages
func (m *MockClient) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

var _ Sender = (*MockClient)(nil)
