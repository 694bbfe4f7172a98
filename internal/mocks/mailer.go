package mocks

import (
	"context"
	"sync"

	"github.com/taskvault/taskvault-api/internal/notifier"
)

// MockMailer implements notifier.Mailer for testing, recording every
// message it is asked to send.
type MockMailer struct {
	SendFn func(ctx context.Context, msg notifier.Message) error

	mu       sync.Mutex
	messages []notifier.Message
}

var _ notifier.Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, msg notifier.Message) error {
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()
	if m.SendFn != nil {
		return m.SendFn(ctx, msg)
	}
	return nil
}

// Messages returns a copy of everything sent so far.
func (m *MockMailer) Messages() []notifier.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notifier.Message, len(m.messages))
	copy(out, m.messages)
	return out
}
