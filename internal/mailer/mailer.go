// Package mailer is the outbound messaging sink: addressed subject/body
// messages queued for asynchronous delivery.
//
// Discipline: every outbound message is enqueued, never delivered inline. An
// enqueue failure surfaces to the caller on the approval-issuance path (the
// request fails before any email silently vanishes); after a consumed
// approval the state change has already committed, so enqueue failures are
// logged and swallowed by the caller.
package mailer

import (
	"context"
	"sync"
	"time"
)

// Message is one addressed outbound email.
type Message struct {
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	HTMLBody string    `json:"html_body"`
	QueuedAt time.Time `json:"queued_at"`
}

// Mailer accepts messages for asynchronous delivery.
type Mailer interface {
	Enqueue(ctx context.Context, msg Message) error
}

// InMemory collects messages for development and tests.
type InMemory struct {
	mu       sync.RWMutex
	messages []Message
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (m *InMemory) Enqueue(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

// Messages returns a copy of everything enqueued so far.
func (m *InMemory) Messages() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Message{}, m.messages...)
}
