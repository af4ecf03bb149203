package whatsapp

import (
	"context"

	"github.com/google/uuid"
)

// Message is one inbound chat message with its tenant routing resolved.
type Message struct {
	ID         string
	BusinessID int64
	ChatJID    string // where the reply goes
	SenderJID  string
	SenderName string
	Text       string
	IsGroup    bool
}

// MemoryQueue buffers inbound messages between the session event handlers
// and the worker pool.
type MemoryQueue struct {
	ch chan Message
}

// NewMemoryQueue creates a MemoryQueue with the provided buffer capacity.
func NewMemoryQueue(buffer int) *MemoryQueue {
	if buffer <= 0 {
		buffer = 128
	}
	return &MemoryQueue{ch: make(chan Message, buffer)}
}

// Send enqueues a message or blocks until ctx is done.
func (q *MemoryQueue) Send(ctx context.Context, msg Message) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive blocks until a message is available or ctx is done.
func (q *MemoryQueue) Receive(ctx context.Context) (Message, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case msg := <-q.ch:
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}
