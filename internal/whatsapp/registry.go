package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoSession is returned when a business has no active WhatsApp session.
var ErrNoSession = errors.New("no active session for business")

// SessionHandle is the per-business session surface the rest of the
// platform uses. *Session implements it; tests use fakes.
type SessionHandle interface {
	SendText(ctx context.Context, toJID, text string) error
	Authenticated() bool
	QRCode() string
	Disconnect()
}

// Registry tracks the active WhatsApp session per business. It is injected
// into everything that needs to send, so tests can swap in fakes; there is
// no process-wide singleton.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]SessionHandle
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]SessionHandle)}
}

// Put registers the session for a business, replacing any previous one.
func (r *Registry) Put(businessID int64, s SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[businessID] = s
}

// Get returns the session for a business.
func (r *Registry) Get(businessID int64) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[businessID]
	return s, ok
}

// Remove drops and disconnects a business's session.
func (r *Registry) Remove(businessID int64) {
	r.mu.Lock()
	s := r.sessions[businessID]
	delete(r.sessions, businessID)
	r.mu.Unlock()
	if s != nil {
		s.Disconnect()
	}
}

// SendText routes an outbound message through the business's session.
func (r *Registry) SendText(ctx context.Context, businessID int64, toJID, text string) error {
	s, ok := r.Get(businessID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSession, businessID)
	}
	return s.SendText(ctx, toJID, text)
}

// Shutdown disconnects every session.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		s.Disconnect()
		delete(r.sessions, id)
	}
}
