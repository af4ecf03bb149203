package whatsapp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	sent         []string
	authed       bool
	qr           string
	disconnected bool
}

func (f *fakeSession) SendText(ctx context.Context, toJID, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeSession) Authenticated() bool { return f.authed }
func (f *fakeSession) QRCode() string      { return f.qr }
func (f *fakeSession) Disconnect()         { f.disconnected = true }

func TestRegistrySendTextRoutesToSession(t *testing.T) {
	reg := NewRegistry()
	s := &fakeSession{}
	reg.Put(1, s)

	err := reg.SendText(context.Background(), 1, "549@s.whatsapp.net", "hola")
	require.NoError(t, err)
	assert.Equal(t, []string{"hola"}, s.sent)
}

func TestRegistrySendTextNoSession(t *testing.T) {
	reg := NewRegistry()
	err := reg.SendText(context.Background(), 7, "549@s.whatsapp.net", "hola")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRegistryRemoveDisconnects(t *testing.T) {
	reg := NewRegistry()
	s := &fakeSession{}
	reg.Put(1, s)

	reg.Remove(1)

	assert.True(t, s.disconnected)
	_, ok := reg.Get(1)
	assert.False(t, ok)
}

func TestRegistryShutdown(t *testing.T) {
	reg := NewRegistry()
	a, b := &fakeSession{}, &fakeSession{}
	reg.Put(1, a)
	reg.Put(2, b)

	reg.Shutdown()

	assert.True(t, a.disconnected)
	assert.True(t, b.disconnected)
	_, ok := reg.Get(1)
	assert.False(t, ok)
}

func TestRegistryPutReplaces(t *testing.T) {
	reg := NewRegistry()
	old := &fakeSession{}
	reg.Put(1, old)
	repl := &fakeSession{authed: true}
	reg.Put(1, repl)

	got, ok := reg.Get(1)
	require.True(t, ok)
	assert.True(t, got.Authenticated())
}
