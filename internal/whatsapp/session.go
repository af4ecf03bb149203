// Package whatsapp runs one whatsmeow session per business and feeds
// inbound text messages into the processing queue.
package whatsapp

import (
	"context"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/whatsmeow"
	waE2E "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	"github.com/autowhapp/platform/internal/business"
	"github.com/autowhapp/platform/pkg/logging"
)

// NewContainer opens the sqlite store that holds whatsmeow device sessions
// for every business.
func NewContainer(ctx context.Context, storePath string) (*sqlstore.Container, error) {
	container, err := sqlstore.New(ctx, "sqlite3", storePath, waLog.Noop)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: open session store: %w", err)
	}
	return container, nil
}

// Session is one business's WhatsApp connection. Pairing state and the
// latest QR code are kept here so the API can expose them.
type Session struct {
	businessID int64
	client     *whatsmeow.Client
	queue      *MemoryQueue
	logger     *logging.Logger

	mu            sync.RWMutex
	qrCode        string
	authenticated bool
	onQR          func(code string)
}

// NewSession builds a session for a business, reusing the stored device
// whose paired number matches the business phone or creating a fresh one
// that will need QR pairing. Inbound text messages are enqueued for the
// worker pool.
func NewSession(ctx context.Context, container *sqlstore.Container, businessID int64, phone string, queue *MemoryQueue, logger *logging.Logger) (*Session, error) {
	if logger == nil {
		logger = logging.Default()
	}

	devices, err := container.GetAllDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: list devices: %w", err)
	}
	var device *store.Device
	want := business.NormalizePhone(phone)
	for _, d := range devices {
		if d.ID != nil && business.NormalizePhone(d.ID.User) == want {
			device = d
			break
		}
	}
	if device == nil {
		device = container.NewDevice()
	}

	s := &Session{
		businessID: businessID,
		client:     whatsmeow.NewClient(device, waLog.Noop),
		queue:      queue,
		logger:     logger,
	}
	s.client.AddEventHandler(s.handleEvent)
	return s, nil
}

// Connect brings the session online. When the device is not yet paired it
// drains the QR channel in the background so Status/QRCode stay current.
func (s *Session) Connect(ctx context.Context) error {
	if s.client.Store.ID == nil {
		qrChan, err := s.client.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("whatsapp: qr channel: %w", err)
		}
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("whatsapp: connect: %w", err)
		}
		go s.drainQR(qrChan)
		return nil
	}

	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("whatsapp: connect: %w", err)
	}
	s.setAuthenticated(true)
	return nil
}

func (s *Session) drainQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for evt := range qrChan {
		switch evt.Event {
		case "code":
			s.mu.Lock()
			s.qrCode = evt.Code
			fn := s.onQR
			s.mu.Unlock()
			s.logger.Info("qr code refreshed", "business_id", s.businessID)
			if fn != nil {
				fn(evt.Code)
			}
		case "success":
			s.setAuthenticated(true)
			s.logger.Info("session paired", "business_id", s.businessID)
		default:
			s.logger.Warn("qr channel closed", "business_id", s.businessID, "event", evt.Event)
		}
	}
}

func (s *Session) setAuthenticated(v bool) {
	s.mu.Lock()
	s.authenticated = v
	if v {
		s.qrCode = ""
	}
	s.mu.Unlock()
}

// Authenticated reports whether the session is paired and connected.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// OnQR registers a callback invoked for each fresh pairing code. Set it
// before Connect.
func (s *Session) OnQR(fn func(code string)) {
	s.mu.Lock()
	s.onQR = fn
	s.mu.Unlock()
}

// QRCode returns the latest pairing code, empty once paired.
func (s *Session) QRCode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.qrCode
}

// SendText sends a plain text message to a JID like "5491130000000@s.whatsapp.net".
func (s *Session) SendText(ctx context.Context, toJID, text string) error {
	jid, err := types.ParseJID(toJID)
	if err != nil {
		return fmt.Errorf("whatsapp: parse jid %q: %w", toJID, err)
	}
	_, err = s.client.SendMessage(ctx, jid, &waE2E.Message{Conversation: proto.String(text)})
	if err != nil {
		return fmt.Errorf("whatsapp: send to %s: %w", toJID, err)
	}
	return nil
}

// Disconnect tears the connection down.
func (s *Session) Disconnect() {
	s.client.Disconnect()
	s.setAuthenticated(false)
}

func (s *Session) handleEvent(evt any) {
	switch v := evt.(type) {
	case *events.Message:
		if v.Info.IsFromMe {
			return
		}
		text := extractText(v)
		if text == "" {
			return
		}
		msg := Message{
			BusinessID: s.businessID,
			ChatJID:    v.Info.Chat.String(),
			SenderJID:  v.Info.Sender.String(),
			SenderName: v.Info.PushName,
			Text:       text,
			IsGroup:    v.Info.IsGroup,
		}
		if err := s.queue.Send(context.Background(), msg); err != nil {
			s.logger.Error("failed to enqueue message", "error", err, "business_id", s.businessID)
		}
	case *events.LoggedOut:
		s.setAuthenticated(false)
		s.logger.Warn("session logged out", "business_id", s.businessID)
	}
}

func extractText(msg *events.Message) string {
	if msg.Message.GetConversation() != "" {
		return msg.Message.GetConversation()
	}
	if ext := msg.Message.GetExtendedTextMessage(); ext != nil {
		return ext.GetText()
	}
	return ""
}
