package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/autowhapp/platform/internal/automation"
	"github.com/autowhapp/platform/internal/business"
	"github.com/autowhapp/platform/internal/catalog"
	"github.com/autowhapp/platform/internal/observability/metrics"
	"github.com/autowhapp/platform/internal/orders"
	"github.com/autowhapp/platform/internal/reservations"
	"github.com/autowhapp/platform/internal/schedule"
	"github.com/autowhapp/platform/pkg/logging"
)

// Customer-facing texts, matching the bot's tone in Spanish.
const (
	msgBotDisabled        = "Disculpa, no estamos atendiendo en este momento."
	msgGenericError       = "Ocurrió un error, intentá de nuevo."
	msgReservationFailed  = "Error al confirmar la reserva, intentá de nuevo."
	msgOrderFailed        = "Error al registrar el pedido, intentá de nuevo."
	reservationConfirmFmt = "¡Tu reserva ha sido confirmada con éxito!\nDetalle de la reserva:\n- Fecha: %s\n- Horario: %s a %s\n"
	orderConfirmFmt       = "¡Tu pedido ha sido registrado!\n- Producto: %s\n- Cantidad: %d\n"
)

// ProfileLoader resolves the business record for an inbound message.
type ProfileLoader interface {
	Get(ctx context.Context, businessID int64) (*business.Business, error)
}

// CatalogReader supplies the FAQ and product lists for the webhook payload.
type CatalogReader interface {
	ListFAQs(ctx context.Context, businessID int64) ([]catalog.FAQ, error)
	ListProducts(ctx context.Context, businessID int64) ([]catalog.Product, error)
}

// Booker is the reservations surface the chat path needs.
type Booker interface {
	Book(ctx context.Context, businessID int64, req reservations.BookRequest) (*reservations.Reservation, error)
	FreeSlots(ctx context.Context, businessID int64, date string) ([]schedule.Slot, error)
}

// OrderTaker records product orders detected in webhook replies.
type OrderTaker interface {
	Create(ctx context.Context, businessID int64, customerPhone, product string, quantity int) (*orders.Order, error)
}

// AutomationClient posts the context payload and returns the reply text.
type AutomationClient interface {
	Process(ctx context.Context, p automation.Payload) (string, error)
}

// OwnerNotifier tells the business owner about a confirmed booking.
type OwnerNotifier interface {
	NotifyReservationConfirmed(ctx context.Context, biz *business.Business, rec *reservations.Reservation)
}

// OutboundSender routes a reply back through the session registry.
type OutboundSender interface {
	SendText(ctx context.Context, businessID int64, toJID, text string) error
}

// Adapter turns an inbound WhatsApp message into a webhook round trip and
// dispatches whatever comes back: plain text, a booking, or an order. Every
// failure past the group filter ends in a customer-visible message; the
// handler itself never errors out.
type Adapter struct {
	profiles   ProfileLoader
	catalog    CatalogReader
	bookings   Booker
	orders     OrderTaker
	automation AutomationClient
	notifier   OwnerNotifier
	sender     OutboundSender
	metrics    *metrics.BotMetrics
	logger     *logging.Logger
}

// NewAdapter wires the inbound message adapter. notifier and metrics may be
// nil.
func NewAdapter(profiles ProfileLoader, cat CatalogReader, bookings Booker, orderTaker OrderTaker, client AutomationClient, sender OutboundSender, notifier OwnerNotifier, m *metrics.BotMetrics, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Adapter{
		profiles:   profiles,
		catalog:    cat,
		bookings:   bookings,
		orders:     orderTaker,
		automation: client,
		notifier:   notifier,
		sender:     sender,
		metrics:    m,
		logger:     logger,
	}
}

// Handle processes one inbound message end to end.
func (a *Adapter) Handle(ctx context.Context, msg Message) {
	biz, err := a.profiles.Get(ctx, msg.BusinessID)
	if err != nil {
		a.metrics.ObserveInbound("profile_error")
		a.logger.Error("failed to load business for message", "error", err, "business_id", msg.BusinessID)
		a.reply(ctx, msg, msgGenericError)
		return
	}

	// Group chats are only served when they are the business's own group.
	if msg.IsGroup && (biz.GroupID == "" || msg.ChatJID != biz.GroupID) {
		a.metrics.ObserveInbound("ignored_group")
		return
	}

	if !biz.BotEnabled {
		a.metrics.ObserveInbound("bot_disabled")
		a.reply(ctx, msg, msgBotDisabled)
		return
	}

	payload := a.buildPayload(ctx, biz, msg)

	start := time.Now()
	replyText, err := a.automation.Process(ctx, payload)
	if err != nil {
		a.metrics.ObserveAutomationLatency("error", time.Since(start).Seconds())
		a.metrics.ObserveInbound("automation_error")
		a.logger.Error("automation webhook failed", "error", err, "business_id", biz.ID)
		a.reply(ctx, msg, msgGenericError)
		return
	}
	a.metrics.ObserveAutomationLatency("ok", time.Since(start).Seconds())

	parsed, err := automation.ParseReply(replyText)
	if err != nil {
		a.metrics.ObserveInbound("bad_marker")
		a.logger.Error("failed to parse webhook reply", "error", err, "business_id", biz.ID)
		a.reply(ctx, msg, msgGenericError)
		return
	}

	switch intent := parsed.(type) {
	case automation.PlainReply:
		a.metrics.ObserveInbound("handled")
		a.reply(ctx, msg, intent.Text)
	case automation.ReservationIntent:
		a.commitReservation(ctx, biz, msg, intent)
	case automation.OrderIntent:
		a.recordOrder(ctx, biz, msg, intent)
	}
}

// buildPayload assembles the business context. Catalog or slot failures
// degrade to empty sections rather than blocking the conversation.
func (a *Adapter) buildPayload(ctx context.Context, biz *business.Business, msg Message) automation.Payload {
	faqs, err := a.catalog.ListFAQs(ctx, biz.ID)
	if err != nil {
		a.logger.Warn("failed to load faqs", "error", err, "business_id", biz.ID)
		faqs = nil
	}
	products, err := a.catalog.ListProducts(ctx, biz.ID)
	if err != nil {
		a.logger.Warn("failed to load products", "error", err, "business_id", biz.ID)
		products = nil
	}

	var free []schedule.Slot
	if biz.Modules.Reservations {
		free, err = a.bookings.FreeSlots(ctx, biz.ID, reservations.Today())
		if err != nil {
			a.logger.Warn("failed to compute free slots", "error", err, "business_id", biz.ID)
			free = nil
		}
	}

	return automation.Payload{
		Message:      msg.Text,
		ClientNumber: ClientNumber(msg),
		Business:     automation.BuildContext(biz, faqs, products, free),
	}
}

func (a *Adapter) commitReservation(ctx context.Context, biz *business.Business, msg Message, intent automation.ReservationIntent) {
	date := intent.Date
	if date == "" {
		date = reservations.Today()
	}
	clientPhone := intent.ClientNumber
	if clientPhone == "" {
		clientPhone = ClientNumber(msg)
	}

	rec, err := a.bookings.Book(ctx, biz.ID, reservations.BookRequest{
		Date:        date,
		StartTime:   intent.StartTime,
		EndTime:     intent.EndTime,
		ClientName:  "Cliente vía WhatsApp",
		ClientPhone: clientPhone,
		Description: "Reserva confirmada por bot",
	})
	if err != nil {
		a.metrics.ObserveBooking(bookingOutcome(err))
		a.metrics.ObserveInbound("reservation_failed")
		a.logger.Error("bot booking rejected", "error", err, "business_id", biz.ID,
			"date", date, "start", intent.StartTime, "end", intent.EndTime)
		a.reply(ctx, msg, msgReservationFailed)
		return
	}

	a.metrics.ObserveBooking("confirmed")
	a.metrics.ObserveInbound("reservation_confirmed")
	a.reply(ctx, msg, fmt.Sprintf(reservationConfirmFmt, rec.Date, rec.StartTime, rec.EndTime))
	if a.notifier != nil {
		a.notifier.NotifyReservationConfirmed(ctx, biz, rec)
	}
}

func (a *Adapter) recordOrder(ctx context.Context, biz *business.Business, msg Message, intent automation.OrderIntent) {
	if !biz.Modules.Orders {
		a.metrics.ObserveInbound("order_failed")
		a.reply(ctx, msg, msgOrderFailed)
		return
	}

	order, err := a.orders.Create(ctx, biz.ID, ClientNumber(msg), intent.Product, intent.Quantity)
	if err != nil {
		a.metrics.ObserveInbound("order_failed")
		a.logger.Error("bot order rejected", "error", err, "business_id", biz.ID, "product", intent.Product)
		a.reply(ctx, msg, msgOrderFailed)
		return
	}

	a.metrics.ObserveInbound("order_recorded")
	a.reply(ctx, msg, fmt.Sprintf(orderConfirmFmt, order.Product, order.Quantity))
}

func (a *Adapter) reply(ctx context.Context, msg Message, text string) {
	if err := a.sender.SendText(ctx, msg.BusinessID, msg.ChatJID, text); err != nil {
		a.logger.Error("failed to send reply", "error", err,
			"business_id", msg.BusinessID, "chat", msg.ChatJID)
	}
}

func bookingOutcome(err error) string {
	switch {
	case errors.Is(err, reservations.ErrConflict):
		return "conflict"
	case errors.Is(err, reservations.ErrInvalidSlot):
		return "invalid_slot"
	case errors.Is(err, reservations.ErrModuleDisabled):
		return "module_disabled"
	case errors.Is(err, reservations.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}

// ClientNumber derives the customer identifier sent to the webhook: the
// sender in groups, otherwise the chat itself, with the Argentine mobile
// 549 prefix collapsed to 54.
func ClientNumber(msg Message) string {
	number := msg.ChatJID
	if msg.IsGroup {
		number = msg.SenderJID
	}
	if idx := strings.IndexByte(number, '@'); idx >= 0 {
		number = number[:idx]
	}
	if strings.HasPrefix(number, "549") {
		number = "54" + number[3:]
	}
	return number + "@c.us"
}
