package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autowhapp/platform/internal/automation"
	"github.com/autowhapp/platform/internal/business"
	"github.com/autowhapp/platform/internal/catalog"
	"github.com/autowhapp/platform/internal/orders"
	"github.com/autowhapp/platform/internal/reservations"
	"github.com/autowhapp/platform/internal/schedule"
)

type fakeProfiles struct {
	biz *business.Business
	err error
}

func (f *fakeProfiles) Get(ctx context.Context, businessID int64) (*business.Business, error) {
	return f.biz, f.err
}

type fakeCatalog struct {
	faqs     []catalog.FAQ
	products []catalog.Product
}

func (f *fakeCatalog) ListFAQs(ctx context.Context, businessID int64) ([]catalog.FAQ, error) {
	return f.faqs, nil
}

func (f *fakeCatalog) ListProducts(ctx context.Context, businessID int64) ([]catalog.Product, error) {
	return f.products, nil
}

type fakeBooker struct {
	free    []schedule.Slot
	booked  []reservations.BookRequest
	bookErr error
}

func (f *fakeBooker) Book(ctx context.Context, businessID int64, req reservations.BookRequest) (*reservations.Reservation, error) {
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	f.booked = append(f.booked, req)
	return &reservations.Reservation{
		ID: 1, BusinessID: businessID, Date: req.Date,
		StartTime: req.StartTime, EndTime: req.EndTime, Occupied: true,
	}, nil
}

func (f *fakeBooker) FreeSlots(ctx context.Context, businessID int64, date string) ([]schedule.Slot, error) {
	return f.free, nil
}

type fakeOrders struct {
	created []orders.Order
	err     error
}

func (f *fakeOrders) Create(ctx context.Context, businessID int64, customerPhone, product string, quantity int) (*orders.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	o := orders.Order{ID: 1, BusinessID: businessID, CustomerPhone: customerPhone, Product: product, Quantity: quantity, Status: orders.StatusReceived}
	f.created = append(f.created, o)
	return &o, nil
}

type fakeAutomation struct {
	reply   string
	err     error
	payload automation.Payload
}

func (f *fakeAutomation) Process(ctx context.Context, p automation.Payload) (string, error) {
	f.payload = p
	return f.reply, f.err
}

type fakeSender struct {
	sent []string
	to   []string
}

func (f *fakeSender) SendText(ctx context.Context, businessID int64, toJID, text string) error {
	f.to = append(f.to, toJID)
	f.sent = append(f.sent, text)
	return nil
}

func testBusiness() *business.Business {
	return &business.Business{
		ID:         1,
		Name:       "Patitas Felices",
		Phone:      "541128704037",
		BotEnabled: true,
		Modules:    business.Modules{Orders: true, Reservations: true},
		Scheduling: business.Scheduling{
			AppointmentDuration: 60, BreakBetween: 15,
			DayOpenTime: "09:00", DayCloseTime: "12:00",
		},
	}
}

func directMessage(text string) Message {
	return Message{
		BusinessID: 1,
		ChatJID:    "5491130000000@s.whatsapp.net",
		SenderJID:  "5491130000000@s.whatsapp.net",
		Text:       text,
	}
}

func newTestAdapter(profiles *fakeProfiles, booker *fakeBooker, orderTaker *fakeOrders, auto *fakeAutomation, sender *fakeSender) *Adapter {
	return NewAdapter(profiles, &fakeCatalog{}, booker, orderTaker, auto, sender, nil, nil, nil)
}

func TestHandleRelaysPlainReply(t *testing.T) {
	auto := &fakeAutomation{reply: "¡Hola! ¿En qué puedo ayudarte?"}
	sender := &fakeSender{}
	a := newTestAdapter(&fakeProfiles{biz: testBusiness()}, &fakeBooker{}, &fakeOrders{}, auto, sender)

	a.Handle(context.Background(), directMessage("hola"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "¡Hola! ¿En qué puedo ayudarte?", sender.sent[0])
	assert.Equal(t, "hola", auto.payload.Message)
	assert.Equal(t, "541130000000@c.us", auto.payload.ClientNumber)
}

func TestHandleIncludesFreeSlotsInPayload(t *testing.T) {
	auto := &fakeAutomation{reply: "ok"}
	booker := &fakeBooker{free: []schedule.Slot{{Start: 540, End: 600}}}
	a := newTestAdapter(&fakeProfiles{biz: testBusiness()}, booker, &fakeOrders{}, auto, &fakeSender{})

	a.Handle(context.Background(), directMessage("¿tienen turnos?"))

	require.Len(t, auto.payload.Business.Slots, 1)
	assert.Equal(t, automation.SlotView{Start: "09:00", End: "10:00"}, auto.payload.Business.Slots[0])
}

func TestHandleBotDisabled(t *testing.T) {
	biz := testBusiness()
	biz.BotEnabled = false
	sender := &fakeSender{}
	a := newTestAdapter(&fakeProfiles{biz: biz}, &fakeBooker{}, &fakeOrders{}, &fakeAutomation{}, sender)

	a.Handle(context.Background(), directMessage("hola"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, msgBotDisabled, sender.sent[0])
}

func TestHandleIgnoresForeignGroup(t *testing.T) {
	biz := testBusiness()
	biz.GroupID = "12036304@g.us"
	sender := &fakeSender{}
	a := newTestAdapter(&fakeProfiles{biz: biz}, &fakeBooker{}, &fakeOrders{}, &fakeAutomation{reply: "ok"}, sender)

	a.Handle(context.Background(), Message{
		BusinessID: 1, ChatJID: "99999999@g.us", SenderJID: "5491130000000@s.whatsapp.net",
		Text: "hola", IsGroup: true,
	})

	assert.Empty(t, sender.sent)
}

func TestHandleServesOwnGroup(t *testing.T) {
	biz := testBusiness()
	biz.GroupID = "12036304@g.us"
	auto := &fakeAutomation{reply: "ok"}
	sender := &fakeSender{}
	a := newTestAdapter(&fakeProfiles{biz: biz}, &fakeBooker{}, &fakeOrders{}, auto, sender)

	a.Handle(context.Background(), Message{
		BusinessID: 1, ChatJID: "12036304@g.us", SenderJID: "5491130000000@s.whatsapp.net",
		Text: "hola", IsGroup: true,
	})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "541130000000@c.us", auto.payload.ClientNumber, "group messages identify the sender")
}

func TestHandleCommitsReservationIntent(t *testing.T) {
	auto := &fakeAutomation{
		reply: `||RESERVA||{"negocioId":1,"fecha":"2026-09-01","hora_inicio":"10:15","hora_fin":"11:15"}||END||`,
	}
	booker := &fakeBooker{}
	sender := &fakeSender{}
	a := newTestAdapter(&fakeProfiles{biz: testBusiness()}, booker, &fakeOrders{}, auto, sender)

	a.Handle(context.Background(), directMessage("quiero el turno de las 10:15"))

	require.Len(t, booker.booked, 1)
	assert.Equal(t, "2026-09-01", booker.booked[0].Date)
	assert.Equal(t, "Cliente vía WhatsApp", booker.booked[0].ClientName)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "confirmada con éxito")
	assert.Contains(t, sender.sent[0], "10:15 a 11:15")
}

func TestHandleReservationRejectionApologizes(t *testing.T) {
	auto := &fakeAutomation{
		reply: `||RESERVA||{"negocioId":1,"fecha":"2026-09-01","hora_inicio":"10:15","hora_fin":"11:15"}||END||`,
	}
	sender := &fakeSender{}
	a := newTestAdapter(&fakeProfiles{biz: testBusiness()},
		&fakeBooker{bookErr: reservations.ErrConflict}, &fakeOrders{}, auto, sender)

	a.Handle(context.Background(), directMessage("quiero ese turno"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, msgReservationFailed, sender.sent[0])
}

func TestHandleRecordsOrderIntent(t *testing.T) {
	auto := &fakeAutomation{reply: `||PEDIDO||{"negocioId":1,"producto":"Shampoo","cantidad":2}||END||`}
	orderTaker := &fakeOrders{}
	sender := &fakeSender{}
	a := newTestAdapter(&fakeProfiles{biz: testBusiness()}, &fakeBooker{}, orderTaker, auto, sender)

	a.Handle(context.Background(), directMessage("quiero 2 shampoos"))

	require.Len(t, orderTaker.created, 1)
	assert.Equal(t, "Shampoo", orderTaker.created[0].Product)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "pedido ha sido registrado")
}

func TestHandleOrderIntentWithModuleOff(t *testing.T) {
	biz := testBusiness()
	biz.Modules.Orders = false
	auto := &fakeAutomation{reply: `||PEDIDO||{"negocioId":1,"producto":"Shampoo"}||END||`}
	sender := &fakeSender{}
	a := newTestAdapter(&fakeProfiles{biz: biz}, &fakeBooker{}, &fakeOrders{}, auto, sender)

	a.Handle(context.Background(), directMessage("quiero un shampoo"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, msgOrderFailed, sender.sent[0])
}

func TestHandleWebhookFailureApologizes(t *testing.T) {
	auto := &fakeAutomation{err: errors.New("timeout")}
	sender := &fakeSender{}
	a := newTestAdapter(&fakeProfiles{biz: testBusiness()}, &fakeBooker{}, &fakeOrders{}, auto, sender)

	a.Handle(context.Background(), directMessage("hola"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, msgGenericError, sender.sent[0])
}

func TestHandleMalformedMarkerApologizes(t *testing.T) {
	auto := &fakeAutomation{reply: `||RESERVA||{not json}||END||`}
	sender := &fakeSender{}
	a := newTestAdapter(&fakeProfiles{biz: testBusiness()}, &fakeBooker{}, &fakeOrders{}, auto, sender)

	a.Handle(context.Background(), directMessage("hola"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, msgGenericError, sender.sent[0])
}

func TestClientNumberCollapses549Prefix(t *testing.T) {
	got := ClientNumber(Message{ChatJID: "5491130000000@s.whatsapp.net"})
	assert.Equal(t, "541130000000@c.us", got)

	got = ClientNumber(Message{ChatJID: "541128704037@s.whatsapp.net"})
	assert.Equal(t, "541128704037@c.us", got)
}
