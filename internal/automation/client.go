// Package automation talks to the external automation webhook that turns a
// chat message plus business context into a reply, and parses the
// structured reservation/order markers that may come back embedded in it.
package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/autowhapp/platform/internal/business"
	"github.com/autowhapp/platform/internal/catalog"
	"github.com/autowhapp/platform/internal/schedule"
	"github.com/autowhapp/platform/pkg/logging"
)

const defaultTimeout = 30 * time.Second

// SlotView is one free slot in the webhook payload.
type SlotView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BusinessContext is the business profile block of the payload. Field names
// are the webhook's wire contract, inherited from the automation flows.
type BusinessContext struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"nombre"`
	Phone               string     `json:"numero_telefono"`
	GroupID             string     `json:"grupo_id,omitempty"`
	BusinessType        string     `json:"tipo_negocio,omitempty"`
	Locality            string     `json:"localidad,omitempty"`
	Address             string     `json:"direccion,omitempty"`
	OpeningHours        string     `json:"horarios,omitempty"`
	Context             string     `json:"contexto"`
	BotEnabled          bool       `json:"estado_bot"`
	OrdersModule        bool       `json:"modulo_pedidos"`
	ReservationsModule  bool       `json:"modulo_reservas"`
	AppointmentDuration int        `json:"appointment_duration"`
	BreakBetween        int        `json:"break_between"`
	DayOpenTime         string     `json:"hora_inicio_default"`
	DayCloseTime        string     `json:"hora_fin_default"`
	FAQsText            string     `json:"faqs_texto"`
	ProductsText        string     `json:"productos_texto"`
	Slots               []SlotView `json:"slots"`
}

// Payload is what the adapter posts for each inbound message.
type Payload struct {
	Message      string          `json:"mensaje"`
	ClientNumber string          `json:"numeroCliente"`
	Business     BusinessContext `json:"negocio"`
}

// BuildContext assembles the profile block from the business record, its
// catalog, and the day's free slots.
func BuildContext(b *business.Business, faqs []catalog.FAQ, products []catalog.Product, free []schedule.Slot) BusinessContext {
	slots := make([]SlotView, len(free))
	for i, s := range free {
		slots[i] = SlotView{Start: s.StartClock(), End: s.EndClock()}
	}
	return BusinessContext{
		ID:                  b.ID,
		Name:                b.Name,
		Phone:               b.Phone,
		GroupID:             b.GroupID,
		BusinessType:        b.BusinessType,
		Locality:            b.Locality,
		Address:             b.Address,
		OpeningHours:        b.OpeningHours,
		Context:             b.Context,
		BotEnabled:          b.BotEnabled,
		OrdersModule:        b.Modules.Orders,
		ReservationsModule:  b.Modules.Reservations,
		AppointmentDuration: b.Scheduling.AppointmentDuration,
		BreakBetween:        b.Scheduling.BreakBetween,
		DayOpenTime:         b.Scheduling.DayOpenTime,
		DayCloseTime:        b.Scheduling.DayCloseTime,
		FAQsText:            catalog.RenderFAQs(faqs),
		ProductsText:        catalog.RenderProducts(products),
		Slots:               slots,
	}
}

// Client posts payloads to the automation webhook.
type Client struct {
	webhookURL string
	httpClient *http.Client
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds the webhook round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates an automation webhook client.
func NewClient(webhookURL string, logger *logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Process sends the payload and returns the webhook's raw reply text. A
// non-2xx status or empty body is an error; the caller decides what the
// customer sees.
func (c *Client) Process(ctx context.Context, p Payload) (string, error) {
	jsonBody, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("automation: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("automation: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("automation: webhook call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("automation: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("automation: webhook returned %d: %s", resp.StatusCode, string(respBody[:min(200, len(respBody))]))
	}

	reply := strings.TrimSpace(string(respBody))
	if reply == "" {
		return "", fmt.Errorf("automation: webhook returned empty reply")
	}
	return reply, nil
}
