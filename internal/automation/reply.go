package automation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// The webhook embeds structured instructions in its text replies between
// ||MARKER|| and ||END|| delimiters. Everything else is plain text to relay
// verbatim.
var (
	reservationMarker = regexp.MustCompile(`\|\|RESERVA\|\|(.*?)\|\|END\|\|`)
	orderMarker       = regexp.MustCompile(`\|\|PEDIDO\|\|(.*?)\|\|END\|\|`)
)

// Reply is the parsed form of a webhook response: exactly one of the
// variants below.
type Reply interface {
	isReply()
}

// PlainReply is free text to send back to the customer unchanged.
type PlainReply struct {
	Text string
}

// ReservationIntent asks the platform to commit a booking.
type ReservationIntent struct {
	BusinessID   int64  `json:"negocioId"`
	Date         string `json:"fecha"`
	StartTime    string `json:"hora_inicio"`
	EndTime      string `json:"hora_fin"`
	ClientNumber string `json:"numeroCliente,omitempty"`
}

// OrderIntent asks the platform to record a product order.
type OrderIntent struct {
	BusinessID   int64  `json:"negocioId"`
	Product      string `json:"producto"`
	Quantity     int    `json:"cantidad"`
	ClientNumber string `json:"numeroCliente,omitempty"`
}

func (PlainReply) isReply()        {}
func (ReservationIntent) isReply() {}
func (OrderIntent) isReply()       {}

// ParseReply classifies a webhook response. A malformed marker body is an
// error rather than a silent fallback to plain text, so the adapter can
// apologize instead of relaying delimiter garbage to the customer.
func ParseReply(text string) (Reply, error) {
	if m := reservationMarker.FindStringSubmatch(text); m != nil {
		var intent ReservationIntent
		if err := json.Unmarshal([]byte(m[1]), &intent); err != nil {
			return nil, fmt.Errorf("automation: parse reservation marker: %w", err)
		}
		return intent, nil
	}
	if m := orderMarker.FindStringSubmatch(text); m != nil {
		var intent OrderIntent
		if err := json.Unmarshal([]byte(m[1]), &intent); err != nil {
			return nil, fmt.Errorf("automation: parse order marker: %w", err)
		}
		if intent.Quantity <= 0 {
			intent.Quantity = 1
		}
		return intent, nil
	}
	return PlainReply{Text: strings.TrimSpace(text)}, nil
}
