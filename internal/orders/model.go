// Package orders tracks product orders placed through the WhatsApp bot.
package orders

import (
	"errors"
	"time"
)

// Order statuses move forward as the owner works the queue from the
// dashboard.
const (
	StatusReceived  = "received"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// ErrNotFound is returned when an order does not exist under the given
// business.
var ErrNotFound = errors.New("order not found")

// ErrInvalidStatus rejects status values outside the known set.
var ErrInvalidStatus = errors.New("invalid order status")

// Order is one placed order.
type Order struct {
	ID            int64     `json:"id"`
	BusinessID    int64     `json:"business_id"`
	CustomerPhone string    `json:"customer_phone"`
	Product       string    `json:"product"`
	Quantity      int       `json:"quantity"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusReceived, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}
