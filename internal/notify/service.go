package notify

import (
	"context"
	"fmt"

	"github.com/autowhapp/platform/internal/business"
	"github.com/autowhapp/platform/internal/reservations"
	"github.com/autowhapp/platform/pkg/logging"
)

// Service emails business owners about bookings committed by the bot.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

// NewService creates a notification service. A nil sender disables emails.
func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, logger: logger}
}

// NotifyReservationConfirmed emails the owner after a booking commits. A
// missing sender or owner email skips silently; a send failure is logged
// but never fails the booking.
func (s *Service) NotifyReservationConfirmed(ctx context.Context, biz *business.Business, rec *reservations.Reservation) {
	if s.email == nil || biz.OwnerEmail == "" {
		return
	}

	msg := EmailMessage{
		To:      biz.OwnerEmail,
		ToName:  biz.Name,
		Subject: fmt.Sprintf("Nueva reserva para %s", biz.Name),
		Body: fmt.Sprintf(
			"Se confirmó una nueva reserva.\n\nFecha: %s\nHorario: %s a %s\nCliente: %s\nTeléfono: %s\n",
			rec.Date, rec.StartTime, rec.EndTime, rec.ClientName, rec.ClientPhone),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("failed to notify owner", "error", err,
			"business_id", biz.ID, "reservation_id", rec.ID)
		return
	}
	s.logger.Info("owner notified", "business_id", biz.ID, "reservation_id", rec.ID)
}
