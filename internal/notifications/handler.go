package notifications

import (
	"context"

	"stayhub/pkg/config"
	"stayhub/pkg/kafka"
	"stayhub/pkg/model"
)

// ConsumerHandler turns consumed booking events into outbound emails.
type ConsumerHandler struct {
	mailer Mailer
	cfg    *config.Config
}

func NewConsumerHandler(mailer Mailer, cfg *config.Config) *ConsumerHandler {
	return &ConsumerHandler{
		mailer: mailer,
		cfg:    cfg,
	}
}

// Handle processes one message from the booking events topic. Malformed
// payloads are permanent failures; SMTP faults are transient and retried.
func (h *ConsumerHandler) Handle(ctx context.Context, msg kafka.Message) error {
	eventType := msg.GetEventType()
	if eventType != model.EventTypeBookingConfirmed {
		h.cfg.Log.Debug("Skipping event of unhandled type", "event_type", eventType)
		return nil
	}

	var event model.BookingConfirmed
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("decode booking confirmation", err)
	}
	if event.UserEmail == "" {
		h.cfg.Log.Warn("Booking confirmation without recipient email", "booking_id", event.BookingID)
		return nil
	}

	subject, body, err := RenderConfirmation(&event, h.cfg.Currency)
	if err != nil {
		return kafka.NewPermanentError("render confirmation email", err)
	}

	if err := h.mailer.Send(event.UserEmail, subject, body); err != nil {
		return kafka.NewTransientError("deliver confirmation email", err)
	}

	h.cfg.Log.Info("Booking confirmation email sent",
		"booking_id", event.BookingID,
		"to", event.UserEmail,
	)
	return nil
}
