package notifications

import (
	"context"

	"stayhub/pkg/kafka"
	"stayhub/pkg/model"
)

// Publisher emits booking lifecycle events onto the booking events topic.
type Publisher struct {
	producer *kafka.Producer
	source   string
}

func NewPublisher(producer *kafka.Producer, source string) *Publisher {
	return &Publisher{
		producer: producer,
		source:   source,
	}
}

func (p *Publisher) BookingConfirmed(ctx context.Context, event *model.BookingConfirmed) error {
	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(model.EventTypeBookingConfirmed).
		WithSource(p.source).
		Build()

	return p.producer.Publish(ctx, msg)
}
