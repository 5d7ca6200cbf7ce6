package notifications

import (
	"context"
	"errors"
	"testing"

	"stayhub/pkg/config"
	"stayhub/pkg/kafka"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"
)

type fakeMailer struct {
	sent     []string
	sendFunc func(to, subject, htmlBody string) error
}

func (f *fakeMailer) Send(to, subject, htmlBody string) error {
	if f.sendFunc != nil {
		return f.sendFunc(to, subject, htmlBody)
	}
	f.sent = append(f.sent, to)
	return nil
}

func handlerConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
		Currency: "$",
	}
}

func confirmedMessage(event *model.BookingConfirmed) kafka.Message {
	return kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(model.EventTypeBookingConfirmed).
		WithSource("test").
		Build()
}

func TestHandle_SendsEmailToBookingUser(t *testing.T) {
	mailer := &fakeMailer{}
	h := NewConsumerHandler(mailer, handlerConfig())

	err := h.Handle(context.Background(), confirmedMessage(testEvent()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mailer.sent) != 1 || mailer.sent[0] != "guest@example.com" {
		t.Errorf("expected one email to guest@example.com, got %v", mailer.sent)
	}
}

func TestHandle_SkipsUnknownEventTypes(t *testing.T) {
	mailer := &fakeMailer{}
	h := NewConsumerHandler(mailer, handlerConfig())

	msg := kafka.NewMessage().
		WithKey("k").
		WithValue(map[string]string{"noise": "x"}).
		WithEventType("booking.cancelled").
		Build()

	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("expected no email for unknown event type, got %v", mailer.sent)
	}
}

func TestHandle_SkipsEventsWithoutRecipient(t *testing.T) {
	mailer := &fakeMailer{}
	h := NewConsumerHandler(mailer, handlerConfig())

	event := testEvent()
	event.UserEmail = ""

	if err := h.Handle(context.Background(), confirmedMessage(event)); err != nil {
		t.Fatalf("expected missing recipient to be dropped, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("expected no email without recipient, got %v", mailer.sent)
	}
}

func TestHandle_MailerFaultIsTransient(t *testing.T) {
	mailer := &fakeMailer{
		sendFunc: func(to, subject, htmlBody string) error {
			return errors.New("relay refused connection")
		},
	}
	h := NewConsumerHandler(mailer, handlerConfig())

	err := h.Handle(context.Background(), confirmedMessage(testEvent()))
	if err == nil {
		t.Fatal("expected error when the mailer fails")
	}
	if kafka.ClassifyError(err) != kafka.ErrorTypeTransient {
		t.Errorf("expected transient classification for relay fault, got %v", kafka.ClassifyError(err))
	}
}

func TestHandle_MalformedPayloadIsPermanent(t *testing.T) {
	mailer := &fakeMailer{}
	h := NewConsumerHandler(mailer, handlerConfig())

	msg := kafka.Message{
		Key:     "k",
		Value:   []byte("{not-json"),
		Headers: map[string]string{kafka.HeaderEventType: model.EventTypeBookingConfirmed},
	}

	err := h.Handle(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
	if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Errorf("expected permanent classification, got %v", kafka.ClassifyError(err))
	}
}
