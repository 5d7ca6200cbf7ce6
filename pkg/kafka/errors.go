package kafka

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrConsumerClosed = errors.New("kafka consumer is closed")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")
)

type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeTransient covers network issues and timeouts worth retrying.
	ErrorTypeTransient
	// ErrorTypePermanent covers schema mismatches and invalid data; retrying
	// cannot help, the message goes straight to the DLQ.
	ErrorTypePermanent
)

type DeliveryError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func NewTransientError(message string, err error) *DeliveryError {
	return &DeliveryError{Type: ErrorTypeTransient, Message: message, Err: err}
}

func NewPermanentError(message string, err error) *DeliveryError {
	return &DeliveryError{Type: ErrorTypePermanent, Message: message, Err: err}
}

var transientPatterns = []string{
	"connection refused",
	"timeout",
	"deadline exceeded",
	"no such host",
	"network is unreachable",
	"broken pipe",
	"connection reset",
	"i/o timeout",
	"temporary failure",
}

func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var deliveryErr *DeliveryError
	if errors.As(err, &deliveryErr) {
		return deliveryErr.Type
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return ErrorTypeTransient
		}
	}

	return ErrorTypeUnknown
}

// ShouldRetry decides whether a failed message gets another attempt.
// Unknown errors are retried like transient ones; only permanent failures
// skip retries.
func ShouldRetry(err error, retries, maxRetries int) bool {
	if retries >= maxRetries {
		return false
	}
	return ClassifyError(err) != ErrorTypePermanent
}
