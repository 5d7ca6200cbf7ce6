package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "hotel-booking"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultIdentityProviderURL = "http://localhost:9000"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Locks must outlive the availability check plus insert, not much more.
	DefaultRoomLockTTL = 10 * time.Second

	DefaultBookingEventsTopic    = "bookings.confirmed"
	DefaultBookingEventsDLQTopic = "bookings.confirmed.dlq"
	DefaultNotifierGroupID       = "stayhub-notifier"

	DefaultSMTPPort     = "587"
	DefaultSMTPFromName = "Hotel Booking System"
	DefaultCurrency     = "$"
)
