package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "camrent"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultBookingTimezone    = "UTC"
	DefaultRejectionRetention = 7 * 24 * time.Hour
	DefaultBookingLockTTL     = 10 * time.Second
	DefaultPhoneRegion        = "US"

	// every day at 03:15, seconds field first
	DefaultPurgeSchedule = "0 15 3 * * *"

	DefaultNotificationsEnabled = false
	DefaultNotificationsTopic   = "booking-events"

	DefaultCatalogFile = "catalog.yaml"

	DefaultPaginationLimit = 100
)
