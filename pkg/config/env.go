package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvBookingTimezone    = "BOOKING_TIMEZONE"
	EnvRejectionRetention = "REJECTION_RETENTION"
	EnvBookingLockTTL     = "BOOKING_LOCK_TTL"
	EnvPurgeSchedule      = "PURGE_SCHEDULE"
	EnvDefaultPhoneRegion = "DEFAULT_PHONE_REGION"

	EnvNotificationsEnabled = "NOTIFICATIONS_ENABLED"
	EnvNotificationsTopic   = "NOTIFICATIONS_TOPIC"

	EnvCatalogFile = "CATALOG_FILE"
)
