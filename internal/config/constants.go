package config

import "time"

const (
	// User search page size
	SearchLimit = 10

	// Card processor request timeout
	ProcessorTimeout = 30 * time.Second

	// Event publish timeout
	PublishTimeout = 5 * time.Second

	// HTTP server shutdown grace period
	ShutdownTimeout = 10 * time.Second
)
