package constants

import "time"

const RFC3339DateTimeFormat = time.RFC3339

const (
	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = time.Minute
	DefaultRequestTimeout    = 30 * time.Second
)
