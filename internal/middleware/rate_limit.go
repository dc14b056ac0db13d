package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/marcusw/leadclaim/pkg/httpx"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Message  string
}

// DefaultGlobalRateLimit covers the whole API surface
func DefaultGlobalRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Requests: 100,
		Window:   15 * time.Minute,
		Message:  "Too many requests from this IP, please try again later",
	}
}

// DefaultIntakeRateLimit covers the public enquiry form
func DefaultIntakeRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Requests: 5,
		Window:   1 * time.Minute,
		Message:  "Too many enquiry submissions. Please try again after a minute.",
	}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteTooManyRequests(w, config.Message)
		}),
	)
}
