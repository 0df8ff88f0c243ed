package enrich

import "errors"

// Sentinel errors returned by the gateway.
var (
	ErrUnavailable = errors.New("enrich: text generator not configured")
	ErrBreakerOpen = errors.New("enrich: circuit breaker open")
	ErrThrottled   = errors.New("enrich: rate limit wait exceeded deadline")
	ErrMalformed   = errors.New("enrich: malformed generator reply")
)
