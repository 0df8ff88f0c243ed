package enrich

import (
	"time"

	"github.com/okian/upskill/pkg/logger"
)

// Option applies a configuration option to the Gateway.
type Option func(*Gateway)

// WithGenerator sets the text generator. A nil generator leaves the gateway unconfigured.
func WithGenerator(gen TextGenerator) Option {
	return func(g *Gateway) {
		g.gen = gen
	}
}

// WithTimeout bounds every generator call.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithRateLimit throttles generator calls to perSec with the given burst.
func WithRateLimit(perSec float64, burst int) Option {
	return func(g *Gateway) {
		if perSec > 0 {
			g.ratePerSec = perSec
		}
		if burst > 0 {
			g.burst = burst
		}
	}
}

// WithBreaker sets when the circuit breaker trips: after minRequests calls in a
// window with at least failureRatio of them failed. It stays open for openTimeout.
func WithBreaker(minRequests uint32, failureRatio float64, openTimeout time.Duration) Option {
	return func(g *Gateway) {
		if minRequests > 0 {
			g.breakerMinRequests = minRequests
		}
		if failureRatio > 0 && failureRatio <= 1 {
			g.breakerFailureRatio = failureRatio
		}
		if openTimeout > 0 {
			g.breakerOpenTimeout = openTimeout
		}
	}
}

// WithName sets the breaker name used in logs and metrics.
func WithName(name string) Option {
	return func(g *Gateway) {
		if name != "" {
			g.name = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}
