// Package enrich augments catalog courses with details produced by a text
// generation provider and asks the provider for course suggestions.
//
// Every outbound call is bounded by a timeout, throttled by a token bucket and
// guarded by a circuit breaker. Enrich is fail-open: any failure yields the
// course unchanged. Discover reports failures to the caller.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/okian/upskill/internal/domain/model"
	"github.com/okian/upskill/pkg/logger"
	"github.com/okian/upskill/pkg/metrics"
)

// Gateway defaults.
const (
	DefaultTimeout    = 8 * time.Second
	DefaultRatePerSec = 1.0
	DefaultBurst      = 3

	defaultBreakerMinRequests  = 5
	defaultBreakerFailureRatio = 0.6
	defaultBreakerOpenTimeout  = 30 * time.Second
	breakerInterval            = time.Minute
	breakerHalfOpenRequests    = 1

	defaultName = "enrichment"
)

// Operation labels used in metrics.
const (
	opEnrich   = "enrich"
	opDiscover = "discover"
)

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Gateway calls a TextGenerator on behalf of the recommender.
// It is safe for concurrent use.
type Gateway struct {
	gen     TextGenerator
	timeout time.Duration
	name    string
	log     logger.Logger

	ratePerSec float64
	burst      int
	limiter    *rate.Limiter

	breakerMinRequests  uint32
	breakerFailureRatio float64
	breakerOpenTimeout  time.Duration
	breaker             *gobreaker.CircuitBreaker[string]
}

// NewGateway creates a gateway. Without WithGenerator it is unconfigured and
// Available reports false.
func NewGateway(opts ...Option) *Gateway {
	g := &Gateway{
		timeout:             DefaultTimeout,
		name:                defaultName,
		log:                 logger.Nop(),
		ratePerSec:          DefaultRatePerSec,
		burst:               DefaultBurst,
		breakerMinRequests:  defaultBreakerMinRequests,
		breakerFailureRatio: defaultBreakerFailureRatio,
		breakerOpenTimeout:  defaultBreakerOpenTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.limiter = rate.NewLimiter(rate.Limit(g.ratePerSec), g.burst)
	g.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        g.name,
		MaxRequests: breakerHalfOpenRequests,
		Interval:    breakerInterval,
		Timeout:     g.breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < g.breakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= g.breakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateBreakerState(name, breakerStateValue(to))
			g.log.Warn(context.Background(), "enrichment breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	metrics.UpdateBreakerState(g.name, metrics.BreakerClosed)
	return g
}

// Available reports whether a generator is configured.
func (g *Gateway) Available() bool {
	return g != nil && g.gen != nil
}

// Enrich returns a copy of c with AI-provided details. It never fails: when the
// generator is unavailable or its reply is unusable the input is returned as is.
func (g *Gateway) Enrich(ctx context.Context, c model.Course) model.Course {
	start := time.Now()
	defer func() { metrics.RecordEnrichmentLatency(float64(time.Since(start).Microseconds()) / 1000) }()

	raw, err := g.call(ctx, enrichmentPrompt(c))
	if err != nil {
		metrics.RecordEnrichment(opEnrich, outcomeOf(err))
		g.log.Warn(ctx, "course enrichment skipped", logger.String("course", c.Title), logger.Error(err))
		return c
	}

	reply, err := parseEnrichment(raw)
	if err != nil {
		metrics.RecordEnrichment(opEnrich, "malformed")
		g.log.Warn(ctx, "course enrichment reply rejected", logger.String("course", c.Title), logger.Error(err))
		return c
	}

	out := c.Clone()
	if reply.Description != "" {
		out.Description = reply.Description
	}
	out.AIEnhanced = true
	out.Enrichment = &model.Enrichment{
		Skills:           reply.Skills,
		Difficulty:       reply.Difficulty,
		TargetAudience:   reply.TargetAudience,
		LearningOutcomes: reply.LearningOutcomes,
	}
	metrics.RecordEnrichment(opEnrich, "success")
	return out
}

// Discover asks the generator for courses suited to role. skills is free text
// and may be empty.
func (g *Gateway) Discover(ctx context.Context, role, skills string) ([]model.Course, error) {
	const op = "enrich.Discover"

	raw, err := g.call(ctx, discoveryPrompt(role, skills))
	if err != nil {
		metrics.RecordEnrichment(opDiscover, outcomeOf(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	courses, err := parseDiscovery(raw)
	if err != nil {
		metrics.RecordEnrichment(opDiscover, "malformed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordEnrichment(opDiscover, "success")
	g.log.Debug(ctx, "courses discovered", logger.String("job_role", role), logger.Int("count", len(courses)))
	return courses, nil
}

// call runs one throttled, breaker-guarded generator request bounded by the gateway timeout.
func (g *Gateway) call(ctx context.Context, prompt string) (string, error) {
	if !g.Available() {
		return "", ErrUnavailable
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.limiter.Wait(callCtx); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", ErrThrottled, err)
	}

	// A caller that gives up is not a provider failure and must not count against the breaker.
	var abandoned error
	text, err := g.breaker.Execute(func() (string, error) {
		out, err := g.gen.GenerateText(callCtx, prompt)
		if err != nil && ctx.Err() != nil {
			abandoned = ctx.Err()
			return "", nil
		}
		return out, err
	})
	switch {
	case abandoned != nil:
		return "", abandoned
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "", fmt.Errorf("%w: %w", ErrBreakerOpen, err)
	case err != nil:
		return "", err
	}
	return text, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrBreakerOpen):
		return "breaker_open"
	case errors.Is(err, ErrThrottled):
		return "throttled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "error"
	}
}

func breakerStateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateOpen:
		return metrics.BreakerOpen
	case gobreaker.StateHalfOpen:
		return metrics.BreakerHalfOpen
	default:
		return metrics.BreakerClosed
	}
}
