package loadtest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/upskill/internal/domain/types"
	"github.com/okian/upskill/pkg/logger"
)

// ErrViolations is returned when any response broke the API contract.
var ErrViolations = errors.New("loadtest: contract violations found")

// Run executes a complete load test against cfg.BaseURL.
func Run(ctx context.Context, cfg Config, log logger.Logger) (Stats, error) {
	cfg.Normalize()
	stats := Stats{StartTime: time.Now()}
	c := newClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting recommender load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Bool("useAI", cfg.UseAI),
	)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, c); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Learn the catalog and generate queries
	facts, err := fetchCatalogFacts(ctx, c)
	if err != nil {
		return stats, fmt.Errorf("catalog discovery failed: %w", err)
	}
	queries := generateQueries(facts, cfg.Requests, cfg.Seed, cfg.UseAI)
	log.Info(ctx, "queries generated",
		logger.Int("queries", len(queries)),
		logger.Int("roles", len(facts.roles)),
		logger.Int("platforms", len(facts.platforms)),
	)

	// Step 3: Send queries concurrently and verify every response
	send(ctx, cfg, c, queries, &stats, log)

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "final statistics",
		logger.Int("sent", stats.Sent),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("empty", stats.Empty),
		logger.Int("failed", stats.Failed),
		logger.Int("violations", stats.Violations),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", stats.SuccessRate()),
		logger.Float64("queriesPerSecond", stats.QueriesPerSecond()),
	)

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if stats.Violations > 0 {
		return stats, fmt.Errorf("%w: %d", ErrViolations, stats.Violations)
	}
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, c *client) error {
	status, _, err := c.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	// The service answers with Prometheus metrics; any 200 is healthy.
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", status)
	}
	return nil
}

func fetchCatalogFacts(ctx context.Context, c *client) (catalogFacts, error) {
	var facts catalogFacts
	if err := c.getJSON(ctx, "/job_roles", &facts.roles); err != nil {
		return facts, err
	}
	var platforms types.PlatformsResponse
	if err := c.getJSON(ctx, "/platforms", &platforms); err != nil {
		return facts, err
	}
	facts.platforms = platforms.Platforms
	var skills types.SkillsResponse
	if err := c.getJSON(ctx, "/skills", &skills); err != nil {
		return facts, err
	}
	facts.skills = skills.Skills
	return facts, nil
}

// send fans queries out to cfg.Workers workers.
func send(ctx context.Context, cfg Config, c *client, queries []Query, stats *Stats, log logger.Logger) {
	var sent, succeeded, empty, failed, violations atomic.Int64

	jobs := make(chan Query, cfg.Workers*2)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range jobs {
				sent.Add(1)
				status, body, err := c.get(ctx, recommendPath(q))
				if err != nil || status != http.StatusOK {
					failed.Add(1)
					if cfg.Verbose {
						log.Warn(ctx, "query failed", logger.String("job_role", q.JobRole), logger.Int("status", status), logger.Error(err))
					}
					continue
				}
				isEmpty, problems := verifyRecommendations(q, body)
				if len(problems) > 0 {
					violations.Add(int64(len(problems)))
					failed.Add(1)
					if cfg.Verbose {
						log.Warn(ctx, "contract violation", logger.String("job_role", q.JobRole), logger.Strings("problems", problems))
					}
					continue
				}
				succeeded.Add(1)
				if isEmpty {
					empty.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, q := range queries {
			select {
			case <-ctx.Done():
				return
			case jobs <- q:
			}
		}
	}()
	wg.Wait()

	stats.Sent = int(sent.Load())
	stats.Succeeded = int(succeeded.Load())
	stats.Empty = int(empty.Load())
	stats.Failed = int(failed.Load())
	stats.Violations = int(violations.Load())
}
