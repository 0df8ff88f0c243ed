// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/okian/upskill/internal/adapters/csvsource"
	"github.com/okian/upskill/internal/adapters/mq/queue"
	"github.com/okian/upskill/internal/adapters/mq/worker"
	"github.com/okian/upskill/internal/adapters/repository"
	"github.com/okian/upskill/internal/domain/enrich"
	"github.com/okian/upskill/internal/domain/model"
	"github.com/okian/upskill/internal/domain/scoring"
	"github.com/okian/upskill/internal/domain/taxonomy"
	"github.com/okian/upskill/internal/domain/textindex"
	"github.com/okian/upskill/internal/domain/types"
	"github.com/okian/upskill/pkg/logger"
)

// Default service configuration.
const (
	defaultEnrichmentTimeout = 8 * time.Second
	defaultQueueSize         = 256
	maxDefaultWorkers        = 8
	poolStopTimeout          = 10 * time.Second

	rootMessage         = "Upskill Recommender API is running!"
	notConfiguredReason = "Gemini API not configured"
)

// Service implements the API dependencies for the course recommender.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	engine  *scoring.Engine
	gateway *enrich.Gateway
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	// Configuration
	sources           []csvsource.Source
	courses           []model.Course
	generator         enrich.TextGenerator
	enrichmentTimeout time.Duration
	workerCount       int
	queueSize         int
	ratePerSec        float64
	burst             int
	maxFeatures       int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSources sets the catalog feeds read on Start, in order.
func WithSources(sources ...csvsource.Source) Option {
	return func(s *Service) {
		s.sources = append([]csvsource.Source(nil), sources...)
	}
}

// WithCourses seeds the catalog directly. Sources are not read when set.
func WithCourses(courses []model.Course) Option {
	return func(s *Service) {
		s.courses = append([]model.Course(nil), courses...)
	}
}

// WithGenerator enables AI enrichment and discovery.
func WithGenerator(gen enrich.TextGenerator) Option {
	return func(s *Service) {
		s.generator = gen
	}
}

// WithEnrichmentTimeout bounds how long a request waits for enrichment.
func WithEnrichmentTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.enrichmentTimeout = d
		}
	}
}

// WithWorkerCount sets the number of enrichment workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending enrichment jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithRateLimit throttles calls to the text generator.
func WithRateLimit(perSec float64, burst int) Option {
	return func(s *Service) {
		if perSec > 0 {
			s.ratePerSec = perSec
		}
		if burst > 0 {
			s.burst = burst
		}
	}
}

// WithMaxFeatures caps the text index vocabulary.
func WithMaxFeatures(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxFeatures = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		enrichmentTimeout: defaultEnrichmentTimeout,
		workerCount:       min(runtime.NumCPU(), maxDefaultWorkers),
		queueSize:         defaultQueueSize,
		ratePerSec:        enrich.DefaultRatePerSec,
		burst:             enrich.DefaultBurst,
		maxFeatures:       textindex.DefaultMaxFeatures,
		logger:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog, fits the global index and starts the enrichment workers.
// Unreadable sources are logged and skipped; Start itself only fails on a cancelled context.
func (s *Service) Start(ctx context.Context) error {
	const op = "service.Start"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info(ctx, "starting recommender service...")

	courses := s.courses
	if courses == nil {
		loader := csvsource.NewLoader(csvsource.WithLogger(s.logger.Named("csvsource")))
		courses = loader.LoadAll(ctx, s.sources...)
	}
	if len(courses) == 0 {
		s.logger.Warn(ctx, "catalog is empty; recommendations will be empty")
	}

	s.store = repository.NewMemoryStore(courses)
	s.engine = scoring.NewEngine(ctx, s.store,
		scoring.WithMaxFeatures(s.maxFeatures),
		scoring.WithLogger(s.logger.Named("scoring")),
	)
	s.gateway = enrich.NewGateway(
		enrich.WithGenerator(s.generator),
		enrich.WithTimeout(s.enrichmentTimeout),
		enrich.WithRateLimit(s.ratePerSec, s.burst),
		enrich.WithLogger(s.logger.Named("enrich")),
	)
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.gateway, worker.WithLogger(s.logger))
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "recommender service started",
		logger.Int("courses", s.store.Count(ctx)),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Bool("ai", s.gateway.Available()),
	)
	return nil
}

// Stop drains the enrichment workers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), poolStopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping recommender service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "enrichment workers did not drain", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "recommender service stopped")
}

// Info reports the catalog size and whether AI features are available.
func (s *Service) Info(ctx context.Context) types.InfoResponse {
	return types.InfoResponse{
		Message:         rootMessage,
		TotalCourses:    s.store.Count(ctx),
		GeminiAvailable: s.gateway.Available(),
	}
}

// JobRoles returns the distinct subjects and levels of the catalog.
func (s *Service) JobRoles(ctx context.Context) []string {
	return s.store.JobRoles(ctx)
}

// Platforms returns the distinct providers of the catalog.
func (s *Service) Platforms(ctx context.Context) types.PlatformsResponse {
	return types.PlatformsResponse{Platforms: s.store.Providers(ctx)}
}

// Skills returns the fixed list of common skills.
func (s *Service) Skills(context.Context) types.SkillsResponse {
	return types.SkillsResponse{Skills: taxonomy.CommonSkills()}
}

// CareerPath suggests the next steps for role.
func (s *Service) CareerPath(_ context.Context, role string) types.CareerPathResponse {
	p := taxonomy.CareerPathFor(role)
	return types.CareerPathResponse{
		CurrentRole:      p.CurrentRole,
		NextRoles:        p.NextRoles,
		RequiredSkills:   p.RequiredSkills,
		RelevantSubjects: p.RelevantSubjects,
	}
}

// DiscoverCourses asks the text generator for courses suited to role.
// Failures are reported in the Error field, never as an error value.
func (s *Service) DiscoverCourses(ctx context.Context, role, skills string) types.AICoursesResponse {
	if !s.gateway.Available() {
		return types.AICoursesResponse{Courses: []model.Course{}, Error: notConfiguredReason}
	}

	courses, err := s.gateway.Discover(ctx, role, skills)
	if err != nil {
		s.logger.Warn(ctx, "course discovery failed", logger.String("job_role", role), logger.Error(err))
		return types.AICoursesResponse{Courses: []model.Course{}, Error: err.Error()}
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return types.AICoursesResponse{Courses: courses, Source: types.DiscoverySource}
}

// Recommend ranks the catalog for p and, when asked and available, enriches
// the results within the enrichment timeout.
func (s *Service) Recommend(ctx context.Context, p types.RecommendParams) (types.RecommendationsResponse, error) {
	const op = "service.Recommend"

	res, err := s.engine.Recommend(ctx, scoring.Request{
		JobRole:    p.JobRole,
		Filter:     model.Filter{Paid: p.Paid, Platform: strings.TrimSpace(p.Platform)},
		UserSkills: p.UserSkills,
		Goal:       p.Goal,
	})
	if err != nil {
		return types.RecommendationsResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	out := types.RecommendationsResponse{
		JobRole:         res.JobRole,
		Recommendations: res.Courses(),
		TotalFiltered:   res.TotalFiltered,
		RelevantSkills:  res.RelevantSkills,
		SkillMatchCount: res.SkillMatchCount,
		AIEnhanced:      p.UseAI && s.gateway.Available(),
	}
	if out.AIEnhanced && len(out.Recommendations) > 0 {
		out.Recommendations = s.pool.EnrichAll(ctx, out.Recommendations, s.enrichmentTimeout)
	}
	return out, nil
}

// Courses returns the loaded catalog.
func (s *Service) Courses(ctx context.Context) []model.Course {
	return s.store.All(ctx)
}
