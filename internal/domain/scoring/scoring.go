// Package scoring ranks catalog courses against a job role, user skills and a goal keyword.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/okian/upskill/internal/domain/model"
	"github.com/okian/upskill/internal/domain/taxonomy"
	"github.com/okian/upskill/internal/domain/textindex"
	"github.com/okian/upskill/pkg/logger"
	"github.com/okian/upskill/pkg/metrics"
)

// Scoring weights.
const (
	MaxRecommendations = 8

	subjectBonus       = 0.3
	popularityScale    = 10000.0
	popularityBonusCap = 0.2
	skillWeight        = 0.4
	goalBonus          = 0.3
)

// ErrEmptyJobRole is returned when a request carries no job role.
var ErrEmptyJobRole = errors.New("scoring: job role is required")

// Catalog is the read-only course snapshot the engine ranks.
type Catalog interface {
	All(ctx context.Context) []model.Course
	Filter(ctx context.Context, f model.Filter) []model.Course
}

// Request describes one recommendation query.
type Request struct {
	JobRole    string
	Filter     model.Filter
	UserSkills []string
	Goal       string
}

// Candidate is a course with its request-specific score.
type Candidate struct {
	Course model.Course
	Score  float64
}

// Result is the ranked answer to a Request.
type Result struct {
	JobRole         string
	Recommendations []Candidate
	TotalFiltered   int
	RelevantSkills  []string
	SkillMatchCount int
}

// Empty reports whether no course survived the filters.
func (r Result) Empty() bool { return r.TotalFiltered == 0 }

// Courses returns the recommended courses in rank order.
func (r Result) Courses() []model.Course {
	out := make([]model.Course, len(r.Recommendations))
	for i, c := range r.Recommendations {
		out[i] = c.Course
	}
	return out
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithResolver sets the role resolver. Defaults to the static taxonomy.
func WithResolver(r taxonomy.Resolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithMaxFeatures caps the text index vocabulary.
func WithMaxFeatures(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxFeatures = n
		}
	}
}

// WithMaxResults sets how many recommendations are returned.
func WithMaxResults(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine ranks courses. All state is read-only after NewEngine, so Recommend is
// safe for concurrent use; request-scoped indexes never escape the call.
type Engine struct {
	catalog     Catalog
	resolver    taxonomy.Resolver
	maxFeatures int
	maxResults  int
	log         logger.Logger

	all    []model.Course
	global *textindex.Index
}

// NewEngine snapshots the catalog and fits the global text index over it.
func NewEngine(ctx context.Context, catalog Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:     catalog,
		resolver:    taxonomy.Default,
		maxFeatures: textindex.DefaultMaxFeatures,
		maxResults:  MaxRecommendations,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.all = catalog.All(ctx)
	e.global = e.fit(e.all)
	e.log.Info(ctx, "global text index fitted",
		logger.Int("courses", len(e.all)),
		logger.Int("vocabulary", e.global.VocabularySize()),
	)
	return e
}

// Recommend filters, scores and ranks courses for req.
func (e *Engine) Recommend(ctx context.Context, req Request) (Result, error) {
	const op = "scoring.Recommend"
	start := time.Now()
	defer func() { metrics.RecordRecommendationLatency(float64(time.Since(start).Microseconds()) / 1000) }()

	if strings.TrimSpace(req.JobRole) == "" {
		return Result{}, fmt.Errorf("%s: %w", op, ErrEmptyJobRole)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	candidates, idx := e.all, e.global
	if !req.Filter.IsZero() {
		candidates = e.catalog.Filter(ctx, req.Filter)
	}
	metrics.RecordCandidatesFiltered(len(candidates))

	res := Result{JobRole: req.JobRole, TotalFiltered: len(candidates)}
	if len(candidates) == 0 {
		metrics.RecordRecommendationServed("empty")
		return res, nil
	}
	if !req.Filter.IsZero() {
		idx = e.fit(candidates)
	}

	subjects, skills := e.resolver.Resolve(req.JobRole)
	res.RelevantSkills = skills
	subjectSet := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		subjectSet[s] = struct{}{}
	}

	sims := idx.Similarities(req.JobRole)
	goal := strings.ToLower(req.Goal)

	scored := make([]Candidate, len(candidates))
	for i, c := range candidates {
		score := sims[i]
		if _, ok := subjectSet[c.Subject]; ok {
			score += subjectBonus
		}
		score += math.Min(c.PopularityScore/popularityScale, popularityBonusCap)
		score += SkillMatch(c, req.UserSkills) * skillWeight
		if goal != "" && strings.Contains(strings.ToLower(c.Title), goal) {
			score += goalBonus
		}
		scored[i] = Candidate{Course: c, Score: score}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	out := make([]Candidate, 0, e.maxResults)
	for _, c := range scored {
		if c.Score <= 0 {
			continue
		}
		out = append(out, c)
		if len(out) == e.maxResults {
			break
		}
	}
	res.Recommendations = out
	res.SkillMatchCount = CountSkillMatches(res.Courses(), req.UserSkills)

	metrics.RecordRecommendationServed("ok")
	e.log.Debug(ctx, "recommendations ranked",
		logger.String("job_role", req.JobRole),
		logger.Int("filtered", len(candidates)),
		logger.Int("returned", len(out)),
	)
	return res, nil
}

// CatalogSize returns the number of courses in the snapshot.
func (e *Engine) CatalogSize() int { return len(e.all) }

func (e *Engine) fit(courses []model.Course) *textindex.Index {
	start := time.Now()
	docs := make([]string, len(courses))
	for i, c := range courses {
		docs[i] = Document(c)
	}
	idx := textindex.Fit(docs, textindex.WithMaxFeatures(e.maxFeatures))
	metrics.RecordIndexFit(float64(time.Since(start).Microseconds())/1000, idx.VocabularySize())
	return idx
}

// Document is the text a course contributes to the index.
func Document(c model.Course) string {
	return c.Title + " " + c.Subject + " " + c.Level + " " + c.Description
}

// SkillMatch returns the fraction of skills that occur, case-insensitively, in
// the course title or description. Blank skills are ignored.
func SkillMatch(c model.Course, skills []string) float64 {
	text := strings.ToLower(c.Title + " " + c.Description)
	var total, hits int
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		total++
		if strings.Contains(text, s) {
			hits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// CountSkillMatches counts courses with at least one matching skill.
func CountSkillMatches(courses []model.Course, skills []string) int {
	n := 0
	for _, c := range courses {
		if SkillMatch(c, skills) > 0 {
			n++
		}
	}
	return n
}
