// Package repository holds the in-memory course catalog snapshot.
package repository

import (
	"context"
	"sort"

	"github.com/okian/upskill/internal/domain/model"
	"github.com/okian/upskill/pkg/metrics"
)

// Store provides read access to the course catalog. Implementations are
// read-only after construction and safe for concurrent use.
type Store interface {
	// All returns every course in ingestion order.
	All(ctx context.Context) []model.Course
	// Filter returns the courses matching f, preserving ingestion order.
	Filter(ctx context.Context, f model.Filter) []model.Course
	// Count returns the number of courses.
	Count(ctx context.Context) int
	// Providers returns the distinct providers, sorted.
	Providers(ctx context.Context) []string
	// JobRoles returns the distinct subjects and levels, sorted.
	JobRoles(ctx context.Context) []string
}

// MemoryStore is a Store over an immutable slice.
type MemoryStore struct {
	courses   []model.Course
	providers []string
	jobRoles  []string
}

// NewMemoryStore copies courses into a new store and precomputes the distinct lists.
func NewMemoryStore(courses []model.Course) *MemoryStore {
	s := &MemoryStore{courses: make([]model.Course, len(courses))}
	copy(s.courses, courses)

	providers := map[string]struct{}{}
	roles := map[string]struct{}{}
	for _, c := range s.courses {
		providers[c.Provider] = struct{}{}
		if c.Subject != "" {
			roles[c.Subject] = struct{}{}
		}
		if c.Level != "" {
			roles[c.Level] = struct{}{}
		}
	}
	s.providers = sortedKeys(providers)
	s.jobRoles = sortedKeys(roles)

	counts := map[string]int{}
	for _, c := range s.courses {
		counts[c.Provider]++
	}
	for p, n := range counts {
		metrics.UpdateCatalogCourses(p, n)
	}
	return s
}

// All implements Store.
func (s *MemoryStore) All(_ context.Context) []model.Course {
	out := make([]model.Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// Filter implements Store.
func (s *MemoryStore) Filter(_ context.Context, f model.Filter) []model.Course {
	out := make([]model.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int { return len(s.courses) }

// Providers implements Store.
func (s *MemoryStore) Providers(_ context.Context) []string {
	return append([]string(nil), s.providers...)
}

// JobRoles implements Store.
func (s *MemoryStore) JobRoles(_ context.Context) []string {
	return append([]string(nil), s.jobRoles...)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
