// Package model contains domain models passed between layers.
package model

import (
	"strings"

	"github.com/google/uuid"
)

// courseNamespace scopes course identifiers so they are stable across restarts.
var courseNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("upskill/course")) //nolint:gochecknoglobals // fixed namespace

// Course is a normalized catalog entry. It is immutable once produced by the catalog normalizer;
// enrichment returns modified copies.
type Course struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Provider        string      `json:"provider"`
	URL             string      `json:"url"`
	IsPaid          bool        `json:"is_paid"`
	Price           float64     `json:"price"`
	EnrollmentCount int64       `json:"num_subscribers"`
	Level           string      `json:"level"`
	Duration        string      `json:"duration"`
	Subject         string      `json:"subject"`
	Description     string      `json:"description"`
	PopularityScore float64     `json:"popularity_score"`
	Platform        string      `json:"platform"`
	Rating          float64     `json:"rating"`
	AIEnhanced      bool        `json:"ai_enhanced"`
	Enrichment      *Enrichment `json:"enrichment,omitempty"`
}

// Enrichment holds the structured details returned by the text generation provider.
type Enrichment struct {
	Skills           []string `json:"skills,omitempty"`
	Difficulty       string   `json:"difficulty,omitempty"`
	TargetAudience   string   `json:"target_audience,omitempty"`
	LearningOutcomes []string `json:"learning_outcomes,omitempty"`
}

// CourseID derives a deterministic identifier from provider, url and title.
func CourseID(provider, url, title string) string {
	key := strings.ToLower(provider) + "\x00" + url + "\x00" + title
	return uuid.NewSHA1(courseNamespace, []byte(key)).String()
}

// Clone returns a copy that shares no mutable state with c.
func (c Course) Clone() Course {
	if c.Enrichment != nil {
		e := *c.Enrichment
		e.Skills = append([]string(nil), e.Skills...)
		e.LearningOutcomes = append([]string(nil), e.LearningOutcomes...)
		c.Enrichment = &e
	}
	return c
}
