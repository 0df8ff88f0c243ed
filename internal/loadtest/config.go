// Package loadtest drives a running recommender API with concurrent
// recommendation queries and checks every response against the API contract.
package loadtest

import (
	"runtime"
	"time"

	"github.com/okian/upskill/internal/domain/model"
)

// Defaults.
const (
	DefaultBaseURL  = "http://localhost:8000"
	DefaultRequests = 500
	DefaultTimeout  = 30 * time.Second

	maxRecommendations = 8
	percentage         = 100
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of recommendation queries to send
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	UseAI    bool          // Ask for AI enrichment on every query
	Seed     uint64        // Query generator seed; zero picks one from the clock
	Verbose  bool          // Log every violation
}

// Normalize fills zero fields with defaults.
func (c *Config) Normalize() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Requests <= 0 {
		c.Requests = DefaultRequests
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU() * 2
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
}

// Query is one generated recommendation request.
type Query struct {
	JobRole    string
	Paid       *bool
	Platform   string
	UserSkills []string
	Goal       string
	UseAI      bool
}

// recommendations mirrors both response shapes of GET /recommendations.
// Fields absent from the reduced shape stay nil.
type recommendations struct {
	JobRole         string         `json:"job_role"`
	Recommendations []model.Course `json:"recommendations"`
	TotalFiltered   *int           `json:"total_filtered"`
	RelevantSkills  []string       `json:"relevant_skills"`
	SkillMatchCount *int           `json:"skill_match_count"`
	AIEnhanced      *bool          `json:"ai_enhanced"`
}

// Stats holds run statistics.
type Stats struct {
	Sent       int
	Succeeded  int
	Empty      int
	Failed     int
	Violations int
	StartTime  time.Time
	Duration   time.Duration
}

// SuccessRate is the share of queries that returned 200 with a valid body, in percent.
func (s Stats) SuccessRate() float64 {
	if s.Sent == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Sent) * percentage
}

// QueriesPerSecond is the achieved throughput.
func (s Stats) QueriesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Sent) / s.Duration.Seconds()
}
