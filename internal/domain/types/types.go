// Package types contains the request and response shapes shared by the
// service and HTTP layers.
package types

import "github.com/okian/upskill/internal/domain/model"

// DiscoverySource labels courses suggested by the text generation provider.
const DiscoverySource = "Gemini AI"

// RecommendParams are the parsed query parameters of a recommendation request.
type RecommendParams struct {
	JobRole    string
	Paid       *bool
	Platform   string
	UserSkills []string
	Goal       string
	UseAI      bool
}

// InfoResponse is returned by GET /.
type InfoResponse struct {
	Message         string `json:"message"`
	TotalCourses    int    `json:"total_courses"`
	GeminiAvailable bool   `json:"gemini_available"`
}

// PlatformsResponse is returned by GET /platforms.
type PlatformsResponse struct {
	Platforms []string `json:"platforms"`
}

// SkillsResponse is returned by GET /skills.
type SkillsResponse struct {
	Skills []string `json:"skills"`
}

// CareerPathResponse is returned by GET /career_path/{job_role}.
type CareerPathResponse struct {
	CurrentRole      string   `json:"current_role"`
	NextRoles        []string `json:"next_roles"`
	RequiredSkills   []string `json:"required_skills"`
	RelevantSubjects []string `json:"relevant_subjects"`
}

// AICoursesResponse is returned by GET /ai_courses. Error is set instead of
// an HTTP failure status when discovery is unavailable or fails.
type AICoursesResponse struct {
	Courses []model.Course `json:"courses"`
	Source  string         `json:"source,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// RecommendationsResponse is returned by GET /recommendations.
type RecommendationsResponse struct {
	JobRole         string         `json:"job_role"`
	Recommendations []model.Course `json:"recommendations"`
	TotalFiltered   int            `json:"total_filtered"`
	RelevantSkills  []string       `json:"relevant_skills"`
	SkillMatchCount int            `json:"skill_match_count"`
	AIEnhanced      bool           `json:"ai_enhanced"`
}

// Empty reports whether no course matched the filters.
func (r RecommendationsResponse) Empty() bool { return r.TotalFiltered == 0 }

// EmptyRecommendationsResponse is the reduced shape used when filters match nothing.
type EmptyRecommendationsResponse struct {
	JobRole         string         `json:"job_role"`
	Recommendations []model.Course `json:"recommendations"`
}

// Reduce returns the shape to serialize: the full response, or the reduced
// one when nothing matched the filters.
func (r RecommendationsResponse) Reduce() any {
	if r.Empty() {
		return EmptyRecommendationsResponse{JobRole: r.JobRole, Recommendations: []model.Course{}}
	}
	if r.Recommendations == nil {
		r.Recommendations = []model.Course{}
	}
	if r.RelevantSkills == nil {
		r.RelevantSkills = []string{}
	}
	return r
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
