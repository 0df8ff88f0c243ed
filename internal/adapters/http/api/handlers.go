package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/okian/upskill/internal/domain/scoring"
	"github.com/okian/upskill/internal/domain/types"
)

// CatalogDependencies exposes catalog-wide read operations.
type CatalogDependencies interface {
	Info(ctx context.Context) types.InfoResponse
	JobRoles(ctx context.Context) []string
	Platforms(ctx context.Context) types.PlatformsResponse
	Skills(ctx context.Context) types.SkillsResponse
}

// CatalogHandler serves the catalog summary endpoints.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleRoot handles GET / requests.
func (h *CatalogHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Info(r.Context()))
}

// HandleJobRoles handles GET /job_roles requests.
func (h *CatalogHandler) HandleJobRoles(w http.ResponseWriter, r *http.Request) {
	roles := h.deps.JobRoles(r.Context())
	if roles == nil {
		roles = []string{}
	}
	writeJSON(w, http.StatusOK, roles)
}

// HandlePlatforms handles GET /platforms requests.
func (h *CatalogHandler) HandlePlatforms(w http.ResponseWriter, r *http.Request) {
	res := h.deps.Platforms(r.Context())
	if res.Platforms == nil {
		res.Platforms = []string{}
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleSkills handles GET /skills requests.
func (h *CatalogHandler) HandleSkills(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Skills(r.Context()))
}

// CareerPathDependencies resolves career progressions.
type CareerPathDependencies interface {
	CareerPath(ctx context.Context, role string) types.CareerPathResponse
}

// CareerPathHandler handles career path requests.
type CareerPathHandler struct {
	deps CareerPathDependencies
}

// NewCareerPathHandler creates a new career path handler.
func NewCareerPathHandler(deps CareerPathDependencies) *CareerPathHandler {
	return &CareerPathHandler{deps: deps}
}

// HandleCareerPath handles GET /career_path/{job_role} requests.
func (h *CareerPathHandler) HandleCareerPath(w http.ResponseWriter, r *http.Request) {
	const op = "api.career_path"

	role := chi.URLParam(r, "job_role")
	if unescaped, err := url.PathUnescape(role); err == nil {
		role = unescaped
	}
	if err := validateQuery(careerPathParam{JobRole: role}); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.CareerPath(r.Context(), role))
}

// DiscoveryDependencies asks the AI provider for courses.
type DiscoveryDependencies interface {
	DiscoverCourses(ctx context.Context, role, skills string) types.AICoursesResponse
}

// DiscoveryHandler handles AI course discovery requests.
type DiscoveryHandler struct {
	deps DiscoveryDependencies
}

// NewDiscoveryHandler creates a new discovery handler.
func NewDiscoveryHandler(deps DiscoveryDependencies) *DiscoveryHandler {
	return &DiscoveryHandler{deps: deps}
}

// HandleAICourses handles GET /ai_courses?job_role=&skills= requests.
// Provider failures are reported in the body with status 200.
func (h *DiscoveryHandler) HandleAICourses(w http.ResponseWriter, r *http.Request) {
	const op = "api.ai_courses"

	q := discoverQuery{JobRole: r.URL.Query().Get("job_role"), Skills: r.URL.Query().Get("skills")}
	if err := validateQuery(q); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.DiscoverCourses(r.Context(), q.JobRole, q.Skills))
}

// RecommendDependencies ranks courses.
type RecommendDependencies interface {
	Recommend(ctx context.Context, p types.RecommendParams) (types.RecommendationsResponse, error)
}

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps RecommendDependencies
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps RecommendDependencies) *RecommendHandler {
	return &RecommendHandler{deps: deps}
}

// HandleRecommendations handles GET /recommendations requests.
// Unparseable paid and use_ai values are treated as absent.
func (h *RecommendHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommendations"

	q := parseRecommendQuery(r.URL.Query())
	if err := validateQuery(q); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Recommend(r.Context(), q.params())
	switch {
	case errors.Is(err, scoring.ErrEmptyJobRole):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, res.Reduce())
}
