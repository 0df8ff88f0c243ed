package enrich

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/okian/upskill/internal/domain/catalog"
	"github.com/okian/upskill/internal/domain/model"
)

const unknownProvider = "Unknown"

type enrichmentReply struct {
	Description      string
	Skills           []string
	Difficulty       string
	TargetAudience   string
	LearningOutcomes []string
}

func parseEnrichment(raw string) (enrichmentReply, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return enrichmentReply{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	reply := enrichmentReply{
		Description:      coerceString(data["description"]),
		Skills:           coerceStrings(data["skills"]),
		Difficulty:       coerceString(data["difficulty"]),
		TargetAudience:   coerceString(data["target_audience"]),
		LearningOutcomes: coerceStrings(data["learning_outcomes"]),
	}
	if reply.Description == "" && len(reply.Skills) == 0 && reply.Difficulty == "" &&
		reply.TargetAudience == "" && len(reply.LearningOutcomes) == 0 {
		return enrichmentReply{}, fmt.Errorf("%w: no known fields", ErrMalformed)
	}
	return reply, nil
}

// parseDiscovery accepts a bare array or an object with a "courses" array.
// Elements without a title are dropped.
func parseDiscovery(raw string) ([]model.Course, error) {
	cleaned := extractJSON(raw)

	var items []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		var wrapped struct {
			Courses []map[string]any `json:"courses"`
		}
		if werr := json.Unmarshal([]byte(cleaned), &wrapped); werr != nil || wrapped.Courses == nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		items = wrapped.Courses
	}

	courses := make([]model.Course, 0, len(items))
	for _, item := range items {
		if c, ok := discoveredCourse(item); ok {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

func discoveredCourse(item map[string]any) (model.Course, bool) {
	title := firstString(item, "title", "course_title", "name")
	if title == "" {
		return model.Course{}, false
	}

	provider := firstString(item, "platform", "provider")
	if provider == "" {
		provider = unknownProvider
	}
	level := firstString(item, "level", "difficulty")
	if level == "" {
		level = catalog.DefaultLevel
	}
	skills := coerceStrings(item["skills"])
	subject := firstString(item, "subject", "category")
	if subject == "" {
		subject = catalog.DefaultSubject
		if len(skills) > 0 {
			subject = skills[0]
		}
	}

	price, paid := discoveredPrice(item["price"])
	url := firstString(item, "url", "course_url")

	rating := coerceFloat(item["rating"])
	if math.IsNaN(rating) {
		rating = catalog.DefaultRating
	}

	description := coerceString(item["description"])
	if description == "" && len(skills) > 0 {
		description = level + " course covering " + strings.Join(skills, ", ") + "."
	}

	c := model.Course{
		ID:          model.CourseID(provider, url, title),
		Title:       title,
		Provider:    provider,
		URL:         url,
		IsPaid:      paid,
		Price:       price,
		Level:       level,
		Duration:    catalog.EnsureDurationUnit(coerceString(item["duration"])),
		Subject:     subject,
		Description: description,
		Platform:    strings.ToLower(provider),
		Rating:      catalog.ClampRating(rating),
		AIEnhanced:  true,
	}
	if len(skills) > 0 {
		c.Enrichment = &model.Enrichment{Skills: skills}
	}
	return c, true
}

// discoveredPrice maps "Free", "Paid", "$49" or 49 to a price and paid flag.
func discoveredPrice(v any) (float64, bool) {
	if f, ok := v.(float64); ok {
		f = math.Max(f, 0)
		return f, f > 0
	}
	s := strings.ToLower(coerceString(v))
	switch {
	case s == "", strings.HasPrefix(s, "free"):
		return 0, false
	case strings.HasPrefix(s, "paid"):
		return 0, true
	}
	f, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	if err != nil || math.IsNaN(f) {
		return 0, true
	}
	f = math.Max(f, 0)
	return f, f > 0
}

// extractJSON strips markdown fences and any prose around the first JSON value.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.TrimSpace(strings.Trim(raw, "`"))

	start := strings.IndexAny(raw, "{[")
	if start <= 0 {
		return raw
	}
	closer := "}"
	if raw[start] == '[' {
		closer = "]"
	}
	if end := strings.LastIndex(raw, closer); end > start {
		return raw[start : end+1]
	}
	return raw
}

func firstString(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := coerceString(item[k]); s != "" {
			return s
		}
	}
	return ""
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return catalog.FormatNumber(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// coerceStrings accepts a JSON array or a comma-separated string.
func coerceStrings(v any) []string {
	var parts []string
	switch val := v.(type) {
	case []any:
		for _, p := range val {
			parts = append(parts, coerceString(p))
		}
	case string:
		parts = strings.Split(val, ",")
	default:
		return nil
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
