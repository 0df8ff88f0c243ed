package loadtest

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// verifyRecommendations checks a 200 body of GET /recommendations against q.
// It reports whether the reduced empty shape was returned.
func verifyRecommendations(q Query, body []byte) (empty bool, violations []string) {
	var res recommendations
	if err := json.Unmarshal(body, &res); err != nil {
		return false, []string{"body is not valid JSON: " + err.Error()}
	}

	if res.JobRole != q.JobRole {
		violations = append(violations, fmt.Sprintf("job_role %q, want %q", res.JobRole, q.JobRole))
	}
	if res.Recommendations == nil {
		violations = append(violations, "recommendations is missing or null")
	}

	if res.TotalFiltered == nil {
		// Reduced shape: exactly job_role and an empty list.
		var keys map[string]json.RawMessage
		_ = json.NewDecoder(bytes.NewReader(body)).Decode(&keys)
		if len(keys) != 2 {
			violations = append(violations, fmt.Sprintf("reduced shape has %d keys, want 2", len(keys)))
		}
		if len(res.Recommendations) != 0 {
			violations = append(violations, "reduced shape carries recommendations")
		}
		return true, violations
	}

	if *res.TotalFiltered == 0 {
		violations = append(violations, "full shape with total_filtered 0")
	}
	if n := len(res.Recommendations); n > maxRecommendations {
		violations = append(violations, fmt.Sprintf("%d recommendations, want at most %d", n, maxRecommendations))
	}
	if n := len(res.Recommendations); n > *res.TotalFiltered {
		violations = append(violations, fmt.Sprintf("%d recommendations exceed total_filtered %d", n, *res.TotalFiltered))
	}
	if res.SkillMatchCount != nil && *res.SkillMatchCount > len(res.Recommendations) {
		violations = append(violations, "skill_match_count exceeds the number of recommendations")
	}
	if res.RelevantSkills == nil {
		violations = append(violations, "relevant_skills is missing or null")
	}

	for _, c := range res.Recommendations {
		if q.Paid != nil && c.IsPaid != *q.Paid {
			violations = append(violations, fmt.Sprintf("course %q has is_paid=%t, want %t", c.Title, c.IsPaid, *q.Paid))
		}
		if q.Platform != "" && !strings.EqualFold(c.Provider, q.Platform) {
			violations = append(violations, fmt.Sprintf("course %q is from %q, want %q", c.Title, c.Provider, q.Platform))
		}
		if c.Rating < 0 || c.Rating > 5 {
			violations = append(violations, fmt.Sprintf("course %q has rating %.2f outside [0,5]", c.Title, c.Rating))
		}
	}
	return false, violations
}
