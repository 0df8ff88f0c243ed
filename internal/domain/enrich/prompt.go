package enrich

import (
	"strings"

	"github.com/okian/upskill/internal/domain/model"
)

const (
	noSkills      = "None specified"
	discoverCount = "5"
)

const enrichmentTemplate = `Analyze this course and provide enhanced information:
Title: {{TITLE}}
Subject: {{SUBJECT}}
Level: {{LEVEL}}
Duration: {{DURATION}}

Please provide:
1. A detailed description (2-3 sentences)
2. Key skills taught
3. Difficulty level (Beginner/Intermediate/Advanced)
4. Target audience
5. Learning outcomes (3-4 points)

Respond with JSON only, in this exact shape:
{
  "description": "...",
  "skills": ["skill1", "skill2"],
  "difficulty": "...",
  "target_audience": "...",
  "learning_outcomes": ["outcome1", "outcome2", "outcome3"]
}`

const discoveryTemplate = `Find {{COUNT}} relevant online courses for someone who wants to become a {{ROLE}}.
Skills they have: {{SKILLS}}

Suggest courses from platforms like Coursera, edX, Udemy, etc.
Respond with a JSON array only. Each element must have these fields:
{
  "title": "...",
  "platform": "Coursera",
  "url": "https://...",
  "price": "Free or Paid",
  "duration": "...",
  "level": "Beginner/Intermediate/Advanced",
  "skills": ["skill1", "skill2"],
  "description": "..."
}`

func enrichmentPrompt(c model.Course) string {
	return strings.NewReplacer(
		"{{TITLE}}", c.Title,
		"{{SUBJECT}}", c.Subject,
		"{{LEVEL}}", c.Level,
		"{{DURATION}}", c.Duration,
	).Replace(enrichmentTemplate)
}

func discoveryPrompt(role, skills string) string {
	skills = strings.TrimSpace(skills)
	if skills == "" {
		skills = noSkills
	}
	return strings.NewReplacer(
		"{{COUNT}}", discoverCount,
		"{{ROLE}}", strings.TrimSpace(role),
		"{{SKILLS}}", skills,
	).Replace(discoveryTemplate)
}
