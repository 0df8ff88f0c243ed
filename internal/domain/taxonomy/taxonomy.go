// Package taxonomy maps job roles to relevant course subjects, skills and career progressions.
//
// The role table is static and read-only; every lookup returns fresh slices so
// callers may modify results freely.
package taxonomy

import (
	"sort"
	"strings"
)

// RoleProfile describes one canonical role.
type RoleProfile struct {
	Subjects  []string
	Skills    []string
	NextRoles []string
}

// CareerPath is the suggested progression for a role.
type CareerPath struct {
	CurrentRole      string   `json:"current_role"`
	NextRoles        []string `json:"next_roles"`
	RequiredSkills   []string `json:"required_skills"`
	RelevantSubjects []string `json:"relevant_subjects"`
}

// Resolver resolves a free-text role into relevant subjects and skills.
type Resolver interface {
	Resolve(role string) (subjects, skills []string)
}

// Table is the Resolver backed by the static role table.
type Table struct{}

// Default is the process-wide taxonomy.
var Default Table //nolint:gochecknoglobals // stateless

// Resolve returns the relevant subjects and skills for role.
//
// Exact matches return the table values verbatim. Otherwise every table entry
// with at least one role-name word contained in the lower-cased input
// contributes its subjects and skills; the union is returned sorted. Roles that
// match nothing get a fixed default set.
func (Table) Resolve(role string) (subjects, skills []string) {
	if p, ok := roleTable[role]; ok {
		return clone(p.Subjects), clone(p.Skills)
	}

	input := strings.ToLower(role)
	subjectSet := map[string]struct{}{}
	skillSet := map[string]struct{}{}
	for name, p := range roleTable {
		if !anyWordIn(strings.Fields(strings.ToLower(name)), input) {
			continue
		}
		for _, s := range p.Subjects {
			subjectSet[s] = struct{}{}
		}
		for _, s := range p.Skills {
			skillSet[s] = struct{}{}
		}
	}

	subjects, skills = sortedKeys(subjectSet), sortedKeys(skillSet)
	if len(subjects) == 0 {
		subjects = clone(defaultSubjects)
	}
	if len(skills) == 0 {
		skills = clone(defaultSkills)
	}
	return subjects, skills
}

// Resolve resolves role against the default table.
func Resolve(role string) (subjects, skills []string) {
	return Default.Resolve(role)
}

// CareerPathFor returns the career progression for role.
func CareerPathFor(role string) CareerPath {
	if p, ok := roleTable[role]; ok {
		return CareerPath{
			CurrentRole:      role,
			NextRoles:        clone(p.NextRoles),
			RequiredSkills:   clone(p.Skills),
			RelevantSubjects: clone(p.Subjects),
		}
	}

	input := strings.ToLower(role)
	for _, t := range careerTemplates {
		if !anyWordIn(t.keywords, input) {
			continue
		}
		return CareerPath{
			CurrentRole:      role,
			NextRoles:        append([]string{"Senior " + role}, t.nextRoles...),
			RequiredSkills:   clone(t.skills),
			RelevantSubjects: clone(t.subjects),
		}
	}

	return CareerPath{
		CurrentRole:      role,
		NextRoles:        []string{"Senior " + role, "Lead " + role, "Manager", "Director"},
		RequiredSkills:   clone(genericSkills),
		RelevantSubjects: clone(genericSubjects),
	}
}

// CommonSkills returns the fixed list of skills offered to clients.
func CommonSkills() []string {
	return clone(commonSkills)
}

// Roles returns the canonical role names, sorted.
func Roles() []string {
	out := make([]string, 0, len(roleTable))
	for name := range roleTable {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the profile of a canonical role.
func Lookup(role string) (RoleProfile, bool) {
	p, ok := roleTable[role]
	if !ok {
		return RoleProfile{}, false
	}
	return RoleProfile{Subjects: clone(p.Subjects), Skills: clone(p.Skills), NextRoles: clone(p.NextRoles)}, true
}

func anyWordIn(words []string, s string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
