package loadtest

import (
	"math/rand/v2"
)

// Probabilities of each optional parameter being set on a generated query.
const (
	paidChance     = 0.3
	platformChance = 0.3
	skillsChance   = 0.5
	goalChance     = 0.2
	maxSkills      = 3
)

var goals = []string{"python", "web", "data", "design", "finance", "career change"}

// catalogFacts are the values the generator draws from, as reported by the service.
type catalogFacts struct {
	roles     []string
	platforms []string
	skills    []string
}

// generateQueries builds n queries from facts. The same seed gives the same queries.
func generateQueries(facts catalogFacts, n int, seed uint64, useAI bool) []Query {
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	roles := facts.roles
	if len(roles) == 0 {
		roles = []string{"Software Developer"}
	}

	out := make([]Query, n)
	for i := range out {
		q := Query{JobRole: roles[rng.IntN(len(roles))], UseAI: useAI}
		if rng.Float64() < paidChance {
			paid := rng.IntN(2) == 1
			q.Paid = &paid
		}
		if len(facts.platforms) > 0 && rng.Float64() < platformChance {
			q.Platform = facts.platforms[rng.IntN(len(facts.platforms))]
		}
		if len(facts.skills) > 0 && rng.Float64() < skillsChance {
			for range 1 + rng.IntN(maxSkills) {
				q.UserSkills = append(q.UserSkills, facts.skills[rng.IntN(len(facts.skills))])
			}
		}
		if rng.Float64() < goalChance {
			q.Goal = goals[rng.IntN(len(goals))]
		}
		out[i] = q
	}
	return out
}
