package directory

import (
	"sort"
	"strings"

	"assetbot/core/inventory"
)

// MatchCandidate is one scored user from a name resolution.
type MatchCandidate struct {
	User  inventory.User `json:"user"`
	Score float64        `json:"score"`
}

// Resolution is the outcome of resolving a free-text name query. Best is
// the highest-scoring candidate; Alternates carry up to three more strong
// candidates so a caller can disambiguate.
type Resolution struct {
	Best       MatchCandidate   `json:"best"`
	Alternates []MatchCandidate `json:"alternates,omitempty"`
}

const alternateScoreFloor = 70

// rank scores candidates against the query with a layered rule set. Rules
// are tried top to bottom and the first that applies wins for a candidate;
// candidates failing all rules are dropped. The sort is stable so ties
// keep the API's original order.
func rank(query string, users []inventory.User) []MatchCandidate {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return nil
	}

	var exact, rest []MatchCandidate
	for _, u := range users {
		name := strings.ToLower(u.Name)
		if name == "" {
			continue
		}

		if term == name {
			exact = append(exact, MatchCandidate{User: u, Score: 100})
			continue
		}

		if strings.Contains(name, term) {
			score := 90 - 2*abs(len(name)-len(term))
			rest = append(rest, MatchCandidate{User: u, Score: float64(score)})
			continue
		}

		if score, ok := tokenOverlap(term, name); ok {
			rest = append(rest, MatchCandidate{User: u, Score: score})
			continue
		}

		if score, ok := charOverlap(term, name); ok {
			rest = append(rest, MatchCandidate{User: u, Score: score})
		}
	}

	ranked := append(exact, rest...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// tokenOverlap scores by the fraction of query words appearing as a
// substring of some name word.
func tokenOverlap(term, name string) (float64, bool) {
	queryWords := strings.Fields(term)
	nameWords := strings.Fields(name)
	matching := 0
	for _, qw := range queryWords {
		for _, nw := range nameWords {
			if strings.Contains(nw, qw) {
				matching++
				break
			}
		}
	}
	if matching == 0 {
		return 0, false
	}
	return float64(matching) / float64(len(queryWords)) * 80, true
}

// charOverlap is the last-resort rule for typo'd queries: count query
// characters present in the name, each name character consumed at most
// once, and require at least 60% of them.
func charOverlap(term, name string) (float64, bool) {
	pool := make(map[rune]int, len(name))
	for _, r := range name {
		pool[r]++
	}
	common := 0
	for _, r := range term {
		if pool[r] > 0 {
			pool[r]--
			common++
		}
	}
	if float64(common) < float64(len(term))*0.6 {
		return 0, false
	}
	longer := len(term)
	if len(name) > longer {
		longer = len(name)
	}
	return float64(common) / float64(longer) * 60, true
}

// resolve filters ranked candidates into a Resolution.
func resolve(ranked []MatchCandidate) (*Resolution, bool) {
	if len(ranked) == 0 {
		return nil, false
	}
	res := &Resolution{Best: ranked[0]}
	for _, c := range ranked[1:] {
		if len(res.Alternates) == 3 {
			break
		}
		if c.Score >= alternateScoreFloor {
			res.Alternates = append(res.Alternates, c)
		}
	}
	return res, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
