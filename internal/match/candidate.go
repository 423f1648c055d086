package match

import (
	"sort"
)

const (
	// MaxDistance is the largest edit distance still considered a match.
	MaxDistance = 2
	// MaxMatches bounds the number of suggestions returned.
	MaxMatches = 3
)

// Candidate is a known property name scored against an unknown one.
type Candidate struct {
	Name string

	// Distance is the edit distance between the normalized names.
	Distance int
	// Score is the normalized Levenshtein similarity (0-1).
	Score float64

	NormalizedName  string
	NormalizedQuery string
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every known name against query.
// Returns candidates sorted by distance (ascending), then by name.
func RankCandidates(query string, names []string) CandidateList {
	queryNorm := NormalizeIdent(query)

	candidates := make(CandidateList, 0, len(names))
	for _, name := range names {
		nameNorm := NormalizeIdent(name)

		candidates = append(candidates, Candidate{
			Name:            name,
			Distance:        Levenshtein(nameNorm, queryNorm),
			Score:           LevenshteinNormalized(nameNorm, queryNorm),
			NormalizedName:  nameNorm,
			NormalizedQuery: queryNorm,
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Within returns the candidates whose distance does not exceed maxDistance.
func (c CandidateList) Within(maxDistance int) CandidateList {
	var result CandidateList
	for _, candidate := range c {
		if candidate.Distance <= maxDistance {
			result = append(result, candidate)
		}
	}

	return result
}

// Names returns the candidate names in ranking order.
func (c CandidateList) Names() []string {
	names := make([]string, 0, len(c))
	for _, candidate := range c {
		names = append(names, candidate.Name)
	}

	return names
}

// PossibleMatches returns up to MaxMatches known names within MaxDistance
// of query, closest first. An exact match is not a suggestion.
func PossibleMatches(query string, names []string) []string {
	var result []string
	for _, candidate := range RankCandidates(query, names).Within(MaxDistance) {
		if candidate.Name == query {
			continue
		}

		result = append(result, candidate.Name)
		if len(result) == MaxMatches {
			break
		}
	}

	return result
}

// Len implements sort.Interface.
func (c CandidateList) Len() int {
	return len(c)
}

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Distance != c[j].Distance {
		return c[i].Distance < c[j].Distance
	}

	return c[i].Name < c[j].Name
}

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) {
	c[i], c[j] = c[j], c[i]
}
