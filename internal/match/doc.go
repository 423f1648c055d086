// Package match provides name normalization, Levenshtein distance calculation
// and candidate ranking for "did you mean" property suggestions.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - RankCandidates: ranks known property names against an unknown one
//   - PossibleMatches: returns the closest names within a distance bound
package match
