package match

import "unicode/utf8"

// Levenshtein returns the number of single rune insertions, deletions and
// substitutions turning a into b.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	// row[i] is the distance between ra[:i] and the prefix of rb seen so far
	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}

	for j, cb := range rb {
		diagonal := row[0]
		row[0] = j + 1

		for i, ca := range ra {
			substitution := diagonal
			if ca != cb {
				substitution++
			}

			diagonal = row[i+1]
			row[i+1] = min(row[i+1]+1, row[i]+1, substitution)
		}
	}

	return row[len(ra)]
}

// LevenshteinNormalized maps the distance of a and b to a similarity in
// [0, 1], where 1 means equal.
func LevenshteinNormalized(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// NormalizedLevenshteinScore compares two names after NormalizeIdent.
func NormalizedLevenshteinScore(a, b string) float64 {
	return LevenshteinNormalized(NormalizeIdent(a), NormalizeIdent(b))
}
