package utils

// Second returns its second argument, dropping the first of a pair of
// results.
func Second[T any](_ any, t T) T { return t }

// Unpack2 returns the first two elements of s, zero when missing.
func Unpack2[Slice ~[]T, T any](s Slice) (first T, second T) {
	switch len(s) {
	case 0:
	case 1:
		first = s[0]
	default:
		first, second = s[0], s[1]
	}

	return first, second
}
