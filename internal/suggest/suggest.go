// Package suggest finds the likely intended spelling of a mistyped name.
package suggest

import "unicode/utf8"

// Distance returns the edit distance between a and b, counted in runes.
func Distance(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return len(rb)
	}

	// two rows of the edit matrix, sized by the shorter string
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j

		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// Tolerance is the largest distance at which name is still considered a
// misspelling of a target of the given length.
func Tolerance(target string) int {
	return min(max(utf8.RuneCountInString(target)/4, 1), 3)
}

// Closest returns the candidate nearest to name, if one lies within the
// candidate's Tolerance. Exact matches are not suggestions. Ties go to the
// earlier candidate.
func Closest(name string, candidates []string) (string, bool) {
	best, bestDist := "", -1

	for _, c := range candidates {
		if c == name {
			continue
		}

		d := Distance(name, c)
		if d > Tolerance(c) {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}

	return best, bestDist >= 0
}
