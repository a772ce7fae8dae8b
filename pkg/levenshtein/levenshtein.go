// Package levenshtein computes edit distances between short identifiers and
// picks the closest match for "did you mean" hints.
package levenshtein

// maxSuggestDistance is the largest edit distance still offered as a hint.
const maxSuggestDistance = 2

// Distance returns the minimum number of single-rune insertions, deletions
// or substitutions that turn a into b. It keeps one row of the edit matrix.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i

		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			up := row[j]
			row[j] = min(row[j]+1, row[j-1]+1, diag+cost)
			diag = up
		}
	}

	return row[len(rb)]
}

// Closest returns the candidate nearest to input, or "" when none is within
// two edits. Ties go to the earlier candidate.
func Closest(input string, candidates ...string) string {
	best, bestDist := "", maxSuggestDistance+1

	for _, cand := range candidates {
		dist := Distance(input, cand)
		if dist < bestDist {
			best, bestDist = cand, dist
		}
	}

	return best
}

// Hint formats the closest candidate as ` (did you mean "x"?)`, or returns
// "" when nothing is close enough.
func Hint(input string, candidates ...string) string {
	best := Closest(input, candidates...)
	if best == "" || best == input {
		return ""
	}

	return ` (did you mean "` + best + `"?)`
}
