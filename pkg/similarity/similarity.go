// Package similarity implements a matching-blocks string similarity ratio.
//
// The ratio is 2*M/T, where M is the total length of the non-overlapping
// matching blocks shared by the two strings and T is the sum of their
// lengths. This is a matching-blocks metric, not edit distance: ordered
// common runs count, transposed material does not.
package similarity

import "strings"

// Ratio returns the matching-blocks similarity of a and b in [0, 1].
// Comparison is exact; callers wanting case-insensitive behavior should
// use Score. Two empty strings are identical by definition.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	matched := matchedLength(ra, rb)
	return 2.0 * float64(matched) / float64(total)
}

// Score is Ratio over the lower-cased inputs.
func Score(a, b string) float64 {
	return Ratio(strings.ToLower(a), strings.ToLower(b))
}

// matchedLength sums the sizes of all matching blocks. Blocks are found
// by locating the longest matching run, then recursing into the pieces
// to its left and right.
func matchedLength(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}

	matched := 0
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, size := longestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if size == 0 {
			continue
		}
		matched += size

		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+size < s.ahi && j+size < s.bhi {
			queue = append(queue, span{i + size, s.ahi, j + size, s.bhi})
		}
	}

	return matched
}

// longestMatch finds the longest run of a[alo:ahi] that also appears in
// b[blo:bhi], preferring the leftmost match in a, then in b. j2len maps a
// position j in b to the length of the match ending at a[i-1], b[j].
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo

	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	return besti, bestj, bestsize
}
