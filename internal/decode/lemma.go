package decode

// BestLemma returns the index of the best applicable lemma op given the
// lemma base scores of a position and the conditioning row of its tag:
// score(o) = base[o] + tagRow[o]. tagRow may be nil. Ties go to the lowest
// index. It returns -1 when no op is applicable.
func BestLemma(base, tagRow []float32, applicable []bool) int {
	best := -1
	var bestScore float32
	for o, ok := range applicable {
		if !ok {
			continue
		}
		s := base[o]
		if tagRow != nil {
			s += tagRow[o]
		}
		if isNaN(s) {
			continue
		}
		if best < 0 || s > bestScore {
			best = o
			bestScore = s
		}
	}
	return best
}
