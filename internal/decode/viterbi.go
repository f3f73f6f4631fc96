package decode

import (
	"fmt"
	"math"
)

// Transitions holds the tag transition scores of a linear-chain model.
//
// Trans[a][b] scores tag b following tag a. Start and End score the first and
// last tag of a sequence and may be nil, in which case they count as zero.
type Transitions struct {
	Trans [][]float32
	Start []float32
	End   []float32
}

// Validate checks that all parts are sized for k tags.
func (tr *Transitions) Validate(k int) error {
	if len(tr.Trans) != k {
		return fmt.Errorf("transitions: %d rows for %d tags", len(tr.Trans), k)
	}
	for i, row := range tr.Trans {
		if len(row) != k {
			return fmt.Errorf("transitions: row %d has %d columns for %d tags", i, len(row), k)
		}
	}
	if tr.Start != nil && len(tr.Start) != k {
		return fmt.Errorf("transitions: start has %d values for %d tags", len(tr.Start), k)
	}
	if tr.End != nil && len(tr.End) != k {
		return fmt.Errorf("transitions: end has %d values for %d tags", len(tr.End), k)
	}
	return nil
}

// Viterbi finds the best scoring tag sequence:
//
//	best[i][t] = e[i][t] + max over t' of (best[i-1][t'] + Trans[t'][t])
//
// It runs in O(n·K²) time.
type Viterbi struct {
	T *Transitions
}

// NewViterbi creates a Viterbi decoder over tr.
func NewViterbi(tr *Transitions) *Viterbi {
	return &Viterbi{T: tr}
}

// Decode returns the highest scoring path. Among equal paths the one with the
// lowest final tag wins, then the lowest previous tag at every step.
func (v *Viterbi) Decode(emissions [][]float32) ([]int, error) {
	n := len(emissions)
	if n == 0 {
		return []int{}, nil
	}
	k := len(v.T.Trans)
	for i, row := range emissions {
		if len(row) != k {
			return nil, fmt.Errorf("viterbi: position %d has %d scores for %d tags", i, len(row), k)
		}
	}

	score := make([]float64, k)
	for t := 0; t < k; t++ {
		score[t] = float64(emissions[0][t]) + at(v.T.Start, t)
	}

	back := make([][]int, n)
	next := make([]float64, k)
	for i := 1; i < n; i++ {
		back[i] = make([]int, k)
		for t := 0; t < k; t++ {
			bestPrev := -1
			best := math.Inf(-1)
			for p := 0; p < k; p++ {
				s := score[p] + float64(v.T.Trans[p][t])
				if s > best || (bestPrev < 0 && !math.IsNaN(s)) {
					best = s
					bestPrev = p
				}
			}
			back[i][t] = bestPrev
			next[t] = best + float64(emissions[i][t])
		}
		score, next = next, score
	}

	last := -1
	best := math.Inf(-1)
	for t := 0; t < k; t++ {
		s := score[t] + at(v.T.End, t)
		if s > best || (last < 0 && !math.IsNaN(s)) {
			best = s
			last = t
		}
	}
	if last < 0 {
		return nil, fmt.Errorf("%w: no finite path score", ErrInconsistentDecode)
	}

	path := make([]int, n)
	path[n-1] = last
	for i := n - 1; i > 0; i-- {
		prev := back[i][path[i]]
		if prev < 0 {
			return nil, fmt.Errorf("%w: broken backpointer at position %d", ErrInconsistentDecode, i)
		}
		path[i-1] = prev
	}
	return path, nil
}

func at(v []float32, i int) float64 {
	if v == nil {
		return 0
	}
	return float64(v[i])
}
