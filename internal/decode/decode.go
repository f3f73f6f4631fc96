// Package decode turns per-position tag scores into a tag sequence.
//
// Two decoders are provided: Greedy, which takes the best tag at every
// position independently, and Viterbi, which finds the highest scoring
// sequence under a tag transition matrix. Both are deterministic: ties go to
// the lowest tag index.
package decode

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInconsistentDecode reports scores that admit no best path, such as a
// row of NaNs or a broken backpointer chain. It is an internal error; callers
// must not substitute a default tag.
var ErrInconsistentDecode = errors.New("inconsistent decode")

// Decoder picks one tag index per position from emission scores [n][K].
type Decoder interface {
	Decode(emissions [][]float32) ([]int, error)
}

// Policy names a decoding strategy.
type Policy string

// Supported policies.
const (
	PolicyGreedy  Policy = "greedy"
	PolicyViterbi Policy = "viterbi"
)

// ParsePolicy parses a policy name, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyGreedy, PolicyViterbi:
		return p, nil
	}
	return "", fmt.Errorf("unknown decoder %q (want greedy or viterbi)", s)
}

// Greedy decodes each position independently.
type Greedy struct{}

// Decode returns the per-position argmax.
func (Greedy) Decode(emissions [][]float32) ([]int, error) {
	out := make([]int, len(emissions))
	for i, row := range emissions {
		best := argmax(row)
		if best < 0 {
			return nil, fmt.Errorf("%w: no finite score at position %d", ErrInconsistentDecode, i)
		}
		out[i] = best
	}
	return out, nil
}

// argmax returns the index of the largest non-NaN value, the lowest index on
// ties, or -1 when there is none.
func argmax(row []float32) int {
	best := -1
	for j, v := range row {
		if isNaN(v) {
			continue
		}
		if best < 0 || v > row[best] {
			best = j
		}
	}
	return best
}

func isNaN(v float32) bool {
	return math.IsNaN(float64(v))
}
