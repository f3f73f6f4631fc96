package features

import (
	"sort"

	"github.com/born-ml/morpho/internal/tensor"
)

// Batch is a set of sentences padded to the longest one.
//
// Grids are flattened row-major: position t of sentence b lives at index
// b*Steps+t. Padding positions carry word id 0, no characters and zero aux
// flags, and are false in Mask.
type Batch struct {
	Size     int
	Steps    int
	Words    []int
	Chars    [][]int
	Suffixes []int
	Aux      *tensor.Matrix // [Size*Steps, NumAux], nil when disabled
	Lengths  []int
	Mask     [][]bool
}

// NewBatch pads encoded sentences into one batch.
func NewBatch(encoded []Encoded, withAux bool) *Batch {
	steps := 0
	for _, e := range encoded {
		steps = max(steps, e.Len())
	}
	size := len(encoded)
	b := &Batch{
		Size:     size,
		Steps:    steps,
		Words:    make([]int, size*steps),
		Chars:    make([][]int, size*steps),
		Suffixes: make([]int, size*steps),
		Lengths:  make([]int, size),
		Mask:     make([][]bool, size),
	}
	if withAux {
		b.Aux = tensor.NewMatrix(size*steps, NumAux)
	}
	for i, e := range encoded {
		n := e.Len()
		b.Lengths[i] = n
		b.Mask[i] = make([]bool, steps)
		for t := 0; t < n; t++ {
			idx := i*steps + t
			b.Mask[i][t] = true
			b.Words[idx] = e.Words[t]
			b.Chars[idx] = e.Chars[t]
			b.Suffixes[idx] = e.Suffixes[t]
			if withAux && e.Aux != nil {
				copy(b.Aux.Row(idx), e.Aux[t])
			}
		}
	}
	return b
}

// Buckets groups sentence indexes into batches of at most batchSize
// sentences of similar length. Indexes are ordered by length, ties by index,
// so the grouping is deterministic.
func Buckets(lengths []int, batchSize int) [][]int {
	if len(lengths) == 0 {
		return nil
	}
	batchSize = max(batchSize, 1)
	order := make([]int, len(lengths))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return lengths[order[a]] < lengths[order[b]]
	})

	var out [][]int
	for start := 0; start < len(order); start += batchSize {
		end := min(start+batchSize, len(order))
		out = append(out, order[start:end:end])
	}
	return out
}
