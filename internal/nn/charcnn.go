package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/born-ml/morpho/internal/tensor"
)

// CharCNN turns the characters of each word into a fixed-size vector.
//
// Each word's character embeddings are convolved with Filters kernels of
// Width characters, max-pooled over the windows that start at a real
// character and passed through tanh. Positions past the end of a word read
// as zero vectors, so words shorter than Width still get one window.
//
// Parameters:
//   - weight: [Filters, Width*CharDim]
//   - bias:   [1, Filters]
//
// The character embedding table is owned by the caller and shared by
// reference.
type CharCNN struct {
	Embed   *Embedding
	Width   int
	Filters int

	weight  *Parameter
	bias    *Parameter
	backend tensor.Backend
}

// NewCharCNN creates a character convolution over embed. A nil rng leaves the
// kernels zero.
func NewCharCNN(embed *Embedding, width, filters int, backend tensor.Backend, rng *rand.Rand) *CharCNN {
	if width < 1 {
		panic(fmt.Sprintf("charcnn: width must be positive, got %d", width))
	}
	in := width * embed.EmbedDim
	var w *tensor.Matrix
	if rng != nil {
		w = Xavier(in, filters, filters, in, rng)
	} else {
		w = tensor.NewMatrix(filters, in)
	}
	return &CharCNN{
		Embed:   embed,
		Width:   width,
		Filters: filters,
		weight:  NewParameter("weight", w),
		bias:    NewParameter("bias", tensor.NewMatrix(1, filters)),
		backend: backend,
	}
}

// Forward encodes words [n][...]int of character ids into [n, Filters].
//
// Id 0 is padding: a word's characters end at its first 0. Words without
// characters encode to a zero row.
func (c *CharCNN) Forward(words [][]int) *tensor.Matrix {
	dim := c.Embed.EmbedDim
	out := tensor.NewMatrix(len(words), c.Filters)

	// im2col: one row per window, recording which word it belongs to.
	owner := make([]int, 0, len(words))
	var cols []float32
	for i, chars := range words {
		n := realLength(chars)
		if n == 0 {
			continue
		}
		emb := c.Embed.Forward(chars[:n])
		windows := max(n-c.Width+1, 1)
		for p := 0; p < windows; p++ {
			row := make([]float32, c.Width*dim)
			for k := 0; k < c.Width && p+k < n; k++ {
				copy(row[k*dim:], emb.Row(p+k))
			}
			cols = append(cols, row...)
			owner = append(owner, i)
		}
	}
	if len(owner) == 0 {
		return out
	}

	conv := c.backend.MatMulT(tensor.MustFromSlice(cols, len(owner), c.Width*dim), c.weight.Value())
	tensor.AddRowVector(conv, c.bias.Value().Data)

	pooled := make(map[int][]float32, len(words))
	for r, i := range owner {
		acc, ok := pooled[i]
		if !ok {
			acc = make([]float32, c.Filters)
			for f := range acc {
				acc[f] = float32(math.Inf(-1))
			}
			pooled[i] = acc
		}
		for f, v := range conv.Row(r) {
			if v > acc[f] {
				acc[f] = v
			}
		}
	}
	for i, acc := range pooled {
		row := out.Row(i)
		for f, v := range acc {
			row[f] = tensor.Tanh(v)
		}
	}
	return out
}

func realLength(chars []int) int {
	for i, id := range chars {
		if id == 0 {
			return i
		}
	}
	return len(chars)
}

// Parameters returns [weight, bias]. The shared embedding is not included.
func (c *CharCNN) Parameters() []*Parameter {
	return []*Parameter{c.weight, c.bias}
}

// LoadStateDict loads the convolution kernels under prefix.
func (c *CharCNN) LoadStateDict(stateDict StateDict, prefix string) error {
	return loadAll(c.Parameters(), stateDict, prefix)
}

// StateDict stores the convolution kernels under prefix.
func (c *CharCNN) StateDict(stateDict StateDict, prefix string) {
	storeAll(c.Parameters(), stateDict, prefix)
}
