package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/morpho/internal/tensor"
)

// Embedding is a lookup table that maps discrete indices to dense vectors.
//
// Architecture:
//   - Weight: [NumEmbed, EmbedDim] parameter
//   - Forward: ids [n] -> embeddings [n, EmbedDim]
//
// Example:
//
//	// Vocabulary of 10000 words, embedding dimension 64
//	embed := nn.NewEmbedding(10000, 64, rng)
//	vectors := embed.Forward([]int{5, 17, 1})  // [3, 64]
type Embedding struct {
	Weight   *Parameter // Embedding weight matrix [NumEmbed, EmbedDim]
	NumEmbed int        // Number of embeddings (vocabulary size)
	EmbedDim int        // Embedding dimension (vector size)
}

// NewEmbedding creates a new Embedding layer.
//
// With a non-nil rng the weights are drawn from N(0, 0.1²); otherwise they are
// zero and expected to be filled by LoadStateDict.
func NewEmbedding(numEmbeddings, embeddingDim int, rng *rand.Rand) *Embedding {
	var w *tensor.Matrix
	if rng != nil {
		w = Normal(numEmbeddings, embeddingDim, 0.1, rng)
	} else {
		w = tensor.NewMatrix(numEmbeddings, embeddingDim)
	}
	return &Embedding{
		Weight:   NewParameter("weight", w),
		NumEmbed: numEmbeddings,
		EmbedDim: embeddingDim,
	}
}

// Forward gathers one weight row per id.
//
// Panics if an id is out of range; callers map unknown items to a valid id
// before reaching the model.
func (e *Embedding) Forward(ids []int) *tensor.Matrix {
	w := e.Weight.Value()
	out := tensor.NewMatrix(len(ids), e.EmbedDim)
	for i, id := range ids {
		if id < 0 || id >= e.NumEmbed {
			panic(fmt.Sprintf("embedding: id %d out of range [0, %d)", id, e.NumEmbed))
		}
		copy(out.Row(i), w.Row(id))
	}
	return out
}

// Parameters returns the embedding weight.
func (e *Embedding) Parameters() []*Parameter {
	return []*Parameter{e.Weight}
}

// LoadStateDict loads prefix+"weight".
func (e *Embedding) LoadStateDict(stateDict StateDict, prefix string) error {
	return loadAll(e.Parameters(), stateDict, prefix)
}

// StateDict stores prefix+"weight".
func (e *Embedding) StateDict(stateDict StateDict, prefix string) {
	storeAll(e.Parameters(), stateDict, prefix)
}
