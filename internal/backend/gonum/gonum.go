// Package gonum implements tensor.Backend on top of gonum's mat package,
// which dispatches to its BLAS implementation.
package gonum

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/morpho/internal/tensor"
)

// Verify that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Backend computes projections with float64 gonum matrices.
// Weights are converted once per call; activations are converted back to
// float32 on return.
type Backend struct{}

// New creates a gonum backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (g *Backend) Name() string {
	return "gonum"
}

// MatMulT computes a @ bᵀ.
func (g *Backend) MatMulT(a, b *tensor.Matrix) *tensor.Matrix {
	if a.Cols != b.Cols {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]ᵀ", a.Rows, a.Cols, b.Rows, b.Cols))
	}
	out := tensor.NewMatrix(a.Rows, b.Rows)
	// mat.NewDense rejects zero-sized dimensions.
	if a.Rows == 0 || b.Rows == 0 || a.Cols == 0 {
		return out
	}

	am := mat.NewDense(a.Rows, a.Cols, widen(a.Data))
	bm := mat.NewDense(b.Rows, b.Cols, widen(b.Data))

	var c mat.Dense
	c.Mul(am, bm.T())

	raw := c.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		dst := out.Row(i)
		for j, v := range row {
			dst[j] = float32(v)
		}
	}
	return out
}

func widen(data []float32) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}
