package cpu

import (
	"math/rand"
	"testing"

	"github.com/born-ml/morpho/internal/parallel"
	"github.com/born-ml/morpho/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomMatrix(rng *rand.Rand, rows, cols int) *tensor.Matrix {
	m := tensor.NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = float32(rng.NormFloat64())
	}
	return m
}

func TestCPUBackend_New(t *testing.T) {
	backend := New()
	require.NotNil(t, backend)
	assert.Equal(t, "CPU", backend.Name())
}

func TestMatMulT_Small(t *testing.T) {
	a := tensor.MustFromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	b := tensor.MustFromSlice([]float32{1, 0, 0, 0, 1, 1, 1, 1, 1}, 3, 3)
	out := New().MatMulT(a, b)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float32{1, 5, 6, 4, 11, 15}, out.Data)
}

func TestMatMulT_MatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := randomMatrix(rng, 97, 33)
	b := randomMatrix(rng, 21, 33)

	want := tensor.NewMockBackend().MatMulT(a, b)
	got := NewWithConfig(parallel.Config{Workers: 4, MinChunkSize: 4}).MatMulT(a, b)
	require.Equal(t, want.Shape(), got.Shape())
	for i := range want.Data {
		assert.InDelta(t, want.Data[i], got.Data[i], 1e-4)
	}
}

func TestMatMulT_RowIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := randomMatrix(rng, 40, 16)
	b := randomMatrix(rng, 8, 16)
	backend := NewWithConfig(parallel.Config{Workers: 4, MinChunkSize: 2})

	full := backend.MatMulT(a, b)
	single := backend.MatMulT(tensor.MustFromSlice(a.Row(17), 1, 16), b)
	assert.Equal(t, full.Row(17), single.Row(0), "row results must be bit-identical")
}

func TestMatMulT_ShapeMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		New().MatMulT(tensor.NewMatrix(2, 3), tensor.NewMatrix(2, 4))
	})
}

func TestMatMulT_EmptyRows(t *testing.T) {
	out := New().MatMulT(tensor.NewMatrix(0, 4), tensor.NewMatrix(3, 4))
	assert.Equal(t, 0, out.Rows)
	assert.Equal(t, 3, out.Cols)
}
