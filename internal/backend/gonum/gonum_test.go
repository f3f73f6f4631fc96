package gonum

import (
	"math/rand"
	"testing"

	"github.com/born-ml/morpho/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatMulT_MatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	a := tensor.NewMatrix(13, 9)
	b := tensor.NewMatrix(5, 9)
	for i := range a.Data {
		a.Data[i] = float32(rng.NormFloat64())
	}
	for i := range b.Data {
		b.Data[i] = float32(rng.NormFloat64())
	}

	want := tensor.NewMockBackend().MatMulT(a, b)
	got := New().MatMulT(a, b)
	require.Equal(t, want.Shape(), got.Shape())
	for i := range want.Data {
		assert.InDelta(t, want.Data[i], got.Data[i], 1e-5)
	}
}

func TestMatMulT_ZeroSized(t *testing.T) {
	out := New().MatMulT(tensor.NewMatrix(0, 4), tensor.NewMatrix(3, 4))
	assert.Equal(t, tensor.Shape{0, 3}, out.Shape())

	out = New().MatMulT(tensor.NewMatrix(2, 0), tensor.NewMatrix(3, 0))
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0}, out.Data)
}

func TestName(t *testing.T) {
	assert.Equal(t, "gonum", New().Name())
}
