package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.NoError(t, Shape{2, 3}.Validate())
	assert.Error(t, Shape{2, 0}.Validate())
	assert.True(t, Shape{2, 3}.Equal(Shape{2, 3}))
	assert.False(t, Shape{2, 3}.Equal(Shape{3, 2}))

	r, c := Shape{2, 3, 4}.Matrix()
	assert.Equal(t, 6, r)
	assert.Equal(t, 4, c)
	r, c = Shape{5}.Matrix()
	assert.Equal(t, 1, r)
	assert.Equal(t, 5, c)
}

func TestFromSlice(t *testing.T) {
	m, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 5, 6}, m.Row(1))
	assert.Equal(t, float32(2), m.At(0, 1))

	_, err = FromSlice([]float32{1, 2}, 2, 3)
	assert.Error(t, err)
}

func TestMockMatMulT(t *testing.T) {
	a := MustFromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	b := MustFromSlice([]float32{1, 0, 0, 0, 1, 1}, 2, 3) // rows are output features
	out := NewMockBackend().MatMulT(a, b)
	assert.Equal(t, Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{1, 5, 4, 11}, out.Data)
}

func TestHConcat(t *testing.T) {
	a := MustFromSlice([]float32{1, 2}, 2, 1)
	b := MustFromSlice([]float32{3, 4, 5, 6}, 2, 2)
	out := HConcat(a, nil, b)
	assert.Equal(t, []float32{1, 3, 4, 2, 5, 6}, out.Data)
}

func TestAddRowVector(t *testing.T) {
	m := MustFromSlice([]float32{1, 2, 3, 4}, 2, 2)
	AddRowVector(m, []float32{10, 20})
	assert.Equal(t, []float32{11, 22, 13, 24}, m.Data)
}

func TestSoftmax(t *testing.T) {
	p := Softmax([]float32{1, 1, 1, 1})
	for _, v := range p {
		assert.InDelta(t, 0.25, v, 1e-9)
	}

	p = Softmax([]float32{1000, 0})
	assert.InDelta(t, 1.0, p[0], 1e-9)
	assert.False(t, math.IsNaN(p[1]))

	assert.Empty(t, Softmax(nil))
}

func TestActivations(t *testing.T) {
	assert.InDelta(t, 0.5, Sigmoid(0), 1e-7)
	assert.InDelta(t, 0.0, Tanh(0), 1e-7)
	assert.InDelta(t, math.Tanh(0.3), Tanh(0.3), 1e-6)
}
