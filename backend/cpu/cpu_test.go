package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/morpho/backend/cpu"
	"github.com/born-ml/morpho/tensor"
)

func TestMatMulT(t *testing.T) {
	a := tensor.FromRows([][]float32{{1, 2, 3}, {-1, 0.5, 2}})
	w := tensor.FromRows([][]float32{{0.1, 0.2, 0.3}, {1, -1, 0}})
	want := []float32{1.4, -1, 0.6, -1.5}

	for _, b := range []*cpu.Backend{cpu.New(), cpu.NewWithWorkers(1), cpu.NewWithWorkers(4)} {
		got := b.MatMulT(a, w)
		assert.Equal(t, tensor.Shape{2, 2}, got.Shape(), b.Name())
		assert.InDeltaSlice(t, want, got.Data, 1e-6, b.Name())
	}
}
