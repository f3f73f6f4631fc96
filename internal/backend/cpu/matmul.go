package cpu

import (
	"fmt"

	"github.com/born-ml/morpho/internal/parallel"
	"github.com/born-ml/morpho/internal/tensor"
)

// MatMulT computes a @ bᵀ: (M, K) x (N, K)ᵀ -> (M, N).
// Both operands are walked row-wise, so the inner loop is a contiguous dot
// product. Each output row depends only on the matching row of a.
func (cpu *CPUBackend) MatMulT(a, b *tensor.Matrix) *tensor.Matrix {
	if a.Cols != b.Cols {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]ᵀ", a.Rows, a.Cols, b.Rows, b.Cols))
	}
	out := tensor.NewMatrix(a.Rows, b.Rows)
	parallel.For(a.Rows, func(i int) {
		matmulRowFloat32(out.Row(i), a.Row(i), b)
	}, cpu.par)
	return out
}

// matmulRowFloat32 computes one output row: dst[j] = sum_k x[k] * B[j,k].
func matmulRowFloat32(dst, x []float32, b *tensor.Matrix) {
	k := len(x)
	for j := range dst {
		w := b.Data[j*k : (j+1)*k]
		var sum float32
		for kIdx, v := range x {
			sum += v * w[kIdx]
		}
		dst[j] = sum
	}
}
