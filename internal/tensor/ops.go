package tensor

import (
	"fmt"
	"math"
)

// AddInPlace adds b to a element-wise.
func AddInPlace(a, b *Matrix) {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		panic(fmt.Sprintf("add: shape mismatch %v vs %v", a.Shape(), b.Shape()))
	}
	for i, v := range b.Data {
		a.Data[i] += v
	}
}

// AddRowVector adds v to every row of m.
func AddRowVector(m *Matrix, v []float32) {
	if len(v) != m.Cols {
		panic(fmt.Sprintf("add row vector: got %d values for %d columns", len(v), m.Cols))
	}
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] += v[j]
		}
	}
}

// HConcat concatenates matrices with the same number of rows column-wise.
// Nil parts are skipped.
func HConcat(parts ...*Matrix) *Matrix {
	rows, cols := -1, 0
	for _, p := range parts {
		if p == nil {
			continue
		}
		if rows >= 0 && p.Rows != rows {
			panic(fmt.Sprintf("hconcat: row mismatch %d vs %d", rows, p.Rows))
		}
		rows = p.Rows
		cols += p.Cols
	}
	if rows < 0 {
		return NewMatrix(0, 0)
	}
	out := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		dst := out.Row(i)
		off := 0
		for _, p := range parts {
			if p == nil {
				continue
			}
			copy(dst[off:], p.Row(i))
			off += p.Cols
		}
	}
	return out
}

// Sigmoid is the logistic function.
func Sigmoid(x float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(x))))
}

// Tanh is the hyperbolic tangent.
func Tanh(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}

// Softmax returns the normalized exponentials of logits, computed with the
// max-subtraction trick in float64.
func Softmax(logits []float32) []float64 {
	out := make([]float64, len(logits))
	if len(logits) == 0 {
		return out
	}
	maxVal := math.Inf(-1)
	for _, v := range logits {
		maxVal = math.Max(maxVal, float64(v))
	}
	var sum float64
	for i, v := range logits {
		out[i] = math.Exp(float64(v) - maxVal)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
