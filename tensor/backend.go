// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/morpho/internal/tensor"

// Backend defines the interface compute backends implement.
//
// Implementations:
//   - backend/cpu: pure Go, rows split across goroutines
//   - backend/gonum: gonum's BLAS-backed matrices
//
// Every output row must depend only on the matching input row.
type Backend = tensor.Backend

// Matrix is a dense row-major float32 matrix.
type Matrix = tensor.Matrix

// Shape is a tensor shape as stored in model artifacts.
type Shape = tensor.Shape

// NewMatrix returns a zero matrix.
func NewMatrix(rows, cols int) *Matrix {
	return tensor.NewMatrix(rows, cols)
}

// FromRows builds a matrix from equally sized rows.
func FromRows(rows [][]float32) *Matrix {
	return tensor.FromRows(rows)
}
