// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gonum provides a tagger backend on top of gonum's BLAS-backed
// matrices.
package gonum

import (
	internalgonum "github.com/born-ml/morpho/internal/backend/gonum"
	"github.com/born-ml/morpho/tensor"
)

// Backend represents the gonum backend implementation.
type Backend = internalgonum.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a gonum backend.
func New() *Backend {
	return internalgonum.New()
}
