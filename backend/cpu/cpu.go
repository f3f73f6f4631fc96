// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/morpho/internal/backend/cpu"
	"github.com/born-ml/morpho/internal/parallel"
	"github.com/born-ml/morpho/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend using one goroutine per CPU.
func New() *Backend {
	return internalcpu.New()
}

// NewWithWorkers creates a CPU backend that splits rows across at most
// workers goroutines. workers <= 1 runs sequentially.
func NewWithWorkers(workers int) *Backend {
	return internalcpu.NewWithConfig(parallel.Config{Workers: workers, MinChunkSize: 16})
}
