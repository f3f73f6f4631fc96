// Package cpu implements the pure-Go CPU backend.
package cpu

import (
	"github.com/born-ml/morpho/internal/parallel"
	"github.com/born-ml/morpho/internal/tensor"
)

// Verify that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements tensor operations on CPU, splitting output rows
// across goroutines.
type CPUBackend struct {
	par parallel.Config
}

// New creates a new CPU backend using all CPUs.
func New() *CPUBackend {
	return &CPUBackend{par: parallel.DefaultConfig()}
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{par: cfg}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}
