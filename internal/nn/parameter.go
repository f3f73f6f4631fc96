package nn

import (
	"fmt"

	"github.com/born-ml/morpho/internal/tensor"
)

// Parameter is a named weight matrix of a layer.
//
// Inference never updates parameters; they are filled once from a state
// dictionary and shared read-only by every analysis call.
//
// Example:
//
//	weight := nn.NewParameter("weight", tensor.NewMatrix(out, in))
//	w := weight.Value()
type Parameter struct {
	name  string         // Parameter name (e.g., "weight", "bias")
	value *tensor.Matrix // The parameter values
}

// NewParameter creates a new parameter.
func NewParameter(name string, value *tensor.Matrix) *Parameter {
	return &Parameter{name: name, value: value}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the parameter matrix.
func (p *Parameter) Value() *tensor.Matrix {
	return p.value
}

// StateDict maps fully qualified parameter names to their values.
type StateDict map[string]*tensor.Matrix

// load copies stateDict[prefix+p.name] into p after checking its shape.
func (p *Parameter) load(stateDict StateDict, prefix string) error {
	key := prefix + p.name
	src, ok := stateDict[key]
	if !ok {
		return fmt.Errorf("missing %s in state dict", key)
	}
	if src.Rows != p.value.Rows || src.Cols != p.value.Cols {
		return fmt.Errorf("%s shape mismatch: expected %v, got %v", key, p.value.Shape(), src.Shape())
	}
	copy(p.value.Data, src.Data)
	return nil
}

// store puts p into stateDict under prefix+name.
func (p *Parameter) store(stateDict StateDict, prefix string) {
	stateDict[prefix+p.name] = p.value
}
