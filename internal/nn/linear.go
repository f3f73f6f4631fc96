package nn

import (
	"math/rand"

	"github.com/born-ml/morpho/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input matrix with shape [rows, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias row with shape [1, out_features]
//   - y is the output matrix with shape [rows, out_features]
//
// Example:
//
//	layer := nn.NewLinear(128, 17, cpu.New(), rng)
//	logits := layer.Forward(hidden)  // [rows, 17]
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [1, out_features]
	backend     tensor.Backend
}

// NewLinear creates a new Linear layer.
//
// With a non-nil rng weights use Xavier/Glorot uniform initialization;
// otherwise they are zero. Biases always start at zero.
func NewLinear(inFeatures, outFeatures int, backend tensor.Backend, rng *rand.Rand) *Linear {
	var w *tensor.Matrix
	if rng != nil {
		w = Xavier(inFeatures, outFeatures, outFeatures, inFeatures, rng)
	} else {
		w = tensor.NewMatrix(outFeatures, inFeatures)
	}
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", w),
		bias:        NewParameter("bias", tensor.NewMatrix(1, outFeatures)),
		backend:     backend,
	}
}

// Forward computes x @ W.T + b.
func (l *Linear) Forward(x *tensor.Matrix) *tensor.Matrix {
	out := l.backend.MatMulT(x, l.weight.Value())
	tensor.AddRowVector(out, l.bias.Value().Data)
	return out
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the input dimension.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the output dimension.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// LoadStateDict loads prefix+"weight" and prefix+"bias".
func (l *Linear) LoadStateDict(stateDict StateDict, prefix string) error {
	return loadAll(l.Parameters(), stateDict, prefix)
}

// StateDict stores prefix+"weight" and prefix+"bias".
func (l *Linear) StateDict(stateDict StateDict, prefix string) {
	storeAll(l.Parameters(), stateDict, prefix)
}
