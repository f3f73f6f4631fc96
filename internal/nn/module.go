// Package nn implements the inference-time neural network layers of the tagger.
//
// This package provides the building blocks of the sequence model:
//   - Embedding: id → dense vector lookup
//   - Linear: fully connected projection
//   - CharCNN: character convolution with max-pooling into a word vector
//   - LSTM / BiLSTM: masked recurrent context encoders
//
// Layers hold Parameters and run their heavy products through a
// tensor.Backend. All layers are read-only after LoadStateDict and may be used
// concurrently.
package nn

// Module is implemented by every layer with persisted parameters.
type Module interface {
	// Parameters returns all parameters of this module.
	Parameters() []*Parameter

	// LoadStateDict fills the parameters from stateDict, looking each one up
	// under prefix + parameter name.
	LoadStateDict(stateDict StateDict, prefix string) error

	// StateDict adds the parameters to stateDict under prefix.
	StateDict(stateDict StateDict, prefix string)
}

// LoadParameters loads standalone parameters that belong to no layer.
func LoadParameters(stateDict StateDict, prefix string, params ...*Parameter) error {
	return loadAll(params, stateDict, prefix)
}

// StoreParameters stores standalone parameters under prefix.
func StoreParameters(stateDict StateDict, prefix string, params ...*Parameter) {
	storeAll(params, stateDict, prefix)
}

// loadAll loads every parameter of m.
func loadAll(params []*Parameter, stateDict StateDict, prefix string) error {
	for _, p := range params {
		if err := p.load(stateDict, prefix); err != nil {
			return err
		}
	}
	return nil
}

// storeAll stores every parameter of m.
func storeAll(params []*Parameter, stateDict StateDict, prefix string) {
	for _, p := range params {
		p.store(stateDict, prefix)
	}
}
