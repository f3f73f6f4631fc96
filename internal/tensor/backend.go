package tensor

// Backend is the numeric computation provider the model calls into.
//
// The tagger only needs one heavy primitive, the projection of a batch of
// row vectors through a weight matrix stored PyTorch-style as
// [out_features, in_features]. Everything else (gates, activations,
// pooling) is cheap element-wise work done in this package.
//
// Implementations:
//   - cpu: pure Go, rows split across goroutines
//   - gonum: delegates to gonum's BLAS-backed mat.Dense
//   - mock: naive reference used in tests
//
// Implementations must compute every output row from the matching input row
// only, so that a sentence's scores do not depend on the other sentences in
// its batch.
type Backend interface {
	// Name returns the backend name.
	Name() string

	// MatMulT computes a @ bᵀ for a [m, k] and b [n, k], returning [m, n].
	MatMulT(a, b *Matrix) *Matrix
}
