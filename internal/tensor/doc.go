// Package tensor provides the dense float32 matrices and the Backend
// abstraction used by the tagger's numeric layers.
package tensor
