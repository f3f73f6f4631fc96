package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/morpho/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// Toy models built for tests and demos use it; real artifacts overwrite
// every value through LoadStateDict.
func Xavier(fanIn, fanOut, rows, cols int, rng *rand.Rand) *tensor.Matrix {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	m := tensor.NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = float32((rng.Float64()*2.0 - 1.0) * bound)
	}
	return m
}

// Normal fills a rows x cols matrix from N(0, std²).
func Normal(rows, cols int, std float64, rng *rand.Rand) *tensor.Matrix {
	m := tensor.NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = float32(rng.NormFloat64() * std)
	}
	return m
}
