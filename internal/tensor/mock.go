package tensor

import "fmt"

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It implements all operations naively for correctness verification.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// MatMulT computes a @ bᵀ with float64 accumulation.
func (m *MockBackend) MatMulT(a, b *Matrix) *Matrix {
	if a.Cols != b.Cols {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]ᵀ", a.Rows, a.Cols, b.Rows, b.Cols))
	}
	out := NewMatrix(a.Rows, b.Rows)
	for i := 0; i < a.Rows; i++ {
		ar := a.Row(i)
		for j := 0; j < b.Rows; j++ {
			br := b.Row(j)
			var sum float64
			for k := range ar {
				sum += float64(ar[k]) * float64(br[k])
			}
			out.Data[i*out.Cols+j] = float32(sum)
		}
	}
	return out
}
