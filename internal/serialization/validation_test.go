package serialization

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationType(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %T: %v", err, err)
	return ve.Type
}

func TestValidateTensorOffsets(t *testing.T) {
	ok := []TensorMeta{
		{Name: "b", Offset: 16, Size: 8},
		{Name: "a", Offset: 0, Size: 16},
	}
	assert.NoError(t, ValidateTensorOffsets(ok, 24))

	assert.Equal(t, "out_of_bounds", validationType(t, ValidateTensorOffsets(ok, 20)))

	overlap := []TensorMeta{
		{Name: "a", Offset: 0, Size: 16},
		{Name: "b", Offset: 8, Size: 8},
	}
	assert.Equal(t, "offset_overlap", validationType(t, ValidateTensorOffsets(overlap, 100)))

	negative := []TensorMeta{{Name: "a", Offset: -4, Size: 4}}
	assert.Equal(t, "negative_offset", validationType(t, ValidateTensorOffsets(negative, 100)))
}

func TestValidateTensorName(t *testing.T) {
	assert.NoError(t, ValidateTensorName("encoder.0.fwd.w_ih"))
	for _, name := range []string{"", "../etc/passwd", "a/b", `a\b`, "a\x00b"} {
		assert.Error(t, ValidateTensorName(name), "%q", name)
	}
}

func TestValidateTensorMeta(t *testing.T) {
	assert.NoError(t, ValidateTensorMeta(TensorMeta{Name: "w", DType: DTypeFloat32, Shape: []int{2, 3}, Size: 24}))
	assert.NoError(t, ValidateTensorMeta(TensorMeta{Name: "b", DType: DTypeFloat32, Shape: []int{3}, Size: 12}))

	tests := []struct {
		name string
		meta TensorMeta
		want string
	}{
		{"dtype", TensorMeta{Name: "w", DType: "float64", Shape: []int{2}, Size: 16}, "unsupported_dtype"},
		{"rank", TensorMeta{Name: "w", DType: DTypeFloat32, Shape: []int{1, 2, 3}, Size: 24}, "invalid_shape"},
		{"zero dim", TensorMeta{Name: "w", DType: DTypeFloat32, Shape: []int{0, 3}, Size: 0}, "invalid_shape"},
		{"size", TensorMeta{Name: "w", DType: DTypeFloat32, Shape: []int{2, 3}, Size: 20}, "size_mismatch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validationType(t, ValidateTensorMeta(tt.meta)))
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Type: "offset_overlap", Tensor: "a", Tensor2: "b", Details: "x"}
	assert.Equal(t, `offset_overlap: tensors "a" and "b": x`, err.Error())
	err = &ValidationError{Type: "invalid_hyperparameters", Details: "layers"}
	assert.Equal(t, "invalid_hyperparameters: layers", err.Error())
}
