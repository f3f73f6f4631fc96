package serialization_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/morpho/internal/model/modeltest"
	"github.com/born-ml/morpho/internal/serialization"
	"github.com/born-ml/morpho/internal/tensor"
)

func TestWriteRead(t *testing.T) {
	for _, version := range []uint32{serialization.FormatVersion, serialization.FormatVersionV2} {
		a := modeltest.Random(5, "кошка", "сидит", "на", "окне")
		path := modeltest.WriteTemp(t, a, version)

		r, err := serialization.NewMorphReader(path)
		require.NoError(t, err, "version %d", version)
		defer r.Close()

		assert.Equal(t, version, r.Version())
		h := r.Header()
		assert.Equal(t, serialization.ModelType, h.ModelType)
		assert.Equal(t, serialization.Version, h.MorphoVersion)
		assert.Equal(t, a.Hyper, h.Hyper)
		assert.Equal(t, a.Vocab, h.Vocab)
		assert.Equal(t, a.Tags, h.Tags)
		assert.Equal(t, "5", r.Metadata()["seed"])

		info, err := r.TensorInfo("tag_proj.bias")
		require.NoError(t, err)
		assert.Equal(t, []int{len(a.Tags)}, info.Shape)

		got, err := r.ReadArtifact()
		require.NoError(t, err)
		require.Len(t, got.Tensors, len(a.Tensors))
		for name, want := range a.Tensors {
			assert.Equal(t, want.Shape(), got.Tensors[name].Shape(), name)
			assert.Equal(t, want.Data, got.Tensors[name].Data, name)
		}
	}
}

func TestDataSectionIsAligned(t *testing.T) {
	a := modeltest.CatSits()
	path := modeltest.WriteTemp(t, a, serialization.FormatVersionV2)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	headerSize := binary.LittleEndian.Uint64(raw[16:24])
	dataSize := binary.LittleEndian.Uint64(raw[24:32])
	dataOffset := uint64(len(raw)) - dataSize
	assert.Zero(t, dataOffset%serialization.HeaderAlignment)
	assert.GreaterOrEqual(t, dataOffset, headerSize+serialization.FixedHeaderSizeV2)
}

func TestReadRejectsUnsupportedVersion(t *testing.T) {
	path := modeltest.WriteTemp(t, modeltest.CatSits(), serialization.FormatVersion)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	binary.LittleEndian.PutUint32(raw[4:8], 3)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, err = serialization.NewMorphReader(path)
	assert.ErrorIs(t, err, serialization.ErrUnsupportedVersion)

	assert.ErrorIs(t, serialization.WriteFile(path, modeltest.CatSits(), 7), serialization.ErrUnsupportedVersion)
}

func TestReadRejectsBadMagic(t *testing.T) {
	path := modeltest.WriteTemp(t, modeltest.CatSits(), serialization.FormatVersionV2)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	copy(raw, "BORN")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, err = serialization.NewMorphReader(path)
	assert.ErrorIs(t, err, serialization.ErrInvalidMagic)
}

func TestReadRejectsFlagsMismatch(t *testing.T) {
	for _, version := range []uint32{serialization.FormatVersion, serialization.FormatVersionV2} {
		t.Run(fmt.Sprintf("v%d", version), func(t *testing.T) {
			path := modeltest.WriteTemp(t, modeltest.CatSits(), version)
			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			flags := binary.LittleEndian.Uint32(raw[8:12])
			require.Equal(t, serialization.FlagHasMetadata|serialization.FlagHasTransitions, flags)

			binary.LittleEndian.PutUint32(raw[8:12], serialization.FlagHasMetadata)
			require.NoError(t, os.WriteFile(path, raw, 0o600))
			_, err = serialization.NewMorphReader(path)
			var verr *serialization.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "flags_mismatch", verr.Type)

			binary.LittleEndian.PutUint32(raw[8:12], serialization.FlagHasTransitions)
			require.NoError(t, os.WriteFile(path, raw, 0o600))
			_, err = serialization.NewMorphReader(path)
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Details, "metadata")
		})
	}
}

func TestReadDetectsCorruption(t *testing.T) {
	path := modeltest.WriteTemp(t, modeltest.CatSits(), serialization.FormatVersionV2)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, err = serialization.NewMorphReader(path)
	assert.ErrorIs(t, err, serialization.ErrChecksumMismatch)

	r, err := serialization.NewMorphReaderWithOptions(path, serialization.ReaderOptions{SkipChecksumValidation: true})
	require.NoError(t, err)
	assert.NoError(t, r.Close())
}

func TestReadRejectsShapeMismatch(t *testing.T) {
	a := modeltest.Clone(modeltest.CatSits())
	a.Tensors["tag_proj.weight"] = tensor.NewMatrix(3, 3)
	path := modeltest.WriteTemp(t, a, serialization.FormatVersionV2)

	_, err := serialization.NewMorphReader(path)
	require.Error(t, err)
	var ve *serialization.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "shape_mismatch", ve.Type)
	assert.Equal(t, "tag_proj.weight", ve.Tensor)
}

func TestReadRejectsMissingTensor(t *testing.T) {
	a := modeltest.Clone(modeltest.CatSits())
	delete(a.Tensors, "crf.end")
	path := modeltest.WriteTemp(t, a, serialization.FormatVersion)

	_, err := serialization.NewMorphReader(path)
	var ve *serialization.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "missing_tensor", ve.Type)
	assert.Equal(t, "crf.end", ve.Tensor)
}

func TestReadRejectsOtherModelTypes(t *testing.T) {
	path := modeltest.WriteTemp(t, modeltest.CatSits(), serialization.FormatVersion)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Same length keeps the layout intact.
	idx := bytes.Index(raw, []byte(`"bilstm-tagger"`))
	require.GreaterOrEqual(t, idx, 0)
	copy(raw[idx:], `"transformer!!"`)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, err = serialization.NewMorphReader(path)
	assert.ErrorIs(t, err, serialization.ErrUnsupportedModel)
}

func TestReadFileMissing(t *testing.T) {
	_, err := serialization.ReadFile("/nonexistent/model.morph", serialization.ReaderOptions{})
	assert.Error(t, err)
}
