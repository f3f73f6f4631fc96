package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/morpho/internal/nn"
	"github.com/born-ml/morpho/internal/tensor"
)

// MorphReader reads artifacts from .morph format.
type MorphReader struct {
	file       *os.File
	header     Header
	flags      uint32
	version    uint32
	dataOffset int64    // Offset where tensor data starts
	dataSize   int64    // Size of the data section
	checksum   [32]byte // SHA-256 checksum (v2 only)
	opts       ReaderOptions
	closed     bool
}

// ReaderOptions configures the behavior of MorphReader. The zero value
// verifies checksums and validates strictly.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// NewMorphReader opens a .morph file with default options (strict validation).
func NewMorphReader(path string) (*MorphReader, error) {
	return NewMorphReaderWithOptions(path, ReaderOptions{ValidationLevel: ValidationStrict})
}

// NewMorphReaderWithOptions opens a .morph file with custom options.
func NewMorphReaderWithOptions(path string, opts ReaderOptions) (*MorphReader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r := &MorphReader{file: file, opts: opts}
	if err := r.parseHeader(); err != nil {
		_ = file.Close() // Best effort close on error
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	if r.header.ModelType != ModelType {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, r.header.ModelType)
	}

	if err := ValidateHeader(&r.header, r.dataSize, opts.ValidationLevel); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := checkFlags(r.flags, &r.header); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if r.version == FormatVersionV2 && !opts.SkipChecksumValidation {
		if err := r.verifyChecksum(); err != nil {
			_ = file.Close()
			return nil, err
		}
	}
	return r, nil
}

// parseHeader reads the fixed prefix and JSON header.
func (r *MorphReader) parseHeader() error {
	prefix := make([]byte, 8)
	if _, err := io.ReadFull(r.file, prefix); err != nil {
		return fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if string(prefix[:4]) != MagicBytes {
		return ErrInvalidMagic
	}
	r.version = binary.LittleEndian.Uint32(prefix[4:8])

	var headerSize uint64
	var prefixSize int64
	switch r.version {
	case FormatVersion:
		rest := make([]byte, 12)
		if _, err := io.ReadFull(r.file, rest); err != nil {
			return fmt.Errorf("failed to read fixed header: %w", err)
		}
		r.flags = binary.LittleEndian.Uint32(rest[0:4])
		headerSize = binary.LittleEndian.Uint64(rest[4:12])
		prefixSize = 20
	case FormatVersionV2:
		rest := make([]byte, FixedHeaderSizeV2-8)
		if _, err := io.ReadFull(r.file, rest); err != nil {
			return fmt.Errorf("failed to read fixed header: %w", err)
		}
		// Offsets below are relative to 0x08.
		r.flags = binary.LittleEndian.Uint32(rest[0:4])
		headerSize = binary.LittleEndian.Uint64(rest[8:16])
		r.dataSize = int64(binary.LittleEndian.Uint64(rest[16:24])) //nolint:gosec // bounded by file size below
		copy(r.checksum[:], rest[ChecksumOffsetV2-8:ChecksumOffsetV2-8+ChecksumSize])
		prefixSize = FixedHeaderSizeV2
	default:
		return fmt.Errorf("%w: got %d, expected %d or %d", ErrUnsupportedVersion, r.version, FormatVersion, FormatVersionV2)
	}

	if headerSize > MaxHeaderSize {
		return ErrHeaderTooLarge
	}
	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerBytes); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if err := json.Unmarshal(headerBytes, &r.header); err != nil {
		return fmt.Errorf("failed to parse header JSON: %w", err)
	}

	currentPos := prefixSize + int64(headerSize) //nolint:gosec // headerSize <= MaxHeaderSize
	padding := (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
	r.dataOffset = currentPos + padding

	info, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	available := info.Size() - r.dataOffset
	if r.version == FormatVersion {
		r.dataSize = available
	} else if r.dataSize > available {
		return fmt.Errorf("data section truncated: header declares %d bytes, file has %d", r.dataSize, available)
	}
	return nil
}

// checkFlags verifies the prefix flags agree with the JSON header.
func checkFlags(flags uint32, h *Header) error {
	if got, want := flags&FlagHasTransitions != 0, h.Hyper.CRF; got != want {
		return &ValidationError{
			Type:    "flags_mismatch",
			Details: fmt.Sprintf("transitions flag is %t but hyper.crf is %t", got, want),
		}
	}
	if got, want := flags&FlagHasMetadata != 0, len(h.Metadata) > 0; got != want {
		return &ValidationError{
			Type:    "flags_mismatch",
			Details: fmt.Sprintf("metadata flag is %t but header has %d metadata entries", got, len(h.Metadata)),
		}
	}
	return nil
}

// verifyChecksum hashes the data section and compares it with the stored sum.
func (r *MorphReader) verifyChecksum() error {
	computed, err := ComputeChecksumReader(io.NewSectionReader(r.file, r.dataOffset, r.dataSize))
	if err != nil {
		return fmt.Errorf("failed to read tensor data for checksum: %w", err)
	}
	return ValidateChecksum(computed, r.checksum)
}

// Header returns the file header.
func (r *MorphReader) Header() Header {
	return r.header
}

// Version returns the format version of the file.
func (r *MorphReader) Version() uint32 {
	return r.version
}

// Metadata returns the metadata map from the header.
func (r *MorphReader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorInfo returns information about a specific tensor.
func (r *MorphReader) TensorInfo(name string) (*TensorMeta, error) {
	for _, meta := range r.header.Tensors {
		if meta.Name == name {
			return &meta, nil
		}
	}
	return nil, fmt.Errorf("tensor %s not found", name)
}

// LoadTensor reads one tensor as a matrix. Leading dimensions are folded
// into rows, so a vector [n] loads as [1, n].
func (r *MorphReader) LoadTensor(name string) (*tensor.Matrix, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}
	meta, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}
	if err := ValidateTensorMeta(*meta); err != nil {
		return nil, err
	}

	raw := make([]byte, meta.Size)
	if _, err := r.file.ReadAt(raw, r.dataOffset+meta.Offset); err != nil {
		return nil, fmt.Errorf("failed to read tensor %s: %w", name, err)
	}

	values := make([]float32, len(raw)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	rows, cols := tensor.Shape(meta.Shape).Matrix()
	return tensor.FromSlice(values, rows, cols)
}

// ReadStateDict reads all tensors into a state dictionary.
func (r *MorphReader) ReadStateDict() (nn.StateDict, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}
	stateDict := make(nn.StateDict, len(r.header.Tensors))
	for _, meta := range r.header.Tensors {
		m, err := r.LoadTensor(meta.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to load tensor %s: %w", meta.Name, err)
		}
		stateDict[meta.Name] = m
	}
	return stateDict, nil
}

// ReadArtifact reads the whole artifact.
func (r *MorphReader) ReadArtifact() (*Artifact, error) {
	sd, err := r.ReadStateDict()
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Hyper:    r.header.Hyper,
		Vocab:    r.header.Vocab,
		Tags:     r.header.Tags,
		LemmaOps: r.header.LemmaOps,
		Metadata: r.header.Metadata,
		Tensors:  sd,
	}, nil
}

// Close closes the reader and the underlying file.
func (r *MorphReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// ReadFile opens path, reads the artifact and closes the file.
func ReadFile(path string, opts ReaderOptions) (*Artifact, error) {
	r, err := NewMorphReaderWithOptions(path, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return r.ReadArtifact()
}
