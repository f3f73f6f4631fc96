package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

// Version is written into the header of every artifact.
const Version = "0.1.0"

// MorphWriter writes artifacts in .morph format.
type MorphWriter struct {
	file   *os.File
	closed bool
}

// NewMorphWriter creates a new .morph file writer.
func NewMorphWriter(path string) (*MorphWriter, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &MorphWriter{file: file}, nil
}

// WriteArtifact writes a in the given format version.
func (w *MorphWriter) WriteArtifact(a *Artifact, version uint32) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}
	return Write(w.file, a, version)
}

// Close closes the underlying file.
func (w *MorphWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// WriteFile writes a to path in the given format version.
func WriteFile(path string, a *Artifact, version uint32) error {
	w, err := NewMorphWriter(path)
	if err != nil {
		return err
	}
	if err := w.WriteArtifact(a, version); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Write serializes a to out.
func Write(out io.Writer, a *Artifact, version uint32) error {
	if version != FormatVersion && version != FormatVersionV2 {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	header := Header{
		FormatVersion: int(version),
		MorphoVersion: Version,
		ModelType:     ModelType,
		CreatedAt:     time.Now().UTC(),
		Hyper:         a.Hyper,
		Vocab:         a.Vocab,
		Tags:          a.Tags,
		LemmaOps:      a.LemmaOps,
		Tensors:       a.tensorMetas(),
		Metadata:      a.Metadata,
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	data := encodeTensors(a, header.Tensors)

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if a.Hyper.CRF {
		flags |= FlagHasTransitions
	}

	var prefix bytes.Buffer
	prefix.WriteString(MagicBytes)
	_ = binary.Write(&prefix, binary.LittleEndian, version)
	_ = binary.Write(&prefix, binary.LittleEndian, flags)
	if version == FormatVersion {
		_ = binary.Write(&prefix, binary.LittleEndian, uint64(len(headerJSON)))
	} else {
		_ = binary.Write(&prefix, binary.LittleEndian, uint32(0)) // reserved
		_ = binary.Write(&prefix, binary.LittleEndian, uint64(len(headerJSON)))
		_ = binary.Write(&prefix, binary.LittleEndian, uint64(len(data)))
		sum := ComputeChecksum(data)
		prefix.Write(sum[:])
	}

	if _, err := out.Write(prefix.Bytes()); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := out.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	currentPos := int64(prefix.Len() + len(headerJSON))
	padding := (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
	if padding > 0 {
		if _, err := out.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

// encodeTensors concatenates tensor data in metadata order as float32 LE.
func encodeTensors(a *Artifact, metas []TensorMeta) []byte {
	var total int64
	for _, m := range metas {
		total += m.Size
	}
	data := make([]byte, total)
	for _, m := range metas {
		buf := data[m.Offset : m.Offset+m.Size]
		for i, v := range a.Tensors[m.Name].Data {
			binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
		}
	}
	return data
}
