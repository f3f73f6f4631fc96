package serialization

import (
	"time"

	"github.com/born-ml/morpho/internal/model"
)

// Format constants.
const (
	MagicBytes        = "MRPH"
	FormatVersion     = 1    // v1: Basic format without checksum
	FormatVersionV2   = 2    // v2: With SHA-256 checksum
	HeaderAlignment   = 64   // Align tensor data to 64 bytes
	FixedHeaderSizeV2 = 64   // v2 fixed header size (0x40 bytes)
	ChecksumSize      = 32   // SHA-256 checksum size (32 bytes)
	ChecksumOffsetV2  = 0x20 // Checksum offset in v2 fixed header
)

// ModelType is the only architecture this package loads.
const ModelType = "bilstm-tagger"

// DTypeFloat32 is the only tensor data type stored in .morph files.
const DTypeFloat32 = "float32"

// Flags for the .morph format.
const (
	FlagHasMetadata    uint32 = 1 << 0 // bit 0: custom metadata included
	FlagHasTransitions uint32 = 1 << 1 // bit 1: CRF transitions included
)

// Header represents the JSON header in a .morph file.
type Header struct {
	FormatVersion int               `json:"format_version"` // Version of the .morph format
	MorphoVersion string            `json:"morpho_version"` // Version of morpho that created this file
	ModelType     string            `json:"model_type"`     // Architecture, must be ModelType
	CreatedAt     time.Time         `json:"created_at"`     // When the file was created
	Hyper         model.Hyperparams `json:"hyper"`          // Architecture hyperparameters
	Vocab         VocabTables       `json:"vocab"`          // Lookup tables
	Tags          []string          `json:"tags"`           // Tag inventory, canonical strings
	LemmaOps      []string          `json:"lemma_ops"`      // Lemma op inventory, canonical strings
	Tensors       []TensorMeta      `json:"tensors"`        // Tensor metadata
	Metadata      map[string]string `json:"metadata"`       // Custom metadata
}

// VocabTables are the vocabulary tables stored in the header. Index 0 and 1
// of every non-empty table are the padding and unknown entries.
type VocabTables struct {
	Words    []string `json:"words"`
	Chars    []string `json:"chars"`
	Suffixes []string `json:"suffixes,omitempty"`
}

// Sizes returns the inventory sizes declared by the header.
func (h *Header) Sizes() model.Sizes {
	return model.Sizes{
		Words:    len(h.Vocab.Words),
		Chars:    len(h.Vocab.Chars),
		Suffixes: len(h.Vocab.Suffixes),
		Tags:     len(h.Tags),
		LemmaOps: len(h.LemmaOps),
	}
}

// TensorMeta describes a tensor in the .morph file.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "encoder.0.fwd.w_ih")
	DType  string `json:"dtype"`  // Data type, always "float32"
	Shape  []int  `json:"shape"`  // Tensor shape
	Offset int64  `json:"offset"` // Offset in the data section (bytes from start of tensor data)
	Size   int64  `json:"size"`   // Size in bytes
}
