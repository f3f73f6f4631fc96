package model

import (
	"fmt"

	"github.com/born-ml/morpho/internal/tensor"
)

// Hyperparams fixes the architecture of a SequenceModel. They are stored in
// the artifact header and decide the shape of every tensor.
type Hyperparams struct {
	WordDim     int  `json:"word_dim"`
	CharDim     int  `json:"char_dim"`
	CharFilters int  `json:"char_filters"`
	CharWidth   int  `json:"char_width"`
	MaxWordLen  int  `json:"max_word_len"`
	SuffixDim   int  `json:"suffix_dim"` // 0 disables the suffix feature
	SuffixLen   int  `json:"suffix_len"`
	AuxFeatures bool `json:"aux_features"`
	Hidden      int  `json:"hidden"` // per direction
	Layers      int  `json:"layers"`
	CRF         bool `json:"crf"` // tag transitions present
}

// Sizes are the inventory sizes a model is built for.
type Sizes struct {
	Words    int
	Chars    int
	Suffixes int
	Tags     int
	LemmaOps int
}

// Validate checks hyperparameters and sizes for consistency.
func (h Hyperparams) Validate(s Sizes) error {
	positive := []struct {
		name string
		v    int
	}{
		{"word_dim", h.WordDim},
		{"char_dim", h.CharDim},
		{"char_filters", h.CharFilters},
		{"char_width", h.CharWidth},
		{"max_word_len", h.MaxWordLen},
		{"hidden", h.Hidden},
		{"layers", h.Layers},
		{"words", s.Words},
		{"chars", s.Chars},
		{"tags", s.Tags},
		{"lemma ops", s.LemmaOps},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("hyperparameter %s must be positive, got %d", p.name, p.v)
		}
	}
	if h.SuffixDim < 0 || h.SuffixLen < 0 {
		return fmt.Errorf("suffix_dim and suffix_len must not be negative")
	}
	if (h.SuffixDim > 0) != (s.Suffixes > 0) || (h.SuffixDim > 0) != (h.SuffixLen > 0) {
		return fmt.Errorf("suffix feature: suffix_dim=%d, suffix_len=%d with %d suffixes", h.SuffixDim, h.SuffixLen, s.Suffixes)
	}
	return nil
}

// InputSize returns the width of the per-token feature vector fed to the
// first recurrent layer.
func (h Hyperparams) InputSize() int {
	n := h.WordDim + h.CharFilters + h.SuffixDim
	if h.AuxFeatures {
		n += auxFeatures
	}
	return n
}

// ExpectedShapes returns the name and shape of every tensor of a model with
// these hyperparameters.
func ExpectedShapes(h Hyperparams, s Sizes) map[string]tensor.Shape {
	out := map[string]tensor.Shape{
		"embed.word.weight": {s.Words, h.WordDim},
		"embed.char.weight": {s.Chars, h.CharDim},
		"char_cnn.weight":   {h.CharFilters, h.CharWidth * h.CharDim},
		"char_cnn.bias":     {h.CharFilters},
		"tag_proj.weight":   {s.Tags, 2 * h.Hidden},
		"tag_proj.bias":     {s.Tags},
		"lemma_proj.weight": {s.LemmaOps, 2 * h.Hidden},
		"lemma_proj.bias":   {s.LemmaOps},
		"lemma_tag.weight":  {s.Tags, s.LemmaOps},
	}
	if h.SuffixDim > 0 {
		out["embed.suffix.weight"] = tensor.Shape{s.Suffixes, h.SuffixDim}
	}
	in := h.InputSize()
	for l := 0; l < h.Layers; l++ {
		for _, dir := range []string{"fwd", "bwd"} {
			p := fmt.Sprintf("encoder.%d.%s.", l, dir)
			out[p+"w_ih"] = tensor.Shape{4 * h.Hidden, in}
			out[p+"w_hh"] = tensor.Shape{4 * h.Hidden, h.Hidden}
			out[p+"bias"] = tensor.Shape{4 * h.Hidden}
		}
		in = 2 * h.Hidden
	}
	if h.CRF {
		out["crf.transitions"] = tensor.Shape{s.Tags, s.Tags}
		out["crf.start"] = tensor.Shape{s.Tags}
		out["crf.end"] = tensor.Shape{s.Tags}
	}
	return out
}
