// Package model implements the tagger's sequence model: it turns a padded
// batch of encoded sentences into per-position tag and lemma scores.
//
// Architecture:
//
//	word embedding ⊕ char-CNN ⊕ suffix embedding ⊕ aux flags
//	  → Layers × BiLSTM
//	  → tag projection    [K]
//	  → lemma projection  [L]
//
// The lemma score of op o given tag t is lemma_proj(h)[o] + lemma_tag[t][o],
// which lets the decoder condition the lemma on the chosen tag without a
// second pass.
package model

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/born-ml/morpho/internal/features"
	"github.com/born-ml/morpho/internal/nn"
	"github.com/born-ml/morpho/internal/tensor"
)

const auxFeatures = features.NumAux

// SequenceModel is a BiLSTM tagger with a lemma-op head.
//
// It is read-only after construction and safe for concurrent use.
type SequenceModel struct {
	hyper   Hyperparams
	sizes   Sizes
	backend tensor.Backend

	wordEmbed   *nn.Embedding
	charEmbed   *nn.Embedding
	charCNN     *nn.CharCNN
	suffixEmbed *nn.Embedding // nil when SuffixDim == 0
	encoder     []*nn.BiLSTM
	tagProj     *nn.Linear
	lemmaProj   *nn.Linear
	lemmaTag    *nn.Parameter // [K, L]

	transitions *nn.Parameter // [K, K], nil without CRF
	start       *nn.Parameter // [1, K]
	end         *nn.Parameter // [1, K]
}

// New builds a model. With a non-nil rng all weights are randomly
// initialised, which is only useful for tests and demos; otherwise they are
// zero until LoadStateDict.
func New(h Hyperparams, s Sizes, backend tensor.Backend, rng *rand.Rand) (*SequenceModel, error) {
	if err := h.Validate(s); err != nil {
		return nil, err
	}
	m := &SequenceModel{hyper: h, sizes: s, backend: backend}

	m.wordEmbed = nn.NewEmbedding(s.Words, h.WordDim, rng)
	m.charEmbed = nn.NewEmbedding(s.Chars, h.CharDim, rng)
	m.charCNN = nn.NewCharCNN(m.charEmbed, h.CharWidth, h.CharFilters, backend, rng)
	if h.SuffixDim > 0 {
		m.suffixEmbed = nn.NewEmbedding(s.Suffixes, h.SuffixDim, rng)
	}

	in := h.InputSize()
	for l := 0; l < h.Layers; l++ {
		layer := nn.NewBiLSTM(in, h.Hidden, backend, rng)
		m.encoder = append(m.encoder, layer)
		in = layer.OutputSize()
	}
	m.tagProj = nn.NewLinear(in, s.Tags, backend, rng)
	m.lemmaProj = nn.NewLinear(in, s.LemmaOps, backend, rng)

	if rng != nil {
		m.lemmaTag = nn.NewParameter("lemma_tag.weight", nn.Normal(s.Tags, s.LemmaOps, 0.1, rng))
	} else {
		m.lemmaTag = nn.NewParameter("lemma_tag.weight", tensor.NewMatrix(s.Tags, s.LemmaOps))
	}

	if h.CRF {
		if rng != nil {
			m.transitions = nn.NewParameter("crf.transitions", nn.Normal(s.Tags, s.Tags, 0.1, rng))
		} else {
			m.transitions = nn.NewParameter("crf.transitions", tensor.NewMatrix(s.Tags, s.Tags))
		}
		m.start = nn.NewParameter("crf.start", tensor.NewMatrix(1, s.Tags))
		m.end = nn.NewParameter("crf.end", tensor.NewMatrix(1, s.Tags))
	}
	return m, nil
}

// Hyper returns the model hyperparameters.
func (m *SequenceModel) Hyper() Hyperparams {
	return m.hyper
}

// Sizes returns the inventory sizes the model was built for.
func (m *SequenceModel) Sizes() Sizes {
	return m.sizes
}

// Backend returns the numeric backend.
func (m *SequenceModel) Backend() tensor.Backend {
	return m.backend
}

// HasTransitions reports whether the model carries CRF transition scores.
func (m *SequenceModel) HasTransitions() bool {
	return m.transitions != nil
}

// Transitions returns the transition matrix [K, K] and the start and end
// rows [1, K], or nils when the model has none.
func (m *SequenceModel) Transitions() (trans, start, end *tensor.Matrix) {
	if m.transitions == nil {
		return nil, nil, nil
	}
	return m.transitions.Value(), m.start.Value(), m.end.Value()
}

// StateDict returns every parameter under its artifact name.
func (m *SequenceModel) StateDict() nn.StateDict {
	sd := nn.StateDict{}
	for _, mod := range m.modules() {
		mod.module.StateDict(sd, mod.prefix)
	}
	nn.StoreParameters(sd, "", m.looseParameters()...)
	return sd
}

type prefixedModule struct {
	prefix string
	module nn.Module
}

// modules lists the layers of the model with their artifact prefixes.
func (m *SequenceModel) modules() []prefixedModule {
	mods := []prefixedModule{
		{"embed.word.", m.wordEmbed},
		{"embed.char.", m.charEmbed},
		{"char_cnn.", m.charCNN},
	}
	if m.suffixEmbed != nil {
		mods = append(mods, prefixedModule{"embed.suffix.", m.suffixEmbed})
	}
	for l, layer := range m.encoder {
		mods = append(mods, prefixedModule{fmt.Sprintf("encoder.%d.", l), layer})
	}
	return append(mods,
		prefixedModule{"tag_proj.", m.tagProj},
		prefixedModule{"lemma_proj.", m.lemmaProj})
}

// looseParameters returns the parameters held outside any layer.
func (m *SequenceModel) looseParameters() []*nn.Parameter {
	params := []*nn.Parameter{m.lemmaTag}
	if m.transitions != nil {
		params = append(params, m.transitions, m.start, m.end)
	}
	return params
}

// LoadStateDict copies the parameters from stateDict. Every expected tensor
// must be present with the right shape and no other tensor may be.
func (m *SequenceModel) LoadStateDict(stateDict nn.StateDict) error {
	own := m.StateDict()

	var unexpected []string
	for name := range stateDict {
		if _, ok := own[name]; !ok {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return fmt.Errorf("unexpected tensors: %s", strings.Join(unexpected, ", "))
	}

	for _, mod := range m.modules() {
		if err := mod.module.LoadStateDict(stateDict, mod.prefix); err != nil {
			return err
		}
	}
	return nn.LoadParameters(stateDict, "", m.looseParameters()...)
}
