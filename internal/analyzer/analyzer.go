// Package analyzer runs morphological analysis: it turns sentences of tokens
// into one tag, lemma and confidence per token.
//
// An Analyzer is built once from a model artifact and is read-only
// afterwards, so a single instance can serve concurrent callers.
package analyzer

import (
	"errors"
	"fmt"

	"github.com/born-ml/morpho/internal/decode"
	"github.com/born-ml/morpho/internal/features"
	"github.com/born-ml/morpho/internal/lemma"
	"github.com/born-ml/morpho/internal/model"
	"github.com/born-ml/morpho/internal/serialization"
	"github.com/born-ml/morpho/internal/tagset"
	"github.com/born-ml/morpho/internal/tokenizer"
	"github.com/born-ml/morpho/internal/vocab"
)

// Errors returned by the analyzer. ErrEmptyBatch and ErrSentenceTooLong are
// input errors; ErrInvalidArtifact wraps load failures.
var (
	ErrEmptyBatch      = errors.New("empty batch")
	ErrSentenceTooLong = errors.New("sentence too long")
	ErrInvalidArtifact = errors.New("invalid artifact")
)

// Analysis is the result for one token.
type Analysis struct {
	Token      string            `json:"token"`
	Position   int               `json:"position"`
	Tag        tagset.Tag        `json:"-"`
	TagString  string            `json:"tag"`
	POS        string            `json:"pos"`
	Feats      map[string]string `json:"feats,omitempty"`
	Lemma      string            `json:"lemma"`
	LemmaOp    string            `json:"lemma_op"`
	Confidence float64           `json:"confidence"`
}

// Result holds the analyses of one input sentence, or the input error that
// kept it from being analyzed.
type Result struct {
	Analyses []Analysis
	Err      error
}

// Parts are the loaded components an Analyzer is assembled from.
type Parts struct {
	Vocab    *vocab.Vocabulary
	Tags     *tagset.Inventory
	LemmaOps *lemma.Inventory
	Model    *model.SequenceModel
	Metadata map[string]string
}

// Analyzer is the read-only analysis context.
type Analyzer struct {
	vocab     *vocab.Vocabulary
	encoder   *features.Encoder
	model     *model.SequenceModel
	tags      *tagset.Inventory
	ops       *lemma.Inventory
	decoder   decode.Decoder
	tokenizer tokenizer.Tokenizer
	opts      Options
	metadata  map[string]string
}

// Load reads a .morph artifact and builds an Analyzer.
func Load(path string, opts Options) (*Analyzer, error) {
	a, err := serialization.ReadFile(path, opts.Reader)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return FromArtifact(a, opts)
}

// FromArtifact builds an Analyzer from an artifact already in memory.
func FromArtifact(a *serialization.Artifact, opts Options) (*Analyzer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	v, err := vocab.New(a.Vocab.Words, a.Vocab.Chars, a.Vocab.Suffixes, a.Hyper.SuffixLen)
	if err != nil {
		return nil, fmt.Errorf("%w: vocabulary: %w", ErrInvalidArtifact, err)
	}
	tags, err := tagset.NewInventory(a.Tags)
	if err != nil {
		return nil, fmt.Errorf("%w: tags: %w", ErrInvalidArtifact, err)
	}
	ops, err := lemma.NewInventory(a.LemmaOps)
	if err != nil {
		return nil, fmt.Errorf("%w: lemma ops: %w", ErrInvalidArtifact, err)
	}
	m, err := model.New(a.Hyper, a.Sizes(), opts.Backend, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	if err := m.LoadStateDict(a.Tensors); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	return New(Parts{Vocab: v, Tags: tags, LemmaOps: ops, Model: m, Metadata: a.Metadata}, opts)
}

// New assembles an Analyzer from loaded parts.
func New(p Parts, opts Options) (*Analyzer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if p.Vocab == nil || p.Tags == nil || p.LemmaOps == nil || p.Model == nil {
		return nil, fmt.Errorf("%w: missing component", ErrInvalidArtifact)
	}
	s := p.Model.Sizes()
	if s.Words != p.Vocab.Words().Len() || s.Chars != p.Vocab.Chars().Len() ||
		s.Tags != p.Tags.Len() || s.LemmaOps != p.LemmaOps.Len() {
		return nil, fmt.Errorf("%w: model sizes %+v do not match inventories", ErrInvalidArtifact, s)
	}
	h := p.Model.Hyper()
	an := &Analyzer{
		vocab:     p.Vocab,
		encoder:   features.NewEncoder(p.Vocab, h.MaxWordLen, h.AuxFeatures),
		model:     p.Model,
		tags:      p.Tags,
		ops:       p.LemmaOps,
		tokenizer: tokenizer.New(),
		opts:      opts,
		metadata:  p.Metadata,
	}

	an.decoder = decode.Greedy{}
	if opts.Decoder == decode.PolicyViterbi && p.Model.HasTransitions() {
		trans, start, end := p.Model.Transitions()
		tr := &decode.Transitions{Trans: trans.Rows2D(), Start: start.Rows2D()[0], End: end.Rows2D()[0]}
		if err := tr.Validate(p.Tags.Len()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
		}
		an.decoder = decode.NewViterbi(tr)
	}
	return an, nil
}

// Tags returns the tag inventory as canonical strings, in index order.
func (a *Analyzer) Tags() []string {
	return a.tags.Strings()
}

// LemmaOps returns the lemma op inventory as canonical strings.
func (a *Analyzer) LemmaOps() []string {
	return a.ops.Strings()
}

// Metadata returns the artifact metadata.
func (a *Analyzer) Metadata() map[string]string {
	return a.metadata
}

// Options returns the options the analyzer was built with.
func (a *Analyzer) Options() Options {
	return a.opts
}

// Decoder returns the name of the decoding strategy in use. A Viterbi
// request on a model without transitions falls back to greedy decoding.
func (a *Analyzer) Decoder() decode.Policy {
	if _, ok := a.decoder.(*decode.Viterbi); ok {
		return decode.PolicyViterbi
	}
	return decode.PolicyGreedy
}
