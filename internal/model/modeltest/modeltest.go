// Package modeltest builds small tagger artifacts for tests and demos.
package modeltest

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/born-ml/morpho/internal/backend/cpu"
	"github.com/born-ml/morpho/internal/model"
	"github.com/born-ml/morpho/internal/nn"
	"github.com/born-ml/morpho/internal/serialization"
	"github.com/born-ml/morpho/internal/tensor"
	"github.com/born-ml/morpho/internal/vocab"
)

// Tag strings used by the toy models.
const (
	TagNounNom = "NOUN|Animacy=Anim|Case=Nom|Gender=Fem|Number=Sing"
	TagVerb    = "VERB|Aspect=Imp|Mood=Ind|Number=Sing|Person=3|Tense=Pres|VerbForm=Fin|Voice=Act"
	TagADP     = "ADP"
	TagNounLoc = "NOUN|Animacy=Inan|Case=Loc|Gender=Neut|Number=Sing"
	TagPunct   = "PUNCT"
	TagX       = "X"
)

// DefaultTags is the tag inventory of the toy models, in index order.
var DefaultTags = []string{TagNounNom, TagVerb, TagADP, TagNounLoc, TagPunct, TagX}

// DefaultLemmaOps is the lemma op inventory of the toy models.
var DefaultLemmaOps = []string{"K", "2,еть", "1,о"}

// CatSits returns a hand-wired model that tags the sentence
// "кошка сидит на окне ." correctly: each known word drives its own hidden
// unit, which the projections map to the word's tag and lemma op. Unknown
// words fall back to X with the identity lemma.
func CatSits() *serialization.Artifact {
	words := []string{vocab.PadToken, vocab.UnkToken, "кошка", "сидит", "на", "окне", "."}
	tagOf := []int{-1, -1, 0, 1, 2, 3, 4}
	opOf := []int{-1, -1, 0, 1, 0, 2, 0}

	chars := []string{vocab.PadToken, vocab.UnkToken}
	seen := map[string]bool{}
	for _, w := range words[2:] {
		for _, r := range w {
			if !seen[string(r)] {
				seen[string(r)] = true
				chars = append(chars, string(r))
			}
		}
	}

	n := len(words)
	h := model.Hyperparams{
		WordDim:     n,
		CharDim:     2,
		CharFilters: 2,
		CharWidth:   2,
		MaxWordLen:  8,
		Hidden:      n,
		Layers:      1,
		CRF:         true,
	}
	sizes := model.Sizes{Words: n, Chars: len(chars), Tags: len(DefaultTags), LemmaOps: len(DefaultLemmaOps)}
	m, err := model.New(h, sizes, cpu.New(), nil)
	if err != nil {
		panic(err)
	}
	sd := m.StateDict()

	// One-hot word embeddings; padding stays zero.
	emb := sd["embed.word.weight"]
	for w := 1; w < n; w++ {
		emb.Set(w, w, 1)
	}

	// Both directions: open input and output gates, shut the forget gate
	// and copy the one-hot input into the cell through tanh(3x).
	for _, dir := range []string{"fwd", "bwd"} {
		p := "encoder.0." + dir + "."
		wIH, bias := sd[p+"w_ih"], sd[p+"bias"]
		for j := 0; j < n; j++ {
			bias.Set(0, j, 10)
			bias.Set(0, n+j, -10)
			bias.Set(0, 3*n+j, 10)
			wIH.Set(2*n+j, j, 3)
		}
	}

	tagW, tagB := sd["tag_proj.weight"], sd["tag_proj.bias"]
	lemW, lemB := sd["lemma_proj.weight"], sd["lemma_proj.bias"]
	for w := 2; w < n; w++ {
		tagW.Set(tagOf[w], w, 5)
		tagW.Set(tagOf[w], n+w, 5)
		lemW.Set(opOf[w], w, 5)
		lemW.Set(opOf[w], n+w, 5)
	}
	tagB.Set(0, len(DefaultTags)-1, 0.5)
	lemB.Set(0, 0, 1)

	return &serialization.Artifact{
		Hyper:    h,
		Vocab:    serialization.VocabTables{Words: words, Chars: chars},
		Tags:     append([]string(nil), DefaultTags...),
		LemmaOps: append([]string(nil), DefaultLemmaOps...),
		Metadata: map[string]string{"name": "cat-sits"},
		Tensors:  sd,
	}
}

// Random returns a randomly initialised model over the given words. It
// exercises every feature of the architecture (suffixes, aux flags, two
// layers, transitions) but its predictions are arbitrary.
func Random(seed int64, words ...string) *serialization.Artifact {
	rng := rand.New(rand.NewSource(seed))

	table := []string{vocab.PadToken, vocab.UnkToken}
	chars := []string{vocab.PadToken, vocab.UnkToken}
	suffixes := []string{vocab.PadToken, vocab.UnkToken}
	seen := map[string]bool{}
	add := func(list *[]string, kind, s string) {
		if !seen[kind+s] {
			seen[kind+s] = true
			*list = append(*list, s)
		}
	}
	for _, w := range words {
		key := vocab.Normalize(w)
		add(&table, "w", key)
		for _, r := range key {
			add(&chars, "c", string(r))
		}
		add(&suffixes, "s", vocab.Suffix(key, 2))
	}

	h := model.Hyperparams{
		WordDim:     4,
		CharDim:     3,
		CharFilters: 4,
		CharWidth:   2,
		MaxWordLen:  6,
		SuffixDim:   2,
		SuffixLen:   2,
		AuxFeatures: true,
		Hidden:      5,
		Layers:      2,
		CRF:         true,
	}
	sizes := model.Sizes{
		Words:    len(table),
		Chars:    len(chars),
		Suffixes: len(suffixes),
		Tags:     len(DefaultTags),
		LemmaOps: len(DefaultLemmaOps),
	}
	m, err := model.New(h, sizes, cpu.New(), rng)
	if err != nil {
		panic(err)
	}
	sd := m.StateDict()
	for _, name := range []string{"crf.start", "crf.end"} {
		fill(sd[name], rng)
	}

	return &serialization.Artifact{
		Hyper:    h,
		Vocab:    serialization.VocabTables{Words: table, Chars: chars, Suffixes: suffixes},
		Tags:     append([]string(nil), DefaultTags...),
		LemmaOps: append([]string(nil), DefaultLemmaOps...),
		Metadata: map[string]string{"name": "random", "seed": fmt.Sprint(seed)},
		Tensors:  sd,
	}
}

func fill(m *tensor.Matrix, rng *rand.Rand) {
	for i := range m.Data {
		m.Data[i] = float32(rng.NormFloat64() * 0.1)
	}
}

// Clone deep-copies an artifact so tests can corrupt it freely.
func Clone(a *serialization.Artifact) *serialization.Artifact {
	c := *a
	c.Tensors = make(nn.StateDict, len(a.Tensors))
	for k, v := range a.Tensors {
		c.Tensors[k] = v.Clone()
	}
	c.Metadata = make(map[string]string, len(a.Metadata))
	for k, v := range a.Metadata {
		c.Metadata[k] = v
	}
	return &c
}

// WriteTemp writes a to a temporary .morph file and returns its path.
func WriteTemp(tb testing.TB, a *serialization.Artifact, version uint32) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "model.morph")
	if err := serialization.WriteFile(path, a, version); err != nil {
		tb.Fatalf("write artifact: %v", err)
	}
	return path
}
