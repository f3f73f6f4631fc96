package model

import (
	"fmt"

	"github.com/born-ml/morpho/internal/features"
	"github.com/born-ml/morpho/internal/tensor"
)

// Scores are the unnormalised outputs of the model for one batch.
//
// Tags and LemmaBase are laid out like the batch: row b*Steps+t holds
// position t of sentence b. Rows of padding positions are meaningless.
type Scores struct {
	Size      int
	Steps     int
	Tags      *tensor.Matrix // [Size*Steps, K]
	LemmaBase *tensor.Matrix // [Size*Steps, L]
	TagLemma  *tensor.Matrix // [K, L], shared by all positions
}

// TagRow returns the tag scores of position t of sentence b.
func (s *Scores) TagRow(b, t int) []float32 {
	return s.Tags.Row(b*s.Steps + t)
}

// LemmaRow returns the lemma base scores of position t of sentence b.
func (s *Scores) LemmaRow(b, t int) []float32 {
	return s.LemmaBase.Row(b*s.Steps + t)
}

// Emissions returns the tag scores of the first n positions of sentence b.
func (s *Scores) Emissions(b, n int) [][]float32 {
	out := make([][]float32, n)
	for t := 0; t < n; t++ {
		out[t] = s.TagRow(b, t)
	}
	return out
}

// Score runs the model over a batch.
func (m *SequenceModel) Score(b *features.Batch) (*Scores, error) {
	if err := m.checkBatch(b); err != nil {
		return nil, err
	}

	x := m.embed(b)
	for _, layer := range m.encoder {
		x = layer.Forward(x, b.Size, b.Steps, b.Lengths)
	}

	return &Scores{
		Size:      b.Size,
		Steps:     b.Steps,
		Tags:      m.tagProj.Forward(x),
		LemmaBase: m.lemmaProj.Forward(x),
		TagLemma:  m.lemmaTag.Value(),
	}, nil
}

// embed builds the per-token input features [Size*Steps, InputSize].
func (m *SequenceModel) embed(b *features.Batch) *tensor.Matrix {
	var suffix, aux *tensor.Matrix
	if m.suffixEmbed != nil {
		suffix = m.suffixEmbed.Forward(b.Suffixes)
	}
	if m.hyper.AuxFeatures {
		aux = b.Aux
	}
	return tensor.HConcat(
		m.wordEmbed.Forward(b.Words),
		m.charCNN.Forward(b.Chars),
		suffix,
		aux,
	)
}

func (m *SequenceModel) checkBatch(b *features.Batch) error {
	cells := b.Size * b.Steps
	if len(b.Words) != cells || len(b.Chars) != cells || len(b.Suffixes) != cells || len(b.Lengths) != b.Size {
		return fmt.Errorf("malformed batch: size=%d steps=%d", b.Size, b.Steps)
	}
	if m.hyper.AuxFeatures && (b.Aux == nil || b.Aux.Rows != cells || b.Aux.Cols != auxFeatures) {
		return fmt.Errorf("model expects %d aux features per token", auxFeatures)
	}
	for i, id := range b.Words {
		if id < 0 || id >= m.sizes.Words {
			return fmt.Errorf("word id %d at %d outside vocabulary of %d", id, i, m.sizes.Words)
		}
	}
	for i, row := range b.Chars {
		if len(row) > m.hyper.MaxWordLen {
			return fmt.Errorf("char row %d has %d ids, max word length is %d", i, len(row), m.hyper.MaxWordLen)
		}
		for _, id := range row {
			if id < 0 || id >= m.sizes.Chars {
				return fmt.Errorf("char id %d outside vocabulary of %d", id, m.sizes.Chars)
			}
		}
	}
	if m.suffixEmbed != nil {
		for _, id := range b.Suffixes {
			if id < 0 || id >= m.sizes.Suffixes {
				return fmt.Errorf("suffix id %d outside vocabulary of %d", id, m.sizes.Suffixes)
			}
		}
	}
	return nil
}
