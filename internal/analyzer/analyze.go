package analyzer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/born-ml/morpho/internal/config"
	"github.com/born-ml/morpho/internal/decode"
	"github.com/born-ml/morpho/internal/features"
	"github.com/born-ml/morpho/internal/lemma"
	"github.com/born-ml/morpho/internal/model"
	"github.com/born-ml/morpho/internal/parallel"
	"github.com/born-ml/morpho/internal/tagset"
	"github.com/born-ml/morpho/internal/tensor"
	"github.com/born-ml/morpho/internal/vocab"
)

// unit is a stretch of one input sentence analyzed as a whole: the sentence
// itself, or one MaxLength window of it under the split policy.
type unit struct {
	sentence int
	offset   int
	tokens   []string
}

// Analyze analyzes a batch of tokenized sentences.
//
// The returned slice has one Result per input sentence, in input order, each
// with exactly one Analysis per token. Sentences that cannot be analyzed
// (too long under the reject policy) carry their error in Result.Err and do
// not affect the others. An empty batch returns ErrEmptyBatch. An internal
// decoding failure aborts the whole call.
func (a *Analyzer) Analyze(sentences [][]string) ([]Result, error) {
	if len(sentences) == 0 {
		return nil, ErrEmptyBatch
	}

	results := make([]Result, len(sentences))
	units := make([]unit, 0, len(sentences))
	for i, s := range sentences {
		if len(s) > a.opts.MaxLength {
			if a.opts.Overflow == config.OverflowReject {
				results[i].Err = fmt.Errorf("%w: %d tokens, max %d", ErrSentenceTooLong, len(s), a.opts.MaxLength)
				continue
			}
			for off := 0; off < len(s); off += a.opts.MaxLength {
				units = append(units, unit{sentence: i, offset: off, tokens: s[off:min(off+a.opts.MaxLength, len(s))]})
			}
		} else {
			units = append(units, unit{sentence: i, tokens: s})
		}
		results[i].Analyses = make([]Analysis, len(s))
	}
	if len(units) == 0 {
		return results, nil
	}

	encoded := make([]features.Encoded, len(units))
	lengths := make([]int, len(units))
	for i, u := range units {
		encoded[i] = a.encoder.Encode(u.tokens)
		lengths[i] = len(u.tokens)
	}

	buckets := features.Buckets(lengths, a.opts.BatchSize)
	err := parallel.Each(len(buckets), a.opts.Workers, func(bi int) error {
		bucket := buckets[bi]
		encs := make([]features.Encoded, len(bucket))
		for j, ui := range bucket {
			encs[j] = encoded[ui]
		}
		scores, err := a.model.Score(features.NewBatch(encs, a.encoder.Aux()))
		if err != nil {
			return err
		}
		for j, ui := range bucket {
			u := units[ui]
			dst := results[u.sentence].Analyses[u.offset : u.offset+len(u.tokens)]
			if err := a.decodeInto(dst, scores, j, u); err != nil {
				return fmt.Errorf("sentence %d: %w", u.sentence, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// decodeInto decodes sentence b of scores and writes one Analysis per token
// of u into dst.
func (a *Analyzer) decodeInto(dst []Analysis, scores *model.Scores, b int, u unit) error {
	n := len(u.tokens)
	if n == 0 {
		return nil
	}
	emissions := scores.Emissions(b, n)
	path, err := a.decoder.Decode(emissions)
	if err != nil {
		return err
	}
	if len(path) != n {
		return fmt.Errorf("%w: %d tags for %d tokens", decode.ErrInconsistentDecode, len(path), n)
	}

	for t, k := range path {
		tok := u.tokens[t]
		form := vocab.Normalize(tok)
		o := decode.BestLemma(scores.LemmaRow(b, t), scores.TagLemma.Row(k), a.ops.Applicable(form))
		if o < 0 {
			return fmt.Errorf("%w: no lemma op at position %d", decode.ErrInconsistentDecode, u.offset+t)
		}
		op := a.ops.Op(o)
		lemmaText, err := applyLemma(op, form)
		if err != nil {
			return fmt.Errorf("position %d: %w", u.offset+t, err)
		}
		tag := a.tags.Tag(k)
		if tag.POS == tagset.PROPN {
			lemmaText = capitalizeLike(lemmaText, tok)
		}

		dst[t] = Analysis{
			Token:      tok,
			Position:   u.offset + t,
			Tag:        tag,
			TagString:  tag.String(),
			POS:        tag.POS.String(),
			Feats:      feats(tag),
			Lemma:      lemmaText,
			LemmaOp:    op.String(),
			Confidence: tensor.Softmax(emissions[t])[k],
		}
	}
	return nil
}

// applyLemma applies op to form. An op longer than the form means the
// decoder picked an op outside the applicable set.
func applyLemma(op lemma.Op, form string) (string, error) {
	text, ok := op.Apply(form)
	if !ok {
		return "", fmt.Errorf("%w: lemma op %s does not apply to %q", decode.ErrInconsistentDecode, op, form)
	}
	return text, nil
}

// capitalizeLike upper-cases the first rune of lemma when token starts with
// an upper-case letter.
func capitalizeLike(lemma, token string) string {
	first, _ := utf8.DecodeRuneInString(token)
	if !unicode.IsUpper(first) || lemma == "" {
		return lemma
	}
	r, size := utf8.DecodeRuneInString(lemma)
	return string(unicode.ToUpper(r)) + lemma[size:]
}

func feats(t tagset.Tag) map[string]string {
	var out map[string]string
	for attr := tagset.Attr(0); attr < tagset.NumAttrs; attr++ {
		if v := t.Get(attr); v != "" {
			if out == nil {
				out = make(map[string]string)
			}
			out[attr.String()] = v
		}
	}
	return out
}

// AnalyzeSentence analyzes one tokenized sentence.
func (a *Analyzer) AnalyzeSentence(tokens []string) ([]Analysis, error) {
	res, err := a.Analyze([][]string{tokens})
	if err != nil {
		return nil, err
	}
	return res[0].Analyses, res[0].Err
}

// AnalyzeText tokenizes raw text into sentences and analyzes them. Text
// without any token returns ErrEmptyBatch.
func (a *Analyzer) AnalyzeText(text string) ([]Result, error) {
	return a.Analyze(a.tokenizer.Split(text))
}

// Tokenize splits raw text into sentences of tokens the way AnalyzeText does.
func (a *Analyzer) Tokenize(text string) [][]string {
	return a.tokenizer.Split(text)
}
