// Package features turns tokenized sentences into the id grids consumed by
// the sequence model.
//
// Encoding is pure and deterministic: the same tokens and vocabulary always
// produce the same Encoded value.
package features

import (
	"strings"
	"unicode"

	"github.com/born-ml/morpho/internal/vocab"
)

// Aux feature columns, in order.
const (
	AuxTitle = iota
	AuxUpper
	AuxDigit
	AuxHyphen
	AuxPunct

	NumAux
)

// Token is one input token and its position in the sentence.
type Token struct {
	Text     string
	Position int
}

// Encoded is the feature view of one sentence.
type Encoded struct {
	Tokens   []Token
	Words    []int       // word ids
	Chars    [][]int     // MaxWordLen char ids per token, 0-padded
	Suffixes []int       // suffix ids, all PadID without a suffix table
	Aux      [][]float32 // NumAux flags per token, nil when disabled
}

// Len returns the number of tokens.
func (e Encoded) Len() int {
	return len(e.Words)
}

// Encoder maps tokens to ids using a vocabulary.
type Encoder struct {
	vocab      *vocab.Vocabulary
	maxWordLen int
	aux        bool
}

// NewEncoder creates an encoder. Words longer than maxWordLen runes keep
// their last maxWordLen characters.
func NewEncoder(v *vocab.Vocabulary, maxWordLen int, aux bool) *Encoder {
	return &Encoder{vocab: v, maxWordLen: maxWordLen, aux: aux}
}

// MaxWordLen returns the char grid width.
func (e *Encoder) MaxWordLen() int {
	return e.maxWordLen
}

// Aux reports whether aux features are produced.
func (e *Encoder) Aux() bool {
	return e.aux
}

// Encode encodes one sentence. An empty sentence gives an empty encoding.
func (e *Encoder) Encode(tokens []string) Encoded {
	n := len(tokens)
	enc := Encoded{
		Tokens:   make([]Token, n),
		Words:    make([]int, n),
		Chars:    make([][]int, n),
		Suffixes: make([]int, n),
	}
	if e.aux {
		enc.Aux = make([][]float32, n)
	}
	for i, tok := range tokens {
		enc.Tokens[i] = Token{Text: tok, Position: i}
		enc.Words[i] = int(e.vocab.Lookup(tok))
		enc.Chars[i] = e.charRow(tok)
		enc.Suffixes[i] = int(e.vocab.LookupSuffix(tok))
		if e.aux {
			enc.Aux[i] = AuxFeatures(tok)
		}
	}
	return enc
}

func (e *Encoder) charRow(tok string) []int {
	ids := e.vocab.LookupChars(tok)
	if len(ids) > e.maxWordLen {
		ids = ids[len(ids)-e.maxWordLen:]
	}
	row := make([]int, e.maxWordLen)
	for i, id := range ids {
		row[i] = int(id)
	}
	return row
}

// AuxFeatures returns the surface flags of a token as 0/1 values:
// title case, all caps, contains a digit, contains a hyphen, punctuation only.
func AuxFeatures(tok string) []float32 {
	out := make([]float32, NumAux)
	var letters, upper, lower int
	punct := tok != ""
	for i, r := range tok {
		switch {
		case unicode.IsUpper(r):
			letters++
			upper++
			if i == 0 {
				out[AuxTitle] = 1
			}
		case unicode.IsLetter(r):
			letters++
			lower++
		case unicode.IsDigit(r):
			out[AuxDigit] = 1
		}
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			punct = false
		}
	}
	if letters > 1 && lower == 0 {
		out[AuxUpper] = 1
	}
	if strings.ContainsRune(tok, '-') {
		out[AuxHyphen] = 1
	}
	if punct {
		out[AuxPunct] = 1
	}
	return out
}
