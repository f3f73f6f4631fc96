package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Tokenizer splits raw text into sentences of tokens.
type Tokenizer interface {
	// Split returns the sentences of text, each as a list of token strings.
	Split(text string) [][]string
}

// Token is a token with its byte span in the NFC-normalised text.
type Token struct {
	Text  string
	Start int
	End   int
}

// reToken matches, in order of preference:
//   - words, possibly hyphenated ("кто-то", "Нью-Йорк")
//   - numbers with decimal or thousands separators and an optional
//     hyphenated ending ("1990-х", "3,14")
//   - an ellipsis written as three dots
//   - any other single non-space character
var reToken = regexp.MustCompile(`\p{L}[\p{L}\p{M}]*(?:-\p{L}[\p{L}\p{M}]*)*|\d+(?:[.,]\d+)*(?:-\p{L}+)?|\.\.\.|[^\s\p{L}\d]`)

// Simple is a rule-based tokenizer for Russian text. Sentence boundaries are
// placed after terminal punctuation followed by a capitalised word, a digit,
// an opening quote or dash, or the end of the text.
type Simple struct{}

// New returns a Simple tokenizer.
func New() *Simple {
	return &Simple{}
}

// Tokenize returns the tokens of text. The text is NFC-normalised first.
func (s *Simple) Tokenize(text string) []Token {
	text = norm.NFC.String(text)
	spans := reToken.FindAllStringIndex(text, -1)
	out := make([]Token, len(spans))
	for i, sp := range spans {
		out[i] = Token{Text: text[sp[0]:sp[1]], Start: sp[0], End: sp[1]}
	}
	return out
}

// Sentences groups the tokens of text into sentences.
func (s *Simple) Sentences(text string) [][]Token {
	tokens := s.Tokenize(text)
	var out [][]Token
	start := 0
	for i := 0; i < len(tokens); i++ {
		if !isTerminal(tokens[i].Text) {
			continue
		}
		// Absorb runs like "?!" and closing quotes or brackets.
		j := i + 1
		for j < len(tokens) && (isTerminal(tokens[j].Text) || isClosing(tokens[j].Text)) {
			j++
		}
		if j == len(tokens) || startsSentence(tokens[j].Text) {
			out = append(out, tokens[start:j])
			start = j
		}
		i = j - 1
	}
	if start < len(tokens) {
		out = append(out, tokens[start:])
	}
	return out
}

// Split implements Tokenizer.
func (s *Simple) Split(text string) [][]string {
	sentences := s.Sentences(text)
	out := make([][]string, len(sentences))
	for i, sent := range sentences {
		words := make([]string, len(sent))
		for j, tok := range sent {
			words[j] = tok.Text
		}
		out[i] = words
	}
	return out
}

func isTerminal(tok string) bool {
	switch tok {
	case ".", "!", "?", "...", "…":
		return true
	}
	return false
}

func isClosing(tok string) bool {
	return strings.ContainsAny(tok, "»)]\"'”")
}

func startsSentence(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsUpper(r) || unicode.IsDigit(r) || strings.ContainsRune("«\"„—–-([", r)
}
