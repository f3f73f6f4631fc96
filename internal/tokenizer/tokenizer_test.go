package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Кошка сидит на окне.", []string{"Кошка", "сидит", "на", "окне", "."}},
		{"Кто-то пришёл в 1990-х годах", []string{"Кто-то", "пришёл", "в", "1990-х", "годах"}},
		{"«Нет», — сказал он...", []string{"«", "Нет", "»", ",", "—", "сказал", "он", "..."}},
		{"Пи равно 3,14!", []string{"Пи", "равно", "3,14", "!"}},
		{"   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var got []string
			for _, tok := range New().Tokenize(tt.text) {
				got = append(got, tok.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_Spans(t *testing.T) {
	text := "Да, мы"
	toks := New().Tokenize(text)
	for _, tok := range toks {
		assert.Equal(t, tok.Text, text[tok.Start:tok.End])
	}
}

func TestTokenize_NormalizesToNFC(t *testing.T) {
	toks := New().Tokenize("\u043c\u043e\u0438\u0306") // й as и + combining breve
	if assert.Len(t, toks, 1) {
		assert.Equal(t, "\u043c\u043e\u0439", toks[0].Text)
	}
}

func TestSplit(t *testing.T) {
	got := New().Split("Кошка сидит на окне. Собака спит?! 3 кота ушли. т. е. всё")
	assert.Equal(t, [][]string{
		{"Кошка", "сидит", "на", "окне", "."},
		{"Собака", "спит", "?", "!"},
		{"3", "кота", "ушли", ".", "т", ".", "е", ".", "всё"},
	}, got)
}

func TestSplit_ClosingQuoteStaysWithSentence(t *testing.T) {
	got := New().Split("Он сказал: «Иди.» Она ушла")
	assert.Equal(t, [][]string{
		{"Он", "сказал", ":", "«", "Иди", ".", "»"},
		{"Она", "ушла"},
	}, got)
}

func TestSplit_Empty(t *testing.T) {
	assert.Empty(t, New().Split(""))
	var _ Tokenizer = New()
}
