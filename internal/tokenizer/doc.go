// Package tokenizer splits raw Russian text into sentences and tokens for
// the analyzer.
//
// The tagger itself works on pre-tokenized sentences; this package exists so
// that the CLI and the HTTP server can accept plain text.
//
// Example usage:
//
//	tok := tokenizer.New()
//	for _, sentence := range tok.Split("Кошка сидит на окне. Собака спит!") {
//	    fmt.Println(sentence) // [Кошка сидит на окне .] then [Собака спит !]
//	}
package tokenizer
