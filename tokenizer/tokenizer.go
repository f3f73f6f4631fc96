// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tokenizer splits raw Russian text into sentences of tokens the
// way the analyzer expects them.
//
// Example usage:
//
//	import "github.com/born-ml/morpho/tokenizer"
//
//	tok := tokenizer.New()
//	for _, sentence := range tok.Split("Кошка сидит на окне. Собака спит.") {
//	    fmt.Println(sentence)
//	}
package tokenizer

import "github.com/born-ml/morpho/internal/tokenizer"

// Tokenizer splits text into sentences of tokens.
type Tokenizer = tokenizer.Tokenizer

// Token is a token with its byte offsets in the source text.
type Token = tokenizer.Token

// Simple is the rule-based tokenizer.
type Simple = tokenizer.Simple

// New creates the rule-based tokenizer.
func New() *Simple {
	return tokenizer.New()
}
