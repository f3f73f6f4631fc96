// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package analyzer is the public API of morpho, a neural morphological
// tagger for Russian.
//
// # Overview
//
// An Analyzer loads a trained model artifact (.morph) once and then assigns
// every token of a sentence a part of speech, a set of grammatical features
// and a lemma:
//   - Tags come from a fixed inventory of Universal Dependencies tags
//   - Lemmas are produced by edit operations scored per token
//   - Each tag carries the model's confidence
//
// # Basic Usage
//
//	import "github.com/born-ml/morpho/analyzer"
//
//	func main() {
//	    an, err := analyzer.Load("models/ru.morph", analyzer.DefaultOptions())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    analyses, err := an.AnalyzeSentence([]string{"Кошка", "сидит"})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, a := range analyses {
//	        fmt.Println(a.Token, a.Lemma, a.TagString)
//	    }
//	}
//
// # Batches
//
// Analyze takes many sentences at once and groups them by length into
// batches. Results do not depend on how sentences are grouped, so a
// sentence analyzed alone gets the same analyses as inside a batch.
//
// # Concurrency
//
// An Analyzer is read-only after Load and safe for concurrent use.
package analyzer
