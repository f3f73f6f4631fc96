// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package analyzer

import (
	"github.com/born-ml/morpho/internal/analyzer"
	"github.com/born-ml/morpho/internal/config"
	"github.com/born-ml/morpho/internal/decode"
)

// Analyzer is a loaded model ready to analyze sentences.
type Analyzer = analyzer.Analyzer

// Analysis is the result for one token.
type Analysis = analyzer.Analysis

// Result holds the analyses of one input sentence or its input error.
type Result = analyzer.Result

// Options controls decoding, batching and overflow handling.
type Options = analyzer.Options

// Config is the YAML configuration accepted by OptionsFromConfig.
type Config = config.Config

// Errors returned by Analyze and Load.
var (
	ErrEmptyBatch         = analyzer.ErrEmptyBatch
	ErrSentenceTooLong    = analyzer.ErrSentenceTooLong
	ErrInvalidArtifact    = analyzer.ErrInvalidArtifact
	ErrInconsistentDecode = decode.ErrInconsistentDecode
)

// Decoding policies.
const (
	Greedy  = decode.PolicyGreedy
	Viterbi = decode.PolicyViterbi
)

// Overflow policies for sentences longer than Options.MaxLength.
const (
	OverflowReject = config.OverflowReject
	OverflowSplit  = config.OverflowSplit
)

// Load reads a .morph artifact and builds an Analyzer.
//
// Example:
//
//	an, err := analyzer.Load("models/ru.morph", analyzer.DefaultOptions())
func Load(path string, opts Options) (*Analyzer, error) {
	return analyzer.Load(path, opts)
}

// DefaultOptions returns Viterbi decoding, a 256-token limit with rejection,
// batches of 32 and the CPU backend.
func DefaultOptions() Options {
	return analyzer.DefaultOptions()
}

// OptionsFromConfig converts a configuration into Options.
func OptionsFromConfig(cfg Config) (Options, error) {
	return analyzer.OptionsFromConfig(cfg)
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}
