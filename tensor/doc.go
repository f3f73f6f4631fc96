// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the matrix type and the compute backend interface
// used by morpho's model.
//
// # Overview
//
// The tagger works on row-major float32 matrices. A Backend supplies the
// one heavy primitive, MatMulT, and can be chosen per Analyzer:
//
//	import (
//	    "github.com/born-ml/morpho/analyzer"
//	    "github.com/born-ml/morpho/backend/gonum"
//	)
//
//	opts := analyzer.DefaultOptions()
//	opts.Backend = gonum.New()
//	an, err := analyzer.Load("models/ru.morph", opts)
package tensor
