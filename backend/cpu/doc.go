// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for the tagger.
//
// # Overview
//
// This package implements MatMulT with:
//   - Pure Go implementation (no CGO)
//   - Float64 accumulation
//   - Rows split across goroutines
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/morpho/analyzer"
//	    "github.com/born-ml/morpho/backend/cpu"
//	)
//
//	opts := analyzer.DefaultOptions()
//	opts.Backend = cpu.NewWithWorkers(4)
package cpu
