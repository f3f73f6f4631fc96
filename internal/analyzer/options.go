package analyzer

import (
	"fmt"
	"runtime"

	"github.com/born-ml/morpho/internal/backend/cpu"
	"github.com/born-ml/morpho/internal/backend/gonum"
	"github.com/born-ml/morpho/internal/config"
	"github.com/born-ml/morpho/internal/decode"
	"github.com/born-ml/morpho/internal/parallel"
	"github.com/born-ml/morpho/internal/serialization"
	"github.com/born-ml/morpho/internal/tensor"
)

// Options controls how an Analyzer runs. The zero value is not valid; start
// from DefaultOptions or OptionsFromConfig.
type Options struct {
	Decoder   decode.Policy
	MaxLength int
	Overflow  string // config.OverflowReject or config.OverflowSplit
	BatchSize int
	Workers   int // concurrent batches; 0 means one per CPU
	Backend   tensor.Backend
	Reader    serialization.ReaderOptions
}

// DefaultOptions returns the options of config.Default with the cpu backend.
func DefaultOptions() Options {
	opts, err := OptionsFromConfig(config.Default())
	if err != nil {
		panic(err) // the default config is always valid
	}
	return opts
}

// OptionsFromConfig builds Options from a validated configuration.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}
	policy, err := decode.ParsePolicy(cfg.Decoder)
	if err != nil {
		return Options{}, err
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	var backend tensor.Backend
	switch cfg.Backend {
	case config.BackendGonum:
		backend = gonum.New()
	default:
		backend = cpu.NewWithConfig(parallel.Config{Workers: workers, MinChunkSize: 16})
	}

	return Options{
		Decoder:   policy,
		MaxLength: cfg.MaxLength,
		Overflow:  cfg.Overflow,
		BatchSize: cfg.BatchSize,
		Workers:   workers,
		Backend:   backend,
	}, nil
}

func (o Options) validate() error {
	if o.Backend == nil {
		return fmt.Errorf("options: backend is required")
	}
	if o.MaxLength <= 0 || o.BatchSize <= 0 {
		return fmt.Errorf("options: max length and batch size must be positive")
	}
	if o.Overflow != config.OverflowReject && o.Overflow != config.OverflowSplit {
		return fmt.Errorf("options: unknown overflow policy %q", o.Overflow)
	}
	if _, err := decode.ParsePolicy(string(o.Decoder)); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	return nil
}
