// Command morph tags Russian text with part of speech, grammatical features
// and lemmas.
//
// Usage:
//
//	morph [global flags] <command> [flags] [args]
//
// Commands:
//
//	analyze    analyze a file or stdin
//	repl       analyze interactively
//	serve      run the HTTP API
//	tags       print the tag inventory of a model
//	init-demo  write a toy model artifact
//	version    print the version
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/born-ml/morpho/internal/analyzer"
	"github.com/born-ml/morpho/internal/config"
)

// UI contains the input and output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "morph: %v\n", err)
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:      "morph",
		Usage:     "neural morphological tagger for Russian",
		Version:   version,
		Reader:    ui.In,
		Writer:    ui.Out,
		ErrWriter: ui.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file", EnvVars: []string{"MORPH_CONFIG"}},
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "model artifact (.morph)", EnvVars: []string{"MORPH_MODEL"}},
			&cli.StringFlag{Name: "decoder", Usage: "decoding policy: greedy or viterbi"},
			&cli.StringFlag{Name: "backend", Usage: "compute backend: cpu or gonum"},
			&cli.IntFlag{Name: "workers", Usage: "concurrent batches, 0 for one per CPU"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Commands: []*cli.Command{
			analyzeCommand(ui),
			replCommand(ui),
			serveCommand(ui),
			tagsCommand(ui),
			initDemoCommand(ui),
			versionCommand(ui),
		},
	}
}

// loadConfig reads the configuration file, if any, and applies the global
// flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if c.IsSet("model") {
		cfg.Model = c.String("model")
	}
	if c.IsSet("decoder") {
		cfg.Decoder = c.String("decoder")
	}
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger writes console-encoded entries at the configured level to w.
func newLogger(w io.Writer, cfg config.Config) *zap.Logger {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

// loadAnalyzer loads the configured model.
func loadAnalyzer(cfg config.Config, logger *zap.Logger) (*analyzer.Analyzer, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("no model given: use --model or the config file")
	}
	opts, err := analyzer.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	an, err := analyzer.Load(cfg.Model, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("model loaded",
		zap.String("path", cfg.Model),
		zap.Int("tags", len(an.Tags())),
		zap.String("decoder", string(an.Decoder())),
		zap.String("backend", opts.Backend.Name()))
	return an, nil
}

// setup is the common prologue of commands that need a model.
func setup(c *cli.Context, ui UI) (*analyzer.Analyzer, config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	logger := newLogger(ui.Err, cfg)
	an, err := loadAnalyzer(cfg, logger)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	return an, cfg, logger, nil
}
