package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/born-ml/morpho/internal/analyzer"
)

// Output formats.
const (
	formatJSON   = "json"
	formatCoNLLU = "conllu"
)

func analyzeCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "analyze a file or stdin",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "lines", Aliases: []string{"l"}, Usage: "input is one pre-tokenized sentence per line"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: formatJSON, Usage: "output format: json or conllu"},
			&cli.StringFlag{Name: "overflow", Usage: "long sentences: reject or split"},
			&cli.IntFlag{Name: "max-length", Usage: "maximum tokens per sentence"},
			&cli.BoolFlag{Name: "progress", Usage: "show a progress bar on stderr"},
		},
		Action: func(c *cli.Context) error {
			format := c.String("format")
			if format != formatJSON && format != formatCoNLLU {
				return fmt.Errorf("unknown format %q", format)
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.IsSet("overflow") {
				cfg.Overflow = c.String("overflow")
			}
			if c.IsSet("max-length") {
				cfg.MaxLength = c.Int("max-length")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(ui.Err, cfg)
			defer func() { _ = logger.Sync() }()
			an, err := loadAnalyzer(cfg, logger)
			if err != nil {
				return err
			}

			in := ui.In
			if path := c.Args().First(); path != "" && path != "-" {
				f, err := os.Open(path) //nolint:gosec // path is given by the user
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			sentences, err := readSentences(in, an, c.Bool("lines"))
			if err != nil {
				return err
			}
			if len(sentences) == 0 {
				return analyzer.ErrEmptyBatch
			}

			out := bufio.NewWriter(ui.Out)
			w := newResultWriter(out, format)
			chunk := cfg.BatchSize * 8

			var bar *uiprogress.Bar
			if c.Bool("progress") {
				p := uiprogress.New()
				p.SetOut(ui.Err)
				bar = p.AddBar(len(sentences))
				bar.AppendCompleted()
				bar.PrependElapsed()
				p.Start()
				defer p.Stop()
			}

			failed := 0
			for start := 0; start < len(sentences); start += chunk {
				part := sentences[start:min(start+chunk, len(sentences))]
				results, err := an.Analyze(part)
				if err != nil {
					return err
				}
				for i, res := range results {
					if res.Err != nil {
						failed++
						logger.Warn("sentence skipped", zap.Int("sentence", start+i+1), zap.Error(res.Err))
					}
					if err := w.write(start+i+1, part[i], res); err != nil {
						return err
					}
				}
				if bar != nil {
					_ = bar.Set(start + len(part))
				}
			}
			logger.Debug("analyzed", zap.Int("sentences", len(sentences)), zap.Int("failed", failed))
			return out.Flush()
		},
	}
}

// readSentences reads tokenized sentences from in. In line mode each
// non-blank line is a sentence of whitespace separated tokens; otherwise
// the input is raw text split by the analyzer's tokenizer.
func readSentences(in io.Reader, an *analyzer.Analyzer, lines bool) ([][]string, error) {
	if !lines {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, err
		}
		return an.Tokenize(string(data)), nil
	}

	var sentences [][]string
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		if tokens := strings.Fields(sc.Text()); len(tokens) > 0 {
			sentences = append(sentences, tokens)
		}
	}
	return sentences, sc.Err()
}

type resultWriter struct {
	w      io.Writer
	format string
	enc    *json.Encoder
}

func newResultWriter(w io.Writer, format string) *resultWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &resultWriter{w: w, format: format, enc: enc}
}

type sentenceRecord struct {
	Sentence int                 `json:"sentence"`
	Analyses []analyzer.Analysis `json:"analyses"`
	Error    string              `json:"error,omitempty"`
}

func (rw *resultWriter) write(id int, tokens []string, res analyzer.Result) error {
	if rw.format == formatJSON {
		rec := sentenceRecord{Sentence: id, Analyses: res.Analyses}
		if rec.Analyses == nil {
			rec.Analyses = []analyzer.Analysis{}
		}
		if res.Err != nil {
			rec.Error = res.Err.Error()
		}
		return rw.enc.Encode(rec)
	}
	return writeCoNLLU(rw.w, id, tokens, res)
}

// writeCoNLLU writes one sentence in CoNLL-U. Syntactic columns are left
// empty and the tag confidence goes to MISC.
func writeCoNLLU(w io.Writer, id int, tokens []string, res analyzer.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# sent_id = %d\n", id)
	fmt.Fprintf(&b, "# text = %s\n", strings.Join(tokens, " "))
	if res.Err != nil {
		fmt.Fprintf(&b, "# error = %s\n", res.Err)
	}
	for _, a := range res.Analyses {
		feats := "_"
		if _, f, ok := strings.Cut(a.TagString, "|"); ok {
			feats = f
		}
		b.WriteString(strings.Join([]string{
			strconv.Itoa(a.Position + 1),
			a.Token,
			a.Lemma,
			a.POS,
			"_",
			feats,
			"_", "_", "_",
			"Conf=" + strconv.FormatFloat(a.Confidence, 'f', 4, 64),
		}, "\t"))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
