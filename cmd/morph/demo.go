package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/born-ml/morpho/internal/model/modeltest"
	"github.com/born-ml/morpho/internal/serialization"
)

func initDemoCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "init-demo",
		Usage:     "write a toy model artifact",
		ArgsUsage: "<path>",
		Description: "Without --random the model tags \"кошка сидит на окне .\" and maps every\n" +
			"other word to X. With --random it is randomly initialised over --words.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "random", Usage: "write a randomly initialised model"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "random seed"},
			&cli.StringFlag{Name: "words", Value: "кошка сидит на окне .", Usage: "vocabulary of the random model"},
			&cli.UintFlag{Name: "format-version", Value: uint(serialization.FormatVersionV2), Usage: "artifact format version (1 or 2)"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("init-demo: missing output path")
			}
			a := modeltest.CatSits()
			if c.Bool("random") {
				a = modeltest.Random(c.Int64("seed"), strings.Fields(c.String("words"))...)
			}
			if err := serialization.WriteFile(path, a, uint32(c.Uint("format-version"))); err != nil {
				return err
			}
			_, err := fmt.Fprintf(ui.Out, "wrote %s (%d tags, %d words)\n", path, len(a.Tags), len(a.Vocab.Words))
			return err
		},
	}
}
