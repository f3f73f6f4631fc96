package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/born-ml/morpho/internal/serialization"
)

const version = "v" + serialization.Version

func versionCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version",
		Action: func(*cli.Context) error {
			_, err := fmt.Fprintf(ui.Out, "morph %s (artifact format v%d)\n", version, serialization.FormatVersionV2)
			return err
		},
	}
}
