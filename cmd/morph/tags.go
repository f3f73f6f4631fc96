package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func tagsCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "print the tag inventory of a model, one tag per line",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "lemma-ops", Usage: "print the lemma operations instead"},
		},
		Action: func(c *cli.Context) error {
			an, _, _, err := setup(c, ui)
			if err != nil {
				return err
			}
			list := an.Tags()
			if c.Bool("lemma-ops") {
				list = an.LemmaOps()
			}
			for _, s := range list {
				if _, err := fmt.Fprintln(ui.Out, s); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
