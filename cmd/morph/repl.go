package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	prompt "github.com/c-bata/go-prompt"
	"github.com/urfave/cli/v2"

	"github.com/born-ml/morpho/internal/analyzer"
)

var replCommands = []prompt.Suggest{
	{Text: ":tags", Description: "list the tag inventory"},
	{Text: ":ops", Description: "list the lemma operations"},
	{Text: ":quit", Description: "leave the repl"},
}

func replCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "analyze text interactively",
		Action: func(c *cli.Context) error {
			an, _, _, err := setup(c, ui)
			if err != nil {
				return err
			}
			fmt.Fprintln(ui.Out, "Type a sentence, :tags, :ops or :quit.")

			history := []string{}
			for {
				in := prompt.Input("morph> ", replCompleter,
					prompt.OptionTitle("morph repl"),
					prompt.OptionPrefixTextColor(prompt.Yellow),
					prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
					prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
					prompt.OptionSuggestionBGColor(prompt.DarkGray),
					prompt.OptionHistory(history),
				)
				line := strings.TrimSpace(in)
				if line == ":quit" || line == ":q" {
					return nil
				}
				if line == "" {
					continue
				}
				history = append(history, in)
				if err := replLine(ui.Out, an, line); err != nil {
					fmt.Fprintf(ui.Out, "error: %s\n", err)
				}
			}
		},
	}
}

func replCompleter(in prompt.Document) []prompt.Suggest {
	before := in.TextBeforeCursor()
	if !strings.HasPrefix(before, ":") {
		return nil
	}
	return prompt.FilterHasPrefix(replCommands, before, true)
}

// replLine runs one repl input and prints the outcome as a table.
func replLine(w io.Writer, an *analyzer.Analyzer, line string) error {
	switch line {
	case ":tags":
		return printList(w, an.Tags())
	case ":ops":
		return printList(w, an.LemmaOps())
	}

	results, err := an.AnalyzeText(line)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(tw, "! %s\n", res.Err)
			continue
		}
		for _, a := range res.Analyses {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.3f\n", a.Position+1, a.Token, a.Lemma, a.TagString, a.Confidence)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func printList(w io.Writer, list []string) error {
	for _, s := range list {
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}
