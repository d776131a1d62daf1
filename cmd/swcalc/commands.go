package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Savaged-us/core-sub000/internal/game/character"
)

func newCalcCmd(appFn func() *app, in io.Reader, out io.Writer) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "calc <character.json|->",
		Short: "Print the derived statistics of a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := appFn().load(args[0], in)
			if err != nil {
				return err
			}
			s := summarize(c)
			if asJSON {
				return writeJSON(out, s)
			}
			return s.write(out)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func newValidateCmd(appFn func() *app, in io.Reader, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <character.json|->",
		Short: "Print validation messages; exits 1 when any message is an error",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := appFn().load(args[0], in)
			if err != nil {
				return err
			}
			msgs := c.ValidationMessages()
			if len(msgs) == 0 {
				fmt.Fprintln(out, "valid")
			}
			for _, m := range msgs {
				fmt.Fprintf(out, "%-11s %s\n", m.Severity, m.Message)
			}
			if c.ValidLevel() == character.Error {
				return errInvalid
			}
			return nil
		},
	}
}

func newSchemaCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:         "schema",
		Short:       "Print the JSON schema of the character document",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"catalog": "none"},
		RunE: func(*cobra.Command, []string) error {
			return writeJSON(out, character.ExportSchema())
		},
	}
}

func newNewCmd(appFn func() *app, out io.Writer) *cobra.Command {
	var (
		choices character.Choices
		output  string
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Build a character from creation choices and print its document",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			a := appFn()
			c, err := character.Build(a.cat, choices, a.opts...)
			if err != nil {
				return err
			}
			data, err := c.ExportObj()
			if err != nil {
				return fmt.Errorf("exporting character: %w", err)
			}
			if output != "" {
				return os.WriteFile(output, append(data, '\n'), 0o644)
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&choices.Name, "name", "", "character name")
	f.StringVar(&choices.Setting, "setting", "", "setting name")
	f.StringVar(&choices.Race, "race", "", "race name")
	f.StringToStringVar(&choices.Attributes, "attr", nil, "attribute dice, e.g. --attr agility=d8")
	f.StringToStringVar(&choices.Skills, "skill", nil, "skill dice, e.g. --skill fighting=d6")
	f.StringArrayVar(&choices.Edges, "edge", nil, `edge names, e.g. --edge "Scholar (History)"`)
	f.StringArrayVar(&choices.Hindrances, "hindrance", nil, `hindrance names, e.g. --hindrance "Bad Eyes (Major)"`)
	f.StringVarP(&output, "out", "o", "", "write the document to this file instead of stdout")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// joinOrDash renders a list for the text summary.
func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
