// Command swcalc calculates and validates Savage Worlds characters against a content catalog.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Savaged-us/core-sub000/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, in io.Reader, out, errOut io.Writer) int {
	root := newRootCmd(in, out, errOut)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	v := config.NewViper()
	var a *app

	root := &cobra.Command{
		Use:           "swcalc",
		Short:         "Calculate and validate Savage Worlds characters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["catalog"] == "none" {
				return nil
			}
			var err error
			a, err = newApp(v, errOut)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a != nil {
				a.close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to a YAML config file")
	flags.String("catalog", "", "content catalog directory (overrides catalog.dir)")
	flags.Bool("registered-only", false, "drop content from books not flagged registered")
	flags.String("scripts", "", "directory of Lua directive scripts (overrides scripting.dir)")
	_ = v.BindPFlag("config", flags.Lookup("config"))
	_ = v.BindPFlag("catalog.dir", flags.Lookup("catalog"))
	_ = v.BindPFlag("catalog.registered_only", flags.Lookup("registered-only"))
	_ = v.BindPFlag("scripting.dir", flags.Lookup("scripts"))

	appFn := func() *app { return a }
	root.AddCommand(
		newCalcCmd(appFn, in, out),
		newValidateCmd(appFn, in, out),
		newNewCmd(appFn, out),
		newSchemaCmd(out),
	)
	return root
}
