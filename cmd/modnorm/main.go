// Command modnorm rewrites AMD and CommonJS modules into a namespaced form
// suitable for whole-program concatenation: AMD define(...) calls become
// CommonJS require()/module.exports, and CommonJS require()/module.exports
// become goog.provide/goog.require-annotated namespaced objects.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modnorm/modnorm/internal/runner"
)

func main() {
	opts := &runner.Options{}

	root := &cobra.Command{
		Use:   "modnorm [files...]",
		Short: "Rewrite AMD and CommonJS modules into a namespaced, concatenable form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Inputs = args
			return runner.Run(opts)
		},
	}

	flags := root.Flags()
	flags.StringVar(&opts.BaseDir, "base-dir", "", "directory prefix stripped from source paths before deriving module names")
	flags.BoolVar(&opts.ReportDeps, "report-deps", false, "print a dependency-graph summary (unresolved requires, cycles) after rewriting")
	flags.BoolVar(&opts.SourceMap, "sourcemap", false, "emit a .map file alongside each rewritten file")
	flags.BoolVar(&opts.Watch, "watch", false, "re-run on file change")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
