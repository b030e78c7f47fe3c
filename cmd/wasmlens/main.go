// Command wasmlens analyzes WebAssembly binary modules: call graph,
// memory profile, inferred capabilities, performance estimate, and
// runtime compatibility.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wasmlens/wasmlens/analyzer"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCodeFor(err))
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "wasmlens",
		Short: "Static analyzer for WebAssembly binary modules",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log, err := zap.NewDevelopment()
			if err == nil {
				analyzer.SetLogger(log)
			}
		}
	}

	root.AddCommand(analyzeCmd())
	root.AddCommand(browseCmd())
	return root
}
