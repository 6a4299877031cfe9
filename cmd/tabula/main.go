// Package main provides the CLI for the Tabula dataset analysis engine.
// Tabula loads a tabular dataset into an in-memory store and executes
// screened JavaScript analysis code against it inside a restricted sandbox,
// recording every successful execution in a tamper-evident history.
//
// Usage:
//
//	tabula datasets              # List loadable datasets
//	tabula info [dataset]        # Show dataset schema and statistics
//	tabula exec <code>           # Run analysis code against a dataset
//	tabula run <script.js>       # Run a script file (--watch to re-run on change)
//	tabula viz <type>            # Render a chart (histogram, line, scatter, bar, heatmap)
//	tabula repl                  # Interactive analysis session
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabula-dev/tabula/internal/cli"

	// Database drivers for SQL dataset sources
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// Global flags
var (
	configFile string
	jsonOutput bool
)

// customHelp displays a styled help message for the root command.
func customHelp(cmd *cobra.Command) {
	categories := []CommandCategory{
		{
			Title: "Datasets",
			Commands: []CommandInfo{
				{"datasets", "List loadable datasets"},
				{"info", "Show dataset schema and descriptive statistics"},
			},
		},
		{
			Title: "Analysis",
			Commands: []CommandInfo{
				{"exec", "Run analysis code against a dataset"},
				{"run", "Run a script file (--watch re-runs on change)"},
				{"viz", "Render a chart of the dataset"},
				{"repl", "Interactive analysis session"},
			},
		},
	}

	flags := []FlagInfo{
		{"-c, --config", "Path to config file (default: tabula.yaml)"},
		{"--json", "Output structured JSON"},
		{"-h, --help", "Show help information"},
		{"-v, --version", "Show version information"},
	}

	renderCategoryHelp(
		"Tabula - Dataset Analysis Engine",
		"Sandboxed JavaScript analysis over tabular datasets",
		categories,
		flags,
	)
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "tabula",
		Short:   "Sandboxed dataset analysis engine",
		Long:    `Tabula loads a tabular dataset and executes screened JavaScript analysis code against it inside a restricted sandbox, recording every successful execution in a tamper-evident history.`,
		Version: version,

		// Errors are rendered once, Cargo-style, in main.
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				cli.SetMode(cli.ModeJSON)
			}
		},
	}

	// Set custom help function
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		customHelp(cmd)
	})

	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "tabula.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output structured JSON")

	rootCmd.AddCommand(
		datasetsCmd(),
		infoCmd(),
		execCmd(),
		runCmd(),
		vizCmd(),
		replCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}
