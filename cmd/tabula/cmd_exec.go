package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tabula-dev/tabula/internal/cli"
	"github.com/tabula-dev/tabula/pkg/tabula"
)

// execCmd runs analysis code against a dataset.
func execCmd() *cobra.Command {
	var datasetName string
	var codeFile string

	cmd := &cobra.Command{
		Use:   "exec [code]",
		Short: "Run analysis code against a dataset",
		Long: `Runs JavaScript analysis code against the named dataset inside the
restricted sandbox. The code sees the dataset as df, along with the
stats, ml, and plot helpers.

Examples:
  tabula exec 'print(df.shape())'
  tabula exec 'print(stats.mean(df.numeric("sepal_length")))'
  tabula exec -f analysis.js --dataset iris`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(args, codeFile)
			if err != nil {
				return err
			}

			s, err := loadedSession(datasetName)
			if err != nil {
				return err
			}

			if cli.JSONOutput() {
				payload, err := tabula.NewToolkit(s).ExecuteCode(code)
				if err != nil {
					return err
				}
				fmt.Println(payload)
				return nil
			}

			res, err := s.ExecuteCode(code)
			if err != nil {
				return err
			}
			printExecResult(res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&datasetName, "dataset", "D", "iris", "Dataset to load")
	cmd.Flags().StringVarP(&codeFile, "file", "f", "", "Read code from file instead of argument")

	return cmd
}

// readCode resolves the code to execute from the argument or --file flag.
func readCode(args []string, codeFile string) (string, error) {
	if codeFile != "" {
		data, err := os.ReadFile(codeFile)
		if err != nil {
			return "", fmt.Errorf("cannot read code file: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return "", fmt.Errorf("provide code as an argument or via --file")
}

// printExecResult renders an execution result for terminal output.
func printExecResult(res *tabula.ExecResult) {
	if out := strings.TrimRight(res.Output, "\n"); out != "" {
		fmt.Println(out)
	}
	if res.Truncated {
		fmt.Println(cli.Dim("(output truncated)"))
	}
	if res.Value != nil {
		fmt.Println(cli.Highlight(fmt.Sprintf("=> %v", res.Value)))
	}
	if res.Artifact != nil && res.Artifact.Path != "" {
		fmt.Println(cli.FormatKeyValue("artifact", res.Artifact.Path))
	}
	fmt.Println(cli.Dim(fmt.Sprintf("ok in %s, dataset %dx%d", res.Duration, res.Shape[0], res.Shape[1])))
}
