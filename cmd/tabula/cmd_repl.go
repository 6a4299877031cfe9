package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tabula-dev/tabula/internal/cli"
	"github.com/tabula-dev/tabula/pkg/tabula"
)

// replCmd starts an interactive analysis session.
func replCmd() *cobra.Command {
	var datasetName string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive analysis session",
		Long: `Starts an interactive session against the named dataset. Lines are
executed as JavaScript in the sandbox; lines starting with ':' are
session commands.

Commands:
  :load <name>   load a different dataset
  :info          show the dataset schema
  :datasets      list loadable datasets
  :history       show the execution history
  :verify        verify the history hash chain
  :reset         reload the dataset and clear history
  :quit          exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadedSession(datasetName)
			if err != nil {
				return err
			}

			fmt.Printf("tabula %s, dataset %q loaded (:quit to exit)\n", version, datasetName)
			return repl(s)
		},
	}

	cmd.Flags().StringVarP(&datasetName, "dataset", "D", "iris", "Dataset to load")

	return cmd
}

// repl reads lines from stdin until EOF or :quit.
func repl(s *tabula.Session) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print(cli.Highlight("> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if quit := replCommand(s, line); quit {
				return nil
			}
			continue
		}

		res, err := s.ExecuteCode(line)
		if err != nil {
			fmt.Fprint(os.Stderr, cli.FormatError(err))
			continue
		}
		printExecResult(res)
	}
}

// replCommand handles a ':' session command. Returns true on :quit.
func replCommand(s *tabula.Session, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true

	case ":load":
		if len(fields) != 2 {
			fmt.Println("usage: :load <name>")
			return false
		}
		info, err := s.LoadDataset(fields[1])
		if err != nil {
			fmt.Fprint(os.Stderr, cli.FormatError(err))
			return false
		}
		fmt.Printf("loaded %q (%d rows, %d columns)\n", info.Name, info.Rows, info.Columns)

	case ":info":
		info, err := s.DatasetInfo()
		if err != nil {
			fmt.Fprint(os.Stderr, cli.FormatError(err))
			return false
		}
		printInfo(info)

	case ":datasets":
		for _, name := range s.Datasets() {
			fmt.Println("  " + name)
		}

	case ":history":
		printHistory(s)

	case ":verify":
		if err := s.VerifyHistory(); err != nil {
			fmt.Fprint(os.Stderr, cli.FormatError(err))
			return false
		}
		fmt.Print(cli.FormatSuccess("history chain intact"))

	case ":reset":
		info, err := s.Reset()
		if err != nil {
			fmt.Fprint(os.Stderr, cli.FormatError(err))
			return false
		}
		if info == nil {
			fmt.Println("history cleared, no dataset loaded")
		} else {
			fmt.Printf("reset %q (%d rows, %d columns), history cleared\n", info.Name, info.Rows, info.Columns)
		}

	default:
		fmt.Printf("unknown command %s\n", fields[0])
	}
	return false
}
