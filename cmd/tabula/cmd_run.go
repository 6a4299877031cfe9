package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tabula-dev/tabula/internal/cli"
	"github.com/tabula-dev/tabula/pkg/tabula"
)

// runCmd runs a script file against a dataset, optionally re-running it
// whenever the file changes.
func runCmd() *cobra.Command {
	var datasetName string
	var watch bool
	var showHistory bool

	cmd := &cobra.Command{
		Use:   "run <script.js>",
		Short: "Run a script file against a dataset",
		Long: `Runs a JavaScript analysis script against the named dataset.

With --watch the script is re-run every time the file changes. The session
persists across runs, so dataset mutations accumulate and every successful
run is recorded in the execution history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script := args[0]

			s, err := loadedSession(datasetName)
			if err != nil {
				return err
			}

			if err := runScript(s, script); err != nil {
				if !watch {
					return err
				}
				// In watch mode a failed run is not fatal; the next save
				// gets a fresh chance.
				fmt.Fprint(os.Stderr, cli.FormatError(err))
			}

			if watch {
				return watchScript(s, script)
			}

			if showHistory {
				fmt.Println()
				printHistory(s)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&datasetName, "dataset", "D", "iris", "Dataset to load")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-run the script when the file changes")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Print the execution history after the run")

	return cmd
}

// runScript reads and executes one script file.
func runScript(s *tabula.Session, script string) error {
	data, err := os.ReadFile(script)
	if err != nil {
		return fmt.Errorf("cannot read script: %w", err)
	}

	res, err := s.ExecuteCode(string(data))
	if err != nil {
		return err
	}
	printExecResult(res)
	return nil
}

// watchScript re-runs the script on every change until interrupted.
// The parent directory is watched because editors often save via rename,
// which replaces the watched inode.
func watchScript(s *tabula.Session, script string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("file watcher failed: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(script)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}

	fmt.Println(cli.Dim(fmt.Sprintf("watching %s (Ctrl+C to stop)", script)))

	target, _ := filepath.Abs(script)
	var lastRun time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			changed, _ := filepath.Abs(event.Name)
			if changed != target {
				continue
			}
			// Editors fire several events per save; debounce them.
			if time.Since(lastRun) < 100*time.Millisecond {
				continue
			}
			lastRun = time.Now()

			fmt.Println()
			fmt.Println(cli.Dim(time.Now().Format("15:04:05") + " re-running"))
			if err := runScript(s, script); err != nil {
				fmt.Fprint(os.Stderr, cli.FormatError(err))
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// printHistory renders the execution history and its merkle root.
func printHistory(s *tabula.Session) {
	entries := s.History()
	if len(entries) == 0 {
		fmt.Println(cli.Dim("no executions recorded"))
		return
	}

	tbl := cli.NewTable("#", "ID", "TIME", "CODE")
	for i, e := range entries {
		tbl.AddRow(
			strconv.Itoa(i+1),
			shorten(e.ID, 8),
			e.Timestamp.Format("15:04:05"),
			shorten(strings.ReplaceAll(e.Code, "\n", " "), 48),
		)
	}
	fmt.Print(tbl.String())

	if root, err := s.HistoryRoot(); err == nil {
		fmt.Println(cli.FormatKeyValue("root", root))
	}
}

// shorten truncates a string for table display.
func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
