package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tabula-dev/tabula/internal/cli"
	"github.com/tabula-dev/tabula/pkg/tabula"
)

// infoCmd shows the schema and descriptive statistics of a dataset.
func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [dataset]",
		Short: "Show dataset schema and descriptive statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "iris"
			if len(args) > 0 {
				name = args[0]
			}

			s, err := loadedSession(name)
			if err != nil {
				return err
			}
			info, err := s.DatasetInfo()
			if err != nil {
				return err
			}

			if cli.JSONOutput() {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			printInfo(info)
			return nil
		},
	}
}

// printInfo renders a dataset summary for terminal output.
func printInfo(info *tabula.DatasetInfo) {
	fmt.Println(cli.Header(info.Name))
	fmt.Println(cli.FormatKeyValue("shape", fmt.Sprintf("%d rows x %d columns", info.Rows, info.Columns)))
	fmt.Println()

	cols := cli.NewTable("COLUMN", "DTYPE", "MISSING")
	for _, name := range info.Names {
		cols.AddRow(name, info.DTypes[name], strconv.Itoa(info.Missing[name]))
	}
	fmt.Print(cols.String())

	if len(info.Describe) > 0 {
		fmt.Println()
		stats := cli.NewTable("COLUMN", "COUNT", "MEAN", "STD", "MIN", "50%", "MAX")
		for _, name := range info.Numeric {
			s, ok := info.Describe[name]
			if !ok {
				continue
			}
			stats.AddRow(
				name,
				strconv.Itoa(s.Count),
				formatStat(s.Mean),
				formatStat(s.Std),
				formatStat(s.Min),
				formatStat(s.P50),
				formatStat(s.Max),
			)
		}
		fmt.Print(stats.String())
	}
}

// formatStat renders a statistic with a compact fixed precision.
func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
