package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabula-dev/tabula/internal/cli"
)

// datasetsCmd lists the loadable dataset names.
func datasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List loadable datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			names := s.Datasets()

			if cli.JSONOutput() {
				data, err := json.MarshalIndent(map[string]any{"datasets": names}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			tbl := cli.NewTable("NAME")
			for _, name := range names {
				tbl.AddRow(name)
			}
			fmt.Print(tbl.String())
			fmt.Println()
			fmt.Println(cli.Dim(cli.FormatCount(len(names), "dataset available", "datasets available")))
			return nil
		},
	}
}
