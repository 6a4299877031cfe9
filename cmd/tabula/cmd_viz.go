package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabula-dev/tabula/internal/cli"
	"github.com/tabula-dev/tabula/pkg/tabula"
)

// vizCmd renders a chart of a dataset.
func vizCmd() *cobra.Command {
	var datasetName string
	var column string

	cmd := &cobra.Command{
		Use:   "viz <type>",
		Short: "Render a chart of the dataset",
		Long: `Renders a chart of the named dataset and writes it to the artifact
directory as a PNG.

Chart types: histogram, line, scatter, bar, heatmap

Without --column a sensible default column is chosen for the chart type:
a numeric column for histogram/line/scatter, a categorical column for bar.

Examples:
  tabula viz histogram --column sepal_length
  tabula viz heatmap
  tabula viz bar --column species --dataset iris`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadedSession(datasetName)
			if err != nil {
				return err
			}

			if cli.JSONOutput() {
				payload, err := tabula.NewToolkit(s).CreateChart(args[0], column)
				if err != nil {
					return err
				}
				fmt.Println(payload)
				return nil
			}

			res, err := s.Chart(args[0], column)
			if err != nil {
				return err
			}
			fmt.Print(cli.FormatSuccess("chart rendered"))
			if res.Artifact != nil && res.Artifact.Path != "" {
				fmt.Println(cli.FormatKeyValue("artifact", res.Artifact.Path))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&datasetName, "dataset", "D", "iris", "Dataset to load")
	cmd.Flags().StringVar(&column, "column", "", "Column to chart (defaults per chart type)")

	return cmd
}
