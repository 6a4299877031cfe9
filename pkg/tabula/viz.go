package tabula

import (
	"fmt"
	"strconv"

	"github.com/tabula-dev/tabula/internal/dataset"
	"github.com/tabula-dev/tabula/internal/plot"
	"github.com/tabula-dev/tabula/internal/taberr"
)

// vizCode generates the sandbox code for a canned chart. Generated code
// uses only the sandbox bindings, so it rides the normal execution
// pipeline: screened, sandboxed, and recorded in history.
func vizCode(kind plot.Kind, column string, frame *dataset.Frame) (string, error) {
	switch kind {
	case plot.Histogram:
		col, err := pickNumeric(frame, column)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("plot.histogram(df.numeric(%s), 10, %s);",
			strconv.Quote(col), strconv.Quote("Distribution of "+col)), nil

	case plot.Line:
		col, err := pickNumeric(frame, column)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("plot.line(df.numeric(%s), %s);",
			strconv.Quote(col), strconv.Quote(col+" by row")), nil

	case plot.Scatter:
		x, y, err := pickNumericPair(frame, column)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("plot.scatter(df.numeric(%s), df.numeric(%s), %s);",
			strconv.Quote(x), strconv.Quote(y), strconv.Quote(y+" vs "+x)), nil

	case plot.Bar:
		col, err := pickCategorical(frame, column)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(`
			var counts = {};
			df.values(%s).forEach(function(v) { counts[v] = (counts[v] || 0) + 1; });
			var labels = Object.keys(counts);
			plot.bar(labels, labels.map(function(l) { return counts[l]; }), %s);
		`, strconv.Quote(col), strconv.Quote("Counts of "+col)), nil

	case plot.Heatmap:
		if len(frame.NumericColumnNames()) < 2 {
			return "", taberr.New(taberr.ErrColumnType, "heatmap needs at least two numeric columns")
		}
		return fmt.Sprintf(`
			var c = df.corr();
			plot.heatmap(c.columns, c.matrix, %s);
		`, strconv.Quote("Correlation matrix")), nil
	}

	return "", taberr.Newf(taberr.ErrArtifactCapture, "unknown chart type %q", kind)
}

// pickNumeric resolves the requested numeric column, defaulting to the
// first numeric column of the frame.
func pickNumeric(frame *dataset.Frame, column string) (string, error) {
	if column != "" {
		col, err := frame.Column(column)
		if err != nil {
			return "", err
		}
		if !col.IsNumeric() {
			return "", taberr.New(taberr.ErrColumnType, "chart needs a numeric column").
				WithColumn(column)
		}
		return column, nil
	}
	numeric := frame.NumericColumnNames()
	if len(numeric) == 0 {
		return "", taberr.New(taberr.ErrColumnType, "dataset has no numeric columns")
	}
	return numeric[0], nil
}

// pickNumericPair resolves x and y for a scatter chart. An explicit column
// becomes x, paired with the next numeric column.
func pickNumericPair(frame *dataset.Frame, column string) (string, string, error) {
	numeric := frame.NumericColumnNames()
	if len(numeric) < 2 {
		return "", "", taberr.New(taberr.ErrColumnType, "scatter needs at least two numeric columns")
	}
	if column == "" {
		return numeric[0], numeric[1], nil
	}

	x, err := pickNumeric(frame, column)
	if err != nil {
		return "", "", err
	}
	for _, name := range numeric {
		if name != x {
			return x, name, nil
		}
	}
	return "", "", taberr.New(taberr.ErrColumnType, "scatter needs a second numeric column").
		WithColumn(column)
}

// pickCategorical resolves the requested string column, defaulting to the
// first categorical column of the frame.
func pickCategorical(frame *dataset.Frame, column string) (string, error) {
	if column != "" {
		col, err := frame.Column(column)
		if err != nil {
			return "", err
		}
		if col.IsNumeric() {
			return "", taberr.New(taberr.ErrColumnType, "bar chart needs a categorical column").
				WithColumn(column)
		}
		return column, nil
	}
	categorical := frame.CategoricalColumnNames()
	if len(categorical) == 0 {
		return "", taberr.New(taberr.ErrColumnType, "dataset has no categorical columns")
	}
	return categorical[0], nil
}
