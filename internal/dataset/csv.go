package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/tabula-dev/tabula/internal/taberr"
)

// ParseCSV reads a CSV stream with a header row into a frame. Column types
// are inferred per column: all-integer cells become Int, any fractional
// numeric cell promotes the column to Float, anything else is String. Empty
// cells are missing values.
func ParseCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, taberr.Wrap(taberr.ErrSourceParse, err, "malformed CSV input")
	}
	if len(records) == 0 {
		return nil, taberr.New(taberr.ErrSourceParse, "CSV input has no header row")
	}

	header := records[0]
	rows := records[1:]
	frame := NewFrame()

	for j, name := range header {
		col := inferColumn(name, rows, j)
		if err := frame.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// inferColumn builds column j from the raw rows, picking the narrowest kind
// that holds every non-empty cell.
func inferColumn(name string, rows [][]string, j int) *Column {
	kind := Int
	for _, row := range rows {
		if j >= len(row) || row[j] == "" {
			continue
		}
		cell := row[j]
		if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			if kind == Int {
				kind = Float
			}
			continue
		}
		kind = String
		break
	}

	col := &Column{Name: name, Kind: kind}
	for _, row := range rows {
		cell := ""
		if j < len(row) {
			cell = row[j]
		}
		if kind == String {
			col.Strings = append(col.Strings, cell)
			continue
		}
		if cell == "" {
			col.Floats = append(col.Floats, math.NaN())
			continue
		}
		v, _ := strconv.ParseFloat(cell, 64)
		col.Floats = append(col.Floats, v)
	}
	return col
}
