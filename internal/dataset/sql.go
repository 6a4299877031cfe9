package dataset

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/tabula-dev/tabula/internal/taberr"
)

// SQLSource loads a frame from a SQL database. Query takes precedence over
// Table; when only Table is set the whole table is selected.
//
// Drivers are not imported here. Hosts that use SQL sources import the
// driver they need (lib/pq for postgres, modernc.org/sqlite for sqlite),
// the way cmd/tabula does.
type SQLSource struct {
	URL   string
	Table string
	Query string
}

// Load implements Source.
func (s SQLSource) Load() (*Frame, error) {
	dialect := detectDialect(s.URL)
	db, err := openDatabase(s.URL, dialect)
	if err != nil {
		return nil, taberr.Wrap(taberr.ErrSourceConnection, err, "cannot open database").
			With("url", redactURL(s.URL))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, taberr.Wrap(taberr.ErrSourceConnection, err, "cannot reach database").
			With("url", redactURL(s.URL))
	}

	query := s.Query
	if query == "" {
		if s.Table == "" {
			return nil, taberr.New(taberr.ErrSourceQuery, "SQL source needs a table or a query")
		}
		query = fmt.Sprintf("SELECT * FROM %s", quoteIdent(s.Table, dialect))
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, taberr.Wrap(taberr.ErrSourceQuery, err, "query failed").
			With("url", redactURL(s.URL))
	}
	defer rows.Close()

	return frameFromRows(rows)
}

// frameFromRows scans a result set into a frame, inferring column kinds from
// the scanned Go values of the first pass.
func frameFromRows(rows *sql.Rows) (*Frame, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, taberr.Wrap(taberr.ErrSourceQuery, err, "cannot read result columns")
	}

	raw := make([][]any, 0, 64)
	for rows.Next() {
		cells := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, taberr.Wrap(taberr.ErrSourceQuery, err, "cannot scan result row")
		}
		raw = append(raw, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, taberr.Wrap(taberr.ErrSourceQuery, err, "result iteration failed")
	}

	frame := NewFrame()
	for j, name := range names {
		col := columnFromCells(name, raw, j)
		if err := frame.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// columnFromCells classifies column j of the scanned rows and converts it.
func columnFromCells(name string, rows [][]any, j int) *Column {
	kind := Int
	for _, row := range rows {
		switch v := row[j].(type) {
		case nil:
		case int64:
		case float64:
			if kind == Int {
				kind = Float
			}
		case []byte:
			_ = v
			kind = String
		default:
			kind = String
		}
		if kind == String {
			break
		}
	}

	col := &Column{Name: name, Kind: kind}
	for _, row := range rows {
		cell := row[j]
		if kind == String {
			col.Strings = append(col.Strings, cellString(cell))
			continue
		}
		switch v := cell.(type) {
		case int64:
			col.Floats = append(col.Floats, float64(v))
		case float64:
			col.Floats = append(col.Floats, v)
		default:
			col.Floats = append(col.Floats, math.NaN())
		}
	}
	return col
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// quoteIdent quotes a table identifier for the dialect.
func quoteIdent(name, dialect string) string {
	escaped := strings.ReplaceAll(name, `"`, `""`)
	_ = dialect // both supported dialects accept double quotes
	return `"` + escaped + `"`
}

// detectDialect infers the dialect from a database URL.
func detectDialect(url string) string {
	url = strings.ToLower(url)

	switch {
	case strings.HasPrefix(url, "postgres://"),
		strings.HasPrefix(url, "postgresql://"):
		return "postgres"

	case strings.HasPrefix(url, "sqlite://"),
		strings.HasPrefix(url, "sqlite3://"),
		strings.HasPrefix(url, "file:"):
		return "sqlite"

	case strings.HasSuffix(url, ".db"),
		strings.HasSuffix(url, ".sqlite"),
		strings.HasSuffix(url, ".sqlite3"):
		return "sqlite"
	}

	// Default to postgres if no match
	return "postgres"
}

// openDatabase opens a database connection based on the dialect.
func openDatabase(url, dialect string) (*sql.DB, error) {
	var driverName string
	var dsn string

	switch dialect {
	case "postgres":
		driverName = "postgres"
		dsn = url

	case "sqlite":
		driverName = "sqlite"
		dsn = convertSQLiteURL(url)

	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}

	return sql.Open(driverName, dsn)
}

// convertSQLiteURL converts a sqlite:// URL to a file path, or returns the
// path as-is. Query parameters pass through to the driver.
func convertSQLiteURL(url string) string {
	url = strings.TrimPrefix(url, "sqlite://")
	url = strings.TrimPrefix(url, "sqlite3://")
	url = strings.TrimPrefix(url, "file:")
	return url
}

// redactURL removes credentials from a database URL for error context.
func redactURL(url string) string {
	start := strings.Index(url, "://")
	if start == -1 {
		return url
	}
	start += 3

	end := strings.Index(url[start:], "@")
	if end == -1 {
		return url
	}
	end += start

	credentials := url[start:end]
	if colonIdx := strings.Index(credentials, ":"); colonIdx != -1 {
		user := credentials[:colonIdx]
		return url[:start] + user + ":***@" + url[end+1:]
	}

	return url
}
