package common

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

type QueryResult struct {
	Columns []string
	Rows    []map[string]interface{}
}

// Dialect carries the store-specific parts of SQL rendering: identifier
// quoting, placeholder style and whether integer aggregates need an explicit cast.
type Dialect struct {
	Name        string
	Placeholder squirrel.PlaceholderFormat
	IntegerCast bool
	CastType    string
	quote       func(string) string
}

var (
	PostgresDialect = Dialect{
		Name:        "postgres",
		Placeholder: squirrel.Dollar,
		IntegerCast: true,
		CastType:    "BIGINT",
		quote:       pq.QuoteIdentifier,
	}
	MySQLDialect = Dialect{
		Name:        "mysql",
		Placeholder: squirrel.Question,
		CastType:    "SIGNED",
		quote:       quoteWith('`'),
	}
	SQLiteDialect = Dialect{
		Name:        "sqlite",
		Placeholder: squirrel.Question,
		CastType:    "INTEGER",
		quote:       quoteWith('"'),
	}
	DuckDBDialect = Dialect{
		Name:        "duckdb",
		Placeholder: squirrel.Question,
		IntegerCast: true,
		CastType:    "BIGINT",
		quote:       quoteWith('"'),
	}
)

// QuoteIdentifier quotes a table or column name for this dialect, doubling any
// embedded quote characters.
func (d Dialect) QuoteIdentifier(name string) string {
	if d.quote == nil {
		return quoteWith('"')(name)
	}
	return d.quote(name)
}

// WithIntegerCast returns a copy of the dialect with the aggregate cast toggled.
func (d Dialect) WithIntegerCast(enabled bool) Dialect {
	d.IntegerCast = enabled
	return d
}

func quoteWith(q rune) func(string) string {
	s := string(q)
	return func(name string) string {
		return s + strings.ReplaceAll(name, s, s+s) + s
	}
}

// DialectFor returns the dialect for a configured provider name.
func DialectFor(provider string) Dialect {
	switch provider {
	case "mysql":
		return MySQLDialect
	case "sqlite", "sqlite3":
		return SQLiteDialect
	case "duckdb":
		return DuckDBDialect
	default:
		return PostgresDialect
	}
}

// ScanRows drains rows into a QueryResult. Byte slices are turned into
// display-friendly strings; everything else is passed through.
func ScanRows(rows *sql.Rows) (*QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	results := make([]map[string]interface{}, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = FormatValue(values[i])
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &QueryResult{
		Columns: columns,
		Rows:    results,
	}, nil
}

// FormatValue converts database values to display-friendly formats
func FormatValue(val interface{}) interface{} {
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case []byte:
		if len(v) == 16 && !isPrintable(string(v)) {
			return FormatUUID(v)
		}
		if isPrintable(string(v)) {
			return string(v)
		}
		return fmt.Sprintf("0x%x", v)
	case [16]byte:
		return FormatUUID(v[:])
	}

	return val
}

func isPrintable(str string) bool {
	for _, r := range str {
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			return false
		}
	}
	return true
}

// FormatUUID converts a 16-byte slice to UUID string format
func FormatUUID(bytes []byte) string {
	if len(bytes) != 16 {
		return fmt.Sprintf("%v", bytes)
	}
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		bytes[0:4],
		bytes[4:6],
		bytes[6:8],
		bytes[8:10],
		bytes[10:16])
}
