package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"strings"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/database/common"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/types"
	duckdb "github.com/duckdb/duckdb-go/v2"
	"github.com/shopspring/decimal"
)

type Adapter struct {
	db *sql.DB
}

func New() *Adapter {
	return &Adapter{}
}

// Connect opens a DuckDB database file. An empty path (or "duckdb://") opens
// an in-memory database.
func (d *Adapter) Connect(ctx context.Context, url string) error {
	path := strings.TrimPrefix(url, "duckdb://")

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open DuckDB database: %w", err)
	}
	// a single connection keeps in-memory databases visible to every query
	db.SetMaxOpenConns(1)

	d.db = db
	return nil
}

func (d *Adapter) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

func (d *Adapter) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *Adapter) Dialect() common.Dialect {
	return common.DuckDBDialect
}

func (d *Adapter) Query(ctx context.Context, query string, args ...interface{}) (*common.QueryResult, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	result, err := common.ScanRows(rows)
	if err != nil {
		return nil, err
	}
	for _, row := range result.Rows {
		for col, val := range row {
			row[col] = formatValue(val)
		}
	}
	return result, nil
}

func (d *Adapter) GetAllTableNames(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}
	return tables, rows.Err()
}

func (d *Adapter) GetTableColumns(ctx context.Context, tableName string) ([]types.SchemaColumn, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = ?
		ORDER BY ordinal_position
	`, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for %s: %w", tableName, err)
	}
	defer rows.Close()

	var columns []types.SchemaColumn
	for rows.Next() {
		var column types.SchemaColumn
		var isNullable string
		var columnDefault sql.NullString
		if err := rows.Scan(&column.Name, &column.Type, &isNullable, &columnDefault); err != nil {
			return nil, err
		}
		column.Nullable = isNullable == "YES"
		column.Default = columnDefault.String
		columns = append(columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", tableName)
	}
	return columns, nil
}

// formatValue renders DuckDB's wide numeric types as decimal strings so the
// caller can decide whether they still fit a plain number.
func formatValue(val interface{}) interface{} {
	switch v := val.(type) {
	case *big.Int:
		if v == nil {
			return nil
		}
		return v.String()
	case duckdb.Decimal:
		if v.Value == nil {
			return nil
		}
		return decimal.NewFromBigInt(v.Value, -int32(v.Scale)).String()
	default:
		return val
	}
}
