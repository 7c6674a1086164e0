package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/types"
)

func (m *Adapter) GetAllTableNames(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
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

func (m *Adapter) GetTableColumns(ctx context.Context, tableName string) ([]types.SchemaColumn, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT
			c.COLUMN_NAME,
			c.COLUMN_TYPE,
			c.IS_NULLABLE,
			c.COLUMN_DEFAULT,
			c.COLUMN_KEY,
			k.REFERENCED_TABLE_NAME,
			k.REFERENCED_COLUMN_NAME
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE k
			ON c.TABLE_SCHEMA = k.TABLE_SCHEMA
			AND c.TABLE_NAME = k.TABLE_NAME
			AND c.COLUMN_NAME = k.COLUMN_NAME
			AND k.REFERENCED_TABLE_NAME IS NOT NULL
		WHERE c.TABLE_SCHEMA = DATABASE() AND c.TABLE_NAME = ?
		ORDER BY c.ORDINAL_POSITION`, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for %s: %w", tableName, err)
	}
	defer rows.Close()

	var columns []types.SchemaColumn
	seen := make(map[string]bool)
	for rows.Next() {
		var column types.SchemaColumn
		var isNullable, columnKey string
		var columnDefault, refTable, refColumn sql.NullString

		if err := rows.Scan(&column.Name, &column.Type, &isNullable, &columnDefault,
			&columnKey, &refTable, &refColumn); err != nil {
			return nil, err
		}

		// composite foreign keys repeat the column
		if seen[column.Name] {
			continue
		}
		seen[column.Name] = true

		column.Nullable = isNullable == "YES"
		column.IsPrimary = columnKey == "PRI"
		column.Default = columnDefault.String
		column.ForeignKeyTable = refTable.String
		column.ForeignKeyColumn = refColumn.String
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
