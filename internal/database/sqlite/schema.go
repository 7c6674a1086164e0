package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/types"
)

var typeMap = map[string]string{
	"varchar": "TEXT", "text": "TEXT", "char": "TEXT",
	"int": "INTEGER", "integer": "INTEGER", "bigint": "INTEGER", "smallint": "INTEGER", "tinyint": "INTEGER",
	"real": "REAL", "double": "REAL", "float": "REAL",
	"blob": "BLOB", "numeric": "NUMERIC", "decimal": "NUMERIC",
	"boolean": "INTEGER", "bool": "INTEGER",
	"date": "TEXT", "datetime": "TEXT", "timestamp": "TEXT",
}

// validateTableName guards the PRAGMA calls, which cannot take bound parameters.
func (s *Adapter) validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name is required")
	}
	if strings.ContainsAny(name, "\"\x00") {
		return fmt.Errorf("invalid table name: %q", name)
	}
	return nil
}

func (s *Adapter) GetTableColumns(ctx context.Context, tableName string) ([]types.SchemaColumn, error) {
	if err := s.validateTableName(tableName); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(\"%s\")", tableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []types.SchemaColumn
	for rows.Next() {
		var cid int
		var column types.SchemaColumn
		var dataType string
		var notNull int
		var defaultValue sql.NullString
		var pk int

		if err := rows.Scan(&cid, &column.Name, &dataType, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}

		column.Type = mapColumnType(dataType)
		column.Nullable = notNull == 0
		column.IsPrimary = pk > 0
		if defaultValue.Valid {
			column.Default = defaultValue.String
		}
		columns = append(columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", tableName)
	}

	fkRows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(\"%s\")", tableName))
	if err == nil {
		defer fkRows.Close()

		for fkRows.Next() {
			var id, seq int
			var table, from, onUpdate, onDelete, match string
			var to sql.NullString

			if err := fkRows.Scan(&id, &seq, &table, &from, &to, &onUpdate, &onDelete, &match); err != nil {
				continue
			}

			for i := range columns {
				if columns[i].Name == from {
					columns[i].ForeignKeyTable = table
					columns[i].ForeignKeyColumn = to.String
					break
				}
			}
		}
	}

	return columns, nil
}

func (s *Adapter) GetAllTableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err == nil {
			tables = append(tables, tableName)
		}
	}
	return tables, rows.Err()
}

// mapColumnType keeps declared length/precision suffixes out of the lookup.
func mapColumnType(dbType string) string {
	base := strings.ToLower(strings.TrimSpace(dbType))
	if idx := strings.Index(base, "("); idx > 0 {
		base = strings.TrimSpace(base[:idx])
	}
	if mapped, exists := typeMap[base]; exists {
		return mapped
	}
	return strings.ToUpper(dbType)
}
