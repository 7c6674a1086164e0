package analytics

import (
	"context"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/types"
)

// Column is a single column of a cached table schema. Type is the raw store type.
type Column struct {
	Key  string `json:"key"`
	Type string `json:"type"`
}

// TableSchema is an immutable snapshot of a table's columns in declaration order.
type TableSchema struct {
	TableName string   `json:"tableName"`
	Columns   []Column `json:"columns"`
}

// Column looks up a column by key.
func (t TableSchema) Column(key string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}

// FromSchemaTable converts adapter schema metadata into a TableSchema.
func FromSchemaTable(t types.SchemaTable) TableSchema {
	schema := TableSchema{TableName: t.Name, Columns: make([]Column, 0, len(t.Columns))}
	for _, col := range t.Columns {
		schema.Columns = append(schema.Columns, Column{Key: col.Name, Type: col.Type})
	}
	return schema
}

// Catalog holds the table schemas known to a session, keyed by table name.
type Catalog map[string]TableSchema

// NewCatalog indexes the given schemas by table name.
func NewCatalog(schemas ...TableSchema) Catalog {
	c := make(Catalog, len(schemas))
	for _, s := range schemas {
		c[s.TableName] = s
	}
	return c
}

func (c Catalog) Table(name string) (TableSchema, bool) {
	t, ok := c[name]
	return t, ok
}

// Column resolves a reference against the catalog.
func (c Catalog) Column(ref ColumnRef) (Column, bool) {
	t, ok := c[ref.TableName]
	if !ok {
		return Column{}, false
	}
	return t.Column(ref.Key)
}

// SchemaSource is the part of a store adapter a session needs to fill its catalog.
type SchemaSource interface {
	GetAllTableNames(ctx context.Context) ([]string, error)
	GetTableColumns(ctx context.Context, tableName string) ([]types.SchemaColumn, error)
}
