package types

type SchemaTable struct {
	Name    string
	Columns []SchemaColumn
}

type SchemaColumn struct {
	Name             string
	Type             string
	Nullable         bool
	Default          string
	IsPrimary        bool
	ForeignKeyTable  string
	ForeignKeyColumn string
}

// ColumnNames returns the column names in declaration order.
func (t SchemaTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}
