package database

import (
	"context"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/database/common"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/types"
)

type DatabaseAdapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// Schema operations
	GetAllTableNames(ctx context.Context) ([]string, error)
	// GetTableColumns returns columns in declaration order.
	GetTableColumns(ctx context.Context, tableName string) ([]types.SchemaColumn, error)

	// Query runs a parameterized statement and returns every row.
	Query(ctx context.Context, query string, args ...interface{}) (*common.QueryResult, error)

	Dialect() common.Dialect
}
