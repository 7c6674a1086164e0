package analytics

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/database/common"
)

func testCatalog() Catalog {
	return NewCatalog(
		TableSchema{TableName: "orders", Columns: []Column{
			{Key: "id", Type: "integer"},
			{Key: "customer_id", Type: "integer"},
			{Key: "region", Type: "character varying"},
			{Key: "amount", Type: "numeric"},
			{Key: "quantity", Type: "integer"},
			{Key: "status", Type: "text"},
		}},
		TableSchema{TableName: "customers", Columns: []Column{
			{Key: "customer_id", Type: "integer"},
			{Key: "name", Type: "text"},
			{Key: "segment", Type: "varchar"},
		}},
		TableSchema{TableName: "shipments", Columns: []Column{
			{Key: "customer_id", Type: "integer"},
			{Key: "carrier", Type: "text"},
		}},
		TableSchema{TableName: "products", Columns: []Column{
			{Key: "sku", Type: "text"},
			{Key: "price", Type: "double precision"},
		}},
	)
}

func ref(table, key string) ColumnRef {
	return ColumnRef{Key: key, TableName: table}
}

func refPtr(table, key string) *ColumnRef {
	r := ref(table, key)
	return &r
}

func baseSelection() Selection {
	return Selection{
		PrimaryTable: "orders",
		XAxis:        refPtr("orders", "region"),
		YAxes:        []ColumnRef{ref("orders", "amount")},
		Aggregation:  AggSum,
	}
}

type mockQuerier struct {
	queryFn func(ctx context.Context, query string, args ...interface{}) (*common.QueryResult, error)
}

func (m *mockQuerier) Query(ctx context.Context, query string, args ...interface{}) (*common.QueryResult, error) {
	if m.queryFn == nil {
		panic("mockQuerier.Query called but not configured")
	}
	return m.queryFn(ctx, query, args...)
}

func rowsResult(rows ...map[string]interface{}) *common.QueryResult {
	res := &common.QueryResult{Rows: rows}
	if len(rows) > 0 {
		for k := range rows[0] {
			res.Columns = append(res.Columns, k)
		}
	}
	return res
}

func errQuerier(msg string) *mockQuerier {
	return &mockQuerier{queryFn: func(context.Context, string, ...interface{}) (*common.QueryResult, error) {
		return nil, fmt.Errorf("%s", msg)
	}}
}
