package analytics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/database/common"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/database/sqlite"
)

func TestPipelineRunCallsHookWithFinalQuery(t *testing.T) {
	var hooked []GeneratedQuery
	p := NewPipeline(common.PostgresDialect,
		staticQuerier(map[string]interface{}{"name": "east", "amount": "3.5"}),
		discardLogger(),
		WithQueryHook(func(_ context.Context, q GeneratedQuery) { hooked = append(hooked, q) }),
	)

	res, err := p.Run(context.Background(), baseSelection(), testCatalog())
	require.NoError(t, err)
	require.Len(t, hooked, 1)
	assert.Equal(t, res.Query, hooked[0])
	assert.Equal(t, []ChartRow{{"name": "east", "amount": 3.5}}, res.Data.Rows)
	assert.NotNil(t, res.Warnings)
}

func TestPipelineValidationSkipsStore(t *testing.T) {
	p := NewPipeline(common.PostgresDialect, &mockQuerier{}, discardLogger())

	sel := baseSelection()
	sel.XAxis = nil
	_, err := p.Run(context.Background(), sel, testCatalog())
	assert.True(t, IsValidation(err))
}

func TestPipelineReportsWarnings(t *testing.T) {
	p := NewPipeline(common.PostgresDialect, staticQuerier(), discardLogger())

	sel := baseSelection()
	sel.SecondaryTables = []string{"products"}
	res, err := p.Run(context.Background(), sel, testCatalog())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.NotContains(t, res.Query.SQL, "products")
}

func TestPipelineQueryTimeout(t *testing.T) {
	var hasDeadline bool
	q := &mockQuerier{queryFn: func(ctx context.Context, _ string, _ ...interface{}) (*common.QueryResult, error) {
		_, hasDeadline = ctx.Deadline()
		return rowsResult(), nil
	}}
	p := NewPipeline(common.PostgresDialect, q, discardLogger(), WithQueryTimeout(time.Second))

	_, err := p.Run(context.Background(), baseSelection(), testCatalog())
	require.NoError(t, err)
	assert.True(t, hasDeadline)
}

func TestPipelineEndToEndSQLite(t *testing.T) {
	ctx := context.Background()
	store := sqlite.New()
	require.NoError(t, store.Connect(ctx, "sqlite://"+filepath.Join(t.TempDir(), "charts.db")))
	t.Cleanup(func() { _ = store.Close() })

	for _, stmt := range []string{
		`CREATE TABLE customers (customer_id INTEGER PRIMARY KEY, segment TEXT)`,
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, customer_id INTEGER, region TEXT, amount REAL, quantity INTEGER)`,
		`INSERT INTO customers VALUES (1, 'smb'), (2, 'ent')`,
		`INSERT INTO orders VALUES
			(1, 1, 'east', 10.5, 2),
			(2, 1, 'west', 4, 1),
			(3, 2, 'east', 20, 5),
			(4, 2, 'east', 1.5, 1),
			(5, 2, NULL, 7, 1)`,
	} {
		require.NoError(t, store.Exec(ctx, stmt))
	}

	session := NewSession("e2e", store, NewPipeline(store.Dialect(), store, discardLogger()))

	grouped := Selection{
		PrimaryTable:    "orders",
		XAxis:           refPtr("orders", "region"),
		YAxes:           []ColumnRef{ref("orders", "amount")},
		GroupBy:         refPtr("customers", "segment"),
		Aggregation:     AggSum,
		SecondaryTables: []string{"customers"},
	}
	res, err := session.Submit(ctx, grouped)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"customers": "customer_id"}, res.Request.JoinColumns)
	assert.Equal(t, []ChartRow{
		{"name": "east", "ent": 21.5, "smb": 10.5},
		{"name": "west", "smb": float64(4)},
	}, res.Data.Rows)
	assert.Equal(t, []string{"ent", "smb"}, res.Data.UniqueGroupKeys)

	ungrouped := Selection{
		PrimaryTable: "orders",
		XAxis:        refPtr("orders", "region"),
		YAxes:        []ColumnRef{ref("orders", "quantity"), ref("orders", "region")},
		Aggregation:  AggSum,
		Filters:      []Filter{{Column: ref("orders", "quantity"), Operator: ">=", Value: 1}},
	}
	res, err = session.Submit(ctx, ungrouped)
	require.NoError(t, err)
	assert.Equal(t, []Aggregation{AggSum, AggCount}, res.Request.AggregationTypes)
	assert.Equal(t, []ChartRow{
		{"name": "east", "quantity": int64(8), "region": int64(3)},
		{"name": "west", "quantity": int64(1), "region": int64(1)},
	}, res.Data.Rows)
	assert.Same(t, res, session.View())
}

func TestPipelineEndToEndSQLiteOutputKeys(t *testing.T) {
	ctx := context.Background()
	store := sqlite.New()
	require.NoError(t, store.Connect(ctx, "sqlite://"+filepath.Join(t.TempDir(), "products.db")))
	t.Cleanup(func() { _ = store.Close() })

	for _, stmt := range []string{
		`CREATE TABLE products (id INTEGER PRIMARY KEY, category TEXT, name TEXT, price REAL, "is_paid?" TEXT)`,
		`CREATE TABLE stock (id INTEGER, qty INTEGER)`,
		`INSERT INTO products VALUES
			(1, 'fruit', 'apple', 1.0, 'yes'),
			(2, 'fruit', 'pear', 2.0, 'no'),
			(3, 'veg', 'leek', 4.5, 'yes')`,
		`INSERT INTO stock VALUES (1, 10), (2, 5), (3, 7)`,
	} {
		require.NoError(t, store.Exec(ctx, stmt))
	}

	session := NewSession("keys", store, NewPipeline(store.Dialect(), store, discardLogger()))

	rejected := []struct {
		name string
		sel  Selection
	}{
		{"y named name", Selection{
			PrimaryTable: "products",
			XAxis:        refPtr("products", "category"),
			YAxes:        []ColumnRef{ref("products", "name")},
		}},
		{"group by named name", Selection{
			PrimaryTable: "products",
			XAxis:        refPtr("products", "category"),
			YAxes:        []ColumnRef{ref("products", "price")},
			GroupBy:      refPtr("products", "name"),
		}},
		{"same y key from two tables", Selection{
			PrimaryTable:    "products",
			XAxis:           refPtr("products", "category"),
			YAxes:           []ColumnRef{ref("products", "id"), ref("stock", "id")},
			Aggregations:    []Aggregation{AggSum, AggCount},
			SecondaryTables: []string{"stock"},
		}},
		{"y equal to group by", Selection{
			PrimaryTable: "products",
			XAxis:        refPtr("products", "category"),
			YAxes:        []ColumnRef{ref("products", "price")},
			GroupBy:      refPtr("products", "price"),
		}},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			res, err := session.Submit(ctx, tt.sel)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, IsValidation(err), "expected ValidationError, got %v", err)
		})
	}

	res, err := session.Submit(ctx, Selection{
		PrimaryTable: "products",
		XAxis:        refPtr("products", "category"),
		YAxes:        []ColumnRef{ref("products", "price")},
	})
	require.NoError(t, err)
	assert.Equal(t, []ChartRow{
		{"name": "veg", "price": 4.5},
		{"name": "fruit", "price": float64(3)},
	}, res.Data.Rows)

	res, err = session.Submit(ctx, Selection{
		PrimaryTable: "products",
		XAxis:        refPtr("products", "is_paid?"),
		YAxes:        []ColumnRef{ref("products", "price")},
		Filters:      []Filter{{Column: ref("products", "price"), Operator: ">", Value: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{1}, res.Query.Parameters)
	assert.Equal(t, []ChartRow{
		{"name": "yes", "price": 4.5},
		{"name": "no", "price": float64(2)},
	}, res.Data.Rows)
}
