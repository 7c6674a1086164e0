package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupedRequest() *AggregationRequest {
	return &AggregationRequest{
		PrimaryTable:     "orders",
		XAxis:            ref("orders", "name"),
		YAxes:            []ColumnRef{ref("orders", "sales")},
		AggregationTypes: []Aggregation{AggSum},
		GroupBy:          refPtr("orders", "region"),
	}
}

func TestReshapePivot(t *testing.T) {
	rows := []Row{
		{"name": "A", "region": "east", "sales": 10},
		{"name": "A", "region": "west", "sales": 5},
		{"name": "B", "region": "east", "sales": 7},
	}

	data := Reshape(rows, groupedRequest())
	assert.Equal(t, []ChartRow{
		{"name": "A", "east": int64(10), "west": int64(5)},
		{"name": "B", "east": int64(7)},
	}, data.Rows)
	assert.Equal(t, []string{"east", "west"}, data.UniqueGroupKeys)
}

func TestReshapePivotSortsBySum(t *testing.T) {
	rows := []Row{
		{"name": "small", "region": "east", "sales": "1"},
		{"name": "big", "region": "west", "sales": "40"},
		{"name": "mid", "region": "east", "sales": 10},
		{"name": "mid", "region": "north", "sales": 10},
		{"name": "tie", "region": "east", "sales": 20},
	}

	data := Reshape(rows, groupedRequest())
	var names []any
	for _, r := range data.Rows {
		names = append(names, r["name"])
	}
	assert.Equal(t, []any{"big", "mid", "tie", "small"}, names)
	assert.Equal(t, []string{"east", "west", "north"}, data.UniqueGroupKeys)
}

func TestReshapePivotDropsIncompleteRows(t *testing.T) {
	rows := []Row{
		{"name": nil, "region": "east", "sales": 3},
		{"name": "", "region": "east", "sales": 3},
		{"name": "A", "region": nil, "sales": 3},
		{"name": "A", "region": "east", "sales": nil},
		{"name": "A", "sales": 4},
		{"name": "B", "region": "west", "sales": 2},
	}

	data := Reshape(rows, groupedRequest())
	require.Len(t, data.Rows, 1)
	assert.Equal(t, ChartRow{"name": "B", "west": int64(2)}, data.Rows[0])
	assert.Equal(t, []string{"west"}, data.UniqueGroupKeys)
}

func TestReshapePivotsOnlyFirstY(t *testing.T) {
	req := groupedRequest()
	req.YAxes = append(req.YAxes, ref("orders", "units"))
	req.AggregationTypes = append(req.AggregationTypes, AggSum)

	data := Reshape([]Row{{"name": "A", "region": "east", "sales": 10, "units": 99}}, req)
	assert.Equal(t, []ChartRow{{"name": "A", "east": int64(10)}}, data.Rows)
}

func TestReshapeUngroupedSortsStable(t *testing.T) {
	req := &AggregationRequest{
		PrimaryTable:     "orders",
		XAxis:            ref("orders", "region"),
		YAxes:            []ColumnRef{ref("orders", "amount"), ref("orders", "quantity")},
		AggregationTypes: []Aggregation{AggSum, AggSum},
	}
	rows := []Row{
		{"name": "north", "amount": "12.50", "quantity": int64(3)},
		{"name": "east", "amount": 30, "quantity": int64(1)},
		{"name": "south", "amount": "12.5", "quantity": int64(2)},
		{"name": nil, "amount": 100, "quantity": int64(1)},
		{"name": "west", "amount": 500, "quantity": nil},
	}

	data := Reshape(rows, req)
	assert.Empty(t, data.UniqueGroupKeys)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, ChartRow{"name": "east", "amount": int64(30), "quantity": int64(1)}, data.Rows[0])
	assert.Equal(t, "north", data.Rows[1]["name"])
	assert.Equal(t, 12.5, data.Rows[1]["amount"])
	assert.Equal(t, "south", data.Rows[2]["name"])
}

func TestReshapeUngroupedLargeValues(t *testing.T) {
	req := &AggregationRequest{
		XAxis:            ref("t", "k"),
		YAxes:            []ColumnRef{ref("t", "v")},
		AggregationTypes: []Aggregation{AggSum},
	}
	rows := []Row{
		{"name": "a", "v": int64(5)},
		{"name": "b", "v": "90071992547409930"},
	}

	data := Reshape(rows, req)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "90071992547409930", data.Rows[0]["v"])
	assert.Equal(t, int64(5), data.Rows[1]["v"])
}

func TestReshapeEmpty(t *testing.T) {
	data := Reshape(nil, groupedRequest())
	assert.NotNil(t, data.Rows)
	assert.NotNil(t, data.UniqueGroupKeys)
	assert.Empty(t, data.Rows)
}
