package studio

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/analytics"
)

func TestAggregateRequestSelection(t *testing.T) {
	req := AggregateRequest{
		TableName: "orders",
		XAxis:     &analytics.ColumnRef{Key: "region", TableName: "orders"},
		YAxes: []analytics.ColumnRef{
			{Key: "amount", TableName: "orders"},
			{Key: "quantity", TableName: "orders"},
		},
		AggregationTypes: []string{"avg"},
		Filters: []FilterPayload{
			{Column: "status", Operator: "=", Value: "paid"},
			{Key: "segment", TableName: "customers", Operator: "IN", Value: []any{"smb"}},
		},
		SecondaryTableNames: []string{"customers"},
	}

	sel, err := req.Selection()
	require.NoError(t, err)
	assert.Equal(t, analytics.AggAvg, sel.Aggregation)
	assert.Empty(t, sel.Aggregations)
	assert.Equal(t, []string{"customers"}, sel.SecondaryTables)
	assert.Equal(t, analytics.ColumnRef{Key: "status", TableName: "orders"}, sel.Filters[0].Column)
	assert.Equal(t, analytics.ColumnRef{Key: "segment", TableName: "customers"}, sel.Filters[1].Column)
}

func TestAggregateRequestSelectionPerAxis(t *testing.T) {
	req := AggregateRequest{
		TableName:        "orders",
		YAxes:            []analytics.ColumnRef{{Key: "a", TableName: "orders"}, {Key: "b", TableName: "orders"}},
		AggregationTypes: []string{"min", "MAX"},
	}

	sel, err := req.Selection()
	require.NoError(t, err)
	assert.Equal(t, []analytics.Aggregation{analytics.AggMin, analytics.AggMax}, sel.Aggregations)
}

func TestAggregateRequestSelectionErrors(t *testing.T) {
	_, err := AggregateRequest{AggregationTypes: []string{"mode"}}.Selection()
	assert.True(t, analytics.IsValidation(err))

	_, err = AggregateRequest{Filters: []FilterPayload{{Operator: "="}}}.Selection()
	assert.True(t, analytics.IsValidation(err))
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, errorStatus(analytics.ErrValidation("bad")))
	assert.Equal(t, http.StatusInternalServerError, errorStatus(&analytics.QueryExecutionError{Message: "boom"}))
	assert.Equal(t, http.StatusConflict, errorStatus(analytics.ErrStaleResult))
	assert.Equal(t, http.StatusNotFound, errorStatus(ErrTableNotFound))
	assert.Equal(t, http.StatusMethodNotAllowed, errorStatus(fiber.ErrMethodNotAllowed))
	assert.Equal(t, http.StatusInternalServerError, errorStatus(assert.AnError))
}
