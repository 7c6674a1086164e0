package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferJoinSingleMatch(t *testing.T) {
	catalog := testCatalog()

	col, ok := InferJoin(catalog["orders"], catalog["customers"])
	assert.True(t, ok)
	assert.Equal(t, "customer_id", col)
}

func TestInferJoinNoMatch(t *testing.T) {
	catalog := testCatalog()

	col, ok := InferJoin(catalog["orders"], catalog["products"])
	assert.False(t, ok)
	assert.Empty(t, col)
}

func TestInferJoinRequiresSameType(t *testing.T) {
	primary := TableSchema{TableName: "a", Columns: []Column{{Key: "code", Type: "integer"}}}
	secondary := TableSchema{TableName: "b", Columns: []Column{{Key: "code", Type: "text"}}}

	_, ok := InferJoin(primary, secondary)
	assert.False(t, ok)
}

func TestInferJoinFirstMatchInPrimaryOrder(t *testing.T) {
	primary := TableSchema{TableName: "a", Columns: []Column{
		{Key: "label", Type: "text"},
		{Key: "tenant_id", Type: "integer"},
		{Key: "id", Type: "integer"},
	}}
	secondary := TableSchema{TableName: "b", Columns: []Column{
		{Key: "id", Type: "integer"},
		{Key: "tenant_id", Type: "integer"},
	}}

	for i := 0; i < 5; i++ {
		col, ok := InferJoin(primary, secondary)
		assert.True(t, ok)
		assert.Equal(t, "tenant_id", col)
	}
}
