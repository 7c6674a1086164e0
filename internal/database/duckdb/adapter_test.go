package duckdb

import (
	"math/big"
	"testing"

	duckdb "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	huge, ok := new(big.Int).SetString("170141183460469231731687303715884105727", 10)
	assert.True(t, ok)

	assert.Equal(t, "170141183460469231731687303715884105727", formatValue(huge))
	assert.Equal(t, "12.34", formatValue(duckdb.Decimal{Width: 10, Scale: 2, Value: big.NewInt(1234)}))
	assert.Equal(t, int64(5), formatValue(int64(5)))
	assert.Nil(t, formatValue(duckdb.Decimal{}))
}

func TestDialect(t *testing.T) {
	d := New().Dialect()
	assert.Equal(t, "duckdb", d.Name)
	assert.True(t, d.IntegerCast)
	assert.Equal(t, `"sales"`, d.QuoteIdentifier("sales"))
}
