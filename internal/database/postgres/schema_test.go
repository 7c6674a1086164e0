package postgres

import (
	"database/sql"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestFormatPostgresType(t *testing.T) {
	null := sql.NullInt64{}
	tests := []struct {
		udt       string
		length    sql.NullInt64
		precision sql.NullInt64
		scale     sql.NullInt64
		want      string
	}{
		{"varchar", sql.NullInt64{Int64: 64, Valid: true}, null, null, "VARCHAR(64)"},
		{"varchar", null, null, null, "VARCHAR"},
		{"bpchar", sql.NullInt64{Int64: 2, Valid: true}, null, null, "CHAR(2)"},
		{"numeric", null, sql.NullInt64{Int64: 12, Valid: true}, sql.NullInt64{Int64: 2, Valid: true}, "NUMERIC(12,2)"},
		{"numeric", null, null, null, "NUMERIC"},
		{"int8", null, null, null, "BIGINT"},
		{"float8", null, null, null, "DOUBLE PRECISION"},
		{"timestamptz", null, null, null, "TIMESTAMP WITH TIME ZONE"},
		{"tsvector", null, null, null, "tsvector"},
	}

	for _, tt := range tests {
		t.Run(tt.udt+"->"+tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatPostgresType(tt.udt, tt.length, tt.precision, tt.scale))
		})
	}
}

func TestFormatValue(t *testing.T) {
	intPart, ok := new(big.Int).SetString("1234567890123456789025", 10)
	assert.True(t, ok)
	n := pgtype.Numeric{Int: intPart, Exp: -2, Valid: true}
	assert.Equal(t, "12345678901234567890.25", formatValue(n))
	assert.Equal(t, "4200", formatValue(pgtype.Numeric{Int: bigInt(42), Exp: 2, Valid: true}))

	assert.Nil(t, formatValue(pgtype.Numeric{}))
	assert.Equal(t, int64(3), formatValue(int64(3)))
	assert.Equal(t, "east", formatValue([]byte("east")))
}

func bigInt(v int64) *big.Int {
	return big.NewInt(v)
}
