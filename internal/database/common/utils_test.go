package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialectQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{"postgres plain", PostgresDialect, "orders", `"orders"`},
		{"postgres embedded quote", PostgresDialect, `we"ird`, `"we""ird"`},
		{"mysql plain", MySQLDialect, "orders", "`orders`"},
		{"mysql embedded backtick", MySQLDialect, "we`ird", "`we``ird`"},
		{"sqlite plain", SQLiteDialect, "order items", `"order items"`},
		{"duckdb plain", DuckDBDialect, "region", `"region"`},
		{"zero value falls back to double quotes", Dialect{}, "x", `"x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.QuoteIdentifier(tt.in))
		})
	}
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, "postgres", DialectFor("postgresql").Name)
	assert.Equal(t, "postgres", DialectFor("postgres").Name)
	assert.Equal(t, "mysql", DialectFor("mysql").Name)
	assert.Equal(t, "sqlite", DialectFor("sqlite3").Name)
	assert.Equal(t, "duckdb", DialectFor("duckdb").Name)
	assert.Equal(t, "postgres", DialectFor("unknown").Name)
}

func TestWithIntegerCast(t *testing.T) {
	d := PostgresDialect.WithIntegerCast(false)
	assert.False(t, d.IntegerCast)
	assert.True(t, PostgresDialect.IntegerCast, "package dialect must not be mutated")
}

func TestFormatValue(t *testing.T) {
	uuidBytes := []byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	assert.Nil(t, FormatValue(nil))
	assert.Equal(t, "east", FormatValue([]byte("east")))
	assert.Equal(t, int64(7), FormatValue(int64(7)))
	assert.Equal(t, "12345678-9abc-def0-0102-030405060708", FormatValue(uuidBytes))

	var arr [16]byte
	copy(arr[:], uuidBytes)
	assert.Equal(t, "12345678-9abc-def0-0102-030405060708", FormatValue(arr))

	assert.Equal(t, "0x0001", FormatValue([]byte{0x00, 0x01}))
}
