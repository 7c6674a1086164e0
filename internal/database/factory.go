package database

import (
	"github.com/Lumos-Labs-HQ/flashcharts/internal/database/duckdb"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/database/mysql"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/database/postgres"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/database/sqlite"
)

func NewAdapter(provider string) DatabaseAdapter {
	switch provider {
	case "postgresql", "postgres":
		return postgres.New()
	case "mysql":
		return mysql.New()
	case "sqlite", "sqlite3":
		return sqlite.New()
	case "duckdb":
		return duckdb.New()
	default:
		return postgres.New()
	}
}
