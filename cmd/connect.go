package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/config"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/database"
)

func connect(ctx context.Context, cfg *config.Config) (database.DatabaseAdapter, error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	adapter := database.NewAdapter(cfg.Database.Provider)
	if err := adapter.Connect(ctx, dbURL); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := adapter.Ping(ctx); err != nil {
		adapter.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return adapter, nil
}

// maskDBURL hides credentials in a database URL for display.
func maskDBURL(url string) string {
	if at := strings.LastIndex(url, "@"); at > 0 {
		if scheme := strings.Index(url, "://"); scheme > 0 && scheme < at {
			return url[:scheme+3] + "***" + url[at:]
		}
	}
	if len(url) < 20 {
		return "***"
	}
	return url[:10] + "***" + url[len(url)-10:]
}
