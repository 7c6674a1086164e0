package studio

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/analytics"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/database"
)

type Service struct {
	adapter  database.DatabaseAdapter
	pipeline *analytics.Pipeline
	sessions *sessionRegistry
	logger   *slog.Logger
}

func NewService(adapter database.DatabaseAdapter, pipeline *analytics.Pipeline, maxSessions int, logger *slog.Logger) *Service {
	s := &Service{
		adapter:  adapter,
		pipeline: pipeline,
		logger:   logger,
	}
	s.sessions = newSessionRegistry(maxSessions, func(id string) *analytics.Session {
		logger.Debug("session created", "session_id", id)
		return analytics.NewSession(id, adapter, pipeline)
	})
	return s
}

func (s *Service) GetTables(ctx context.Context) ([]string, error) {
	tables, err := s.adapter.GetAllTableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	if tables == nil {
		tables = []string{}
	}
	return tables, nil
}

func (s *Service) GetTableColumns(ctx context.Context, tableName string) ([]DatabaseColumn, error) {
	tables, err := s.GetTables(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(tables, tableName) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableName)
	}

	cols, err := s.adapter.GetTableColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for %s: %w", tableName, err)
	}

	out := make([]DatabaseColumn, 0, len(cols))
	for _, col := range cols {
		dc := DatabaseColumn{
			Key:       col.Name,
			Label:     col.Name,
			Type:      analytics.NormalizeType(col.Type),
			DataType:  col.Type,
			Nullable:  col.Nullable,
			TableName: tableName,
		}
		if col.Default != "" {
			dc.DefaultValue = col.Default
		}
		out = append(out, dc)
	}
	return out, nil
}

// Aggregate runs the request inside the caller's session.
func (s *Service) Aggregate(ctx context.Context, sessionID string, req AggregateRequest) (*analytics.Result, error) {
	sel, err := req.Selection()
	if err != nil {
		return nil, err
	}
	return s.sessions.get(sessionID).Submit(ctx, sel)
}

// Sweep drops sessions that have been idle for longer than idle.
func (s *Service) Sweep(idle time.Duration) {
	if n := s.sessions.sweep(idle); n > 0 {
		s.logger.Debug("idle sessions removed", "count", n, "remaining", s.sessions.count())
	}
}
