package analytics

import (
	"context"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/database/common"
)

// Querier runs a parameterized statement. Every store adapter implements it.
type Querier interface {
	Query(ctx context.Context, query string, args ...interface{}) (*common.QueryResult, error)
}

// Executor runs generated queries once, without retries.
type Executor struct {
	q Querier
}

func NewExecutor(q Querier) *Executor {
	return &Executor{q: q}
}

// Execute binds the parameters positionally and returns the rows as the store
// produced them. On failure no rows are returned.
func (e *Executor) Execute(ctx context.Context, query GeneratedQuery) ([]Row, error) {
	result, err := e.q.Query(ctx, query.SQL, query.Parameters...)
	if err != nil {
		return nil, &QueryExecutionError{Message: err.Error(), SQL: query.SQL, Err: err}
	}
	if result == nil {
		return []Row{}, nil
	}

	rows := make([]Row, len(result.Rows))
	for i, r := range result.Rows {
		rows[i] = Row(r)
	}
	return rows, nil
}
