package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/database/common"
)

// QueryHook observes every generated query right before it is executed.
type QueryHook func(ctx context.Context, query GeneratedQuery)

type PipelineOption func(*Pipeline)

// WithQueryHook replaces the default hook, which logs the query at debug level.
func WithQueryHook(hook QueryHook) PipelineOption {
	return func(p *Pipeline) { p.hook = hook }
}

// WithQueryTimeout bounds each query execution. Zero means no timeout.
func WithQueryTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) { p.timeout = d }
}

// Result is everything one aggregation run produced.
type Result struct {
	Request  *AggregationRequest
	Query    GeneratedQuery
	Data     ChartData
	Warnings []string
}

// Pipeline wires builder, generator, executor and reshaper together.
type Pipeline struct {
	dialect  common.Dialect
	executor *Executor
	logger   *slog.Logger
	hook     QueryHook
	timeout  time.Duration
}

func NewPipeline(dialect common.Dialect, querier Querier, logger *slog.Logger, opts ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		dialect:  dialect,
		executor: NewExecutor(querier),
		logger:   logger,
	}
	p.hook = func(ctx context.Context, q GeneratedQuery) {
		p.logger.DebugContext(ctx, "aggregation query", "sql", q.SQL, "params", q.Parameters)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Dialect() common.Dialect { return p.dialect }

// Prepare validates the selection and renders its SQL without running it.
func (p *Pipeline) Prepare(sel Selection, catalog Catalog) (*AggregationRequest, GeneratedQuery, []string, error) {
	req, warnings, err := BuildRequest(sel, catalog)
	if err != nil {
		return nil, GeneratedQuery{}, nil, err
	}
	for _, w := range warnings {
		p.logger.Warn("join inference failed", "table", sel.PrimaryTable, "warning", w)
	}

	query, err := NewGenerator(p.dialect, catalog).Generate(req)
	if err != nil {
		return nil, GeneratedQuery{}, nil, err
	}
	return req, query, warnings, nil
}

// Run builds, generates, executes and reshapes one selection.
func (p *Pipeline) Run(ctx context.Context, sel Selection, catalog Catalog) (*Result, error) {
	req, query, warnings, err := p.Prepare(sel, catalog)
	if err != nil {
		return nil, err
	}
	if p.hook != nil {
		p.hook(ctx, query)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := p.executor.Execute(ctx, query)
	if err != nil {
		p.logger.Error("aggregation query failed", "error", err, "sql", query.SQL)
		return nil, err
	}
	p.logger.Debug("aggregation query done", "rows", len(rows), "duration", time.Since(start))

	if warnings == nil {
		warnings = []string{}
	}
	return &Result{
		Request:  req,
		Query:    query,
		Data:     Reshape(rows, req),
		Warnings: warnings,
	}, nil
}
