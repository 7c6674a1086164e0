package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/database/common"
)

// xAlias is the result column that carries the x value.
const xAlias = "name"

// Generator renders aggregation requests into SQL for one dialect. It holds no
// mutable state; Generate is safe for concurrent use.
type Generator struct {
	dialect common.Dialect
	catalog Catalog
}

// NewGenerator returns a generator for the dialect. A nil catalog skips column
// checks and the string column override, which BuildRequest already applied.
func NewGenerator(dialect common.Dialect, catalog Catalog) *Generator {
	return &Generator{dialect: dialect, catalog: catalog}
}

func (g *Generator) Generate(req *AggregationRequest) (GeneratedQuery, error) {
	if req == nil {
		return GeneratedQuery{}, ErrValidation("request is required")
	}
	if req.PrimaryTable == "" {
		return GeneratedQuery{}, ErrValidation("primary table is required")
	}
	if req.XAxis.Key == "" {
		return GeneratedQuery{}, ErrValidation("xAxis is required")
	}
	if len(req.YAxes) == 0 {
		return GeneratedQuery{}, ErrValidation("at least one yAxis is required")
	}
	if len(req.YAxes) != len(req.AggregationTypes) {
		return GeneratedQuery{}, ErrValidation("got %d aggregationTypes for %d yAxes", len(req.AggregationTypes), len(req.YAxes))
	}
	if err := checkOutputKeys(req.YAxes, req.EffectiveGroupBy()); err != nil {
		return GeneratedQuery{}, err
	}

	placeholder := g.dialect.Placeholder
	if placeholder == nil {
		placeholder = squirrel.Question
	}
	q := g.dialect.QuoteIdentifier
	if placeholder != squirrel.Question {
		// numbered formats rewrite every "?" in the statement; "??" is kept as a literal one
		q = func(name string) string {
			return strings.ReplaceAll(g.dialect.QuoteIdentifier(name), "?", "??")
		}
	}

	var primary TableSchema
	if g.catalog != nil {
		var ok bool
		if primary, ok = g.catalog.Table(req.PrimaryTable); !ok {
			return GeneratedQuery{}, ErrValidation("unknown table %q", req.PrimaryTable)
		}
	}

	aliases := map[string]string{req.PrimaryTable: "t1"}
	var joins []string
	for _, table := range req.SecondaryTables {
		col := req.JoinColumns[table]
		if col == "" {
			continue
		}
		if _, dup := aliases[table]; dup {
			continue
		}
		if g.catalog != nil {
			secondary, ok := g.catalog.Table(table)
			if !ok {
				return GeneratedQuery{}, ErrValidation("unknown secondary table %q", table)
			}
			if _, ok := primary.Column(col); !ok {
				return GeneratedQuery{}, ErrValidation("join column %q not found in table %q", col, req.PrimaryTable)
			}
			if _, ok := secondary.Column(col); !ok {
				return GeneratedQuery{}, ErrValidation("join column %q not found in table %q", col, table)
			}
		}
		alias := "t" + strconv.Itoa(len(aliases)+1)
		aliases[table] = alias
		joins = append(joins, fmt.Sprintf("%s AS %s ON t1.%s = %s.%s", q(table), alias, q(col), alias, q(col)))
	}

	qualify := func(ref ColumnRef) (string, *Column, error) {
		alias, ok := aliases[ref.TableName]
		if !ok {
			return "", nil, ErrValidation("column %s references table %q which is not part of the query", ref, ref.TableName)
		}
		var col *Column
		if g.catalog != nil {
			c, ok := g.catalog.Column(ref)
			if !ok {
				return "", nil, ErrValidation("unknown column %q in table %q", ref.Key, ref.TableName)
			}
			col = &c
		}
		return alias + "." + q(ref.Key), col, nil
	}

	x, _, err := qualify(req.XAxis)
	if err != nil {
		return GeneratedQuery{}, err
	}
	columns := []string{x + " AS " + xAlias}
	grouping := []string{x}

	if gb := req.EffectiveGroupBy(); gb != nil {
		expr, _, err := qualify(*gb)
		if err != nil {
			return GeneratedQuery{}, err
		}
		columns = append(columns, expr)
		grouping = append(grouping, expr)
	}

	for i, y := range req.YAxes {
		expr, col, err := qualify(y)
		if err != nil {
			return GeneratedQuery{}, err
		}
		agg := req.AggregationTypes[i]
		if col != nil && NormalizeType(col.Type) == KindString {
			agg = AggCount
		}
		columns = append(columns, g.aggregate(agg, expr, col)+" AS "+q(y.Key))
	}

	sb := squirrel.StatementBuilder.
		PlaceholderFormat(placeholder).
		Select(columns...).
		From(q(req.PrimaryTable) + " AS t1")
	for _, join := range joins {
		sb = sb.InnerJoin(join)
	}

	for _, f := range req.Filters {
		expr, _, err := qualify(f.Column)
		if err != nil {
			return GeneratedQuery{}, err
		}
		cond, args, err := filterCondition(expr, f)
		if err != nil {
			return GeneratedQuery{}, err
		}
		sb = sb.Where(cond, args...)
	}

	ordering := make([]string, len(grouping))
	for i, expr := range grouping {
		ordering[i] = expr + " ASC"
	}
	sb = sb.GroupBy(grouping...).OrderBy(ordering...)

	sql, args, err := sb.ToSql()
	if err != nil {
		return GeneratedQuery{}, fmt.Errorf("failed to render query: %w", err)
	}
	if args == nil {
		args = []any{}
	}
	return GeneratedQuery{SQL: sql, Parameters: args}, nil
}

// aggregate wraps the expression in the aggregate function, casting COUNT and
// integer SUM results when the dialect would otherwise return them as
// arbitrary precision values.
func (g *Generator) aggregate(agg Aggregation, expr string, col *Column) string {
	out := string(agg) + "(" + expr + ")"
	if !g.dialect.IntegerCast || g.dialect.CastType == "" {
		return out
	}
	if agg == AggCount || (agg == AggSum && col != nil && IsIntegerType(col.Type)) {
		return "CAST(" + out + " AS " + g.dialect.CastType + ")"
	}
	return out
}

func filterCondition(expr string, f Filter) (string, []any, error) {
	op := strings.ToUpper(strings.Join(strings.Fields(f.Operator), " "))
	if !allowedOperators[op] {
		return "", nil, ErrValidation("unsupported operator %q", f.Operator)
	}

	switch op {
	case "IS NULL", "IS NOT NULL":
		return expr + " " + op, nil, nil
	case "BETWEEN":
		values, ok := listValues(f.Value)
		if !ok || len(values) != 2 {
			return "", nil, ErrValidation("BETWEEN on %s needs exactly two values", f.Column)
		}
		return expr + " BETWEEN ? AND ?", values, nil
	case "IN", "NOT IN":
		values, ok := listValues(f.Value)
		if !ok || len(values) == 0 {
			return "", nil, ErrValidation("%s on %s needs a non-empty list of values", op, f.Column)
		}
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		return expr + " " + op + " (" + marks + ")", values, nil
	default:
		return expr + " " + op + " ?", []any{f.Value}, nil
	}
}
