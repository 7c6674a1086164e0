package analytics

import (
	"fmt"
	"reflect"
	"strings"
)

var allowedOperators = map[string]bool{
	"=": true, "!=": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true,
	"LIKE": true, "NOT LIKE": true, "ILIKE": true,
	"IN": true, "NOT IN": true, "BETWEEN": true,
	"IS NULL": true, "IS NOT NULL": true,
}

// BuildRequest validates a selection snapshot against the catalog and returns
// the request to generate SQL from. Secondary tables that cannot be joined are
// left out and reported as warnings.
func BuildRequest(sel Selection, catalog Catalog) (*AggregationRequest, []string, error) {
	if sel.PrimaryTable == "" {
		return nil, nil, ErrValidation("tableName is required")
	}
	primary, ok := catalog.Table(sel.PrimaryTable)
	if !ok {
		return nil, nil, ErrValidation("unknown table %q", sel.PrimaryTable)
	}
	if sel.XAxis == nil || sel.XAxis.Key == "" {
		return nil, nil, ErrValidation("xAxis is required")
	}
	if sel.XAxis.TableName == "" {
		return nil, nil, ErrValidation("xAxis %q is missing tableName", sel.XAxis.Key)
	}
	if len(sel.YAxes) == 0 {
		return nil, nil, ErrValidation("at least one yAxis is required")
	}
	for i, y := range sel.YAxes {
		if y.Key == "" || y.TableName == "" {
			return nil, nil, ErrValidation("yAxes[%d] must have both key and tableName", i)
		}
	}
	if len(sel.Aggregations) > 0 && len(sel.Aggregations) != len(sel.YAxes) {
		return nil, nil, ErrValidation("got %d aggregationTypes for %d yAxes", len(sel.Aggregations), len(sel.YAxes))
	}

	req := &AggregationRequest{
		PrimaryTable: sel.PrimaryTable,
		XAxis:        *sel.XAxis,
		YAxes:        append([]ColumnRef(nil), sel.YAxes...),
		JoinColumns:  map[string]string{},
	}

	var warnings []string
	dropped := map[string]bool{}
	seen := map[string]bool{sel.PrimaryTable: true}
	for _, name := range sel.SecondaryTables {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		secondary, ok := catalog.Table(name)
		if !ok {
			return nil, nil, ErrValidation("unknown secondary table %q", name)
		}

		if col, explicit := sel.JoinColumns[name]; explicit && col != "" {
			if _, ok := primary.Column(col); !ok {
				return nil, nil, ErrValidation("join column %q not found in table %q", col, primary.TableName)
			}
			if _, ok := secondary.Column(col); !ok {
				return nil, nil, ErrValidation("join column %q not found in table %q", col, name)
			}
			req.SecondaryTables = append(req.SecondaryTables, name)
			req.JoinColumns[name] = col
			continue
		}

		col, found := InferJoin(primary, secondary)
		if !found {
			dropped[name] = true
			warnings = append(warnings, fmt.Sprintf("no join column found between %q and %q; %q was excluded from the query", primary.TableName, name, name))
			continue
		}
		req.SecondaryTables = append(req.SecondaryTables, name)
		req.JoinColumns[name] = col
	}

	joined := map[string]bool{req.PrimaryTable: true}
	for _, name := range req.SecondaryTables {
		joined[name] = true
	}
	resolve := func(what string, ref ColumnRef) (Column, error) {
		if !joined[ref.TableName] {
			if dropped[ref.TableName] {
				return Column{}, ErrValidation("%s %s references table %q which could not be joined", what, ref, ref.TableName)
			}
			return Column{}, ErrValidation("%s %s references table %q which is not part of the query", what, ref, ref.TableName)
		}
		col, ok := catalog.Column(ref)
		if !ok {
			return Column{}, ErrValidation("unknown column %q in table %q", ref.Key, ref.TableName)
		}
		return col, nil
	}

	if _, err := resolve("xAxis", req.XAxis); err != nil {
		return nil, nil, err
	}

	fallback := AggSum
	if sel.Aggregation != "" {
		agg, err := ParseAggregation(string(sel.Aggregation))
		if err != nil {
			return nil, nil, err
		}
		fallback = agg
	}
	for i, y := range req.YAxes {
		col, err := resolve("yAxis", y)
		if err != nil {
			return nil, nil, err
		}
		agg := fallback
		if len(sel.Aggregations) > 0 && sel.Aggregations[i] != "" {
			if agg, err = ParseAggregation(string(sel.Aggregations[i])); err != nil {
				return nil, nil, err
			}
		}
		if NormalizeType(col.Type) == KindString {
			agg = AggCount
		}
		req.AggregationTypes = append(req.AggregationTypes, agg)
	}

	if sel.GroupBy != nil && sel.GroupBy.Key != "" && sel.GroupBy.Key != req.XAxis.Key {
		if sel.GroupBy.TableName == "" {
			return nil, nil, ErrValidation("groupBy %q is missing tableName", sel.GroupBy.Key)
		}
		if _, err := resolve("groupBy", *sel.GroupBy); err != nil {
			return nil, nil, err
		}
		groupBy := *sel.GroupBy
		req.GroupBy = &groupBy
	}
	if err := checkOutputKeys(req.YAxes, req.EffectiveGroupBy()); err != nil {
		return nil, nil, err
	}

	for i, f := range sel.Filters {
		if _, err := resolve("filter", f.Column); err != nil {
			return nil, nil, err
		}
		filter, err := normalizeFilter(f)
		if err != nil {
			return nil, nil, ErrValidation("filters[%d]: %s", i, err.Error())
		}
		req.Filters = append(req.Filters, filter)
	}

	return req, warnings, nil
}

// checkOutputKeys rejects requests whose result columns would share a name.
// Rows are keyed by column name: the x value is returned as "name", each y
// under its key and the group-by column under its own key.
func checkOutputKeys(ys []ColumnRef, groupBy *ColumnRef) error {
	seen := make(map[string]ColumnRef, len(ys))
	for i, y := range ys {
		if y.Key == xAlias {
			return ErrValidation("yAxes[%d] %s cannot be charted: %q is reserved for the x value", i, y, xAlias)
		}
		if prev, dup := seen[y.Key]; dup {
			return ErrValidation("yAxes[%d] %s has the same key as %s", i, y, prev)
		}
		seen[y.Key] = y
	}
	if groupBy == nil {
		return nil
	}
	if groupBy.Key == xAlias {
		return ErrValidation("groupBy %s cannot be used: %q is reserved for the x value", *groupBy, xAlias)
	}
	if y, dup := seen[groupBy.Key]; dup {
		return ErrValidation("groupBy %s has the same key as yAxis %s", *groupBy, y)
	}
	return nil
}

// normalizeFilter canonicalizes the operator and checks the value shape it needs.
func normalizeFilter(f Filter) (Filter, error) {
	op := strings.ToUpper(strings.Join(strings.Fields(f.Operator), " "))
	if !allowedOperators[op] {
		return Filter{}, fmt.Errorf("unsupported operator %q", f.Operator)
	}
	f.Operator = op

	values, isList := listValues(f.Value)
	switch op {
	case "IS NULL", "IS NOT NULL":
		f.Value = nil
	case "BETWEEN":
		if !isList || len(values) != 2 {
			return Filter{}, fmt.Errorf("BETWEEN needs exactly two values")
		}
		f.Value = values
	case "IN", "NOT IN":
		if !isList || len(values) == 0 {
			return Filter{}, fmt.Errorf("%s needs a non-empty list of values", op)
		}
		f.Value = values
	default:
		if f.Value == nil {
			return Filter{}, fmt.Errorf("%s needs a value", op)
		}
		if isList {
			return Filter{}, fmt.Errorf("%s needs a single value", op)
		}
	}
	return f, nil
}

func listValues(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
