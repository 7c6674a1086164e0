// Package analytics turns a chart selection into an aggregation query, runs it
// and reshapes the rows for charting.
package analytics

import (
	"fmt"
	"strings"
)

// ColumnRef identifies a column unambiguously across the tables of a query.
type ColumnRef struct {
	Key       string `json:"key" yaml:"key"`
	TableName string `json:"tableName" yaml:"tableName"`
}

func (r ColumnRef) String() string {
	return r.TableName + "." + r.Key
}

// Aggregation is one of the supported aggregate functions.
type Aggregation string

const (
	AggSum   Aggregation = "SUM"
	AggAvg   Aggregation = "AVG"
	AggCount Aggregation = "COUNT"
	AggMin   Aggregation = "MIN"
	AggMax   Aggregation = "MAX"
)

// ParseAggregation accepts any casing and surrounding whitespace.
func ParseAggregation(s string) (Aggregation, error) {
	switch agg := Aggregation(strings.ToUpper(strings.TrimSpace(s))); agg {
	case AggSum, AggAvg, AggCount, AggMin, AggMax:
		return agg, nil
	default:
		return "", ErrValidation("unsupported aggregation %q", s)
	}
}

// Filter is a single WHERE condition. Value is bound as a parameter, never
// interpolated.
type Filter struct {
	Column   ColumnRef `json:"column" yaml:"column"`
	Operator string    `json:"operator" yaml:"operator"`
	Value    any       `json:"value,omitempty" yaml:"value,omitempty"`
}

// AggregationRequest is the validated query intent handed to the generator.
type AggregationRequest struct {
	PrimaryTable     string            `json:"primaryTable"`
	XAxis            ColumnRef         `json:"xAxis"`
	YAxes            []ColumnRef       `json:"yAxes"`
	AggregationTypes []Aggregation     `json:"aggregationTypes"`
	GroupBy          *ColumnRef        `json:"groupBy,omitempty"`
	SecondaryTables  []string          `json:"secondaryTables,omitempty"`
	JoinColumns      map[string]string `json:"joinColumns,omitempty"`
	Filters          []Filter          `json:"filters,omitempty"`
}

// EffectiveGroupBy returns the group-by column unless it repeats the x-axis.
func (r *AggregationRequest) EffectiveGroupBy() *ColumnRef {
	if r.GroupBy == nil || r.GroupBy.Key == "" || r.GroupBy.Key == r.XAxis.Key {
		return nil
	}
	return r.GroupBy
}

// GeneratedQuery is rendered fresh for every request and never patched.
type GeneratedQuery struct {
	SQL        string `json:"sql"`
	Parameters []any  `json:"parameters"`
}

func (q GeneratedQuery) String() string {
	return fmt.Sprintf("%s %v", q.SQL, q.Parameters)
}

// Row is a raw row as returned by the store.
type Row map[string]any

// ChartRow is a reshaped row ready for the chart layer.
type ChartRow map[string]any

// ChartData is the reshaper output. UniqueGroupKeys lists the pivoted fields
// in first-seen order and is empty for ungrouped queries.
type ChartData struct {
	Rows            []ChartRow `json:"rows"`
	UniqueGroupKeys []string   `json:"uniqueGroupKeys"`
}

// Selection is an immutable snapshot of the chart-building state. Requests are
// always built from a whole snapshot, never patched incrementally.
type Selection struct {
	PrimaryTable    string            `json:"tableName" yaml:"tableName"`
	XAxis           *ColumnRef        `json:"xAxis" yaml:"xAxis"`
	YAxes           []ColumnRef       `json:"yAxes" yaml:"yAxes"`
	GroupBy         *ColumnRef        `json:"groupBy,omitempty" yaml:"groupBy,omitempty"`
	Aggregation     Aggregation       `json:"aggregation,omitempty" yaml:"aggregation,omitempty"`
	Aggregations    []Aggregation     `json:"aggregationTypes,omitempty" yaml:"aggregationTypes,omitempty"`
	SecondaryTables []string          `json:"secondaryTableNames,omitempty" yaml:"secondaryTableNames,omitempty"`
	JoinColumns     map[string]string `json:"joinColumns,omitempty" yaml:"joinColumns,omitempty"`
	Filters         []Filter          `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// Tables returns the primary table followed by the secondary tables, without
// duplicates.
func (s Selection) Tables() []string {
	seen := map[string]bool{}
	var out []string
	for _, name := range append([]string{s.PrimaryTable}, s.SecondaryTables...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
