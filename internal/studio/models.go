package studio

import (
	"github.com/Lumos-Labs-HQ/flashcharts/internal/analytics"
)

// DatabaseColumn describes a column for the chart builder. Type is the
// normalized kind, DataType the raw store type.
type DatabaseColumn struct {
	Key          string               `json:"key"`
	Label        string               `json:"label"`
	Type         analytics.ColumnKind `json:"type"`
	DataType     string               `json:"dataType"`
	Nullable     bool                 `json:"nullable"`
	DefaultValue any                  `json:"defaultValue"`
	TableName    string               `json:"tableName"`
}

type FilterPayload struct {
	Column    string `json:"column"`
	Key       string `json:"key"`
	TableName string `json:"tableName"`
	Operator  string `json:"operator"`
	Value     any    `json:"value"`
}

// AggregateRequest is the body of POST /analytics/aggregate.
type AggregateRequest struct {
	TableName           string                `json:"tableName"`
	XAxis               *analytics.ColumnRef  `json:"xAxis"`
	YAxes               []analytics.ColumnRef `json:"yAxes"`
	GroupBy             *analytics.ColumnRef  `json:"groupBy"`
	AggregationTypes    []string              `json:"aggregationTypes"`
	Filters             []FilterPayload       `json:"filters"`
	SecondaryTableNames []string              `json:"secondaryTableNames"`
	JoinColumns         map[string]string     `json:"joinColumns"`
}

type AggregateResponse struct {
	Success         bool                 `json:"success"`
	Data            []analytics.ChartRow `json:"data"`
	Query           string               `json:"query"`
	Parameters      []any                `json:"parameters"`
	UniqueGroupKeys []string             `json:"uniqueGroupKeys"`
	Warnings        []string             `json:"warnings"`
}

// Selection converts the payload into an analytics snapshot. A single
// aggregation type sent with several y-axes applies to all of them.
func (r AggregateRequest) Selection() (analytics.Selection, error) {
	sel := analytics.Selection{
		PrimaryTable:    r.TableName,
		XAxis:           r.XAxis,
		YAxes:           r.YAxes,
		GroupBy:         r.GroupBy,
		SecondaryTables: r.SecondaryTableNames,
		JoinColumns:     r.JoinColumns,
	}

	aggs := make([]analytics.Aggregation, 0, len(r.AggregationTypes))
	for _, raw := range r.AggregationTypes {
		agg, err := analytics.ParseAggregation(raw)
		if err != nil {
			return analytics.Selection{}, err
		}
		aggs = append(aggs, agg)
	}
	if len(aggs) == 1 && len(r.YAxes) != 1 {
		sel.Aggregation = aggs[0]
	} else {
		sel.Aggregations = aggs
	}

	for i, f := range r.Filters {
		key := f.Column
		if key == "" {
			key = f.Key
		}
		if key == "" {
			return analytics.Selection{}, analytics.ErrValidation("filters[%d] is missing a column", i)
		}
		table := f.TableName
		if table == "" {
			table = r.TableName
		}
		sel.Filters = append(sel.Filters, analytics.Filter{
			Column:   analytics.ColumnRef{Key: key, TableName: table},
			Operator: f.Operator,
			Value:    f.Value,
		})
	}
	return sel, nil
}
