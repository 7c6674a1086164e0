package analytics

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Reshape filters out rows that cannot be charted, coerces aggregate values
// and, when the request has an effective group-by, pivots one row per
// (x, group) pair into one row per x value with a field per group value.
//
// Only the first y-axis is pivoted. Other y-axes are ignored in grouped mode.
func Reshape(rows []Row, req *AggregationRequest) ChartData {
	data := ChartData{Rows: []ChartRow{}, UniqueGroupKeys: []string{}}
	if req == nil || len(req.YAxes) == 0 {
		return data
	}
	if gb := req.EffectiveGroupBy(); gb != nil {
		return pivot(rows, req.YAxes[0].Key, gb.Key)
	}

	for _, row := range rows {
		if !chartable(row, req.YAxes) {
			continue
		}
		out := make(ChartRow, len(row))
		for k, v := range row {
			out[k] = v
		}
		for _, y := range req.YAxes {
			out[y.Key] = CoerceNumber(row[y.Key])
		}
		data.Rows = append(data.Rows, out)
	}

	first := req.YAxes[0].Key
	slices.SortStableFunc(data.Rows, func(a, b ChartRow) int {
		return rankValue(b[first]).Cmp(rankValue(a[first]))
	})
	return data
}

func pivot(rows []Row, yKey, groupKey string) ChartData {
	data := ChartData{Rows: []ChartRow{}, UniqueGroupKeys: []string{}}
	index := map[string]int{}
	seenGroup := map[string]bool{}
	var sums []decimal.Decimal

	for _, row := range rows {
		if !chartable(row, []ColumnRef{{Key: yKey}}) {
			continue
		}
		group, ok := row[groupKey]
		if !ok || group == nil {
			continue
		}
		label := fmt.Sprint(group)
		if label == "name" {
			continue
		}

		name := fmt.Sprint(row["name"])
		i, exists := index[name]
		if !exists {
			i = len(data.Rows)
			index[name] = i
			data.Rows = append(data.Rows, ChartRow{"name": row["name"]})
			sums = append(sums, decimal.Zero)
		}

		value := CoerceNumber(row[yKey])
		if prev, dup := data.Rows[i][label]; dup {
			sums[i] = sums[i].Sub(rankValue(prev))
		}
		data.Rows[i][label] = value
		sums[i] = sums[i].Add(rankValue(value))

		if !seenGroup[label] {
			seenGroup[label] = true
			data.UniqueGroupKeys = append(data.UniqueGroupKeys, label)
		}
	}

	order := make([]int, len(data.Rows))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return sums[b].Cmp(sums[a])
	})
	sorted := make([]ChartRow, len(order))
	for i, idx := range order {
		sorted[i] = data.Rows[idx]
	}
	data.Rows = sorted
	return data
}

// chartable reports whether a row has an x value and every required y value.
func chartable(row Row, ys []ColumnRef) bool {
	switch name := row["name"].(type) {
	case nil:
		return false
	case string:
		if name == "" {
			return false
		}
	}
	for _, y := range ys {
		if v, ok := row[y.Key]; !ok || v == nil {
			return false
		}
	}
	return true
}
