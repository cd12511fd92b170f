package chart

import (
	"go-analytics/internal/features/dataset"
)

// MapAggregation flattens an aggregation into chart items. The result is never nil:
// errors and absent data produce the named aggregation with zero items.
// The input result is not modified.
func MapAggregation(result *dataset.QueryResult, cfg Config) Aggregation {
	out := Aggregation{Name: cfg.Aggregation, Items: []Item{}}

	agg := result.Data().FindAggregation(cfg.Aggregation)
	if agg == nil {
		return out
	}
	out.Name = agg.Name

	labelField := cfg.ValueField
	if labelField == "" {
		labelField = "value"
	}

	out.Items = make([]Item, 0, len(agg.Items))
	for _, item := range agg.Items {
		display, _ := dataset.ItemField(item, labelField)
		out.Items = append(out.Items, Item{
			Value:   item.Value,
			Display: dataset.Stringify(display),
			Count:   weight(item, cfg.WeightField),
		})
	}
	return out
}

func weight(item dataset.AggregationItem, field string) float64 {
	if field == "" {
		return item.Count
	}
	if v, ok := item.OperatorResults[field]; ok {
		return v
	}
	raw, ok := dataset.ItemField(item, field)
	if !ok {
		return 0
	}
	if v := dataset.ToFloat(raw); v != nil {
		return *v
	}
	return 0
}

// Toggle returns the chart type following current in allowed, wrapping around.
func Toggle(current ChartType, allowed []ChartType) ChartType {
	if len(allowed) == 0 {
		return current
	}
	for i, t := range allowed {
		if t == current {
			return allowed[(i+1)%len(allowed)]
		}
	}
	return allowed[0]
}
