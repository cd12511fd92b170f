package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

const (
	defaultRecordField = "value"
	defaultItemField   = "count"
)

// Extract reads a single scalar from a query result. It returns nil, never panics,
// for errors, absent results and any missing path; callers treat nil as "not renderable yet".
func Extract(result *QueryResult, location ValueLocation, field *ValueField) *float64 {
	data := result.Data()
	if data == nil {
		return nil
	}

	switch location {
	case LocationTotalRecordCount:
		if data.TotalRecordCount == nil {
			return nil
		}
		v := *data.TotalRecordCount
		return &v
	case LocationRecords:
		if len(data.Records) == 0 {
			return nil
		}
		return RecordValue(data.Records[0], field, defaultRecordField)
	case LocationAggregations:
		if len(data.Aggregations) == 0 || len(data.Aggregations[0].Items) == 0 {
			return nil
		}
		return ItemValue(data.Aggregations[0].Items[0], field, defaultItemField)
	default:
		return nil
	}
}

// ItemValue reads a numeric field or operator result from an aggregation item.
func ItemValue(item AggregationItem, field *ValueField, defaultField string) *float64 {
	name := defaultField
	if field != nil && field.Name != "" {
		name = field.Name
	}
	if field != nil && field.IsOperatorResult {
		v, ok := item.OperatorResults[name]
		if !ok {
			return nil
		}
		return &v
	}
	raw, ok := ItemField(item, name)
	if !ok {
		return nil
	}
	return ToFloat(raw)
}

// ItemField exposes the named attribute of an aggregation item the way a loosely typed
// item would: "value", "display", "count", or an operator result of that name.
func ItemField(item AggregationItem, name string) (any, bool) {
	switch name {
	case "value":
		return item.Value, item.Value != nil
	case "display":
		return item.DisplayOrValue(), true
	case "count":
		return item.Count, true
	}
	if v, ok := item.OperatorResults[name]; ok {
		return v, true
	}
	return nil, false
}

// RecordValue reads a numeric field from a record; operator results do not apply to records.
func RecordValue(record Record, field *ValueField, defaultField string) *float64 {
	name := defaultField
	if field != nil && field.Name != "" {
		name = field.Name
	}
	raw, ok := record[name]
	if !ok {
		return nil
	}
	return ToFloat(raw)
}

// ToFloat converts JSON-decoded numbers. Strings are not coerced.
func ToFloat(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}

// Truthy mirrors the loose truthiness the dashboards rely on: nil, 0 and NaN are falsy.
func Truthy(v *float64) bool {
	return v != nil && *v != 0 && !math.IsNaN(*v)
}

// Stringify renders an item value the way it is displayed.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
