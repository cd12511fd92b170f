package dataset

import (
	"encoding/json"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func sampleResult() *QueryResult {
	return NewResults(&Results{
		Aggregations: []Aggregation{
			{
				Name:   "Users",
				Column: "userid",
				Items: []AggregationItem{
					{Value: "alice", Count: 12, OperatorResults: map[string]float64{"avg": 3.5}},
					{Value: "bob", Count: 4},
				},
			},
		},
		Records: []Record{
			{"value": 42.0, "label": "total", "count": 7.0},
		},
		TotalRecordCount: floatPtr(1234),
	})
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		result   *QueryResult
		location ValueLocation
		field    *ValueField
		want     *float64
	}{
		{name: "total record count", result: sampleResult(), location: LocationTotalRecordCount, want: floatPtr(1234)},
		{name: "first record default field", result: sampleResult(), location: LocationRecords, want: floatPtr(42)},
		{name: "first record named field", result: sampleResult(), location: LocationRecords, field: &ValueField{Name: "count"}, want: floatPtr(7)},
		{name: "first record non numeric field", result: sampleResult(), location: LocationRecords, field: &ValueField{Name: "label"}},
		{name: "first aggregation item count", result: sampleResult(), location: LocationAggregations, want: floatPtr(12)},
		{name: "first aggregation item operator", result: sampleResult(), location: LocationAggregations, field: &ValueField{Name: "avg", IsOperatorResult: true}, want: floatPtr(3.5)},
		{name: "missing operator", result: sampleResult(), location: LocationAggregations, field: &ValueField{Name: "max", IsOperatorResult: true}},
		{name: "unknown location", result: sampleResult(), location: ValueLocation("nowhere")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.result, tt.location, tt.field)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Extract() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("Extract() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestExtractNeverPanicsOnMalformedInput(t *testing.T) {
	inputs := map[string]*QueryResult{
		"nil result":        nil,
		"error result":      NewError("boom"),
		"nil results":       {},
		"empty results":     NewResults(&Results{}),
		"empty aggregation": NewResults(&Results{Aggregations: []Aggregation{{Name: "a"}}}),
		"empty records":     NewResults(&Results{Records: []Record{}}),
		"nil record":        NewResults(&Results{Records: []Record{nil}}),
	}
	locations := []ValueLocation{LocationAggregations, LocationRecords, LocationTotalRecordCount}
	fields := []*ValueField{nil, {Name: "value"}, {Name: "sum", IsOperatorResult: true}}

	for name, input := range inputs {
		for _, loc := range locations {
			for _, field := range fields {
				if got := Extract(input, loc, field); got != nil {
					t.Errorf("%s/%s: expected nil, got %v", name, loc, *got)
				}
			}
		}
	}
}

func TestQueryResultJSON(t *testing.T) {
	payload := []byte(`{
		"views": {"aggregations": [{"name": "Timeline", "column": "date", "items": [{"value": "2024-01-01", "count": 3}]}], "totalRecordCount": 3},
		"broken": {"errorMessage": "index unavailable"},
		"pending": null
	}`)

	var ds Dataset
	if err := json.Unmarshal(payload, &ds); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if _, state := ds.Lookup("views"); state != StateReady {
		t.Errorf("views state = %s, want ready", state)
	}
	if res, state := ds.Lookup("broken"); state != StateError || res.ErrorMessage != "index unavailable" {
		t.Errorf("broken state = %s (%v), want error", state, res)
	}
	if _, state := ds.Lookup("pending"); state != StateLoading {
		t.Errorf("pending state = %s, want loading", state)
	}
	if _, state := ds.Lookup("absent"); state != StateLoading {
		t.Errorf("absent state = %s, want loading", state)
	}

	views, _ := ds.Lookup("views")
	if agg := views.Data().FindAggregation("timeline"); agg == nil || len(agg.Items) != 1 {
		t.Fatalf("expected case-insensitive aggregation lookup to find Timeline")
	}
}

func TestDisplayOrValue(t *testing.T) {
	if got := (AggregationItem{Value: 2024.0}).DisplayOrValue(); got != "2024" {
		t.Errorf("DisplayOrValue() = %q, want 2024", got)
	}
	if got := (AggregationItem{Value: "x", Display: "Label"}).DisplayOrValue(); got != "Label" {
		t.Errorf("DisplayOrValue() = %q, want Label", got)
	}
}
