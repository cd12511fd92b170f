package heatmap

import (
	"errors"
	"reflect"
	"testing"

	"go-analytics/internal/features/dataset"
)

func crossResult(column string, items ...dataset.AggregationItem) *dataset.QueryResult {
	return dataset.NewResults(&dataset.Results{
		Aggregations: []dataset.Aggregation{{Name: "Heatmap", Column: column, Items: items}},
	})
}

func TestMap(t *testing.T) {
	result := crossResult("sba/profile",
		dataset.AggregationItem{Value: "A/B", Count: 4},
		dataset.AggregationItem{Value: "app1/_default", Display: "App One/Default", Count: 2},
	)

	got, err := Map(result, "heatmap")
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	want := []Cell{
		{X: Axis{Value: "A", Display: "A"}, Y: Axis{Value: "B", Display: "B"}, Count: 4, FieldX: "sba", FieldY: "profile"},
		{X: Axis{Value: "app1", Display: "App One"}, Y: Axis{Value: "_default", Display: "Default"}, Count: 2, FieldX: "sba", FieldY: "profile"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Map() = %+v, want %+v", got, want)
	}
}

func TestMapRejectsMalformedKeys(t *testing.T) {
	tests := []struct {
		name   string
		result *dataset.QueryResult
	}{
		{name: "item value without separator", result: crossResult("sba/profile", dataset.AggregationItem{Value: "A", Count: 4})},
		{name: "column without separator", result: crossResult("sba", dataset.AggregationItem{Value: "A/B", Count: 4})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Map(tt.result, "Heatmap")
			if !errors.Is(err, ErrMalformedCompositeKey) {
				t.Errorf("expected ErrMalformedCompositeKey, got %v", err)
			}
		})
	}
}

func TestMapKeepsFirstTwoParts(t *testing.T) {
	got, err := Map(crossResult("sba/profile/extra", dataset.AggregationItem{Value: "A/B/C", Display: "a/b/c", Count: 1}), "Heatmap")
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	want := []Cell{{X: Axis{Value: "A", Display: "a"}, Y: Axis{Value: "B", Display: "b"}, Count: 1, FieldX: "sba", FieldY: "profile"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Map() = %+v, want %+v", got, want)
	}
}

func TestMapErrorAndAbsentData(t *testing.T) {
	for name, input := range map[string]*dataset.QueryResult{
		"error":  dataset.NewError("boom"),
		"absent": nil,
	} {
		got, err := Map(input, "Heatmap")
		if err != nil || got == nil || len(got) != 0 {
			t.Errorf("%s: expected no cells and no error, got %v, %v", name, got, err)
		}
	}
}
