package chart

import (
	"reflect"
	"testing"

	"go-analytics/internal/features/dataset"
)

func profilesResult() *dataset.QueryResult {
	return dataset.NewResults(&dataset.Results{
		Aggregations: []dataset.Aggregation{
			{
				Name:   "Profiles",
				Column: "profile",
				Items: []dataset.AggregationItem{
					{Value: "_default", Display: "Default", Count: 42, OperatorResults: map[string]float64{"sum": 99}},
					{Value: "intranet", Count: 7},
				},
			},
		},
	})
}

func TestMapAggregation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []Item
	}{
		{
			name: "defaults use value as label and count as weight",
			cfg:  Config{Aggregation: "profiles"},
			want: []Item{
				{Value: "_default", Display: "_default", Count: 42},
				{Value: "intranet", Display: "intranet", Count: 7},
			},
		},
		{
			name: "display label",
			cfg:  Config{Aggregation: "Profiles", ValueField: "display"},
			want: []Item{
				{Value: "_default", Display: "Default", Count: 42},
				{Value: "intranet", Display: "intranet", Count: 7},
			},
		},
		{
			name: "operator result weight falls back to item field",
			cfg:  Config{Aggregation: "Profiles", WeightField: "sum"},
			want: []Item{
				{Value: "_default", Display: "_default", Count: 99},
				{Value: "intranet", Display: "intranet", Count: 0},
			},
		},
		{
			name: "item attribute weight",
			cfg:  Config{Aggregation: "Profiles", WeightField: "count"},
			want: []Item{
				{Value: "_default", Display: "_default", Count: 42},
				{Value: "intranet", Display: "intranet", Count: 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapAggregation(profilesResult(), tt.cfg)
			if got.Name != "Profiles" {
				t.Errorf("Name = %q, want Profiles", got.Name)
			}
			if !reflect.DeepEqual(got.Items, tt.want) {
				t.Errorf("Items = %+v, want %+v", got.Items, tt.want)
			}
		})
	}
}

func TestMapAggregationEmptyButWellFormed(t *testing.T) {
	inputs := map[string]*dataset.QueryResult{
		"error":               dataset.NewError("timeout"),
		"absent":              nil,
		"unknown aggregation": profilesResult(),
	}
	for name, input := range inputs {
		got := MapAggregation(input, Config{Aggregation: "Missing"})
		if got.Items == nil || len(got.Items) != 0 || got.Name != "Missing" {
			t.Errorf("%s: expected empty aggregation named Missing, got %+v", name, got)
		}
	}
}

func TestMapAggregationDoesNotMutateInput(t *testing.T) {
	input := profilesResult()
	_ = MapAggregation(input, Config{Aggregation: "Profiles", ValueField: "display", WeightField: "sum"})
	if !reflect.DeepEqual(input, profilesResult()) {
		t.Errorf("input result was modified")
	}
}

func TestToggle(t *testing.T) {
	allowed := []ChartType{ChartTypeBar, ChartTypePie, ChartTypeTable}
	if got := Toggle(ChartTypeBar, allowed); got != ChartTypePie {
		t.Errorf("Toggle(bar) = %s, want pie", got)
	}
	if got := Toggle(ChartTypeTable, allowed); got != ChartTypeBar {
		t.Errorf("Toggle(table) = %s, want bar", got)
	}
	if got := Toggle(ChartTypeLine, allowed); got != ChartTypeBar {
		t.Errorf("Toggle(line) = %s, want bar", got)
	}
}
