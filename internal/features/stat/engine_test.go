package stat

import (
	"math"
	"reflect"
	"testing"

	"go-analytics/internal/features/dataset"
)

func f(v float64) *float64 { return &v }

func totalCount(v float64) *dataset.QueryResult {
	return dataset.NewResults(&dataset.Results{TotalRecordCount: f(v)})
}

func aggregation(counts ...float64) *dataset.QueryResult {
	items := make([]dataset.AggregationItem, len(counts))
	for i, c := range counts {
		items[i] = dataset.AggregationItem{Value: float64(i), Count: c}
	}
	return dataset.NewResults(&dataset.Results{
		Aggregations: []dataset.Aggregation{{Name: "agg", Items: items}},
	})
}

func equalPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func TestDivideFalsyQuirk(t *testing.T) {
	tests := []struct {
		name string
		a, b *float64
		want *float64
	}{
		{name: "zero numerator is treated as missing", a: f(0), b: f(5), want: nil},
		{name: "missing numerator", a: nil, b: f(5), want: nil},
		{name: "zero denominator", a: f(5), b: f(0), want: nil},
		{name: "nan operand", a: f(math.NaN()), b: f(5), want: nil},
		{name: "regular division", a: f(10), b: f(4), want: f(2.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Divide(tt.a, tt.b); !equalPtr(got, tt.want) {
				t.Errorf("Divide() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := Percentage(f(1), f(4)); !equalPtr(got, f(25)) {
		t.Errorf("Percentage() = %v, want 25", got)
	}
}

func TestEvaluateTable(t *testing.T) {
	tests := []struct {
		trend Trend
		asc   bool
		want  TrendEvaluation
	}{
		{TrendIncrease, true, EvaluationOK},
		{TrendIncrease, false, EvaluationKO},
		{TrendDecrease, true, EvaluationKO},
		{TrendDecrease, false, EvaluationOK},
		{TrendStable, true, EvaluationStable},
		{TrendStable, false, EvaluationStable},
		{TrendUndefined, true, EvaluationUndefined},
		{TrendUndefined, false, EvaluationUndefined},
	}
	for _, tt := range tests {
		if got := Evaluate(tt.trend, tt.asc); got != tt.want {
			t.Errorf("Evaluate(%q, %v) = %q, want %q", tt.trend, tt.asc, got, tt.want)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in, want *float64
	}{
		{f(1.25), f(1.3)},
		{f(1.24), f(1.2)},
		{f(-1.25), f(-1.2)},
		{f(0), f(0)},
		{nil, nil},
		{f(math.NaN()), nil},
	}
	for _, tt := range tests {
		if got := Round(tt.in, 1); !equalPtr(got, tt.want) {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestComputeSimpleValue(t *testing.T) {
	current := dataset.Dataset{"users": totalCount(150)}
	previous := dataset.Dataset{"users": totalCount(120)}
	cfg := Config{ValueLocation: dataset.LocationTotalRecordCount, Asc: true}

	got := Compute(previous, current, "users", cfg)

	want := Result{
		Value:            f(150),
		PreviousValue:    f(120),
		PercentageChange: f(25),
		Trend:            TrendIncrease,
		TrendEvaluation:  EvaluationOK,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compute() = %+v, want %+v", got, want)
	}
}

func TestComputeStableAndMissing(t *testing.T) {
	cfg := Config{ValueLocation: dataset.LocationTotalRecordCount}

	stable := Compute(dataset.Dataset{"q": totalCount(8)}, dataset.Dataset{"q": totalCount(8)}, "q", cfg)
	if stable.Trend != TrendStable || stable.TrendEvaluation != EvaluationStable || !equalPtr(stable.PercentageChange, f(0)) {
		t.Errorf("unexpected stable result: %+v", stable)
	}

	missing := Compute(dataset.Dataset{}, dataset.Dataset{"q": totalCount(8)}, "q", cfg)
	if missing.PreviousValue != nil || missing.PercentageChange != nil || missing.Trend != TrendUndefined || missing.TrendEvaluation != EvaluationUndefined {
		t.Errorf("unexpected missing result: %+v", missing)
	}

	failed := Compute(dataset.Dataset{"q": dataset.NewError("x")}, dataset.Dataset{"q": dataset.NewError("x")}, "q", cfg)
	if failed.Value != nil || failed.PreviousValue != nil {
		t.Errorf("expected nil values for error datasets, got %+v", failed)
	}
}

func TestComputeAverage(t *testing.T) {
	cfg := Config{ValueLocation: dataset.LocationAggregations, Operation: OperationAvg}
	got := Compute(
		dataset.Dataset{"q": aggregation(2, 2)},
		dataset.Dataset{"q": aggregation(1, 2, 4)},
		"q", cfg,
	)
	if !equalPtr(got.Value, f(2.3)) {
		t.Errorf("Value = %v, want 2.3", got.Value)
	}
	if !equalPtr(got.PreviousValue, f(2)) {
		t.Errorf("PreviousValue = %v, want 2", got.PreviousValue)
	}
	if got.Trend != TrendIncrease || got.TrendEvaluation != EvaluationKO {
		t.Errorf("trend = %q/%q, want increase/ko", got.Trend, got.TrendEvaluation)
	}

	empty := Average(dataset.NewResults(&dataset.Results{Aggregations: []dataset.Aggregation{{Name: "a", Items: []dataset.AggregationItem{}}}}), dataset.LocationAggregations, nil)
	if !equalPtr(empty, f(0)) {
		t.Errorf("Average(empty) = %v, want 0", empty)
	}
	if absent := Average(dataset.NewResults(&dataset.Results{}), dataset.LocationAggregations, nil); absent != nil {
		t.Errorf("Average(absent) = %v, want nil", *absent)
	}
}

func TestComputePercentageWithRelatedQuery(t *testing.T) {
	cfg := Config{
		ValueLocation:        dataset.LocationTotalRecordCount,
		Computation:          ComputationPercentage,
		RelatedQuery:         "all-searches",
		RelatedValueLocation: dataset.LocationTotalRecordCount,
		Asc:                  false,
	}
	current := dataset.Dataset{"no-results": totalCount(30), "all-searches": totalCount(400)}
	previous := dataset.Dataset{"no-results": totalCount(40), "all-searches": totalCount(400)}

	got := Compute(previous, current, "no-results", cfg)

	if !equalPtr(got.Value, f(7.5)) || !equalPtr(got.PreviousValue, f(10)) {
		t.Fatalf("values = %v/%v, want 7.5/10", got.Value, got.PreviousValue)
	}
	if !equalPtr(got.PercentageChange, f(25)) {
		t.Errorf("PercentageChange = %v, want 25", got.PercentageChange)
	}
	if got.Trend != TrendDecrease || got.TrendEvaluation != EvaluationOK {
		t.Errorf("trend = %q/%q, want decrease/ok", got.Trend, got.TrendEvaluation)
	}

	zeroNumerator := Compute(previous, dataset.Dataset{"no-results": totalCount(0), "all-searches": totalCount(400)}, "no-results", cfg)
	if zeroNumerator.Value != nil {
		t.Errorf("zero numerator should be treated as missing, got %v", *zeroNumerator.Value)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	current := dataset.Dataset{"q": aggregation(3, 5, 9)}
	previous := dataset.Dataset{"q": aggregation(4, 4)}
	cfg := Config{ValueLocation: dataset.LocationAggregations, Operation: OperationAvg, Asc: true}

	first := Compute(previous, current, "q", cfg)
	second := Compute(previous, current, "q", cfg)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Compute is not idempotent: %+v vs %+v", first, second)
	}
}
