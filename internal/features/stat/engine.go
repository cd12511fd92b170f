package stat

import (
	"math"

	"go-analytics/internal/features/dataset"
)

const defaultPrecision = 1

// Compute derives the stat card values for one widget from the previous and current
// period datasets. It is a pure function of its inputs.
//
// Zero is treated like a missing value by Divide, PercentageChange and TrendOf. This keeps
// the historical dashboard behaviour; a genuine zero therefore renders as "no data".
func Compute(previous, current dataset.Dataset, query string, cfg Config) Result {
	var value, previousValue *float64
	if cfg.Computation == ComputationNone {
		value = Round(primary(current, query, cfg), defaultPrecision)
		previousValue = Round(primary(previous, query, cfg), defaultPrecision)
	} else {
		value = Round(combine(cfg.Computation, primary(current, query, cfg), related(current, query, cfg)), defaultPrecision)
		previousValue = Round(combine(cfg.Computation, primary(previous, query, cfg), related(previous, query, cfg)), defaultPrecision)
	}

	trend := TrendOf(value, previousValue)
	return Result{
		Value:            value,
		PreviousValue:    previousValue,
		PercentageChange: PercentageChange(value, previousValue),
		Trend:            trend,
		TrendEvaluation:  Evaluate(trend, cfg.Asc),
	}
}

func primary(ds dataset.Dataset, query string, cfg Config) *float64 {
	return base(ds[query], cfg.ValueLocation, cfg.ValueField, cfg.Operation)
}

func related(ds dataset.Dataset, query string, cfg Config) *float64 {
	relatedQuery := cfg.RelatedQuery
	if relatedQuery == "" {
		relatedQuery = query
	}
	location := cfg.RelatedValueLocation
	if location == "" {
		location = cfg.ValueLocation
	}
	field := cfg.RelatedValueField
	if field == nil {
		field = cfg.ValueField
	}
	return base(ds[relatedQuery], location, field, cfg.RelatedOperation)
}

func base(result *dataset.QueryResult, location dataset.ValueLocation, field *dataset.ValueField, op Operation) *float64 {
	if op == OperationAvg {
		return Average(result, location, field)
	}
	return dataset.Extract(result, location, field)
}

func combine(c Computation, a, b *float64) *float64 {
	switch c {
	case ComputationDivision:
		return Divide(a, b)
	case ComputationPercentage:
		return Percentage(a, b)
	default:
		return nil
	}
}

// Average is the arithmetic mean of the per-item values of the first aggregation, or of
// every record. Items without the field contribute zero. An empty list averages to zero;
// a missing list yields nil.
func Average(result *dataset.QueryResult, location dataset.ValueLocation, field *dataset.ValueField) *float64 {
	data := result.Data()
	if data == nil {
		return nil
	}

	var values []*float64
	switch location {
	case dataset.LocationAggregations:
		if len(data.Aggregations) == 0 || data.Aggregations[0].Items == nil {
			return nil
		}
		for _, item := range data.Aggregations[0].Items {
			values = append(values, dataset.ItemValue(item, field, "count"))
		}
	case dataset.LocationRecords:
		if data.Records == nil {
			return nil
		}
		for _, record := range data.Records {
			values = append(values, dataset.RecordValue(record, field, "count"))
		}
	default:
		return dataset.Extract(result, location, field)
	}

	var sum float64
	for _, v := range values {
		if v != nil {
			sum += *v
		}
	}
	mean := 0.0
	if sum != 0 {
		mean = sum / float64(len(values))
	}
	return &mean
}

// Divide returns a/b, or nil when either operand is falsy (nil, 0 or NaN).
func Divide(a, b *float64) *float64 {
	if !dataset.Truthy(a) || !dataset.Truthy(b) {
		return nil
	}
	v := *a / *b
	return &v
}

func Percentage(a, b *float64) *float64 {
	d := Divide(a, b)
	if d == nil {
		return nil
	}
	v := *d * 100
	return &v
}

// PercentageChange is the rounded absolute change relative to the previous value.
func PercentageChange(current, previous *float64) *float64 {
	if !dataset.Truthy(current) || !dataset.Truthy(previous) {
		return nil
	}
	if *current == *previous {
		zero := 0.0
		return &zero
	}
	v := 100 * math.Abs(*current-*previous) / *previous
	return Round(&v, defaultPrecision)
}

func TrendOf(current, previous *float64) Trend {
	if !dataset.Truthy(current) || !dataset.Truthy(previous) {
		return TrendUndefined
	}
	switch {
	case *current == *previous:
		return TrendStable
	case *current > *previous:
		return TrendIncrease
	default:
		return TrendDecrease
	}
}

// Evaluate judges a trend given whether an increase is good.
func Evaluate(trend Trend, asc bool) TrendEvaluation {
	switch trend {
	case TrendIncrease:
		if asc {
			return EvaluationOK
		}
		return EvaluationKO
	case TrendDecrease:
		if asc {
			return EvaluationKO
		}
		return EvaluationOK
	case TrendStable:
		return EvaluationStable
	default:
		return EvaluationUndefined
	}
}

// Round rounds half up to the given number of decimals. Falsy values pass through
// unrounded, except NaN which becomes nil.
func Round(x *float64, precision int) *float64 {
	if x == nil || math.IsNaN(*x) {
		return nil
	}
	v := *x
	if v == 0 {
		return &v
	}
	p := math.Pow(10, float64(precision))
	v = math.Floor(v*p+0.5) / p
	return &v
}
