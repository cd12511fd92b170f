package timeline

import (
	"math"
	"sort"
	"strings"
	"time"

	"go-analytics/internal/features/dataset"
)

const previousSuffix = " (previous period)"

// category10 palette; series i uses palette[i % 10].
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
	"2006/01/02",
	"2006-01",
	"2006",
}

// BuildFromAggregation turns the items of the named aggregations into one series per value field.
func BuildFromAggregation(result *dataset.QueryResult, specs []SeriesSpec, opts Options) []Series {
	data := result.Data()
	series := make([]Series, 0)
	if data == nil {
		return series
	}

	for _, spec := range specs {
		agg := data.FindAggregation(spec.Name)
		if agg == nil {
			continue
		}
		dateField := spec.DateField
		if dateField == "" {
			dateField = "value"
		}
		for _, vf := range spec.ValueFields {
			field := &dataset.ValueField{Name: vf.Name, IsOperatorResult: vf.IsOperatorResult}
			points := make([]Point, 0, len(agg.Items))
			for _, item := range agg.Items {
				raw, ok := dataset.ItemField(item, dateField)
				if !ok {
					continue
				}
				points = appendPoint(points, raw, dataset.ItemValue(item, field, "count"), opts)
			}
			series = append(series, newSeries(spec, vf, points, opts))
		}
	}
	return series
}

// BuildFromRecords plots record fields; each record contributes one point per value field.
func BuildFromRecords(result *dataset.QueryResult, spec SeriesSpec, opts Options) []Series {
	data := result.Data()
	series := make([]Series, 0)
	if data == nil || len(data.Records) == 0 {
		return series
	}

	dateField := spec.DateField
	if dateField == "" {
		dateField = "date"
	}
	for _, vf := range spec.ValueFields {
		field := &dataset.ValueField{Name: vf.Name}
		points := make([]Point, 0, len(data.Records))
		for _, record := range data.Records {
			raw, ok := record[dateField]
			if !ok {
				continue
			}
			points = appendPoint(points, raw, dataset.RecordValue(record, field, "value"), opts)
		}
		series = append(series, newSeries(spec, vf, points, opts))
	}
	return series
}

// Combine concatenates the series of one widget and styles them when there is more than one.
func Combine(groups ...[]Series) []Series {
	out := make([]Series, 0)
	for _, g := range groups {
		out = append(out, g...)
	}
	if len(out) < 2 {
		return out
	}
	for i := range out {
		color := palette[i%len(palette)]
		out[i].Style = &Style{LineColor: color, AreaColor: color + "33"}
	}
	return out
}

func appendPoint(points []Point, rawDate any, value *float64, opts Options) []Point {
	if !dataset.Truthy(value) {
		return points
	}
	date, ok := ParseDate(rawDate)
	if !ok {
		return points
	}
	if !opts.IsCurrentPeriod {
		date = opts.PeriodOffset.apply(date)
	}
	return append(points, Point{Date: opts.Mask.Snap(date), Value: *value})
}

func newSeries(spec SeriesSpec, vf ValueField, points []Point, opts Options) Series {
	name := vf.Title
	if name == "" {
		name = vf.Name
	}
	if name == "" {
		name = spec.Name
	}
	if !opts.IsCurrentPeriod {
		name += previousSuffix
	}
	return Series{
		Name:    name,
		Dates:   bridgeGaps(mergeBuckets(points), opts),
		Primary: vf.IsPrimary && opts.IsCurrentPeriod,
	}
}

// mergeBuckets sorts points by date and sums points sharing a bucket.
func mergeBuckets(points []Point) []Point {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	merged := make([]Point, 0, len(points))
	for _, p := range points {
		if n := len(merged); n > 0 && merged[n-1].Date.Equal(p.Date) {
			merged[n-1].Value += p.Value
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

// bridgeGaps inserts zero points around every gap of more than one bucket, so the chart
// drops to zero instead of interpolating across missing periods, and adds one-sided zero
// points before the first and after the last point.
func bridgeGaps(points []Point, opts Options) []Point {
	if len(points) == 0 {
		return points
	}
	mask := opts.Mask

	out := make([]Point, 0, len(points)+4)
	if before := mask.Offset(points[0].Date, -1); inRange(before, opts.Range, mask) {
		out = append(out, Point{Date: before})
	}
	for i, p := range points {
		if i > 0 {
			after := mask.Offset(points[i-1].Date, 1)
			if after.Before(p.Date) {
				out = append(out, Point{Date: after})
				if before := mask.Offset(p.Date, -1); before.After(after) {
					out = append(out, Point{Date: before})
				}
			}
		}
		out = append(out, p)
	}
	if after := mask.Offset(points[len(points)-1].Date, 1); inRange(after, opts.Range, mask) {
		out = append(out, Point{Date: after})
	}
	return out
}

func inRange(t time.Time, r *Range, mask DisplayMask) bool {
	if r == nil {
		return true
	}
	return !t.Before(mask.Snap(r.Start)) && !t.After(r.End)
}

// ParseDate accepts full dates, partial dates ("2024", "2024-03") and numeric years.
// Partial dates resolve to the first day of the month or year. Timestamps with an offset
// keep their wall clock, so they land in the bucket of the day they were recorded on.
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return wallClock(d), true
	case float64:
		if d != math.Trunc(d) || d < 1 || d > 9999 {
			return time.Time{}, false
		}
		return time.Date(int(d), time.January, 1, 0, 0, 0, 0, time.UTC), true
	case int:
		return ParseDate(float64(d))
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return wallClock(t), true
			}
		}
	}
	return time.Time{}, false
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
