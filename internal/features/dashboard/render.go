package dashboard

import (
	"context"

	"go-analytics/internal/features/chart"
	"go-analytics/internal/features/dataset"
	"go-analytics/internal/features/heatmap"
	"go-analytics/internal/features/multilevelpie"
	"go-analytics/internal/features/stat"
	"go-analytics/internal/features/timeline"
	"go-analytics/internal/features/widget"
)

// Queries lists every query read by the items, without duplicates.
func Queries(items []widget.Config) []string {
	seen := make(map[string]bool)
	var names []string
	for _, item := range items {
		for _, q := range item.Queries() {
			if !seen[q] {
				seen[q] = true
				names = append(names, q)
			}
		}
	}
	return names
}

// RenderItems shapes every item from the fetched datasets. Items are independent: a
// failing item yields an error view and never affects the others.
func RenderItems(ctx context.Context, resolver *multilevelpie.Resolver, items []widget.Config, data dataset.PeriodDatasets, period dataset.Period, mask timeline.DisplayMask) []WidgetView {
	views := make([]WidgetView, 0, len(items))
	for _, item := range items {
		views = append(views, renderItem(ctx, resolver, item, data, period, mask))
	}
	return views
}

func renderItem(ctx context.Context, resolver *multilevelpie.Resolver, item widget.Config, data dataset.PeriodDatasets, period dataset.Period, mask timeline.DisplayMask) WidgetView {
	view := WidgetView{ID: item.ID, Kind: item.Kind, Title: item.Title}

	if err := item.Validate(); err != nil {
		view.State, view.Error = StateError, err.Error()
		return view
	}
	if state, msg := itemState(item, data.Current); state != StateReady {
		view.State, view.Error = state, msg
		return view
	}
	view.State = StateReady

	current := data.Current[item.Query]
	switch item.Kind {
	case widget.KindStat:
		result := stat.Compute(data.Previous, data.Current, item.Query, *item.Stat)
		view.Stat = &result
	case widget.KindChart:
		agg := chart.MapAggregation(current, *item.Chart)
		view.Chart = &agg
		view.ChartType = item.Chart.ChartType
		if view.ChartType == "" {
			view.ChartType = chart.ChartTypeBar
		}
	case widget.KindGrid:
		agg := chart.MapAggregation(current, *item.Grid)
		view.Grid = &agg
	case widget.KindHeatmap:
		cells, err := heatmap.Map(current, item.Heatmap.Aggregation)
		if err != nil {
			view.State, view.Error = StateError, err.Error()
			return view
		}
		view.Heatmap = cells
	case widget.KindTimeline:
		view.Timeline = renderTimeline(*item.Timeline, current, data.Previous[item.Query], period, mask)
	case widget.KindMultiLevelPie:
		view.MultiLevelPie = resolver.Resolve(ctx, data.Current, item.MultiLevelPie.Categories, item.MultiLevelPie.Bindings)
	}
	return view
}

// itemState derives the widget state from the current dataset. Multi-level pies report
// failed queries per category, so they are only held back while nothing is loaded.
func itemState(item widget.Config, current dataset.Dataset) (WidgetState, string) {
	queries := item.Queries()
	loaded := 0
	for _, q := range queries {
		result, state := current.Lookup(q)
		switch state {
		case dataset.StateError:
			if item.Kind != widget.KindMultiLevelPie {
				return StateError, result.ErrorMessage
			}
			loaded++
		case dataset.StateReady:
			loaded++
		case dataset.StateLoading:
			if item.Kind != widget.KindMultiLevelPie {
				return StateLoading, ""
			}
		}
	}
	if len(queries) > 0 && loaded == 0 {
		return StateLoading, ""
	}
	return StateReady, ""
}

func renderTimeline(p widget.TimelineParams, current, previous *dataset.QueryResult, period dataset.Period, mask timeline.DisplayMask) []timeline.Series {
	rng := &timeline.Range{Start: period.Start, End: period.End}
	cur := timeline.Options{Mask: mask, IsCurrentPeriod: true, Range: rng}
	prev := timeline.Options{
		Mask:         mask,
		PeriodOffset: timeline.PeriodOffset{Days: period.OffsetDays()},
		Range:        rng,
	}

	var groups [][]timeline.Series
	if len(p.Aggregations) > 0 {
		groups = append(groups, timeline.BuildFromAggregation(current, p.Aggregations, cur))
		if p.ShowPreviousPeriod {
			groups = append(groups, timeline.BuildFromAggregation(previous, p.Aggregations, prev))
		}
	}
	if p.Records != nil {
		groups = append(groups, timeline.BuildFromRecords(current, *p.Records, cur))
		if p.ShowPreviousPeriod {
			groups = append(groups, timeline.BuildFromRecords(previous, *p.Records, prev))
		}
	}
	return timeline.Combine(groups...)
}
