package widget

import (
	"go-analytics/internal/features/chart"
	"go-analytics/internal/features/dataset"
	"go-analytics/internal/features/heatmap"
	"go-analytics/internal/features/multilevelpie"
	"go-analytics/internal/features/stat"
	"go-analytics/internal/features/timeline"
)

// Built-in audit analytics widgets. Query names refer to the queries registered on the
// dataset service.
var builtinWidgets = []Config{
	// Stat cards
	{
		ID: "queries", Kind: KindStat, Query: "AuditQueries", Icon: "fas fa-search", Title: "Queries",
		Stat: &stat.Config{ValueLocation: dataset.LocationTotalRecordCount, Asc: true},
	},
	{
		ID: "users", Kind: KindStat, Query: "AuditUsers", Icon: "fas fa-user", Title: "Users",
		Stat: &stat.Config{ValueLocation: dataset.LocationAggregations, Asc: true},
	},
	{
		ID: "sessions", Kind: KindStat, Query: "AuditSessions", Icon: "fas fa-user-clock", Title: "Sessions",
		Stat: &stat.Config{ValueLocation: dataset.LocationAggregations, Asc: true},
	},
	{
		ID: "queriesPerSession", Kind: KindStat, Query: "AuditQueries", Icon: "fas fa-divide", Title: "Queries per session",
		Stat: &stat.Config{
			ValueLocation:        dataset.LocationTotalRecordCount,
			Computation:          stat.ComputationDivision,
			RelatedQuery:         "AuditSessions",
			RelatedValueLocation: dataset.LocationAggregations,
			Asc:                  true,
		},
	},
	{
		ID: "searchesWithoutResult", Kind: KindStat, Query: "AuditNoResults", Icon: "fas fa-search-minus", Title: "Searches without result",
		Stat: &stat.Config{
			ValueLocation: dataset.LocationTotalRecordCount,
			Computation:   stat.ComputationPercentage,
			RelatedQuery:  "AuditQueries",
		},
	},
	{
		ID: "clickThroughRate", Kind: KindStat, Query: "AuditClicks", Icon: "fas fa-mouse-pointer", Title: "Click-through rate",
		Stat: &stat.Config{
			ValueLocation: dataset.LocationTotalRecordCount,
			Computation:   stat.ComputationPercentage,
			RelatedQuery:  "AuditQueries",
			Asc:           true,
		},
	},
	{
		ID: "avgClickPosition", Kind: KindStat, Query: "AuditClickPositions", Icon: "fas fa-sort-numeric-down", Title: "Average click position",
		Stat: &stat.Config{
			ValueLocation: dataset.LocationAggregations,
			ValueField:    &dataset.ValueField{Name: "avg", IsOperatorResult: true},
			Operation:     stat.OperationAvg,
		},
	},

	// Timelines
	{
		ID: "searchesTimeline", Kind: KindTimeline, Query: "AuditTimeline", Icon: "fas fa-chart-line", Title: "Searches over time",
		Timeline: &TimelineParams{
			Aggregations: []timeline.SeriesSpec{{
				Name:      "Searches",
				DateField: "value",
				ValueFields: []timeline.ValueField{
					{Name: "count", Title: "Searches", IsPrimary: true},
				},
			}},
			ShowPreviousPeriod: true,
		},
	},
	{
		ID: "usersTimeline", Kind: KindTimeline, Query: "AuditTimeline", Icon: "fas fa-chart-area", Title: "Users and sessions over time",
		Timeline: &TimelineParams{
			Aggregations: []timeline.SeriesSpec{{
				Name:      "Sessions",
				DateField: "value",
				ValueFields: []timeline.ValueField{
					{Name: "users", Title: "Users", IsOperatorResult: true, IsPrimary: true},
					{Name: "sessions", Title: "Sessions", IsOperatorResult: true},
				},
			}},
		},
	},

	// Distributions
	{
		ID: "topProfiles", Kind: KindChart, Query: "AuditDistributions", Icon: "fas fa-chart-bar", Title: "Top profiles",
		Chart: &chart.Config{
			Aggregation: "Profiles",
			ChartType:   chart.ChartTypeBar,
			ValueField:  "display",
			ChartTypes:  []chart.ChartType{chart.ChartTypeBar, chart.ChartTypePie, chart.ChartTypeTable},
		},
	},
	{
		ID: "topSources", Kind: KindChart, Query: "AuditDistributions", Icon: "fas fa-chart-pie", Title: "Top sources",
		Chart: &chart.Config{
			Aggregation: "Sources",
			ChartType:   chart.ChartTypePie,
			ChartTypes:  []chart.ChartType{chart.ChartTypePie, chart.ChartTypeDonut, chart.ChartTypeBar},
		},
	},
	{
		ID: "topQueries", Kind: KindGrid, Query: "AuditDistributions", Icon: "fas fa-th-list", Title: "Top queries",
		Grid: &chart.Config{Aggregation: "TopQueries"},
	},
	{
		ID: "topNoResultQueries", Kind: KindGrid, Query: "AuditDistributions", Icon: "fas fa-th-list", Title: "Top queries without result",
		Grid: &chart.Config{Aggregation: "TopNoResultQueries"},
	},
	{
		ID: "appProfileHeatmap", Kind: KindHeatmap, Query: "AuditCrossDistributions", Icon: "fas fa-th", Title: "Applications by profile",
		Heatmap: &heatmap.Config{Aggregation: "AppProfile"},
	},

	// Search outcome
	{
		ID: "searchOutcome", Kind: KindMultiLevelPie, Icon: "fas fa-chart-pie", Title: "Search outcome",
		MultiLevelPie: &multilevelpie.Config{
			Categories: []multilevelpie.Node{{
				Label: "Searches",
				Value: "queries",
				Children: []multilevelpie.Node{
					{
						Label: "With results",
						Value: "queries - noresults",
						Children: []multilevelpie.Node{
							{Label: "Clicked", Value: "clicks"},
							{Label: "Not clicked", Value: "queries - noresults - clicks"},
						},
					},
					{Label: "Without results", Value: "noresults"},
				},
			}},
			Bindings: []multilevelpie.Binding{
				{Query: "queries", ValueLocation: dataset.LocationTotalRecordCount},
				{Query: "noresults", ValueLocation: dataset.LocationTotalRecordCount},
				{Query: "clicks", ValueLocation: dataset.LocationTotalRecordCount},
			},
		},
	},
}

var builtinPalettes = []Palette{
	{Name: "Statistics", Widgets: []string{"queries", "users", "sessions", "queriesPerSession", "searchesWithoutResult", "clickThroughRate", "avgClickPosition"}},
	{Name: "Timelines", Widgets: []string{"searchesTimeline", "usersTimeline"}},
	{Name: "Distributions", Widgets: []string{"topProfiles", "topSources", "topQueries", "topNoResultQueries", "appProfileHeatmap", "searchOutcome"}},
}

var builtinDashboards = []Template{
	{
		Name: "Overview",
		Items: []Placement{
			{Widget: "queries", X: 0, Y: 0},
			{Widget: "users", X: 2, Y: 0},
			{Widget: "sessions", X: 4, Y: 0},
			{Widget: "queriesPerSession", X: 6, Y: 0},
			{Widget: "searchesTimeline", X: 0, Y: 1, Cols: 8},
			{Widget: "topProfiles", X: 0, Y: 4},
			{Widget: "topSources", X: 4, Y: 4},
		},
	},
	{
		Name: "Search quality",
		Items: []Placement{
			{Widget: "searchesWithoutResult", X: 0, Y: 0},
			{Widget: "clickThroughRate", X: 2, Y: 0},
			{Widget: "avgClickPosition", X: 4, Y: 0},
			{Widget: "searchOutcome", X: 0, Y: 1},
			{Widget: "topNoResultQueries", X: 4, Y: 1},
			{Widget: "appProfileHeatmap", X: 0, Y: 4, Cols: 8},
		},
	},
}

// Default returns the built-in catalogue.
func Default() Catalog {
	c := Catalog{Widgets: make(map[string]Config, len(builtinWidgets))}
	for _, w := range builtinWidgets {
		c.Widgets[w.ID] = w.Clone()
	}
	c.Palettes = append([]Palette(nil), builtinPalettes...)
	c.Dashboards = append([]Template(nil), builtinDashboards...)
	return c
}
