package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	"go-analytics/internal/features/dataset"
	"go-analytics/internal/features/multilevelpie"
	"go-analytics/internal/features/widget"
)

func ptr(v float64) *float64 { return &v }

func totalCount(v float64) *dataset.QueryResult {
	return dataset.NewResults(&dataset.Results{TotalRecordCount: ptr(v)})
}

func catalogItem(t *testing.T, id string) widget.Config {
	t.Helper()
	item, err := widget.Default().Widget(id)
	if err != nil {
		t.Fatalf("catalogue widget %q: %v", id, err)
	}
	return item
}

func render(items []widget.Config, current, previous dataset.Dataset) []WidgetView {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	period := dataset.Period{Start: start, End: start.AddDate(0, 0, 6)}
	data := dataset.PeriodDatasets{Current: current, Previous: previous}
	return RenderItems(context.Background(), multilevelpie.NewResolver(), items, data, period, "YYYY-MM-DD")
}

func TestQueriesDeduplicates(t *testing.T) {
	items := []widget.Config{
		statItem("a", "AuditQueries"),
		catalogItem(t, "queriesPerSession"),
		catalogItem(t, "searchOutcome"),
	}
	got := Queries(items)
	want := []string{"AuditQueries", "AuditSessions", "queries", "noresults", "clicks"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Queries() = %v, want %v", got, want)
	}
}

func TestRenderItemStates(t *testing.T) {
	items := []widget.Config{
		statItem("loading", "Pending"),
		statItem("failed", "Broken"),
		statItem("ready", "AuditQueries"),
	}
	current := dataset.Dataset{
		"Broken":       dataset.NewError("timeout"),
		"AuditQueries": totalCount(20),
	}
	previous := dataset.Dataset{"AuditQueries": totalCount(10)}

	views := render(items, current, previous)

	if views[0].State != StateLoading || views[0].Stat != nil {
		t.Errorf("loading view = %+v", views[0])
	}
	if views[1].State != StateError || views[1].Error != "timeout" {
		t.Errorf("error view = %+v", views[1])
	}
	ready := views[2]
	if ready.State != StateReady || ready.Stat == nil {
		t.Fatalf("ready view = %+v", ready)
	}
	if *ready.Stat.Value != 20 || *ready.Stat.PreviousValue != 10 || *ready.Stat.PercentageChange != 100 {
		t.Errorf("unexpected stat %+v", ready.Stat)
	}
}

func TestRenderInvalidItemIsolated(t *testing.T) {
	broken := statItem("broken", "AuditQueries")
	broken.Stat = nil
	views := render([]widget.Config{broken, statItem("ok", "AuditQueries")}, dataset.Dataset{"AuditQueries": totalCount(3)}, nil)

	if views[0].State != StateError {
		t.Errorf("invalid item state = %s, want error", views[0].State)
	}
	if views[1].State != StateReady {
		t.Errorf("sibling item state = %s, want ready", views[1].State)
	}
}

func TestRenderHeatmapMalformedKey(t *testing.T) {
	item := catalogItem(t, "appProfileHeatmap")
	current := dataset.Dataset{
		"AuditCrossDistributions": dataset.NewResults(&dataset.Results{
			Aggregations: []dataset.Aggregation{{
				Name:   "AppProfile",
				Column: "application",
				Items:  []dataset.AggregationItem{{Value: "web", Count: 3}},
			}},
		}),
	}

	views := render([]widget.Config{item}, current, nil)
	if views[0].State != StateError || views[0].Heatmap != nil {
		t.Errorf("malformed heatmap view = %+v", views[0])
	}
}

func TestRenderChartDefaultsToBar(t *testing.T) {
	item := catalogItem(t, "topProfiles")
	item.Chart.ChartType = ""
	current := dataset.Dataset{
		"AuditDistributions": dataset.NewResults(&dataset.Results{
			Aggregations: []dataset.Aggregation{{
				Name:  "Profiles",
				Items: []dataset.AggregationItem{{Value: "p1", Display: "Profile 1", Count: 5}},
			}},
		}),
	}

	views := render([]widget.Config{item}, current, nil)
	if views[0].State != StateReady || views[0].ChartType != "bar" || views[0].Chart == nil {
		t.Errorf("chart view = %+v", views[0])
	}
}

func TestRenderMultiLevelPiePartialFailure(t *testing.T) {
	item := catalogItem(t, "searchOutcome")
	current := dataset.Dataset{
		"queries":   totalCount(100),
		"noresults": totalCount(30),
		"clicks":    dataset.NewError("boom"),
	}

	views := render([]widget.Config{item}, current, nil)
	view := views[0]
	if view.State != StateReady || len(view.MultiLevelPie) != 1 {
		t.Fatalf("pie view = %+v", view)
	}
	root := view.MultiLevelPie[0]
	if root.Value != 100 || len(root.Category) != 2 {
		t.Fatalf("root = %+v", root)
	}
	if root.Category[0].Value != 70 || root.Category[1].Value != 30 {
		t.Errorf("second level = %+v", root.Category)
	}
	clicked := root.Category[0].Category[0]
	if clicked.Value != 0 || !strings.Contains(clicked.Label, "(error:") {
		t.Errorf("failing category = %+v", clicked)
	}

	// Nothing loaded yet holds the whole pie back.
	views = render([]widget.Config{item}, dataset.Dataset{}, nil)
	if views[0].State != StateLoading {
		t.Errorf("pie without data state = %s, want loading", views[0].State)
	}
}

func TestParseRenderRequest(t *testing.T) {
	now := time.Date(2024, 5, 31, 15, 4, 0, 0, time.UTC)

	req, err := ParseRenderRequest("", "", "app:web", "", now)
	if err != nil {
		t.Fatalf("ParseRenderRequest() error = %v", err)
	}
	if !req.End.Equal(time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)) || !req.Start.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("default period = %s..%s", req.Start, req.End)
	}
	if req.SelectFilter != "app:web" || req.DateMask != "YYYY-MM-DD" {
		t.Errorf("unexpected request %+v", req)
	}

	for _, bad := range [][2]string{{"2024-13-01", ""}, {"2024-05-10", "2024-05-01"}} {
		if _, err := ParseRenderRequest(bad[0], bad[1], "", "", now); err == nil {
			t.Errorf("ParseRenderRequest(%q, %q) expected error", bad[0], bad[1])
		}
	}
	if _, err := ParseRenderRequest("", "", "", "weekly", now); err == nil {
		t.Errorf("expected error for unsupported mask")
	}
}
