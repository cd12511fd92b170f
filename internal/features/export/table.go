package export

import (
	"fmt"
	"strings"
	"time"

	"go-analytics/internal/features/dashboard"
	"go-analytics/internal/features/multilevelpie"
	"go-analytics/internal/features/widget"
)

// TableOf flattens a ready widget view into rows. Undefined stat values become empty cells.
func TableOf(view dashboard.WidgetView) (Table, error) {
	if view.State != dashboard.StateReady {
		return Table{}, fmt.Errorf("%w: %s is %s", ErrNotReady, view.ID, view.State)
	}
	t := Table{Title: view.Title}

	switch view.Kind {
	case widget.KindStat:
		t.Columns = []string{"metric", "value"}
		if s := view.Stat; s != nil {
			t.Rows = [][]any{
				{"value", optional(s.Value)},
				{"previousValue", optional(s.PreviousValue)},
				{"percentageChange", optional(s.PercentageChange)},
				{"trend", string(s.Trend)},
				{"trendEvaluation", string(s.TrendEvaluation)},
			}
		}
	case widget.KindChart, widget.KindGrid:
		t.Columns = []string{"value", "display", "count"}
		agg := view.Chart
		if agg == nil {
			agg = view.Grid
		}
		if agg != nil {
			for _, item := range agg.Items {
				t.Rows = append(t.Rows, []any{item.Value, item.Display, item.Count})
			}
		}
	case widget.KindTimeline:
		t.Columns = []string{"series", "date", "value"}
		for _, s := range view.Timeline {
			for _, p := range s.Dates {
				t.Rows = append(t.Rows, []any{s.Name, p.Date.Format(time.DateOnly), p.Value})
			}
		}
	case widget.KindHeatmap:
		t.Columns = []string{"x", "y", "count"}
		for _, c := range view.Heatmap {
			t.Rows = append(t.Rows, []any{c.X.Display, c.Y.Display, c.Count})
		}
	case widget.KindMultiLevelPie:
		t.Columns = []string{"category", "value"}
		t.Rows = pieRows(nil, view.MultiLevelPie, t.Rows)
	default:
		return Table{}, fmt.Errorf("%w: %s", widget.ErrUnknownKind, view.Kind)
	}
	return t, nil
}

// pieRows lists every category with its full path, parents first.
func pieRows(path []string, categories []multilevelpie.Category, rows [][]any) [][]any {
	for _, c := range categories {
		p := append(path[:len(path):len(path)], c.Label)
		rows = append(rows, []any{strings.Join(p, " / "), c.Value})
		rows = pieRows(p, c.Category, rows)
	}
	return rows
}

func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
