package dashboard

import (
	"errors"
	"time"

	"go-analytics/internal/features/chart"
	"go-analytics/internal/features/heatmap"
	"go-analytics/internal/features/multilevelpie"
	"go-analytics/internal/features/stat"
	"go-analytics/internal/features/timeline"
	"go-analytics/internal/features/widget"
)

// DraftPrefix starts the name of every unsaved dashboard. Saved dashboards may not use it.
const DraftPrefix = "draft dashboard"

// User settings keys.
const (
	keyDashboards = "dashboards"
	keyDefault    = "dashboard-default"
	keyLayout     = "dashboard-layout"
)

var (
	ErrInvalidName       = errors.New("dashboard name is required")
	ErrReservedName      = errors.New("dashboard name uses the reserved draft prefix")
	ErrDuplicateName     = errors.New("a dashboard with this name already exists")
	ErrDashboardNotFound = errors.New("dashboard not found")
	ErrWidgetNotFound    = errors.New("widget not found on dashboard")
	ErrInvalidLayout     = errors.New("unsupported layout")
	ErrInvalidShareToken = errors.New("invalid share token")
)

type Dashboard struct {
	Name  string          `json:"name"`
	Items []widget.Config `json:"items"`
	// Draft is set on unsaved dashboards held in the session workspace.
	Draft bool `json:"draft,omitempty"`
}

type Layout string

const (
	LayoutFixed      Layout = "fixed"
	LayoutScrollable Layout = "scrollable"
)

func (l Layout) Valid() bool {
	return l == LayoutFixed || l == LayoutScrollable
}

// RenderRequest selects the current period of a render. Dates are inclusive days.
type RenderRequest struct {
	Start        time.Time
	End          time.Time
	SelectFilter string
	DateMask     timeline.DisplayMask
}

type WidgetState string

const (
	StateLoading WidgetState = "loading"
	StateError   WidgetState = "error"
	StateReady   WidgetState = "ready"
)

// WidgetView is the shaped data of one dashboard item. Only the field matching Kind is set,
// and only in the ready state.
type WidgetView struct {
	ID    string      `json:"id"`
	Kind  widget.Kind `json:"type"`
	Title string      `json:"title"`
	State WidgetState `json:"state"`
	Error string      `json:"error,omitempty"`

	Stat          *stat.Result             `json:"stat,omitempty"`
	Chart         *chart.Aggregation       `json:"chart,omitempty"`
	ChartType     chart.ChartType          `json:"chartType,omitempty"`
	Timeline      []timeline.Series        `json:"timeline,omitempty"`
	Heatmap       []heatmap.Cell           `json:"heatmap,omitempty"`
	Grid          *chart.Aggregation       `json:"grid,omitempty"`
	MultiLevelPie []multilevelpie.Category `json:"multiLevelPie,omitempty"`
}

// WidgetUpdate is a partial change of one item. Nil fields are left untouched.
type WidgetUpdate struct {
	Title    *string          `json:"title,omitempty"`
	Position *widget.Position `json:"position,omitempty"`
	// ToggleChartType moves a chart to the next of its allowed chart types.
	ToggleChartType bool `json:"toggleChartType,omitempty"`
}
