package widget

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go-analytics/internal/features/chart"
	"go-analytics/internal/features/dataset"
	"go-analytics/internal/features/heatmap"
	"go-analytics/internal/features/multilevelpie"
	"go-analytics/internal/features/stat"
	"go-analytics/internal/features/timeline"

	"github.com/google/uuid"
)

type Kind string

const (
	KindStat          Kind = "stat"
	KindChart         Kind = "chart"
	KindTimeline      Kind = "timeline"
	KindHeatmap       Kind = "heatmap"
	KindGrid          Kind = "grid"
	KindMultiLevelPie Kind = "multiLevelPie"
)

func (k Kind) Valid() bool {
	switch k {
	case KindStat, KindChart, KindTimeline, KindHeatmap, KindGrid, KindMultiLevelPie:
		return true
	}
	return false
}

var (
	ErrUnknownKind   = errors.New("unknown widget type")
	ErrInvalidConfig = errors.New("invalid widget configuration")
)

// Position is the widget placement on the dashboard grid.
type Position struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// TimelineParams plots series from aggregations, from the record list, or both.
type TimelineParams struct {
	Aggregations       []timeline.SeriesSpec `json:"aggregationsTimeline,omitempty"`
	Records            *timeline.SeriesSpec  `json:"recordsTimeline,omitempty"`
	ShowPreviousPeriod bool                  `json:"showPreviousPeriod,omitempty"`
}

// Config is one dashboard item. Exactly one parameter pointer is set and it matches Kind.
type Config struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"type"`
	Query    string   `json:"query,omitempty"`
	Icon     string   `json:"icon,omitempty"`
	Title    string   `json:"title"`
	Position Position `json:"position"`

	Stat          *stat.Config          `json:"-"`
	Chart         *chart.Config         `json:"-"`
	Timeline      *TimelineParams       `json:"-"`
	Heatmap       *heatmap.Config       `json:"-"`
	Grid          *chart.Config         `json:"-"`
	MultiLevelPie *multilevelpie.Config `json:"-"`
}

// header carries the fields shared by every kind.
type header struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"type"`
	Query    string   `json:"query,omitempty"`
	Icon     string   `json:"icon,omitempty"`
	Title    string   `json:"title"`
	Position Position `json:"position"`
}

func (c Config) params() any {
	switch c.Kind {
	case KindStat:
		return c.Stat
	case KindChart:
		return c.Chart
	case KindTimeline:
		return c.Timeline
	case KindHeatmap:
		return c.Heatmap
	case KindGrid:
		return c.Grid
	case KindMultiLevelPie:
		return c.MultiLevelPie
	}
	return nil
}

// MarshalJSON writes the kind parameters inline next to the common fields.
func (c Config) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage)

	if p := c.params(); p != nil && !isNilParams(p) {
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
	}

	raw, err := json.Marshal(header{ID: c.ID, Kind: c.Kind, Query: c.Query, Icon: c.Icon, Title: c.Title, Position: c.Position})
	if err != nil {
		return nil, err
	}
	var common map[string]json.RawMessage
	if err := json.Unmarshal(raw, &common); err != nil {
		return nil, err
	}
	for k, v := range common {
		fields[k] = v
	}
	return json.Marshal(fields)
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}
	*c = Config{ID: h.ID, Kind: h.Kind, Query: h.Query, Icon: h.Icon, Title: h.Title, Position: h.Position}

	var target any
	switch h.Kind {
	case KindStat:
		c.Stat = &stat.Config{}
		target = c.Stat
	case KindChart:
		c.Chart = &chart.Config{}
		target = c.Chart
	case KindTimeline:
		c.Timeline = &TimelineParams{}
		target = c.Timeline
	case KindHeatmap:
		c.Heatmap = &heatmap.Config{}
		target = c.Heatmap
	case KindGrid:
		c.Grid = &chart.Config{}
		target = c.Grid
	case KindMultiLevelPie:
		c.MultiLevelPie = &multilevelpie.Config{}
		target = c.MultiLevelPie
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, h.Kind)
	}
	return json.Unmarshal(data, target)
}

func isNilParams(p any) bool {
	switch v := p.(type) {
	case *stat.Config:
		return v == nil
	case *chart.Config:
		return v == nil
	case *TimelineParams:
		return v == nil
	case *heatmap.Config:
		return v == nil
	case *multilevelpie.Config:
		return v == nil
	}
	return true
}

// Validate checks that the parameters match the kind and carry what the kind needs.
func (c Config) Validate() error {
	if !c.Kind.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownKind, c.Kind)
	}
	set := 0
	for _, p := range []bool{c.Stat != nil, c.Chart != nil, c.Timeline != nil, c.Heatmap != nil, c.Grid != nil, c.MultiLevelPie != nil} {
		if p {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("%w: widget %q must carry exactly one parameter set, has %d", ErrInvalidConfig, c.ID, set)
	}
	if isNilParams(c.params()) {
		return fmt.Errorf("%w: widget %q of type %q has no %s parameters", ErrInvalidConfig, c.ID, c.Kind, c.Kind)
	}

	switch c.Kind {
	case KindStat:
		if c.Query == "" {
			return c.invalid("query is required")
		}
		switch c.Stat.ValueLocation {
		case dataset.LocationAggregations, dataset.LocationRecords, dataset.LocationTotalRecordCount:
		default:
			return c.invalid(fmt.Sprintf("unsupported value location %q", c.Stat.ValueLocation))
		}
	case KindChart, KindGrid:
		p := c.Chart
		if c.Kind == KindGrid {
			p = c.Grid
		}
		if c.Query == "" || p.Aggregation == "" {
			return c.invalid("query and aggregation are required")
		}
		if p.ChartType != "" && !p.ChartType.Valid() {
			return c.invalid(fmt.Sprintf("unsupported chart type %q", p.ChartType))
		}
	case KindTimeline:
		if c.Query == "" {
			return c.invalid("query is required")
		}
		if len(c.Timeline.Aggregations) == 0 && c.Timeline.Records == nil {
			return c.invalid("at least one series is required")
		}
	case KindHeatmap:
		if c.Query == "" || c.Heatmap.Aggregation == "" {
			return c.invalid("query and aggregation are required")
		}
	case KindMultiLevelPie:
		if len(c.MultiLevelPie.Categories) == 0 || len(c.MultiLevelPie.Bindings) == 0 {
			return c.invalid("categories and queries are required")
		}
	}
	return nil
}

func (c Config) invalid(msg string) error {
	return fmt.Errorf("%w: widget %q: %s", ErrInvalidConfig, c.ID, msg)
}

// Queries lists every named query the widget reads, without duplicates.
func (c Config) Queries() []string {
	var names []string
	add := func(n string) {
		if n != "" && !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	add(c.Query)
	if c.Stat != nil {
		add(c.Stat.RelatedQuery)
	}
	if c.MultiLevelPie != nil {
		for _, q := range c.MultiLevelPie.Queries() {
			add(q)
		}
	}
	return names
}

// Clone returns a copy that shares no parameter state with c.
func (c Config) Clone() Config {
	out := c
	if c.Stat != nil {
		s := *c.Stat
		s.ValueField = cloneField(s.ValueField)
		s.RelatedValueField = cloneField(s.RelatedValueField)
		out.Stat = &s
	}
	if c.Chart != nil {
		p := *c.Chart
		p.ChartTypes = slices.Clone(p.ChartTypes)
		out.Chart = &p
	}
	if c.Grid != nil {
		p := *c.Grid
		p.ChartTypes = slices.Clone(p.ChartTypes)
		out.Grid = &p
	}
	if c.Heatmap != nil {
		p := *c.Heatmap
		out.Heatmap = &p
	}
	if c.Timeline != nil {
		p := TimelineParams{ShowPreviousPeriod: c.Timeline.ShowPreviousPeriod}
		for _, spec := range c.Timeline.Aggregations {
			p.Aggregations = append(p.Aggregations, cloneSpec(spec))
		}
		if c.Timeline.Records != nil {
			r := cloneSpec(*c.Timeline.Records)
			p.Records = &r
		}
		out.Timeline = &p
	}
	if c.MultiLevelPie != nil {
		p := multilevelpie.Config{Categories: cloneNodes(c.MultiLevelPie.Categories)}
		for _, b := range c.MultiLevelPie.Bindings {
			b.ValueField = cloneField(b.ValueField)
			p.Bindings = append(p.Bindings, b)
		}
		out.MultiLevelPie = &p
	}
	return out
}

func cloneField(f *dataset.ValueField) *dataset.ValueField {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneSpec(s timeline.SeriesSpec) timeline.SeriesSpec {
	s.ValueFields = slices.Clone(s.ValueFields)
	return s
}

func cloneNodes(nodes []multilevelpie.Node) []multilevelpie.Node {
	if nodes == nil {
		return nil
	}
	out := make([]multilevelpie.Node, len(nodes))
	for i, n := range nodes {
		n.Children = cloneNodes(n.Children)
		out[i] = n
	}
	return out
}

// DefaultSize is the grid size a new item of the kind gets when its template has none.
func DefaultSize(kind Kind) (rows, cols int) {
	if kind == KindStat {
		return 1, 2
	}
	return 3, 4
}

// NewItem instantiates a template at the given grid position with a fresh id.
func NewItem(template Config, x, y int) Config {
	item := template.Clone()
	item.ID = uuid.NewString()
	item.Position.X = x
	item.Position.Y = y
	rows, cols := DefaultSize(item.Kind)
	if item.Position.Rows <= 0 {
		item.Position.Rows = rows
	}
	if item.Position.Cols <= 0 {
		item.Position.Cols = cols
	}
	return item
}
