package widget

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownWidget = errors.New("unknown widget")

// Palette groups catalogue widgets offered together when adding items to a dashboard.
type Palette struct {
	Name    string   `json:"name" bson:"name"`
	Widgets []string `json:"items" bson:"items"`
}

// Placement puts a catalogue widget on a standard dashboard. Zero rows or cols keep the
// widget default size.
type Placement struct {
	Widget string `json:"widget" bson:"widget"`
	X      int    `json:"x" bson:"x"`
	Y      int    `json:"y" bson:"y"`
	Rows   int    `json:"rows,omitempty" bson:"rows,omitempty"`
	Cols   int    `json:"cols,omitempty" bson:"cols,omitempty"`
}

// Template is a standard dashboard offered to users who have none saved.
type Template struct {
	Name  string      `json:"name" bson:"name"`
	Items []Placement `json:"items" bson:"items"`
}

type Catalog struct {
	Widgets    map[string]Config `json:"widgets"`
	Palettes   []Palette         `json:"palettes"`
	Dashboards []Template        `json:"dashboards"`
}

// Merge layers override on top of c. Widgets are keyed by id, palettes and dashboard
// templates by name; override entries win and new entries are appended.
func (c Catalog) Merge(override Catalog) Catalog {
	out := Catalog{Widgets: make(map[string]Config, len(c.Widgets)+len(override.Widgets))}
	for id, w := range c.Widgets {
		out.Widgets[id] = w.Clone()
	}
	for id, w := range override.Widgets {
		w = w.Clone()
		w.ID = id
		out.Widgets[id] = w
	}
	out.Palettes = mergeByName(c.Palettes, override.Palettes, func(p Palette) string { return p.Name })
	out.Dashboards = mergeByName(c.Dashboards, override.Dashboards, func(t Template) string { return t.Name })
	return out
}

func mergeByName[T any](base, override []T, name func(T) string) []T {
	out := make([]T, 0, len(base)+len(override))
	index := make(map[string]int, len(base))
	for _, v := range base {
		index[name(v)] = len(out)
		out = append(out, v)
	}
	for _, v := range override {
		if i, ok := index[name(v)]; ok {
			out[i] = v
			continue
		}
		index[name(v)] = len(out)
		out = append(out, v)
	}
	return out
}

// Widget returns the catalogue template with the given id.
func (c Catalog) Widget(id string) (Config, error) {
	w, ok := c.Widgets[id]
	if !ok {
		return Config{}, fmt.Errorf("%w %q", ErrUnknownWidget, id)
	}
	return w, nil
}

// WidgetIDs lists the catalogue ids in a stable order.
func (c Catalog) WidgetIDs() []string {
	ids := make([]string, 0, len(c.Widgets))
	for id := range c.Widgets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c Catalog) Template(name string) (Template, bool) {
	for _, t := range c.Dashboards {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// Instantiate builds the item list of a standard dashboard. Item ids are derived from the
// placement so that repeated instantiations of a template agree.
func (c Catalog) Instantiate(t Template) ([]Config, error) {
	items := make([]Config, 0, len(t.Items))
	for i, p := range t.Items {
		w, err := c.Widget(p.Widget)
		if err != nil {
			return nil, fmt.Errorf("dashboard %q: %w", t.Name, err)
		}
		if p.Rows > 0 {
			w.Position.Rows = p.Rows
		}
		if p.Cols > 0 {
			w.Position.Cols = p.Cols
		}
		item := NewItem(w, p.X, p.Y)
		item.ID = fmt.Sprintf("%s-%d", p.Widget, i+1)
		items = append(items, item)
	}
	return items, nil
}
