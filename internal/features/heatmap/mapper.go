package heatmap

import (
	"errors"
	"fmt"
	"strings"

	"go-analytics/internal/features/dataset"
)

const separator = "/"

// ErrMalformedCompositeKey is returned when a column or item value does not hold two
// "/"-separated parts. It signals a broken query definition, not missing data.
var ErrMalformedCompositeKey = errors.New("malformed composite key")

type Config struct {
	Aggregation string `json:"aggregation"`
}

type Axis struct {
	Value   string `json:"value"`
	Display string `json:"display"`
}

type Cell struct {
	X      Axis    `json:"x"`
	Y      Axis    `json:"y"`
	Count  float64 `json:"count"`
	FieldX string  `json:"fieldX"`
	FieldY string  `json:"fieldY"`
}

// Map splits a cross-distribution aggregation ("fieldA/fieldB" column, "a/b" item values)
// into heatmap cells. Error and absent results yield no cells.
func Map(result *dataset.QueryResult, aggregationName string) ([]Cell, error) {
	cells := make([]Cell, 0)
	agg := result.Data().FindAggregation(aggregationName)
	if agg == nil {
		return cells, nil
	}

	fields, err := split(agg.Column)
	if err != nil {
		return nil, fmt.Errorf("aggregation %s column: %w", agg.Name, err)
	}

	for _, item := range agg.Items {
		values, err := split(dataset.Stringify(item.Value))
		if err != nil {
			return nil, fmt.Errorf("aggregation %s item: %w", agg.Name, err)
		}
		displays := values
		if item.Display != "" {
			if parts, err := split(item.Display); err == nil {
				displays = parts
			}
		}
		cells = append(cells, Cell{
			X:      Axis{Value: values[0], Display: displays[0]},
			Y:      Axis{Value: values[1], Display: displays[1]},
			Count:  item.Count,
			FieldX: fields[0],
			FieldY: fields[1],
		})
	}
	return cells, nil
}

// split keeps the first two parts of a composite key; anything after a second separator is ignored.
func split(s string) ([2]string, error) {
	parts := strings.Split(s, separator)
	if len(parts) < 2 {
		return [2]string{}, fmt.Errorf("%w: %q", ErrMalformedCompositeKey, s)
	}
	return [2]string{parts[0], parts[1]}, nil
}
