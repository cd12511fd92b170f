package chart

type ChartType string

const (
	ChartTypeBar    ChartType = "bar"
	ChartTypeColumn ChartType = "column"
	ChartTypeLine   ChartType = "line"
	ChartTypeArea   ChartType = "area"
	ChartTypePie    ChartType = "pie"
	ChartTypeDonut  ChartType = "donut"
	ChartTypeTable  ChartType = "table"
)

var validChartTypes = map[ChartType]bool{
	ChartTypeBar:    true,
	ChartTypeColumn: true,
	ChartTypeLine:   true,
	ChartTypeArea:   true,
	ChartTypePie:    true,
	ChartTypeDonut:  true,
	ChartTypeTable:  true,
}

func (t ChartType) Valid() bool {
	return validChartTypes[t]
}

// Config holds the chart and grid widget parameters.
type Config struct {
	Aggregation string    `json:"aggregation"`
	ChartType   ChartType `json:"chartType,omitempty"`
	// ValueField selects the item attribute used as the category label (default "value").
	ValueField string `json:"valueField,omitempty"`
	// WeightField selects the operator result or item attribute used as the count.
	WeightField string `json:"weightField,omitempty"`
	// ChartTypes lists the types a user may toggle between.
	ChartTypes []ChartType `json:"chartTypes,omitempty"`
}

type Item struct {
	Value   any     `json:"value"`
	Display string  `json:"display"`
	Count   float64 `json:"count"`
}

type Aggregation struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}
