package dataset

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ValueLocation string

const (
	LocationAggregations     ValueLocation = "aggregations"
	LocationRecords          ValueLocation = "records"
	LocationTotalRecordCount ValueLocation = "totalrecordcount"
)

// ValueField names the field read from an aggregation item or record.
// When IsOperatorResult is set, Name is an operator ("avg", "max", "min", "sum")
// looked up in the item's operator results.
type ValueField struct {
	Name             string `json:"name" bson:"name"`
	IsOperatorResult bool   `json:"isOperatorResult,omitempty" bson:"is_operator_result,omitempty"`
}

type AggregationItem struct {
	Value           any                `json:"value"`
	Display         string             `json:"display,omitempty"`
	Count           float64            `json:"count"`
	OperatorResults map[string]float64 `json:"operatorResults,omitempty"`
}

// DisplayOrValue returns the display label, falling back to the stringified value.
func (i AggregationItem) DisplayOrValue() string {
	if i.Display != "" {
		return i.Display
	}
	return Stringify(i.Value)
}

type Aggregation struct {
	Name   string            `json:"name"`
	Column string            `json:"column"`
	Items  []AggregationItem `json:"items"`
}

type Record map[string]any

type Results struct {
	Aggregations     []Aggregation `json:"aggregations"`
	Records          []Record      `json:"records"`
	TotalRecordCount *float64      `json:"totalRecordCount,omitempty"`
}

// FindAggregation returns the aggregation whose name matches case-insensitively.
func (r *Results) FindAggregation(name string) *Aggregation {
	if r == nil {
		return nil
	}
	for i := range r.Aggregations {
		if strings.EqualFold(r.Aggregations[i].Name, name) {
			return &r.Aggregations[i]
		}
	}
	return nil
}

// QueryResult is either a Results value or a fetch error; ErrorMessage tags the error variant.
type QueryResult struct {
	Results      *Results
	ErrorMessage string
}

func NewResults(r *Results) *QueryResult {
	return &QueryResult{Results: r}
}

func NewError(message string) *QueryResult {
	if message == "" {
		message = "unknown error"
	}
	return &QueryResult{ErrorMessage: message}
}

func (q *QueryResult) IsError() bool {
	return q != nil && q.ErrorMessage != ""
}

// Data returns the results of a successful query, or nil for errors and absent results.
func (q *QueryResult) Data() *Results {
	if q == nil || q.IsError() {
		return nil
	}
	return q.Results
}

func (q *QueryResult) UnmarshalJSON(data []byte) error {
	var probe struct {
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.ErrorMessage != "" {
		*q = QueryResult{ErrorMessage: probe.ErrorMessage}
		return nil
	}
	var results Results
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("decode query results: %w", err)
	}
	*q = QueryResult{Results: &results}
	return nil
}

func (q QueryResult) MarshalJSON() ([]byte, error) {
	if q.ErrorMessage != "" {
		return json.Marshal(map[string]string{"errorMessage": q.ErrorMessage})
	}
	if q.Results == nil {
		return []byte("null"), nil
	}
	return json.Marshal(q.Results)
}

type State string

const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateReady   State = "ready"
)

// Dataset maps query names to their results. A missing key means the query has not loaded yet.
type Dataset map[string]*QueryResult

// Lookup distinguishes a query that has not loaded from one that failed.
func (d Dataset) Lookup(name string) (*QueryResult, State) {
	result, ok := d[name]
	if !ok || result == nil {
		return nil, StateLoading
	}
	if result.IsError() {
		return result, StateError
	}
	return result, StateReady
}

// Request is the payload of the bulk query service.
type Request struct {
	SelectFilter string   `json:"selectFilter,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	DateMask     string   `json:"dateMask,omitempty"`
	QueryNames   []string `json:"queryNames"`
}
