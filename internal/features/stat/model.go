package stat

import "go-analytics/internal/features/dataset"

type Operation string

const (
	OperationNone Operation = ""
	OperationAvg  Operation = "avg"
)

type Computation string

const (
	ComputationNone       Computation = ""
	ComputationDivision   Computation = "division"
	ComputationPercentage Computation = "percentage"
)

type Trend string

const (
	TrendUndefined Trend = ""
	TrendIncrease  Trend = "increase"
	TrendDecrease  Trend = "decrease"
	TrendStable    Trend = "stable"
)

type TrendEvaluation string

const (
	EvaluationUndefined TrendEvaluation = ""
	EvaluationOK        TrendEvaluation = "ok"
	EvaluationKO        TrendEvaluation = "ko"
	EvaluationStable    TrendEvaluation = "stable"
)

// Config holds the stat widget parameters. Related* fields describe the second operand
// used by a computation; they default to the primary query, location and field.
type Config struct {
	ValueLocation        dataset.ValueLocation `json:"valueLocation"`
	ValueField           *dataset.ValueField   `json:"valueField,omitempty"`
	Operation            Operation             `json:"operation,omitempty"`
	Computation          Computation           `json:"computation,omitempty"`
	RelatedQuery         string                `json:"relatedQuery,omitempty"`
	RelatedValueLocation dataset.ValueLocation `json:"relatedValueLocation,omitempty"`
	RelatedValueField    *dataset.ValueField   `json:"relatedValueField,omitempty"`
	RelatedOperation     Operation             `json:"relatedOperation,omitempty"`
	// Asc means an increase is good.
	Asc bool `json:"asc"`
}

// Result is recomputed on every dataset refresh. Nil values render as a placeholder.
type Result struct {
	Value            *float64        `json:"value"`
	PreviousValue    *float64        `json:"previousValue"`
	PercentageChange *float64        `json:"percentageChange"`
	Trend            Trend           `json:"trend,omitempty"`
	TrendEvaluation  TrendEvaluation `json:"trendEvaluation,omitempty"`
}
