package timeline

import (
	"fmt"
	"time"
)

// DisplayMask is the date mask requested from the query service; it fixes the bucket size.
type DisplayMask string

const (
	MaskDay   DisplayMask = "YYYY-MM-DD"
	MaskMonth DisplayMask = "YYYY-MM"
	MaskYear  DisplayMask = "YYYY"
)

func ParseMask(s string) (DisplayMask, error) {
	switch m := DisplayMask(s); m {
	case MaskDay, MaskMonth, MaskYear:
		return m, nil
	case "":
		return MaskDay, nil
	default:
		return "", fmt.Errorf("unsupported display mask %q", s)
	}
}

// Snap truncates t to the start of its bucket.
func (m DisplayMask) Snap(t time.Time) time.Time {
	switch m {
	case MaskYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	case MaskMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// Offset moves a bucket start by n buckets.
func (m DisplayMask) Offset(t time.Time, n int) time.Time {
	switch m {
	case MaskYear:
		return t.AddDate(n, 0, 0)
	case MaskMonth:
		return t.AddDate(0, n, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}

// ValueField is one plotted measure of a series definition.
type ValueField struct {
	Name             string `json:"name"`
	IsOperatorResult bool   `json:"isOperatorResult,omitempty"`
	Title            string `json:"title,omitempty"`
	IsPrimary        bool   `json:"isPrimary,omitempty"`
}

// SeriesSpec selects an aggregation (by name, case-insensitive) or the record list,
// the attribute holding the date, and the measures to plot.
type SeriesSpec struct {
	Name        string       `json:"name"`
	DateField   string       `json:"dateField,omitempty"`
	ValueFields []ValueField `json:"valueFields"`
}

// PeriodOffset shifts previous-period dates so they overlay the current period.
type PeriodOffset struct {
	Years  int `json:"years,omitempty"`
	Months int `json:"months,omitempty"`
	Days   int `json:"days,omitempty"`
}

func (o PeriodOffset) apply(t time.Time) time.Time {
	return t.AddDate(o.Years, o.Months, o.Days)
}

// Range bounds the one-sided zero points added before the first and after the last point.
type Range struct {
	Start time.Time
	End   time.Time
}

type Options struct {
	Mask            DisplayMask
	IsCurrentPeriod bool
	PeriodOffset    PeriodOffset
	Range           *Range
}

type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type Style struct {
	LineColor string `json:"lineColor"`
	AreaColor string `json:"areaColor"`
}

type Series struct {
	Name    string  `json:"name"`
	Dates   []Point `json:"dates"`
	Primary bool    `json:"primary"`
	Style   *Style  `json:"style,omitempty"`
}
