package export

import (
	"errors"
	"fmt"
	"strings"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNotReady          = errors.New("widget has no data to export")
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Table is the flat form of a rendered widget.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]any
}

// File is an encoded export ready to be sent.
type File struct {
	Data        []byte
	Filename    string
	ContentType string
}
