// Package chart turns a chart request and a dataset into a renderable chart
// or a user-facing warning.
package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yildizm/DataSum/internal/stats"
)

// Type identifies one of the supported charts.
type Type string

const (
	TypeLine      Type = "line"
	TypeBar       Type = "bar"
	TypeScatter   Type = "scatter"
	TypeHistogram Type = "histogram"
	TypeBox       Type = "box"
	TypePie       Type = "pie"
	TypeHeatmap   Type = "heatmap"
)

// Types lists every chart in menu order.
var Types = []Type{TypeLine, TypeBar, TypeScatter, TypeHistogram, TypeBox, TypePie, TypeHeatmap}

// Warnings shown instead of a chart when the dataset lacks suitable columns.
const (
	WarningNoNumeric = "No numeric columns available for selected chart."
	WarningPie       = "Need at least one categorical and one numeric column for pie chart."
)

// HeatmapSubtitle is shown above every correlation heatmap.
const HeatmapSubtitle = "Correlation between numeric columns"

var (
	// ErrUnknownType is returned for a chart type outside Types.
	ErrUnknownType = errors.New("unknown chart type")
	// ErrInvalidColumn is returned when a requested column is not offered for its role.
	ErrInvalidColumn = errors.New("invalid column")
)

var titles = map[Type]string{
	TypeLine:      "Line Chart",
	TypeBar:       "Bar Chart",
	TypeScatter:   "Scatter Plot",
	TypeHistogram: "Histogram",
	TypeBox:       "Box Plot",
	TypePie:       "Pie Chart",
	TypeHeatmap:   "Correlation Heatmap",
}

// Title returns the menu label.
func (t Type) Title() string {
	if title, ok := titles[t]; ok {
		return title
	}
	return string(t)
}

// AxisBased reports whether the chart is drawn against numeric X/Y axes.
func (t Type) AxisBased() bool {
	switch t {
	case TypeLine, TypeBar, TypeScatter, TypeHistogram, TypeBox:
		return true
	}
	return false
}

// UsesY reports whether the chart reads a Y column.
func (t Type) UsesY() bool {
	return t.AxisBased() && t != TypeHistogram
}

// ParseType accepts an identifier ("pie") or a menu label ("Pie Chart").
func ParseType(s string) (Type, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Types {
		if needle == string(t) || needle == strings.ToLower(t.Title()) {
			return t, nil
		}
	}
	if needle == "correlation" {
		return TypeHeatmap, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownType, s)
}

// Request is the user's chart choice. Empty column fields select the first
// available option for that role.
type Request struct {
	Type     Type   `json:"type"`
	X        string `json:"x,omitempty"`
	Y        string `json:"y,omitempty"`
	Category string `json:"category,omitempty"`
	Value    string `json:"value,omitempty"`
}

// Point is one (x, y) pair in row order.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Slice is one pie wedge.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Share float64 `json:"share"`
}

// Chart is a fully computed chart, independent of how it is drawn.
type Chart struct {
	Type     Type   `json:"type"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	XLabel   string `json:"x_label,omitempty"`
	YLabel   string `json:"y_label,omitempty"`

	Points  []Point          `json:"points,omitempty"`
	Bins    []stats.Bin      `json:"bins,omitempty"`
	Boxes   []stats.BoxStats `json:"boxes,omitempty"`
	Samples [][]float64      `json:"-"`
	Slices  []Slice          `json:"slices,omitempty"`
	Matrix  *stats.Matrix    `json:"matrix,omitempty"`
}

// Result carries either a chart or a warning, never both.
type Result struct {
	Request Request `json:"request"`
	Chart   *Chart  `json:"chart,omitempty"`
	Warning string  `json:"warning,omitempty"`
}

// Warned reports whether the result is a warning.
func (r *Result) Warned() bool {
	return r.Warning != ""
}

// Choices are the column options offered for each role of a chart type.
type Choices struct {
	X        []string `json:"x,omitempty"`
	Y        []string `json:"y,omitempty"`
	Category []string `json:"category,omitempty"`
	Value    []string `json:"value,omitempty"`
}
