// Package stats computes the summaries DataSum shows next to the preview:
// column descriptions, correlation matrices, grouped sums and the
// distribution helpers charts are built from.
package stats

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/yildizm/DataSum/internal/dataset"
)

// NumericSummary describes one numeric column.
type NumericSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Q50    float64 `json:"q50"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// CategoricalSummary describes one non-numeric column.
type CategoricalSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Unique int    `json:"unique"`
	Top    string `json:"top"`
	Freq   int    `json:"freq"`
}

// Description holds either numeric summaries or, when the dataset has no
// numeric columns, summaries of every other column.
type Description struct {
	Numeric     []NumericSummary     `json:"numeric,omitempty"`
	Categorical []CategoricalSummary `json:"categorical,omitempty"`
}

// NumericStats are the row labels of a numeric description.
var NumericStats = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// CategoricalStats are the row labels of a categorical description.
var CategoricalStats = []string{"count", "unique", "top", "freq"}

// Describe summarizes the dataset's numeric columns. Datasets without
// numeric columns get count/unique/top/freq for every column instead.
func Describe(ds *dataset.Dataset) (*Description, error) {
	desc := &Description{}

	numeric := ds.NumericColumns()
	if len(numeric) > 0 {
		for _, name := range numeric {
			values, err := ds.Floats(name)
			if err != nil {
				return nil, err
			}
			desc.Numeric = append(desc.Numeric, DescribeNumeric(name, values))
		}
		return desc, nil
	}

	for _, name := range ds.ColumnNames() {
		values, missing, err := ds.Strings(name)
		if err != nil {
			return nil, err
		}
		desc.Categorical = append(desc.Categorical, DescribeCategorical(name, values, missing))
	}
	return desc, nil
}

// DescribeNumeric summarizes the non-NaN values of x. Std uses the sample
// (n-1) estimator and is NaN below two values.
func DescribeNumeric(name string, x []float64) NumericSummary {
	values := Present(x)
	s := NumericSummary{Column: name, Count: len(values)}

	if len(values) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	s.Mean = stat.Mean(values, nil)
	s.Std = math.NaN()
	if len(values) > 1 {
		s.Std = stat.StdDev(values, nil)
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)

	sort.Float64s(values)
	s.Q25 = percentileSorted(values, 25)
	s.Q50 = percentileSorted(values, 50)
	s.Q75 = percentileSorted(values, 75)
	return s
}

// DescribeCategorical counts distinct present values. Ties for the most
// frequent value go to the one seen first.
func DescribeCategorical(name string, values []string, missing []bool) CategoricalSummary {
	s := CategoricalSummary{Column: name}

	counts := make(map[string]int)
	var order []string
	for i, v := range values {
		if i < len(missing) && missing[i] {
			continue
		}
		s.Count++
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	s.Unique = len(counts)
	for _, v := range order {
		if counts[v] > s.Freq {
			s.Top = v
			s.Freq = counts[v]
		}
	}
	return s
}

// Table lays the description out with one row per statistic and one column
// per dataset column, the way describe() output is usually read.
func (d *Description) Table() dataset.Table {
	if len(d.Numeric) > 0 {
		t := dataset.Table{Columns: []string{""}}
		for _, s := range d.Numeric {
			t.Columns = append(t.Columns, s.Column)
		}
		for _, label := range NumericStats {
			row := []string{label}
			for _, s := range d.Numeric {
				row = append(row, s.Value(label))
			}
			t.Rows = append(t.Rows, row)
		}
		return t
	}

	t := dataset.Table{Columns: []string{""}}
	for _, s := range d.Categorical {
		t.Columns = append(t.Columns, s.Column)
	}
	for _, label := range CategoricalStats {
		row := []string{label}
		for _, s := range d.Categorical {
			row = append(row, s.Value(label))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// MarshalJSON writes undefined statistics as null.
func (s NumericSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Column string   `json:"column"`
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Std    *float64 `json:"std"`
		Min    *float64 `json:"min"`
		Q25    *float64 `json:"q25"`
		Q50    *float64 `json:"q50"`
		Q75    *float64 `json:"q75"`
		Max    *float64 `json:"max"`
	}{
		Column: s.Column,
		Count:  s.Count,
		Mean:   Nullable(s.Mean),
		Std:    Nullable(s.Std),
		Min:    Nullable(s.Min),
		Q25:    Nullable(s.Q25),
		Q50:    Nullable(s.Q50),
		Q75:    Nullable(s.Q75),
		Max:    Nullable(s.Max),
	})
}

// Value formats the named statistic.
func (s NumericSummary) Value(label string) string {
	switch label {
	case "count":
		return strconv.Itoa(s.Count)
	case "mean":
		return FormatFloat(s.Mean)
	case "std":
		return FormatFloat(s.Std)
	case "min":
		return FormatFloat(s.Min)
	case "25%":
		return FormatFloat(s.Q25)
	case "50%":
		return FormatFloat(s.Q50)
	case "75%":
		return FormatFloat(s.Q75)
	case "max":
		return FormatFloat(s.Max)
	}
	return ""
}

// Value formats the named statistic.
func (s CategoricalSummary) Value(label string) string {
	switch label {
	case "count":
		return strconv.Itoa(s.Count)
	case "unique":
		return strconv.Itoa(s.Unique)
	case "top":
		if s.Count == 0 {
			return "NaN"
		}
		return s.Top
	case "freq":
		if s.Count == 0 {
			return "NaN"
		}
		return strconv.Itoa(s.Freq)
	}
	return ""
}

// FormatFloat renders v with up to six significant decimals, NaN as "NaN".
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(roundTo(v, 6), 'f', -1, 64)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
