// Package dataset holds the in-memory table DataSum explores. A Dataset is
// loaded once from a file and never mutated afterwards; every view derives
// its data from it.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
)

var (
	// ErrUnknownColumn is returned when a column name is not part of the dataset.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNotNumeric is returned when numeric values are requested from a non-numeric column.
	ErrNotNumeric = errors.New("column is not numeric")
)

// Kind classifies a column for chart selection.
type Kind int

const (
	KindCategorical Kind = iota
	KindNumeric
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBoolean:
		return "boolean"
	default:
		return "categorical"
	}
}

// Column describes one column of the dataset.
type Column struct {
	Name    string `json:"name"`
	DType   string `json:"dtype"`
	Kind    Kind   `json:"-"`
	Missing int    `json:"missing"`
}

// Dataset is an immutable table backed by a gota DataFrame.
type Dataset struct {
	ID       string
	Name     string
	Format   Format
	LoadedAt time.Time

	df      dataframe.DataFrame
	columns []Column
	index   map[string]int
}

// New wraps a DataFrame and derives column types from it.
func New(name string, df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("invalid dataframe: %w", df.Err)
	}

	ds := &Dataset{
		ID:       uuid.NewString(),
		Name:     name,
		LoadedAt: time.Now(),
		df:       df,
		index:    make(map[string]int, df.Ncol()),
	}

	for i, colName := range df.Names() {
		s := df.Col(colName)
		ds.columns = append(ds.columns, describeColumn(colName, s))
		ds.index[colName] = i
	}

	return ds, nil
}

// describeColumn maps a gota series type onto the dtype labels shown to users.
func describeColumn(name string, s series.Series) Column {
	missing := 0
	for _, nan := range s.IsNaN() {
		if nan {
			missing++
		}
	}

	col := Column{Name: name, Missing: missing}
	switch s.Type() {
	case series.Int:
		col.Kind = KindNumeric
		col.DType = "int64"
		if missing > 0 {
			col.DType = "float64"
		}
	case series.Float:
		col.Kind = KindNumeric
		col.DType = "float64"
	case series.Bool:
		col.Kind = KindBoolean
		col.DType = "bool"
	default:
		col.Kind = KindCategorical
		col.DType = "object"
		// A column with no values at all reads as float64 NaN
		if s.Len() > 0 && missing == s.Len() {
			col.Kind = KindNumeric
			col.DType = "float64"
		}
	}
	return col
}

// Rows returns the number of data rows.
func (d *Dataset) Rows() int {
	return d.df.Nrow()
}

// Cols returns the number of columns.
func (d *Dataset) Cols() int {
	return len(d.columns)
}

// Columns returns the column descriptions in file order.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// ColumnNames returns all column names in file order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column description by name.
func (d *Dataset) Column(name string) (Column, error) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return d.columns[i], nil
}

// NumericColumns lists int64 and float64 columns in file order.
func (d *Dataset) NumericColumns() []string {
	return d.columnsOfKind(KindNumeric)
}

// CategoricalColumns lists object columns in file order.
func (d *Dataset) CategoricalColumns() []string {
	return d.columnsOfKind(KindCategorical)
}

func (d *Dataset) columnsOfKind(kind Kind) []string {
	names := []string{}
	for _, c := range d.columns {
		if c.Kind == kind {
			names = append(names, c.Name)
		}
	}
	return names
}

// Floats returns the values of a numeric column. Missing values are NaN.
func (d *Dataset) Floats(name string) ([]float64, error) {
	col, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	if col.Kind != KindNumeric {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotNumeric, name, col.DType)
	}

	s := d.df.Col(name)
	values := s.Float()
	for i, nan := range s.IsNaN() {
		if nan {
			values[i] = math.NaN()
		}
	}
	return values, nil
}

// Strings returns the values of any column as text along with a mask of
// missing cells. Missing cells are returned as empty strings.
func (d *Dataset) Strings(name string) ([]string, []bool, error) {
	if _, err := d.Column(name); err != nil {
		return nil, nil, err
	}

	s := d.df.Col(name)
	missing := s.IsNaN()
	values := make([]string, s.Len())
	for i := range values {
		if missing[i] {
			continue
		}
		values[i] = formatElement(s, i)
	}
	return values, missing, nil
}

// Row returns the cells of row i formatted for display.
func (d *Dataset) Row(i int) ([]string, error) {
	if i < 0 || i >= d.Rows() {
		return nil, fmt.Errorf("row %d out of range [0, %d)", i, d.Rows())
	}
	cells := make([]string, len(d.columns))
	for j, c := range d.columns {
		cells[j] = d.cell(c.Name, i)
	}
	return cells, nil
}

func (d *Dataset) cell(name string, i int) string {
	s := d.df.Col(name)
	if s.Elem(i).IsNA() {
		return "NaN"
	}
	return formatElement(s, i)
}

// formatElement renders floats without gota's fixed six decimals.
func formatElement(s series.Series, i int) string {
	e := s.Elem(i)
	if s.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}

// DataFrame exposes the backing frame for read-only use.
func (d *Dataset) DataFrame() dataframe.DataFrame {
	return d.df
}
