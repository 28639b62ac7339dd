package dataset

// Table is a rectangular block of display strings.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Head returns the first n rows for display. n is clamped to the row count.
func (d *Dataset) Head(n int) Table {
	if n > d.Rows() {
		n = d.Rows()
	}
	if n < 0 {
		n = 0
	}

	t := Table{Columns: d.ColumnNames(), Rows: make([][]string, 0, n)}
	for i := 0; i < n; i++ {
		row, _ := d.Row(i)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// RowWindow models the preview slider: a value bounded by [Min, Max].
type RowWindow struct {
	Min   int `json:"min"`
	Max   int `json:"max"`
	Value int `json:"value"`
}

// NewRowWindow bounds the slider to [min(minRows, rows), rows] and starts it
// at value clamped into that range.
func NewRowWindow(rows, minRows, value int) RowWindow {
	if rows < 0 {
		rows = 0
	}
	lo := minRows
	if lo > rows {
		lo = rows
	}
	if lo < 0 {
		lo = 0
	}
	w := RowWindow{Min: lo, Max: rows}
	w.Value = w.Clamp(value)
	return w
}

// Clamp pulls v into the window bounds.
func (w RowWindow) Clamp(v int) int {
	if v < w.Min {
		return w.Min
	}
	if v > w.Max {
		return w.Max
	}
	return v
}

// Step moves the slider by delta and returns the updated window.
func (w RowWindow) Step(delta int) RowWindow {
	w.Value = w.Clamp(w.Value + delta)
	return w
}

// Fraction reports the slider position in [0, 1].
func (w RowWindow) Fraction() float64 {
	if w.Max == w.Min {
		return 1
	}
	return float64(w.Value-w.Min) / float64(w.Max-w.Min)
}
