package stats

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Matrix is a labelled square matrix of pairwise correlations.
type Matrix struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

// Size returns the number of rows (and columns).
func (m *Matrix) Size() int {
	return len(m.Labels)
}

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// MarshalJSON writes NaN cells as null.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j, v := range row {
			values[i][j] = Nullable(v)
		}
	}
	return json.Marshal(struct {
		Labels []string     `json:"labels"`
		Values [][]*float64 `json:"values"`
	}{m.Labels, values})
}

// Nullable maps NaN and infinities to nil for JSON output.
func Nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Correlation computes Pearson correlation between every pair of columns
// using the rows where both values are present. Pairs with fewer than two
// shared rows, or where either side is constant, are NaN. The result is
// symmetric; the diagonal is 1 for any column with non-zero variance.
// Zero columns produce an empty matrix.
func Correlation(labels []string, columns [][]float64) *Matrix {
	n := len(labels)
	m := &Matrix{Labels: append([]string(nil), labels...), Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pairwise(columns[i], columns[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pairwise(x, y []float64) float64 {
	var xs, ys []float64
	for k := 0; k < len(x) && k < len(y); k++ {
		if math.IsNaN(x[k]) || math.IsNaN(y[k]) {
			continue
		}
		xs = append(xs, x[k])
		ys = append(ys, y[k])
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN()
	}

	r := stat.Correlation(xs, ys, nil)
	// Clamp rounding drift so |r| never exceeds 1
	return math.Max(-1, math.Min(1, r))
}

func constant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}
