package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Present returns the non-NaN values of x in their original order.
func Present(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Finite returns the values of x that are neither NaN nor infinite, in
// their original order. Charts are drawn over finite values only.
func Finite(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if IsFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Percentile returns the p-th percentile (0 <= p <= 100) using linear
// interpolation between closest ranks. NaN values are ignored; an empty
// input yields NaN.
func Percentile(x []float64, p float64) float64 {
	values := Present(x)
	if len(values) == 0 {
		return math.NaN()
	}
	sort.Float64s(values)
	return percentileSorted(values, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return sorted[lower]
	}
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// BoxStats is the five-number summary drawn by a box plot, with Tukey
// whiskers at the furthest points within 1.5 IQR of the quartiles.
type BoxStats struct {
	Label        string    `json:"label"`
	Count        int       `json:"count"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
}

// Box computes box plot statistics over the finite values of x.
// ok is false when x has no finite values.
func Box(label string, x []float64) (BoxStats, bool) {
	values := Finite(x)
	if len(values) == 0 {
		return BoxStats{Label: label}, false
	}
	sort.Float64s(values)

	b := BoxStats{
		Label:  label,
		Count:  len(values),
		Q1:     percentileSorted(values, 25),
		Median: percentileSorted(values, 50),
		Q3:     percentileSorted(values, 75),
	}
	iqr := b.Q3 - b.Q1
	lowFence := b.Q1 - 1.5*iqr
	highFence := b.Q3 + 1.5*iqr

	b.LowerWhisker = b.Q1
	b.UpperWhisker = b.Q3
	for _, v := range values {
		if v >= lowFence {
			b.LowerWhisker = v
			break
		}
	}
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] <= highFence {
			b.UpperWhisker = values[i]
			break
		}
	}
	for _, v := range values {
		if v < lowFence || v > highFence {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b, true
}

// Bin is one equal-width histogram bucket covering [Low, High).
// The last bin of a histogram is closed on both ends.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// SturgesBins returns ceil(log2(n)) + 1, the default bin count.
func SturgesBins(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// Histogram counts the finite values of x into equal-width bins. A bins
// value of 0 or less selects Sturges' rule.
func Histogram(x []float64, bins int) []Bin {
	values := Finite(x)
	if len(values) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = SturgesBins(len(values))
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		// A single distinct value gets one unit-wide bin centred on it
		return []Bin{{Low: lo - 0.5, High: hi + 0.5, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	out[bins-1].High = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		idx = max(0, min(idx, bins-1))
		out[idx].Count++
	}
	return out
}
