package stats

import (
	"sort"
)

// Group is the aggregate of one category.
type Group struct {
	Label string  `json:"label"`
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`
}

// GroupSum sums values per distinct label. Rows with a missing label are
// dropped and NaN or infinite values add nothing, so a group made only of
// such values sums to 0.
// Groups come back sorted by label.
func GroupSum(labels []string, missing []bool, values []float64) []Group {
	index := make(map[string]int)
	var groups []Group

	for i, label := range labels {
		if i < len(missing) && missing[i] {
			continue
		}
		if i >= len(values) {
			break
		}
		idx, ok := index[label]
		if !ok {
			idx = len(groups)
			index[label] = idx
			groups = append(groups, Group{Label: label})
		}
		if IsFinite(values[i]) {
			groups[idx].Sum += values[i]
			groups[idx].Count++
		}
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Label < groups[b].Label
	})
	return groups
}

// Shares converts group sums into fractions of the total of positive sums.
// Non-positive groups get a zero share.
func Shares(groups []Group) []float64 {
	total := 0.0
	for _, g := range groups {
		if g.Sum > 0 {
			total += g.Sum
		}
	}
	out := make([]float64, len(groups))
	if total == 0 {
		return out
	}
	for i, g := range groups {
		if g.Sum > 0 {
			out[i] = g.Sum / total
		}
	}
	return out
}
