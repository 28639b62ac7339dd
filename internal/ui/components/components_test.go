package components

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/emoji"
)

func fixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromRecords("sales.csv", [][]string{
		{"region", "units", "price"},
		{"North", "10", "1.5"},
		{"South", "4", ""},
		{"North", "7", "2.25"},
		{"East", "3", "1.75"},
	}, nil)
	require.NoError(t, err)
	return ds
}

func TestMain(m *testing.M) {
	emoji.SetEmojiDisabled(true)
	m.Run()
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "7", FormatNumber(7))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "anything", Truncate("anything", 0))
}

func TestDataTableAlignsColumns(t *testing.T) {
	table := NewDataTable(fixture(t).Head(3), 12).WithIndex().Render()
	lines := strings.Split(table, "\n")
	require.Len(t, lines, 5)

	assert.Contains(t, lines[0], "region")
	assert.Contains(t, lines[2], "North")
	assert.Contains(t, lines[3], "NaN")
	// numeric columns are right aligned
	assert.True(t, strings.HasSuffix(lines[3], "  NaN"))
	for _, line := range lines[2:] {
		assert.Equal(t, len([]rune(lines[2])), len([]rune(line)))
	}
}

func TestDataTableEmpty(t *testing.T) {
	out := NewDataTable(dataset.Table{Columns: []string{"a"}}, 10).Render()
	assert.Contains(t, out, "(no rows)")
}

func TestRowSlider(t *testing.T) {
	s := NewRowSlider(dataset.NewRowWindow(100, 5, 10), 20)
	out := s.Render()
	assert.Contains(t, out, "Rows to preview")
	assert.Contains(t, out, "10 rows (5-100)")

	empty := NewRowSlider(dataset.NewRowWindow(0, 5, 10), 20).Render()
	assert.Contains(t, empty, "no rows")
}

func TestChartCanvasWarning(t *testing.T) {
	result := &chart.Result{Request: chart.Request{Type: chart.TypePie}, Warning: chart.WarningPie}
	out := NewChartCanvas(result, 60, 12).Render()
	assert.Contains(t, out, chart.WarningPie)
}

func TestChartCanvasRendersEveryType(t *testing.T) {
	ds := fixture(t)
	sel := chart.NewSelector(0, nil)

	for _, typ := range chart.Types {
		t.Run(string(typ), func(t *testing.T) {
			res, err := sel.Select(ds, chart.Request{Type: typ})
			require.NoError(t, err)
			out := NewChartCanvas(res, 60, 12).Render()
			assert.Contains(t, out, res.Chart.Title)
			assert.NotContains(t, out, "No data to display")
		})
	}
}

func TestChartCanvasPieAndHeatmapContent(t *testing.T) {
	ds := fixture(t)
	sel := chart.NewSelector(0, nil)

	pie, err := sel.Select(ds, chart.Request{Type: chart.TypePie, Category: "region", Value: "units"})
	require.NoError(t, err)
	out := NewChartCanvas(pie, 60, 12).Render()
	assert.Contains(t, out, "units by region")
	assert.Contains(t, out, "North")
	assert.Contains(t, out, "70.8%")

	heat, err := sel.Select(ds, chart.Request{Type: chart.TypeHeatmap})
	require.NoError(t, err)
	out = NewChartCanvas(heat, 60, 12).Render()
	assert.Contains(t, out, chart.HeatmapSubtitle)
	assert.Contains(t, out, " 1.00")
}

func TestSparkline(t *testing.T) {
	out := NewSparklineChart([]float64{1, 2, 3, 4}, 4).Render()
	assert.Equal(t, "▁▃▅█", out)
	assert.Empty(t, NewSparklineChart(nil, 4).Render())

	withInf := NewSparklineChart([]float64{1, math.Inf(1), 2, 3, math.Inf(-1), 4}, 4).Render()
	assert.Equal(t, "▁▃▅█", withInf)
}

func TestRecordViewer(t *testing.T) {
	v := NewRecordViewer("Record", fixture(t), 60, 20)
	assert.Contains(t, v.Render(), "row 1 of 4")

	assert.True(t, v.Next())
	out := v.Render()
	assert.Contains(t, out, "South")
	assert.Contains(t, out, "NaN")
	assert.Contains(t, out, "float64")

	v.SetIndex(99)
	assert.Equal(t, 3, v.CurrentIndex)
	assert.False(t, v.Next())
	assert.True(t, v.Previous())
}

func TestLists(t *testing.T) {
	types := NewChartTypeList(chart.TypeBox, 60, 12)
	require.NotNil(t, types.GetSelectedItem())
	assert.Equal(t, "box", types.GetSelectedItem().ID)
	assert.Contains(t, types.Render(), "Correlation Heatmap")

	ds := fixture(t)
	cols := NewColumnList("X axis", ds.NumericColumns(), "price", ds, 30, 10)
	assert.Equal(t, "price", cols.GetSelectedItem().ID)
	assert.Equal(t, "warning", cols.GetSelectedItem().Status)

	none := NewColumnList("Category", nil, "", ds, 30, 10)
	assert.Nil(t, none.GetSelectedItem())
	assert.Contains(t, none.Title, "none available")
}

func TestDatasetStats(t *testing.T) {
	out := CreateDatasetStats(fixture(t)).Render()
	for _, want := range []string{"Rows", "Columns", "Numeric", "Categorical", "Missing"} {
		assert.Contains(t, out, want)
	}
}

func TestColumnSummary(t *testing.T) {
	box := NewColumnSummary(fixture(t), 80)
	require.Len(t, box.Content, 3)
	assert.Contains(t, box.Content[0], "region")
	assert.Contains(t, box.Content[0], "object")
	assert.Contains(t, box.Content[1], "int64")
	assert.Contains(t, box.Content[2], "1 missing")
}
