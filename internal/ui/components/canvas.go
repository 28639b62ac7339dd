package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/emoji"
	"github.com/yildizm/DataSum/internal/stats"
)

// ChartCanvas draws a chart result with box-drawing characters.
type ChartCanvas struct {
	Result *chart.Result
	Width  int
	Height int
}

// NewChartCanvas creates a new chart canvas
func NewChartCanvas(result *chart.Result, width, height int) *ChartCanvas {
	return &ChartCanvas{
		Result: result,
		Width:  max(width, 10),
		Height: max(height, 4),
	}
}

// Render renders the chart, or the warning when no chart could be drawn
func (c *ChartCanvas) Render() string {
	titleStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(secondaryColor)

	if c.Result == nil {
		return mutedStyle.Render("No chart selected")
	}
	if c.Result.Warned() {
		return lipgloss.NewStyle().Foreground(warningColor).Bold(true).
			Render(emoji.GetEmoji("warning") + " " + c.Result.Warning)
	}

	ch := c.Result.Chart
	content := []string{titleStyle.Render(ch.Title)}
	if ch.Subtitle != "" {
		content = append(content, mutedStyle.Render(ch.Subtitle))
	}
	content = append(content, "")

	switch ch.Type {
	case chart.TypeLine:
		content = append(content, c.renderXY(ch, true))
	case chart.TypeScatter:
		content = append(content, c.renderXY(ch, false))
	case chart.TypeBar:
		content = append(content, c.renderBars(ch))
	case chart.TypeHistogram:
		content = append(content, c.renderHistogram(ch))
	case chart.TypeBox:
		content = append(content, c.renderBoxes(ch))
	case chart.TypePie:
		content = append(content, c.renderPie(ch))
	case chart.TypeHeatmap:
		content = append(content, c.renderHeatmap(ch))
	}

	return lipgloss.JoinVertical(lipgloss.Left, content...)
}

func empty() string {
	return lipgloss.NewStyle().Foreground(secondaryColor).Render("No data to display")
}

// plotArea is the cell grid inside the axes.
func (c *ChartCanvas) plotArea() (int, int) {
	return max(c.Width-12, 4), max(c.Height-3, 2)
}

func extent(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi
}

func scale(v, lo, hi float64, cells int) int {
	if cells <= 1 || hi <= lo {
		return 0
	}
	i := int(math.Round((v - lo) / (hi - lo) * float64(cells-1)))
	return max(0, min(i, cells-1))
}

func axisLabel(v float64) string {
	s := stats.FormatFloat(roundSignificant(v))
	return Truncate(s, 9)
}

func roundSignificant(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	exp := math.Floor(math.Log10(math.Abs(v)))
	f := math.Pow(10, 3-exp)
	return math.Round(v*f) / f
}

// frame wraps grid rows with a y axis on the left and an x axis below.
func frame(rows []string, yLo, yHi float64, xLeft, xRight, xLabel, yLabel string) string {
	mutedStyle := lipgloss.NewStyle().Foreground(secondaryColor)
	width := 0
	if len(rows) > 0 {
		width = lipgloss.Width(rows[0])
	}

	var lines []string
	if yLabel != "" {
		lines = append(lines, mutedStyle.Render(yLabel))
	}
	for i, row := range rows {
		label := ""
		switch i {
		case 0:
			label = axisLabel(yHi)
		case len(rows) - 1:
			label = axisLabel(yLo)
		}
		lines = append(lines, mutedStyle.Render(runewidth.FillLeft(label, 9)+" │")+row)
	}
	lines = append(lines, mutedStyle.Render(strings.Repeat(" ", 10)+"└"+strings.Repeat("─", width)))

	gap := max(1, width-runewidth.StringWidth(xLeft)-runewidth.StringWidth(xRight))
	axis := strings.Repeat(" ", 11) + xLeft + strings.Repeat(" ", gap) + xRight
	lines = append(lines, mutedStyle.Render(axis))
	if xLabel != "" {
		lines = append(lines, mutedStyle.Render(strings.Repeat(" ", 11)+xLabel))
	}
	return strings.Join(lines, "\n")
}

func (c *ChartCanvas) renderXY(ch *chart.Chart, connect bool) string {
	if len(ch.Points) == 0 {
		return empty()
	}
	w, h := c.plotArea()
	xs := make([]float64, len(ch.Points))
	ys := make([]float64, len(ch.Points))
	for i, p := range ch.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	xLo, xHi := extent(xs)
	yLo, yHi := extent(ys)

	grid := make([][]bool, h)
	for i := range grid {
		grid[i] = make([]bool, w)
	}
	set := func(col, row int) {
		grid[h-1-row][col] = true
	}

	prevCol, prevRow := -1, -1
	for _, p := range ch.Points {
		col, row := scale(p.X, xLo, xHi, w), scale(p.Y, yLo, yHi, h)
		if connect && prevCol >= 0 {
			steps := max(abs(col-prevCol), abs(row-prevRow))
			for s := 1; s < steps; s++ {
				t := float64(s) / float64(steps)
				set(prevCol+int(math.Round(t*float64(col-prevCol))), prevRow+int(math.Round(t*float64(row-prevRow))))
			}
		}
		set(col, row)
		prevCol, prevRow = col, row
	}

	mark := "•"
	if connect {
		mark = "█"
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(chart.SeriesColor(0).Hex()))
	rows := make([]string, h)
	for i, line := range grid {
		var b strings.Builder
		for _, on := range line {
			if on {
				b.WriteString(dot.Render(mark))
			} else {
				b.WriteString(" ")
			}
		}
		rows[i] = b.String()
	}
	return frame(rows, yLo, yHi, axisLabel(xLo), axisLabel(xHi), ch.XLabel, ch.YLabel)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// columnBars draws one vertical bar per value, spread across the plot width.
func (c *ChartCanvas) columnBars(values []float64, xLeft, xRight, xLabel, yLabel string) string {
	if len(values) == 0 {
		return empty()
	}
	w, h := c.plotArea()
	lo, hi := extent(append([]float64{0}, values...))

	barWidth := max(1, w/len(values))
	shown := min(len(values), w)
	zero := scale(0, lo, hi, h)

	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(chart.SeriesColor(0).Hex()))
	rows := make([]string, h)
	for r := 0; r < h; r++ {
		level := h - 1 - r
		var b strings.Builder
		for i := 0; i < shown; i++ {
			v := values[i*len(values)/shown]
			top := scale(v, lo, hi, h)
			filled := !math.IsNaN(v) && ((level <= top && level >= zero) || (level >= top && level <= zero))
			cell := " "
			if filled {
				cell = "█"
			}
			b.WriteString(bar.Render(strings.Repeat(cell, barWidth)))
		}
		rows[r] = b.String()
	}
	return frame(rows, lo, hi, xLeft, xRight, xLabel, yLabel)
}

func (c *ChartCanvas) renderBars(ch *chart.Chart) string {
	if len(ch.Points) == 0 {
		return empty()
	}
	values := make([]float64, len(ch.Points))
	for i, p := range ch.Points {
		values[i] = p.Y
	}
	first, last := ch.Points[0].X, ch.Points[len(ch.Points)-1].X
	return c.columnBars(values, axisLabel(first), axisLabel(last), ch.XLabel, ch.YLabel)
}

func (c *ChartCanvas) renderHistogram(ch *chart.Chart) string {
	if len(ch.Bins) == 0 {
		return empty()
	}
	values := make([]float64, len(ch.Bins))
	for i, b := range ch.Bins {
		values[i] = float64(b.Count)
	}
	return c.columnBars(values, axisLabel(ch.Bins[0].Low), axisLabel(ch.Bins[len(ch.Bins)-1].High), ch.XLabel, ch.YLabel)
}

func (c *ChartCanvas) renderBoxes(ch *chart.Chart) string {
	if len(ch.Boxes) == 0 {
		return empty()
	}
	mutedStyle := lipgloss.NewStyle().Foreground(secondaryColor)
	w, _ := c.plotArea()

	var all []float64
	for _, b := range ch.Boxes {
		all = append(all, b.LowerWhisker, b.UpperWhisker)
		all = append(all, b.Outliers...)
	}
	lo, hi := extent(all)

	lines := []string{mutedStyle.Render(fmt.Sprintf("%s by %s", ch.YLabel, ch.XLabel))}
	for i, b := range ch.Boxes {
		cells := []rune(strings.Repeat(" ", w))
		for _, o := range b.Outliers {
			cells[scale(o, lo, hi, w)] = '∘'
		}
		lw, q1, med, q3, uw := scale(b.LowerWhisker, lo, hi, w), scale(b.Q1, lo, hi, w),
			scale(b.Median, lo, hi, w), scale(b.Q3, lo, hi, w), scale(b.UpperWhisker, lo, hi, w)
		for x := lw; x <= uw; x++ {
			cells[x] = '─'
		}
		for x := q1; x <= q3; x++ {
			cells[x] = '█'
		}
		cells[lw], cells[uw] = '├', '┤'
		cells[med] = '┃'

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(chart.SeriesColor(i).Hex()))
		label := runewidth.FillLeft(Truncate(b.Label, 9), 9)
		lines = append(lines, mutedStyle.Render(label+" │")+style.Render(string(cells)))
	}
	axis := strings.Repeat(" ", 11) + axisLabel(lo)
	axis += strings.Repeat(" ", max(1, w-runewidth.StringWidth(axisLabel(lo))-runewidth.StringWidth(axisLabel(hi)))) + axisLabel(hi)
	lines = append(lines, mutedStyle.Render(axis))
	return strings.Join(lines, "\n")
}

func (c *ChartCanvas) renderPie(ch *chart.Chart) string {
	if len(ch.Slices) == 0 {
		return empty()
	}
	mutedStyle := lipgloss.NewStyle().Foreground(secondaryColor)

	labelWidth := 0
	for _, s := range ch.Slices {
		labelWidth = max(labelWidth, runewidth.StringWidth(s.Label))
	}
	labelWidth = min(labelWidth, 16)
	barWidth := max(c.Width-labelWidth-22, 4)

	var lines []string
	for i, s := range ch.Slices {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(chart.SeriesColor(i).Hex()))
		filled := int(math.Round(s.Share * float64(barWidth)))
		bar := style.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", barWidth-filled))
		label := runewidth.FillRight(Truncate(s.Label, labelWidth), labelWidth)
		lines = append(lines, fmt.Sprintf("%s %s %5.1f%%  %s", style.Render("●")+" "+label, bar, s.Share*100, mutedStyle.Render(stats.FormatFloat(s.Value))))
	}
	return strings.Join(lines, "\n")
}

func (c *ChartCanvas) renderHeatmap(ch *chart.Chart) string {
	m := ch.Matrix
	if m == nil || m.Size() == 0 {
		return empty()
	}
	mutedStyle := lipgloss.NewStyle().Foreground(secondaryColor)

	labelWidth := 0
	for _, l := range m.Labels {
		labelWidth = max(labelWidth, runewidth.StringWidth(l))
	}
	labelWidth = min(labelWidth, 12)
	const cellWidth = 7

	header := strings.Repeat(" ", labelWidth+1)
	for _, l := range m.Labels {
		header += runewidth.FillLeft(Truncate(l, cellWidth-1), cellWidth)
	}
	lines := []string{mutedStyle.Render(header)}

	for i, rowLabel := range m.Labels {
		var b strings.Builder
		b.WriteString(mutedStyle.Render(runewidth.FillRight(Truncate(rowLabel, labelWidth), labelWidth) + " "))
		for j := range m.Labels {
			v := m.At(i, j)
			bg := chart.Coolwarm(v)
			text := "  NaN"
			if !math.IsNaN(v) {
				text = fmt.Sprintf("%5.2f", v)
			}
			cell := lipgloss.NewStyle().
				Background(lipgloss.Color(bg.Hex())).
				Foreground(lipgloss.Color(chart.ContrastText(bg).Hex())).
				Render(runewidth.FillLeft(text, cellWidth))
			b.WriteString(cell)
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// SparklineChart represents a compact sparkline chart
type SparklineChart struct {
	Values []float64
	Width  int
	Min    float64
	Max    float64
}

// NewSparklineChart creates a sparkline over the finite values
func NewSparklineChart(values []float64, width int) *SparklineChart {
	present := stats.Finite(values)
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, v := range present {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	return &SparklineChart{
		Values: present,
		Width:  width,
		Min:    minVal,
		Max:    maxVal,
	}
}

// Render renders the sparkline chart
func (s *SparklineChart) Render() string {
	if len(s.Values) == 0 || s.Width <= 0 {
		return ""
	}

	// Sparkline characters (from lowest to highest)
	chars := []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

	var result strings.Builder

	step := len(s.Values) / s.Width
	if step == 0 {
		step = 1
	}

	for i := 0; i < s.Width && i*step < len(s.Values); i++ {
		value := s.Values[i*step]

		normalized := 0.0
		if s.Max > s.Min {
			normalized = (value - s.Min) / (s.Max - s.Min)
		}

		charIndex := int(normalized * float64(len(chars)-1))
		if charIndex >= len(chars) {
			charIndex = len(chars) - 1
		}

		result.WriteString(chars[charIndex])
	}

	return result.String()
}
