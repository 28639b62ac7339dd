package chart

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/iancoleman/strcase"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/yildizm/DataSum/internal/stats"
)

// Exporter draws charts to image files with gonum/plot.
type Exporter struct {
	Width   vg.Length
	Height  vg.Length
	Workers int
}

// NewExporter creates an exporter for images of the given size in inches.
func NewExporter(widthInches, heightInches float64, workers int) *Exporter {
	if workers < 1 {
		workers = 1
	}
	return &Exporter{
		Width:   vg.Length(widthInches) * vg.Inch,
		Height:  vg.Length(heightInches) * vg.Inch,
		Workers: workers,
	}
}

// FileName derives a snake_case image name from the chart title and axes.
func FileName(c *Chart, ext string) string {
	parts := []string{string(c.Type)}
	if c.Type != TypeHeatmap {
		parts = append(parts, c.XLabel, c.YLabel)
	}
	name := strcase.ToSnake(strings.Join(parts, " "))
	if name == "" {
		name = "chart"
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}

// Save writes c to path. The format follows the file extension.
func (e *Exporter) Save(c *Chart, path string) error {
	p, err := e.Plot(c)
	if err != nil {
		return err
	}
	if err := p.Save(e.Width, e.Height, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// WriteTo renders c as format ("png", "svg", "pdf") into w.
func (e *Exporter) WriteTo(c *Chart, w io.Writer, format string) error {
	p, err := e.Plot(c)
	if err != nil {
		return err
	}
	writer, err := p.WriterTo(e.Width, e.Height, format)
	if err != nil {
		return fmt.Errorf("failed to create plot writer: %w", err)
	}
	if _, err := writer.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

// Job pairs a chart with its destination file.
type Job struct {
	Chart *Chart
	Path  string
}

// SaveAll writes every job concurrently. All failures are collected.
func (e *Exporter) SaveAll(ctx context.Context, jobs []Job) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Workers)

	errs := make([]error, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			if dir := filepath.Dir(job.Path); dir != "." {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					errs[i] = fmt.Errorf("failed to create directory %s: %w", dir, err)
					return nil
				}
			}
			errs[i] = e.Save(job.Chart, job.Path)
			return nil
		})
	}
	_ = g.Wait()

	var result *multierror.Error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Plot builds the gonum plot for c.
func (e *Exporter) Plot(c *Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	if c.Subtitle != "" {
		p.Title.Text = c.Title + "\n" + c.Subtitle
	}
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	var err error
	switch c.Type {
	case TypeLine:
		err = addLine(p, c)
	case TypeScatter:
		err = addScatter(p, c)
	case TypeBar:
		err = addBars(p, c)
	case TypeHistogram:
		addHistogram(p, c)
	case TypeBox:
		err = addBoxes(p, c)
	case TypePie:
		addPie(p, c)
	case TypeHeatmap:
		err = addHeatmap(p, c)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownType, c.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to plot %s: %w", c.Type.Title(), err)
	}
	return p, nil
}

func xys(points []Point) plotter.XYs {
	out := make(plotter.XYs, len(points))
	for i, pt := range points {
		out[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return out
}

func addLine(p *plot.Plot, c *Chart) error {
	if len(c.Points) == 0 {
		return nil
	}
	line, err := plotter.NewLine(xys(c.Points))
	if err != nil {
		return err
	}
	line.Color = SeriesColor(0)
	line.Width = vg.Points(1.5)
	p.Add(plotter.NewGrid(), line)
	return nil
}

func addScatter(p *plot.Plot, c *Chart) error {
	if len(c.Points) == 0 {
		return nil
	}
	scatter, err := plotter.NewScatter(xys(c.Points))
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = SeriesColor(0)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(plotter.NewGrid(), scatter)
	return nil
}

func addBars(p *plot.Plot, c *Chart) error {
	if len(c.Points) == 0 {
		return nil
	}
	values := make(plotter.Values, len(c.Points))
	labels := make([]string, len(c.Points))
	for i, pt := range c.Points {
		values[i] = pt.Y
		labels[i] = stats.FormatFloat(pt.X)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(10))
	if err != nil {
		return err
	}
	bars.Color = SeriesColor(0)
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	return nil
}

func addHistogram(p *plot.Plot, c *Chart) {
	if len(c.Bins) == 0 {
		return
	}
	h := &plotter.Histogram{
		FillColor: SeriesColor(0),
		LineStyle: plotter.DefaultLineStyle,
		Width:     c.Bins[0].High - c.Bins[0].Low,
	}
	for _, b := range c.Bins {
		h.Bins = append(h.Bins, plotter.HistogramBin{Min: b.Low, Max: b.High, Weight: float64(b.Count)})
	}
	p.Add(h)
}

func addBoxes(p *plot.Plot, c *Chart) error {
	labels := make([]string, len(c.Boxes))
	for i, box := range c.Boxes {
		b, err := plotter.NewBoxPlot(vg.Points(20), float64(i), plotter.Values(c.Samples[i]))
		if err != nil {
			return err
		}
		b.FillColor = SeriesColor(i)
		p.Add(b)
		labels[i] = box.Label
	}
	if len(labels) > 0 {
		p.NominalX(labels...)
	}
	return nil
}

func addPie(p *plot.Plot, c *Chart) {
	p.HideAxes()
	shares := make([]float64, len(c.Slices))
	for i, s := range c.Slices {
		shares[i] = s.Share
		if s.Share > 0 {
			p.Legend.Add(fmt.Sprintf("%s (%.1f%%)", s.Label, s.Share*100), swatch{index: i})
		}
	}
	p.Legend.Top = true
	p.Add(pieWedges{shares: shares})
}

func addHeatmap(p *plot.Plot, c *Chart) error {
	m := c.Matrix
	if m == nil || m.Size() == 0 {
		return nil
	}

	colors := moreland.SmoothBlueRed()
	colors.SetMin(-1)
	colors.SetMax(1)

	hm := plotter.NewHeatMap(corrGrid{m}, colors.Palette(255))
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	var cells plotter.XYs
	var annotations []string
	for i := 0; i < m.Size(); i++ {
		for j := 0; j < m.Size(); j++ {
			cells = append(cells, plotter.XY{X: float64(j), Y: float64(i)})
			annotations = append(annotations, stats.FormatFloat(roundTo(m.At(i, j), 2)))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: cells, Labels: annotations})
	if err != nil {
		return err
	}
	p.Add(labels)

	p.NominalX(m.Labels...)
	p.NominalY(m.Labels...)
	return nil
}

func roundTo(v float64, places int) float64 {
	if math.IsNaN(v) {
		return v
	}
	f := math.Pow(10, float64(places))
	return math.Round(v*f) / f
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ.
type corrGrid struct {
	m *stats.Matrix
}

func (g corrGrid) Dims() (c, r int)   { return g.m.Size(), g.m.Size() }
func (g corrGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// pieWedges draws filled wedges clockwise from twelve o'clock.
type pieWedges struct {
	shares []float64
}

func (w pieWedges) Plot(c draw.Canvas, _ *plot.Plot) {
	center := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
	radius := c.Max.X - c.Min.X
	if h := c.Max.Y - c.Min.Y; h < radius {
		radius = h
	}
	radius = radius / 2 * 0.9

	start := math.Pi / 2
	for i, share := range w.shares {
		if share <= 0 {
			continue
		}
		sweep := -share * 2 * math.Pi
		var path vg.Path
		path.Move(center)
		path.Arc(center, radius, start, sweep)
		path.Close()
		c.SetColor(SeriesColor(i))
		c.Fill(path)
		start += sweep
	}
}

func (w pieWedges) DataRange() (xmin, xmax, ymin, ymax float64) {
	return 0, 1, 0, 1
}

// swatch is a legend thumbnail in a palette color.
type swatch struct {
	index int
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(SeriesColor(s.index), pts)
}
