package chart

import (
	"fmt"
	"sort"

	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/logger"
	"github.com/yildizm/DataSum/internal/stats"
)

// Selector validates chart requests against a dataset and builds charts.
type Selector struct {
	histogramBins int
	logger        *logger.Logger
}

// NewSelector creates a selector. bins <= 0 picks histogram bins with Sturges' rule.
func NewSelector(bins int, log *logger.Logger) *Selector {
	if log == nil {
		log = logger.New("chart", nil)
	}
	return &Selector{histogramBins: bins, logger: log}
}

// Choices returns the columns a chart type may use on ds.
func (s *Selector) Choices(ds *dataset.Dataset, t Type) Choices {
	numeric := ds.NumericColumns()
	switch {
	case t.AxisBased():
		c := Choices{X: numeric}
		if t.UsesY() {
			c.Y = numeric
		}
		return c
	case t == TypePie:
		return Choices{Category: ds.CategoricalColumns(), Value: numeric}
	}
	return Choices{}
}

// Select builds the requested chart. A dataset lacking the columns a chart
// needs yields a warning result; every other failure is returned as an error.
func (s *Selector) Select(ds *dataset.Dataset, req Request) (*Result, error) {
	t, err := ParseType(string(req.Type))
	if err != nil {
		return nil, err
	}
	req.Type = t
	result := &Result{Request: req}

	switch {
	case req.Type.AxisBased():
		numeric := ds.NumericColumns()
		if len(numeric) == 0 {
			result.Warning = WarningNoNumeric
			break
		}
		if result.Request.X, err = pick(req.X, numeric, "x"); err != nil {
			return nil, err
		}
		if req.Type.UsesY() {
			if result.Request.Y, err = pick(req.Y, numeric, "y"); err != nil {
				return nil, err
			}
		}
		result.Chart, err = s.buildAxis(ds, result.Request)

	case req.Type == TypePie:
		categorical, numeric := ds.CategoricalColumns(), ds.NumericColumns()
		if len(categorical) == 0 || len(numeric) == 0 {
			result.Warning = WarningPie
			break
		}
		if result.Request.Category, err = pick(req.Category, categorical, "category"); err != nil {
			return nil, err
		}
		if result.Request.Value, err = pick(req.Value, numeric, "value"); err != nil {
			return nil, err
		}
		result.Chart, err = buildPie(ds, result.Request.Category, result.Request.Value)

	case req.Type == TypeHeatmap:
		result.Chart, err = buildHeatmap(ds)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", req.Type.Title(), err)
	}

	if result.Warned() {
		s.logger.WarnWithFields("chart not drawn", []logger.Field{
			logger.F("type", string(req.Type)),
			logger.F("reason", result.Warning),
		})
	} else {
		s.logger.DebugWithFields("chart built", []logger.Field{
			logger.F("type", string(req.Type)),
			logger.F("dataset", ds.ID),
		})
	}
	return result, nil
}

// pick resolves a requested column against the allowed options. An empty
// request takes the first option.
func pick(requested string, options []string, role string) (string, error) {
	if requested == "" {
		return options[0], nil
	}
	for _, o := range options {
		if o == requested {
			return requested, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not a valid %s column", ErrInvalidColumn, requested, role)
}

func (s *Selector) buildAxis(ds *dataset.Dataset, req Request) (*Chart, error) {
	xs, err := ds.Floats(req.X)
	if err != nil {
		return nil, err
	}

	c := &Chart{Type: req.Type, Title: req.Type.Title(), XLabel: req.X, YLabel: req.Y}

	if req.Type == TypeHistogram {
		c.YLabel = "count"
		c.Bins = stats.Histogram(xs, s.histogramBins)
		return c, nil
	}

	ys, err := ds.Floats(req.Y)
	if err != nil {
		return nil, err
	}

	if req.Type == TypeBox {
		c.Boxes, c.Samples = boxGroups(xs, ys)
		return c, nil
	}

	for i := range xs {
		if !stats.IsFinite(xs[i]) || !stats.IsFinite(ys[i]) {
			continue
		}
		c.Points = append(c.Points, Point{X: xs[i], Y: ys[i]})
	}
	return c, nil
}

// boxGroups splits ys by the distinct values of xs, ascending.
func boxGroups(xs, ys []float64) ([]stats.BoxStats, [][]float64) {
	groups := make(map[float64][]float64)
	var keys []float64
	for i := range xs {
		if !stats.IsFinite(xs[i]) {
			continue
		}
		if _, ok := groups[xs[i]]; !ok {
			keys = append(keys, xs[i])
		}
		groups[xs[i]] = append(groups[xs[i]], ys[i])
	}
	sort.Float64s(keys)

	var boxes []stats.BoxStats
	var samples [][]float64
	for _, k := range keys {
		box, ok := stats.Box(stats.FormatFloat(k), groups[k])
		if !ok {
			continue
		}
		boxes = append(boxes, box)
		samples = append(samples, stats.Finite(groups[k]))
	}
	return boxes, samples
}

func buildPie(ds *dataset.Dataset, category, value string) (*Chart, error) {
	labels, missing, err := ds.Strings(category)
	if err != nil {
		return nil, err
	}
	values, err := ds.Floats(value)
	if err != nil {
		return nil, err
	}

	groups := stats.GroupSum(labels, missing, values)
	shares := stats.Shares(groups)

	c := &Chart{
		Type:   TypePie,
		Title:  fmt.Sprintf("%s by %s", value, category),
		XLabel: category,
		YLabel: value,
	}
	for i, g := range groups {
		c.Slices = append(c.Slices, Slice{Label: g.Label, Value: g.Sum, Share: shares[i]})
	}
	return c, nil
}

func buildHeatmap(ds *dataset.Dataset) (*Chart, error) {
	numeric := ds.NumericColumns()
	columns := make([][]float64, len(numeric))
	for i, name := range numeric {
		values, err := ds.Floats(name)
		if err != nil {
			return nil, err
		}
		columns[i] = values
	}

	return &Chart{
		Type:     TypeHeatmap,
		Title:    TypeHeatmap.Title(),
		Subtitle: HeatmapSubtitle,
		Matrix:   stats.Correlation(numeric, columns),
	}, nil
}
