package analyzer

import (
	"time"

	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/stats"
)

// Analysis is everything the dashboard shows for one dataset
type Analysis struct {
	Dataset     DatasetInfo        `json:"dataset"`
	Window      dataset.RowWindow  `json:"preview_window"`
	Preview     dataset.Table      `json:"preview"`
	Statistics  *stats.Description `json:"statistics"`
	Columns     []dataset.Column   `json:"columns"`
	Chart       *chart.Result      `json:"chart,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// DatasetInfo identifies the analyzed dataset
type DatasetInfo struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Format   string    `json:"format"`
	Rows     int       `json:"rows"`
	Columns  int       `json:"columns"`
	LoadedAt time.Time `json:"loaded_at"`
}

// NumericColumns returns the names of numeric columns in file order
func (a *Analysis) NumericColumns() []string {
	return a.columnsOfKind(dataset.KindNumeric)
}

// CategoricalColumns returns the names of object columns in file order
func (a *Analysis) CategoricalColumns() []string {
	return a.columnsOfKind(dataset.KindCategorical)
}

func (a *Analysis) columnsOfKind(kind dataset.Kind) []string {
	var names []string
	for _, c := range a.Columns {
		if c.Kind == kind {
			names = append(names, c.Name)
		}
	}
	return names
}

// MissingCells totals missing values across all columns
func (a *Analysis) MissingCells() int {
	total := 0
	for _, c := range a.Columns {
		total += c.Missing
	}
	return total
}
