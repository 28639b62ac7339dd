package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/yildizm/DataSum/internal/analyzer"
	"github.com/yildizm/DataSum/internal/stats"
)

// csvFormatter writes one row per dataset column with its dtype and
// describe() statistics
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

var csvHeaders = []string{
	"column", "dtype", "kind", "missing",
	"count", "mean", "std", "min", "25%", "50%", "75%", "max",
	"unique", "top", "freq",
}

func (f *csvFormatter) Format(analysis *analyzer.Analysis) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	numeric := map[string]stats.NumericSummary{}
	categorical := map[string]stats.CategoricalSummary{}
	if analysis.Statistics != nil {
		for _, s := range analysis.Statistics.Numeric {
			numeric[s.Column] = s
		}
		for _, s := range analysis.Statistics.Categorical {
			categorical[s.Column] = s
		}
	}

	for _, c := range analysis.Columns {
		record := make([]string, len(csvHeaders))
		record[0] = c.Name
		record[1] = c.DType
		record[2] = c.Kind.String()
		record[3] = strconv.Itoa(c.Missing)

		if s, ok := numeric[c.Name]; ok {
			for i, label := range stats.NumericStats {
				record[4+i] = s.Value(label)
			}
		}
		if s, ok := categorical[c.Name]; ok {
			record[4] = s.Value("count")
			record[12] = s.Value("unique")
			record[13] = s.Value("top")
			record[14] = s.Value("freq")
		}

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}
