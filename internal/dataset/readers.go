package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yildizm/go-logparser"
)

// cancelCheckPeriod is how many rows are read between context checks.
const cancelCheckPeriod = 1024

func readDelimited(ctx context.Context, r io.Reader, delimiter rune, maxRows int) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.ReuseRecord = false

	var records [][]string
	for {
		if len(records)%cancelCheckPeriod == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		// header plus maxRows data rows
		if maxRows > 0 && len(records) > maxRows {
			break
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return trimBOM(records), nil
}

// trimBOM strips a UTF-8 byte order mark from the first header cell.
func trimBOM(records [][]string) [][]string {
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records
}

func readWorkbook(ctx context.Context, r io.Reader, sheet string, maxRows int) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	if maxRows > 0 && len(rows) > maxRows+1 {
		rows = rows[:maxRows+1]
	}

	// GetRows drops trailing empty cells, pad every row to the header width
	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for i, row := range rows {
		if len(row) > width {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), width)
		}
		padded := make([]string, width)
		copy(padded, row)
		records = append(records, padded)
	}
	return records, nil
}

// readLogLines turns structured log lines into a table with timestamp, level
// and message columns followed by the union of field keys.
func readLogLines(ctx context.Context, r io.Reader, format Format, maxRows int) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var parser logparser.Parser
	switch format {
	case FormatJSONL:
		parser = logparser.NewWithFormat(logparser.FormatJSON)
	case FormatLogfmt:
		parser = logparser.NewWithFormat(logparser.FormatLogfmt)
	default:
		parser = logparser.New()
	}

	entries, err := parser.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse log lines: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if maxRows > 0 && len(entries) > maxRows {
		entries = entries[:maxRows]
	}

	keySet := make(map[string]bool)
	for _, entry := range entries {
		for k := range entry.Fields {
			keySet[k] = true
		}
	}
	for _, reserved := range []string{"timestamp", "level", "message"} {
		delete(keySet, reserved)
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	header := append([]string{"timestamp", "level", "message"}, keys...)
	records := make([][]string, 0, len(entries)+1)
	records = append(records, header)

	for _, entry := range entries {
		row := make([]string, len(header))
		if !entry.Timestamp.IsZero() {
			row[0] = entry.Timestamp.Format(time.RFC3339)
		}
		row[1] = entry.Level
		row[2] = entry.Message
		for i, k := range keys {
			if v, ok := entry.Fields[k]; ok && v != nil {
				row[i+3] = fmt.Sprint(v)
			}
		}
		records = append(records, row)
	}
	return records, nil
}
