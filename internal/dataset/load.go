package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/klauspost/compress/gzip"

	"github.com/yildizm/DataSum/internal/logger"
)

// Format identifies a supported input encoding.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatCSV    Format = "csv"
	FormatTSV    Format = "tsv"
	FormatXLSX   Format = "xlsx"
	FormatJSONL  Format = "jsonl"
	FormatLogfmt Format = "logfmt"
	// FormatLog lets the log parser pick between JSON, logfmt and plain text.
	FormatLog Format = "log"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatCSV, FormatTSV, FormatXLSX, FormatJSONL, FormatLogfmt, FormatLog:
		return f, nil
	default:
		return "", fmt.Errorf("unknown input format %q (available: auto, csv, tsv, xlsx, jsonl, logfmt, log)", s)
	}
}

// DetectFormat picks a format from the file extension, ignoring a trailing .gz.
func DetectFormat(path string) Format {
	name := strings.ToLower(path)
	name = strings.TrimSuffix(name, ".gz")

	switch filepath.Ext(name) {
	case ".tsv", ".tab":
		return FormatTSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".logfmt":
		return FormatLogfmt
	case ".log":
		return FormatLog
	default:
		return FormatCSV
	}
}

// Options control how a file is read.
type Options struct {
	Format    Format
	Delimiter rune
	Sheet     string
	MaxRows   int
	NaNValues []string
}

// DefaultOptions returns options for a comma separated file with auto detection.
func DefaultOptions() Options {
	return Options{
		Format:    FormatAuto,
		Delimiter: ',',
		NaNValues: []string{"NA", "NaN", "<nil>"},
	}
}

// Loader reads tabular files into datasets.
type Loader struct {
	opts   Options
	logger *logger.Logger
}

// NewLoader creates a loader. log may be nil.
func NewLoader(opts Options, log *logger.Logger) *Loader {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if log == nil {
		log = logger.New("dataset", nil)
	}
	return &Loader{opts: opts, logger: log}
}

// LoadFile opens path and parses it. A ".gz" suffix is decompressed on the fly.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Dataset, error) {
	cleanPath := filepath.Clean(path)
	// #nosec G304 - reading user-specified input files is the purpose of this tool
	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", cleanPath, err)
	}
	defer func() { _ = file.Close() }()

	format := l.opts.Format
	if format == FormatAuto || format == "" {
		format = DetectFormat(cleanPath)
	}

	var reader io.Reader = file
	if strings.HasSuffix(strings.ToLower(cleanPath), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", cleanPath, err)
		}
		defer func() { _ = gz.Close() }()
		reader = gz
	}

	return l.Load(ctx, reader, filepath.Base(cleanPath), format)
}

// Load parses r in the given format. FormatAuto falls back to CSV.
func (l *Loader) Load(ctx context.Context, r io.Reader, name string, format Format) (*Dataset, error) {
	if format == FormatAuto || format == "" {
		format = FormatCSV
	}

	l.logger.DebugWithFields("reading input", []logger.Field{
		logger.F("name", name),
		logger.F("format", string(format)),
	})

	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = readDelimited(ctx, r, l.opts.Delimiter, l.opts.MaxRows)
	case FormatTSV:
		records, err = readDelimited(ctx, r, '\t', l.opts.MaxRows)
	case FormatXLSX:
		records, err = readWorkbook(ctx, r, l.opts.Sheet, l.opts.MaxRows)
	case FormatJSONL, FormatLogfmt, FormatLog:
		records, err = readLogLines(ctx, r, format, l.opts.MaxRows)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s as %s: %w", name, format, err)
	}

	ds, err := l.fromRecords(name, records)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset from %s: %w", name, err)
	}
	ds.Format = format

	l.logger.InfoWithFields("dataset loaded", []logger.Field{
		logger.F("id", ds.ID),
		logger.F("rows", ds.Rows()),
		logger.F("cols", ds.Cols()),
	})
	return ds, nil
}

// FromRecords builds a dataset from a header row followed by data rows.
func FromRecords(name string, records [][]string, nanValues []string) (*Dataset, error) {
	return NewLoader(Options{NaNValues: nanValues}, nil).fromRecords(name, records)
}

func (l *Loader) fromRecords(name string, records [][]string) (*Dataset, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("no columns to parse from file")
	}

	header := records[0]
	if len(records) == 1 {
		// Header only: keep the columns, no rows
		cols := make([]series.Series, len(header))
		for i, h := range header {
			cols[i] = series.New([]string{}, series.String, h)
		}
		return New(name, dataframe.New(cols...))
	}

	missing := make(map[string]bool, len(l.opts.NaNValues)+1)
	missing[""] = true
	for _, v := range l.opts.NaNValues {
		missing[v] = true
	}
	for _, row := range records[1:] {
		for j, v := range row {
			if missing[strings.TrimSpace(v)] {
				row[j] = "NaN"
			}
		}
	}
	normalizeBooleans(records)

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues([]string{"NaN"}),
	)
	return New(name, df)
}

var booleanSpellings = map[string]string{
	"true": "true", "True": "true", "TRUE": "true",
	"false": "false", "False": "false", "FALSE": "false",
}

// normalizeBooleans lowercases columns made only of true/false spellings so
// gota detects them as bool. Mixed columns are left alone.
func normalizeBooleans(records [][]string) {
	for j := range records[0] {
		seen := false
		for _, row := range records[1:] {
			if j >= len(row) || row[j] == "NaN" {
				continue
			}
			if _, ok := booleanSpellings[strings.TrimSpace(row[j])]; !ok {
				seen = false
				break
			}
			seen = true
		}
		if !seen {
			continue
		}
		for _, row := range records[1:] {
			if j < len(row) && row[j] != "NaN" {
				row[j] = booleanSpellings[strings.TrimSpace(row[j])]
			}
		}
	}
}
