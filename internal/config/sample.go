package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# DataSum configuration
version: "1.0"

input:
  # auto picks the reader from the file extension (.csv, .tsv, .xlsx, .jsonl, .log)
  format: auto
  # field separator for csv input
  delimiter: ","
  # xlsx sheet to read, empty means the first sheet
  sheet: ""
  # stop after this many data rows, 0 reads everything
  max_rows: 0
  # cell values treated as missing
  nan_values: ["NA", "NaN", "<nil>"]

display:
  # rows shown by the preview slider before it is moved
  preview_rows: 10
  # lower bound of the preview slider
  min_preview_rows: 5
  theme: default      # default | dark | light
  color_mode: auto    # auto | always | never
  disable_emoji: false
  max_cell_width: 24

charts:
  default_type: line  # line | bar | scatter | histogram | box | pie | heatmap
  width: 60
  height: 16
  # 0 picks the bin count with Sturges' rule
  histogram_bins: 0
  export_dir: "."
  export_width: 6     # inches
  export_height: 4    # inches
  export_workers: 4

output:
  default_format: text  # text | json | markdown | csv
  verbose: false
  include_chart: false

logging:
  level: warn    # debug | info | warn | error
  format: text   # text | json | logfmt
`
}

// MinimalSampleConfig returns a configuration with only the common settings
func MinimalSampleConfig() string {
	return `version: "1.0"
input:
  format: auto
display:
  preview_rows: 10
charts:
  default_type: line
output:
  default_format: text
`
}
