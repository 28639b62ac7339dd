package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/emoji"
)

// StatsCard represents a statistics card component
type StatsCard struct {
	Title       string
	Value       string
	Description string
	Status      string // "success", "warning", "error", "info"
	Icon        string
	Width       int
	Height      int
}

// NewStatsCard creates a new stats card
func NewStatsCard(title, value, description string) *StatsCard {
	return &StatsCard{
		Title:       title,
		Value:       value,
		Description: description,
		Status:      "info",
		Width:       20,
		Height:      3,
	}
}

// SetStatus sets the status color of the card
func (s *StatsCard) SetStatus(status string) *StatsCard {
	s.Status = status
	return s
}

// SetIcon sets the icon for the card
func (s *StatsCard) SetIcon(icon string) *StatsCard {
	s.Icon = icon
	return s
}

// SetSize sets the size of the card
func (s *StatsCard) SetSize(width, height int) *StatsCard {
	s.Width = width
	s.Height = height
	return s
}

// Render renders the stats card
func (s *StatsCard) Render() string {
	valueStyle := lipgloss.NewStyle().Foreground(statusColor(s.Status)).Bold(true)
	titleStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(secondaryColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(secondaryColor).Padding(0, 1)

	title := titleStyle.Render(s.Title)
	if s.Icon != "" {
		title = s.Icon + " " + title
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		valueStyle.Render(s.Value),
		mutedStyle.Render(s.Description),
	)

	return boxStyle.
		Width(s.Width).
		Height(s.Height).
		Render(content)
}

func statusColor(status string) lipgloss.AdaptiveColor {
	switch status {
	case "success":
		return successColor
	case "warning":
		return warningColor
	case "error":
		return errorColor
	case "info":
		return primaryColor
	}
	return secondaryColor
}

// StatsDashboard represents a collection of stats cards
type StatsDashboard struct {
	cards      []*StatsCard
	columns    int
	cardWidth  int
	cardHeight int
}

// NewStatsDashboard creates a new stats dashboard
func NewStatsDashboard(columns int) *StatsDashboard {
	return &StatsDashboard{
		columns:    columns,
		cardWidth:  20,
		cardHeight: 3,
	}
}

// AddCard adds a stats card to the dashboard
func (d *StatsDashboard) AddCard(card *StatsCard) {
	card.SetSize(d.cardWidth, d.cardHeight)
	d.cards = append(d.cards, card)
}

// SetColumns sets how many cards share a row
func (d *StatsDashboard) SetColumns(columns int) {
	d.columns = max(columns, 1)
}

// SetCardSize sets the default size for all cards
func (d *StatsDashboard) SetCardSize(width, height int) {
	d.cardWidth = width
	d.cardHeight = height
	for _, card := range d.cards {
		card.SetSize(width, height)
	}
}

// Render renders the stats dashboard
func (d *StatsDashboard) Render() string {
	if len(d.cards) == 0 {
		return ""
	}

	var rows []string

	// Group cards into rows
	for i := 0; i < len(d.cards); i += d.columns {
		end := i + d.columns
		if end > len(d.cards) {
			end = len(d.cards)
		}

		var rowCards []string
		for j := i; j < end; j++ {
			rowCards = append(rowCards, d.cards[j].Render())
		}

		row := lipgloss.JoinHorizontal(lipgloss.Top, rowCards...)
		rows = append(rows, row)
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// CreateDatasetStats creates the overview cards shown above the preview
func CreateDatasetStats(ds *dataset.Dataset) *StatsDashboard {
	dashboard := NewStatsDashboard(5)

	dashboard.AddCard(NewStatsCard(
		"Rows",
		FormatNumber(ds.Rows()),
		"Records loaded",
	).SetIcon(emoji.GetEmoji("dataset")).SetStatus("info"))

	dashboard.AddCard(NewStatsCard(
		"Columns",
		FormatNumber(ds.Cols()),
		"Fields per record",
	).SetIcon(emoji.GetEmoji("columns")).SetStatus("info"))

	numeric := len(ds.NumericColumns())
	numericStatus := "success"
	if numeric == 0 {
		numericStatus = "warning"
	}
	dashboard.AddCard(NewStatsCard(
		"Numeric",
		FormatNumber(numeric),
		"Chartable columns",
	).SetIcon(emoji.GetEmoji("numeric")).SetStatus(numericStatus))

	dashboard.AddCard(NewStatsCard(
		"Categorical",
		FormatNumber(len(ds.CategoricalColumns())),
		"Object columns",
	).SetIcon(emoji.GetEmoji("categorical")).SetStatus("info"))

	missing := 0
	for _, c := range ds.Columns() {
		missing += c.Missing
	}
	cells := ds.Rows() * ds.Cols()
	missingStatus := "success"
	rate := 0.0
	if cells > 0 {
		rate = float64(missing) / float64(cells) * 100
	}
	if rate > 10 {
		missingStatus = "error"
	} else if missing > 0 {
		missingStatus = "warning"
	}
	dashboard.AddCard(NewStatsCard(
		"Missing",
		FormatNumber(missing),
		fmt.Sprintf("%.1f%% of cells", rate),
	).SetIcon(emoji.GetEmoji("missing")).SetStatus(missingStatus))

	return dashboard
}

var numberPrinter = message.NewPrinter(language.English)

// FormatNumber formats large numbers with thousands separators
func FormatNumber(n int) string {
	return numberPrinter.Sprintf("%d", n)
}

// SummaryBox is a titled box of text lines
type SummaryBox struct {
	Title   string
	Content []string
	Width   int
}

// NewSummaryBox creates a new summary box
func NewSummaryBox(title string, width int) *SummaryBox {
	return &SummaryBox{
		Title: title,
		Width: width,
	}
}

// NewColumnSummary lists every column with its dtype in file order. Numeric
// columns get a sparkline of their values.
func NewColumnSummary(ds *dataset.Dataset, width int) *SummaryBox {
	box := NewSummaryBox(emoji.GetEmoji("columns")+" Column Types", width)

	nameWidth := 0
	for _, c := range ds.Columns() {
		nameWidth = max(nameWidth, runewidth.StringWidth(c.Name))
	}
	nameWidth = min(nameWidth, 24)

	for _, c := range ds.Columns() {
		line := fmt.Sprintf("%s %s  %-8s", emoji.ForKind(c.Kind.String()), runewidth.FillRight(Truncate(c.Name, nameWidth), nameWidth), c.DType)
		if c.Missing > 0 {
			line += fmt.Sprintf("  %s missing", FormatNumber(c.Missing))
		}
		if c.Kind == dataset.KindNumeric {
			if values, err := ds.Floats(c.Name); err == nil {
				line += "  " + NewSparklineChart(values, 16).Render()
			}
		}
		box.AddLine(line)
	}
	return box
}

// AddLine adds a line to the summary
func (s *SummaryBox) AddLine(line string) {
	s.Content = append(s.Content, line)
}

// AddKeyValue adds a key-value pair to the summary
func (s *SummaryBox) AddKeyValue(key, value string) {
	s.Content = append(s.Content, fmt.Sprintf("%-15s: %s", key, value))
}

// Render renders the summary box
func (s *SummaryBox) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(secondaryColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(secondaryColor).Padding(0, 1)

	content := make([]string, 0, len(s.Content)+2)
	content = append(content, headerStyle.Render(s.Title), "")
	for _, line := range s.Content {
		content = append(content, bodyStyle.Render(line))
	}

	joined := lipgloss.JoinVertical(lipgloss.Left, content...)
	return boxStyle.Width(s.Width).Render(joined)
}
