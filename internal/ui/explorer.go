package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yildizm/DataSum/internal/analyzer"
	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/emoji"
	"github.com/yildizm/DataSum/internal/logger"
	"github.com/yildizm/DataSum/internal/ui/components"
)

// View represents different explorer views
type View int

const (
	ViewLoading View = iota
	ViewPreview
	ViewStatistics
	ViewColumns
	ViewChart
	ViewRecord
	ViewHelp
	ViewError
)

// tabs are the views reachable with 1-4 and tab, in order
var tabs = []View{ViewPreview, ViewStatistics, ViewColumns, ViewChart}

func (v View) String() string {
	switch v {
	case ViewLoading:
		return "Loading"
	case ViewPreview:
		return "Preview"
	case ViewStatistics:
		return "Statistics"
	case ViewColumns:
		return "Columns"
	case ViewChart:
		return "Chart"
	case ViewRecord:
		return "Record"
	case ViewHelp:
		return "Help"
	case ViewError:
		return "Error"
	}
	return "Unknown"
}

// Options configure the explorer
type Options struct {
	// Path is loaded with Loader when Dataset is nil
	Path    string
	Loader  *dataset.Loader
	Dataset *dataset.Dataset

	PreviewRows    int
	MinPreviewRows int
	HistogramBins  int
	ChartType      chart.Type
	ChartWidth     int
	ChartHeight    int
	MaxCellWidth   int

	Logger *logger.Logger
}

// Model is the Bubble Tea model of the dataset explorer
type Model struct {
	opts   Options
	keys   keyMap
	styles *Styles

	help     help.Model
	spinner  spinner.Model
	table    table.Model
	viewport viewport.Model
	record   *components.RecordViewer

	engine   *analyzer.DatasetEngine
	ds       *dataset.Dataset
	analysis *analyzer.Analysis
	request  chart.Request

	view     View
	previous View
	width    int
	height   int
	err      error
	quitting bool
	logger   *logger.Logger
}

// NewModel creates an explorer model
func NewModel(opts Options) *Model {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = analyzer.DefaultPreviewRows
	}
	if opts.MinPreviewRows < analyzer.DefaultMinPreviewRows {
		opts.MinPreviewRows = analyzer.DefaultMinPreviewRows
	}
	if opts.ChartType == "" {
		opts.ChartType = chart.TypeLine
	}
	if opts.ChartWidth <= 0 {
		opts.ChartWidth = 60
	}
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = 16
	}
	if opts.MaxCellWidth <= 0 {
		opts.MaxCellWidth = 20
	}
	if opts.Logger == nil {
		opts.Logger = logger.New("ui", nil)
	}

	styles := GetStyles()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.Header

	t := table.New(table.WithFocused(true), table.WithHeight(10))
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Theme.Border).
		BorderBottom(true).
		Foreground(styles.Theme.Primary).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(styles.Theme.Primary).
		Background(styles.Theme.Selected).
		Bold(true)
	t.SetStyles(ts)

	return &Model{
		opts:     opts,
		keys:     defaultKeyMap(),
		styles:   styles,
		help:     help.New(),
		spinner:  sp,
		table:    t,
		viewport: viewport.New(80, 20),
		engine:   analyzer.NewEngine(opts.HistogramBins, opts.Logger),
		request:  chart.Request{Type: opts.ChartType},
		view:     ViewLoading,
		width:    80,
		height:   24,
		logger:   opts.Logger,
	}
}

// Init starts loading the dataset
func (m *Model) Init() tea.Cmd {
	if m.opts.Dataset != nil {
		return loadedCommand(m.opts.Dataset)
	}
	loader := m.opts.Loader
	if loader == nil {
		loader = dataset.NewLoader(dataset.DefaultOptions(), m.logger)
	}
	return tea.Batch(m.spinner.Tick, LoadCommand(context.Background(), loader, m.opts.Path))
}

// Update handles messages and navigation
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case datasetLoadedMsg:
		return m.handleLoaded(msg)
	case loadErrorMsg:
		m.fail(msg.err)
		return m, nil
	case spinner.TickMsg:
		if m.view != ViewLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m *Model) handleLoaded(msg datasetLoadedMsg) (tea.Model, tea.Cmd) {
	m.ds = msg.ds
	m.engine.WithPreview(m.opts.PreviewRows, m.opts.MinPreviewRows).WithChart(m.request)

	analysis, err := m.engine.Analyze(context.Background(), m.ds)
	if err != nil {
		m.fail(err)
		return m, nil
	}
	m.analysis = analysis
	m.request = analysis.Chart.Request
	m.record = components.NewRecordViewer("Record", m.ds, m.contentWidth(), m.contentHeight())
	m.syncTable()
	m.view = ViewPreview

	m.logger.DebugWithFields("dataset ready", []logger.Field{
		logger.F("dataset", m.ds.Name),
		logger.Count(m.ds.Rows()),
	})
	return m, nil
}

func (m *Model) fail(err error) {
	m.err = err
	m.view = ViewError
	m.logger.Debug("explorer error: %v", err)
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.view == ViewLoading || m.view == ViewError {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m.handleEscape()
	case key.Matches(msg, m.keys.Help):
		m.showView(ViewHelp)
		return m, nil
	case key.Matches(msg, m.keys.Preview):
		m.showView(ViewPreview)
		return m, nil
	case key.Matches(msg, m.keys.Statistics):
		m.showView(ViewStatistics)
		return m, nil
	case key.Matches(msg, m.keys.Columns):
		m.showView(ViewColumns)
		return m, nil
	case key.Matches(msg, m.keys.Chart):
		m.showView(ViewChart)
		return m, nil
	case key.Matches(msg, m.keys.NextView):
		m.showView(m.cycleTab(1))
		return m, nil
	case key.Matches(msg, m.keys.PrevView):
		m.showView(m.cycleTab(-1))
		return m, nil
	case key.Matches(msg, m.keys.MoreRows):
		m.moveSlider(1)
		return m, nil
	case key.Matches(msg, m.keys.FewerRows):
		m.moveSlider(-1)
		return m, nil
	}

	switch m.view {
	case ViewPreview:
		return m.handlePreviewKey(msg)
	case ViewRecord:
		return m.handleRecordKey(msg)
	case ViewChart:
		if handled := m.handleChartKey(msg); handled {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SliderRight):
		m.moveSlider(1)
		return m, nil
	case key.Matches(msg, m.keys.SliderLeft):
		m.moveSlider(-1)
		return m, nil
	case key.Matches(msg, m.keys.Open):
		if m.ds.Rows() == 0 {
			return m, nil
		}
		m.record.SetIndex(m.table.Cursor())
		m.showView(ViewRecord)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) handleRecordKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.SliderRight):
		m.record.Next()
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.SliderLeft):
		m.record.Previous()
	}
	return m, nil
}

// handleChartKey cycles chart type and columns. It reports whether the key
// was consumed.
func (m *Model) handleChartKey(msg tea.KeyMsg) bool {
	req := m.request
	choices := m.engine.Selector().Choices(m.ds, req.Type)

	switch {
	case key.Matches(msg, m.keys.ChartType):
		req.Type = nextType(req.Type)
	case key.Matches(msg, m.keys.XColumn):
		req.X = nextOption(choices.X, req.X)
	case key.Matches(msg, m.keys.YColumn):
		req.Y = nextOption(choices.Y, req.Y)
	case key.Matches(msg, m.keys.Category):
		req.Category = nextOption(choices.Category, req.Category)
	case key.Matches(msg, m.keys.Value):
		req.Value = nextOption(choices.Value, req.Value)
	default:
		return false
	}

	m.selectChart(req)
	return true
}

// selectChart rebuilds the chart for req. Selector errors are fatal to the
// session and land on the error screen.
func (m *Model) selectChart(req chart.Request) {
	result, err := m.engine.Selector().Select(m.ds, req)
	if err != nil {
		m.fail(err)
		return
	}
	m.request = result.Request
	m.engine.WithChart(m.request)
	m.analysis.Chart = result
	m.refreshViewport()
}

func nextType(t chart.Type) chart.Type {
	for i, candidate := range chart.Types {
		if candidate == t {
			return chart.Types[(i+1)%len(chart.Types)]
		}
	}
	return chart.Types[0]
}

// nextOption returns the option after current, wrapping around. An unknown
// current value selects the first option.
func nextOption(options []string, current string) string {
	if len(options) == 0 {
		return current
	}
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

// handleEscape returns from help and record views
func (m *Model) handleEscape() (tea.Model, tea.Cmd) {
	if m.view == ViewHelp {
		m.showView(m.previous)
		return m, nil
	}
	m.showView(ViewPreview)
	return m, nil
}

func (m *Model) cycleTab(delta int) View {
	for i, v := range tabs {
		if v == m.view {
			return tabs[(i+delta+len(tabs))%len(tabs)]
		}
	}
	return ViewPreview
}

func (m *Model) showView(v View) {
	if v == ViewHelp && m.view != ViewHelp {
		m.previous = m.view
	}
	m.view = v
	m.viewport.GotoTop()
	m.refreshViewport()
}

// moveSlider steps the preview row count and re-slices the preview
func (m *Model) moveSlider(delta int) {
	if m.analysis == nil {
		return
	}
	w := m.analysis.Window.Step(delta)
	if w == m.analysis.Window {
		return
	}
	m.analysis.Window = w
	m.analysis.Preview = m.ds.Head(w.Value)
	m.engine.WithPreview(w.Value, m.opts.MinPreviewRows)
	m.syncTable()
}

// syncTable loads the current preview into the bubbles table
func (m *Model) syncTable() {
	preview := m.analysis.Preview

	columns := []table.Column{{Title: "#", Width: len(strconv.Itoa(max(len(preview.Rows)-1, 0)))}}
	for j, name := range preview.Columns {
		width := runewidth.StringWidth(name)
		for _, row := range preview.Rows {
			if j < len(row) {
				width = max(width, runewidth.StringWidth(row[j]))
			}
		}
		columns = append(columns, table.Column{Title: components.Truncate(name, m.opts.MaxCellWidth), Width: min(width, m.opts.MaxCellWidth)})
	}

	rows := make([]table.Row, len(preview.Rows))
	for i, row := range preview.Rows {
		cells := make(table.Row, 0, len(row)+1)
		cells = append(cells, strconv.Itoa(i))
		for _, cell := range row {
			cells = append(cells, components.Truncate(cell, m.opts.MaxCellWidth))
		}
		rows[i] = cells
	}

	cursor := m.table.Cursor()
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	m.table.SetCursor(max(cursor, 0))
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.table.SetHeight(max(m.contentHeight()-4, 3))
	m.viewport.Width = m.contentWidth()
	m.viewport.Height = m.contentHeight()
	if m.record != nil {
		m.record.Width = m.contentWidth()
		m.record.Height = m.contentHeight()
	}
	m.refreshViewport()
}

func (m *Model) contentWidth() int {
	return max(m.width-2, 20)
}

// contentHeight leaves room for the header, tab bar and footer
func (m *Model) contentHeight() int {
	return max(m.height-6, 5)
}

func (m *Model) chartSize() (int, int) {
	return min(m.opts.ChartWidth, max(m.contentWidth()-26, 20)), min(m.opts.ChartHeight, max(m.contentHeight()-2, 6))
}

// refreshViewport renders the scrollable views into the viewport
func (m *Model) refreshViewport() {
	if m.analysis == nil {
		return
	}
	switch m.view {
	case ViewStatistics:
		m.viewport.SetContent(m.renderStatistics())
	case ViewColumns:
		m.viewport.SetContent(m.renderColumns())
	case ViewChart:
		m.viewport.SetContent(m.renderChart())
	case ViewHelp:
		m.viewport.SetContent(m.renderHelp())
	}
}

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case ViewLoading:
		return m.renderLoading()
	case ViewError:
		return m.renderError()
	}

	var body string
	switch m.view {
	case ViewPreview:
		body = m.renderPreview()
	case ViewRecord:
		body = m.record.Render()
	default:
		body = m.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		body,
		m.help.View(m.keys),
	)
}

func (m *Model) renderLoading() string {
	name := m.opts.Path
	if m.opts.Dataset != nil {
		name = m.opts.Dataset.Name
	}
	text := fmt.Sprintf("%s Loading %s...", m.spinner.View(), name)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.styles.Header.Render(text))
}

func (m *Model) renderError() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Error.Render(emoji.GetEmoji("error")+" "+m.err.Error()),
		"",
		m.styles.Muted.Render("Press q to quit"),
	)
	return m.styles.Box.Render(content)
}

func (m *Model) renderHeader() string {
	title := m.styles.Title.Render(emoji.GetEmoji("rocket") + " DataSum")
	info := m.styles.Muted.Render(fmt.Sprintf("%s · %s rows × %d columns",
		m.ds.Name, components.FormatNumber(m.ds.Rows()), m.ds.Cols()))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", info)
}

func (m *Model) renderTabs() string {
	active := m.view
	if active == ViewRecord {
		active = ViewPreview
	}
	parts := make([]string, 0, len(tabs))
	for i, v := range tabs {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == active {
			parts = append(parts, m.styles.ActiveTab.Render(label))
		} else {
			parts = append(parts, m.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderPreview() string {
	slider := components.NewRowSlider(m.analysis.Window, min(40, max(m.contentWidth()-20, 10)))
	slider.Focused = true
	return lipgloss.JoinVertical(lipgloss.Left,
		slider.Render(),
		"",
		m.table.View(),
	)
}

func (m *Model) renderStatistics() string {
	dashboard := components.CreateDatasetStats(m.ds)
	if m.contentWidth() < 110 {
		dashboard.SetColumns(m.contentWidth() / 22)
	}

	describe := components.NewDataTable(m.analysis.Statistics.Table(), m.opts.MaxCellWidth)
	describe.Header = emoji.GetEmoji("statistics") + " Statistics"
	return lipgloss.JoinVertical(lipgloss.Left, dashboard.Render(), "", describe.Render())
}

func (m *Model) renderColumns() string {
	return components.NewColumnSummary(m.ds, min(m.contentWidth(), 80)).Render()
}

func (m *Model) renderChart() string {
	width, height := m.chartSize()
	sidebar := components.NewChartTypeList(m.request.Type, 24, len(chart.Types)+4).Render()
	if columns := m.columnList(); columns != nil {
		sidebar = lipgloss.JoinVertical(lipgloss.Left, sidebar, columns.Render())
	}
	canvas := components.NewChartCanvas(m.analysis.Chart, width, height).Render()

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", canvas),
		"",
		m.styles.Muted.Render(m.describeRequest()),
	)
}

// columnList shows the candidates for the chart's primary column role
func (m *Model) columnList() *components.List {
	choices := m.engine.Selector().Choices(m.ds, m.request.Type)
	switch {
	case m.request.Type == chart.TypePie:
		return components.NewColumnList("Category", choices.Category, m.request.Category, m.ds, 24, len(choices.Category)+4)
	case m.request.Type.AxisBased():
		return components.NewColumnList("X axis", choices.X, m.request.X, m.ds, 24, len(choices.X)+4)
	}
	return nil
}

// describeRequest lists the columns the chart currently uses
func (m *Model) describeRequest() string {
	req := m.request
	var parts []string
	switch {
	case req.Type == chart.TypePie:
		parts = append(parts, "category (g): "+orNone(req.Category), "value (v): "+orNone(req.Value))
	case req.Type.UsesY():
		parts = append(parts, "x (x): "+orNone(req.X), "y (y): "+orNone(req.Y))
	case req.Type.AxisBased():
		parts = append(parts, "x (x): "+orNone(req.X))
	default:
		parts = append(parts, fmt.Sprintf("%d numeric columns", len(m.ds.NumericColumns())))
	}
	return "type (c): " + req.Type.Title() + " · " + strings.Join(parts, " · ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func (m *Model) renderHelp() string {
	full := help.New()
	full.ShowAll = true
	full.Width = m.contentWidth()
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render(emoji.GetEmoji("help")+" Help"),
		"",
		full.View(m.keys),
		"",
		m.styles.Muted.Render("Press esc to go back"),
	)
}

// Analysis returns the current analysis, nil until the dataset is loaded
func (m *Model) Analysis() *analyzer.Analysis {
	return m.analysis
}

// CurrentView returns the active view
func (m *Model) CurrentView() View {
	return m.view
}

// Err returns the error shown on the error screen
func (m *Model) Err() error {
	return m.err
}

// Run runs the explorer until the user quits
func Run(opts Options) error {
	model := NewModel(opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("explorer failed: %w", err)
	}
	return model.Err()
}
