package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/emoji"
)

// ListItem represents an item in a list
type ListItem struct {
	ID          string
	Title       string
	Description string
	Status      string
	Icon        string
	Data        interface{} // Store associated data
}

// List is a bordered menu with one selected item.
type List struct {
	Title       string
	Items       []ListItem
	Selected    int
	Focused     bool
	Width       int
	Height      int
	ShowNumbers bool
	ShowIcons   bool
}

// NewList creates a new list component
func NewList(title string, width, height int) *List {
	return &List{
		Title:       title,
		Width:       width,
		Height:      height,
		ShowNumbers: true,
		ShowIcons:   true,
	}
}

// AddItem adds an item to the list
func (l *List) AddItem(item *ListItem) {
	l.Items = append(l.Items, *item)
}

// GetSelectedItem returns the currently selected item
func (l *List) GetSelectedItem() *ListItem {
	if l.Selected < 0 || l.Selected >= len(l.Items) {
		return nil
	}
	return &l.Items[l.Selected]
}

// Render renders the list
func (l *List) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	focusedStyle := lipgloss.NewStyle().Background(selectedColor).Foreground(primaryColor)
	normalStyle := lipgloss.NewStyle().Foreground(secondaryColor)

	var content []string

	// Add title
	title := headerStyle.Render(l.Title)
	if l.Focused {
		title = focusedStyle.Render(title)
	}
	content = append(content, title)

	content = append(content, "")

	// Calculate visible range
	maxVisible := l.Height - 4 // Account for title and spacing
	if maxVisible < 1 {
		maxVisible = 1
	}

	startIndex := 0
	if l.Selected >= maxVisible {
		startIndex = l.Selected - maxVisible + 1
	}

	endIndex := startIndex + maxVisible
	if endIndex > len(l.Items) {
		endIndex = len(l.Items)
	}

	// Render visible items
	for i := startIndex; i < endIndex; i++ {
		content = append(content, l.renderItem(&l.Items[i], i+1, i == l.Selected))
	}

	// Add scrolling indicator
	if len(l.Items) > maxVisible {
		scrollInfo := fmt.Sprintf("(%d-%d of %d)", startIndex+1, endIndex, len(l.Items))
		content = append(content, "", normalStyle.Render(scrollInfo))
	}

	joined := lipgloss.JoinVertical(lipgloss.Left, content...)

	panelStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(secondaryColor)

	if l.Focused {
		return focusedStyle.Width(l.Width).Render(joined)
	}

	return panelStyle.Width(l.Width).Render(joined)
}

// renderItem renders a single list item
func (l *List) renderItem(item *ListItem, number int, selected bool) string {
	var parts []string

	// Add number
	if l.ShowNumbers {
		numStr := fmt.Sprintf("%2d.", number)
		parts = append(parts, numStr)
	}

	// Add icon
	if l.ShowIcons && item.Icon != "" {
		parts = append(parts, item.Icon)
	}

	// Add title
	title := item.Title
	if item.Description != "" {
		title += " - " + item.Description
	}
	parts = append(parts, title)

	line := strings.Join(parts, " ")

	// Apply styling based on status
	var style lipgloss.Style
	if selected {
		style = lipgloss.NewStyle().Background(selectedColor).Foreground(primaryColor)
	} else {
		style = lipgloss.NewStyle().Foreground(secondaryColor)
		// Apply status color
		switch item.Status {
		case "success":
			style = style.Foreground(successColor)
		case "warning":
			style = style.Foreground(warningColor)
		case "error":
			style = style.Foreground(errorColor)
		case "info":
			style = style.Foreground(primaryColor)
		}
	}

	return style.Width(l.Width - 4).Render(line)
}

// SelectID moves the selection to the item with the given ID
func (l *List) SelectID(id string) bool {
	for i := range l.Items {
		if l.Items[i].ID == id {
			l.Selected = i
			return true
		}
	}
	return false
}

// NewChartTypeList lists every chart type in menu order
func NewChartTypeList(current chart.Type, width, height int) *List {
	list := NewList("Chart Type", width, height)

	for _, t := range chart.Types {
		icon := emoji.GetEmoji("chart")
		switch t {
		case chart.TypePie:
			icon = emoji.GetEmoji("pie")
		case chart.TypeHeatmap:
			icon = emoji.GetEmoji("heatmap")
		}
		list.AddItem(&ListItem{
			ID:     string(t),
			Title:  t.Title(),
			Status: "info",
			Icon:   icon,
			Data:   t,
		})
	}
	list.SelectID(string(current))
	return list
}

// NewColumnList lists the columns offered for one chart role
func NewColumnList(role string, options []string, current string, ds *dataset.Dataset, width, height int) *List {
	list := NewList(role, width, height)
	list.ShowNumbers = false

	for _, name := range options {
		item := ListItem{ID: name, Title: name, Status: "info"}
		if col, err := ds.Column(name); err == nil {
			item.Description = col.DType
			item.Icon = emoji.ForKind(col.Kind.String())
			if col.Missing > 0 {
				item.Status = "warning"
			}
		}
		list.AddItem(&item)
	}
	if len(options) == 0 {
		list.Title = role + " (none available)"
	}
	list.SelectID(current)
	return list
}
