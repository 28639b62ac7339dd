package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/DataSum/internal/dataset"
)

// RowSlider renders the preview row-count slider.
type RowSlider struct {
	Width   int
	Label   string
	Window  dataset.RowWindow
	Focused bool
}

// NewRowSlider creates a slider for the given window
func NewRowSlider(window dataset.RowWindow, width int) *RowSlider {
	return &RowSlider{
		Width:  width,
		Label:  "Rows to preview",
		Window: window,
	}
}

// SetWindow replaces the slider state
func (s *RowSlider) SetWindow(window dataset.RowWindow) {
	s.Window = window
}

// Render renders the slider track, knob and bounds
func (s *RowSlider) Render() string {
	trackStyle := lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
	knobStyle := lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#60A5FA"}).Bold(true)

	width := s.Width
	if width < 3 {
		width = 3
	}

	if s.Window.Max == 0 {
		return mutedStyle.Render(fmt.Sprintf("%s: no rows", s.Label))
	}

	// knob position in [0, width-1]
	pos := int(s.Window.Fraction()*float64(width-1) + 0.5)

	var bar strings.Builder
	bar.WriteString(trackStyle.Render(strings.Repeat("━", pos)))
	knob := "●"
	if s.Focused {
		knob = "◉"
	}
	bar.WriteString(knobStyle.Render(knob))
	bar.WriteString(mutedStyle.Render(strings.Repeat("─", width-1-pos)))

	status := fmt.Sprintf("%d rows (%d-%d)", s.Window.Value, s.Window.Min, s.Window.Max)
	result := fmt.Sprintf("%d %s %d  %s",
		s.Window.Min, bar.String(), s.Window.Max, knobStyle.Render(status))

	if s.Label != "" {
		result = mutedStyle.Render(s.Label) + "\n" + result
	}
	return result
}
