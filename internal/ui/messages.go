package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/DataSum/internal/dataset"
)

// Common message types shared across UI models
type datasetLoadedMsg struct {
	ds *dataset.Dataset
}

type loadErrorMsg struct {
	err error
}

// LoadCommand creates a tea command that reads path into a dataset
func LoadCommand(ctx context.Context, loader *dataset.Loader, path string) tea.Cmd {
	return func() tea.Msg {
		ds, err := loader.LoadFile(ctx, path)
		if err != nil {
			return loadErrorMsg{err: err}
		}
		return datasetLoadedMsg{ds: ds}
	}
}

// loadedCommand delivers an already loaded dataset
func loadedCommand(ds *dataset.Dataset) tea.Cmd {
	return func() tea.Msg {
		return datasetLoadedMsg{ds: ds}
	}
}
