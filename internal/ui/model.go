// Package ui provides the Bubbletea progress view for batch generation.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FileStatus represents the state of one file in the batch.
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusGenerating
	StatusComplete
	StatusError
)

// FileProgress tracks a single output file.
type FileProgress struct {
	Path    string
	Status  FileStatus
	Started time.Time
	Elapsed time.Duration

	Samples int
	DRR     float64
	InBand  bool
	Err     error
}

// Model is the Bubbletea model for the batch view.
type Model struct {
	Files     []FileProgress
	Current   int
	Completed int
	Failed    int

	TargetDRR string
	StartTime time.Time
	Done      bool
	Cancelled bool

	Width int
}

// NewModel creates a model for the given output paths.
func NewModel(paths []string, targetDRR string) Model {
	files := make([]FileProgress, len(paths))
	for i, path := range paths {
		files[i] = FileProgress{Path: path}
	}

	return Model{
		Files:     files,
		Current:   -1,
		TargetDRR: targetDRR,
		StartTime: time.Now(),
	}
}

// Init implements tea.Model. Progress arrives through Program.Send.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Cancelled = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width

	case FileStartMsg:
		if !m.valid(msg.Index) {
			return m, nil
		}

		m.Current = msg.Index
		m.Files[msg.Index].Status = StatusGenerating
		m.Files[msg.Index].Started = time.Now()

	case FileCompleteMsg:
		if !m.valid(msg.Index) {
			return m, nil
		}

		f := &m.Files[msg.Index]
		f.Elapsed = time.Since(f.Started)
		f.Samples = msg.Samples
		f.DRR = msg.DRR
		f.InBand = msg.InBand
		f.Err = msg.Err

		if msg.Err != nil {
			f.Status = StatusError
			m.Failed++
		} else {
			f.Status = StatusComplete
			m.Completed++
		}

	case AllCompleteMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.Done {
		return renderSummary(m)
	}

	return renderProgress(m)
}

func (m Model) valid(index int) bool {
	return index >= 0 && index < len(m.Files)
}
