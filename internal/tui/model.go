package tui

import (
	"fragsort/internal/app"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Runner  *app.Runner
	Result  *app.Result
	Loading bool
	Err     error

	// UI State
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg

	// View Modes
	ShowExcluded bool
	ShowReport   bool
	ShowHelp     bool

	// Search State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices into the chain to show
	SearchActive    bool

	// Components
	ReportViewport viewport.Model
}

// InitialModel returns the initial state.
func InitialModel(runner *app.Runner) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Fragment substring..."
	ti.CharLimit = 64
	ti.Width = 24

	return AppModel{
		Runner:         runner,
		Loading:        true,
		InputBuffer:    ti,
		ReportViewport: viewport.New(80, 20),
	}
}
