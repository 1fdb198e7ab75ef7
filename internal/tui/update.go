package tui

import (
	"context"
	"strings"

	"fragsort/internal/app"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgAssemblyReady indicates that the run has completed.
type MsgAssemblyReady struct{ Result *app.Result }

// MsgError indicates the run failed before producing a chain.
type MsgError struct{ Err error }

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.ReportViewport.Width = max(msg.Width-6, 20)
		m.ReportViewport.Height = max(msg.Height-6, 5)
		return m, nil

	case MsgAssemblyReady:
		m.Loading = false
		m.Result = msg.Result
		m.ReportViewport.SetContent(app.GenerateReport(m.Result, true))
		m.performSearch()
		m.SelectedIdx = 0
		return m, nil

	case MsgError:
		m.Err = msg.Err
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.performSearch()
				return m, nil
			case tea.KeyEsc:
				m.clearSearch()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		if m.ShowReport {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "d", "esc":
				m.ShowReport = false
				return m, nil
			}
			m.ReportViewport, cmd = m.ReportViewport.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.ShowHelp {
				m.ShowHelp = false
				return m, nil
			}
			if m.SearchActive {
				m.clearSearch()
				return m, nil
			}
			if m.ShowExcluded {
				m.ShowExcluded = false
				return m, nil
			}
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
			}
		case "down", "j":
			if m.SelectedIdx < m.listLen()-1 {
				m.SelectedIdx++
			}
		case "home", "g":
			m.SelectedIdx = 0
		case "end", "G":
			m.SelectedIdx = max(m.listLen()-1, 0)
		case "x":
			m.ShowExcluded = !m.ShowExcluded
			m.SelectedIdx = 0
		case "d":
			m.ShowReport = true
			m.ReportViewport.GotoTop()
		case "?":
			m.ShowHelp = !m.ShowHelp
		case "/":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		}
	}

	return m, cmd
}

// listLen is the length of whichever list the left panel is showing.
func (m *AppModel) listLen() int {
	if m.Result == nil {
		return 0
	}
	if m.ShowExcluded {
		return len(m.Result.Assembly.Excluded)
	}
	return len(m.FilteredIndices)
}

func (m *AppModel) clearSearch() {
	m.InputMode = false
	m.InputBuffer.Blur()
	m.InputBuffer.SetValue("")
	m.performSearch()
}

func (m *AppModel) performSearch() {
	if m.Result == nil {
		return
	}
	chain := m.Result.Assembly.Chain
	term := strings.ToLower(strings.TrimSpace(m.InputBuffer.Value()))

	m.FilteredIndices = nil
	m.SearchActive = term != ""
	for i, f := range chain {
		if term == "" || strings.Contains(strings.ToLower(string(f)), term) {
			m.FilteredIndices = append(m.FilteredIndices, i)
		}
	}

	if m.SelectedIdx >= len(m.FilteredIndices) {
		m.SelectedIdx = max(len(m.FilteredIndices)-1, 0)
	}
}

// InitAssembleCmd runs the configured reconstruction in the background.
func InitAssembleCmd(runner *app.Runner) tea.Cmd {
	return func() tea.Msg {
		res, err := runner.Run(context.Background())
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgAssemblyReady{Result: res}
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, InitAssembleCmd(m.Runner))
}
