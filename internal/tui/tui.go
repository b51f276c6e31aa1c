// Package tui renders a live terminal preview of the mirrored workspace
// model, one cell per workspace.
package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wsmirror/wsmirror/internal/mirror"
)

// Focuser switches the daemon's focused workspace.
type Focuser interface {
	FocusWorkspace(ctx context.Context, idx int) error
}

var (
	focusedStyle  = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	nonEmptyStyle = lipgloss.NewStyle().Padding(0, 1)
	emptyStyle    = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

type workspacesMsg []mirror.DisplayedWorkspace

type streamClosedMsg struct{}

type focusErrMsg struct{ err error }

// Model is the bubbletea model for the watch view.
type Model struct {
	workspaces []mirror.DisplayedWorkspace
	updates    <-chan []mirror.DisplayedWorkspace
	focuser    Focuser
	lastErr    error
}

// New creates the watch model with the initial workspaces and the
// consumer's update channel.
func New(initial []mirror.DisplayedWorkspace, updates <-chan []mirror.DisplayedWorkspace, focuser Focuser) Model {
	return Model{workspaces: initial, updates: updates, focuser: focuser}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func waitForUpdate(updates <-chan []mirror.DisplayedWorkspace) tea.Cmd {
	return func() tea.Msg {
		workspaces, ok := <-updates
		if !ok {
			return streamClosedMsg{}
		}
		return workspacesMsg(workspaces)
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workspacesMsg:
		m.workspaces = msg
		m.lastErr = nil
		return m, waitForUpdate(m.updates)

	case streamClosedMsg:
		return m, tea.Quit

	case focusErrMsg:
		m.lastErr = msg.err
		return m, nil

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			idx := int(key[0] - '1')
			return m, m.focusCmd(idx)
		}
	}
	return m, nil
}

func (m Model) focusCmd(idx int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := m.focuser.FocusWorkspace(ctx, idx); err != nil {
			return focusErrMsg{err: err}
		}
		return nil
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	cells := make([]string, 0, len(m.workspaces))
	for _, ws := range m.workspaces {
		switch ws.Classification {
		case mirror.WorkspaceFocused:
			cells = append(cells, focusedStyle.Render(ws.Name))
		case mirror.WorkspaceNonEmpty:
			cells = append(cells, nonEmptyStyle.Render(ws.Name))
		default:
			cells = append(cells, emptyStyle.Render(ws.Name))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	b.WriteString("\n\n")

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("focus failed: "+m.lastErr.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("1-9: focus workspace · q: quit"))
	b.WriteString("\n")
	return b.String()
}
