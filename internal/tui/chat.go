// Package tui implements the interactive chat interface.
//
// The model is a thin view over the conversation state store: it never
// mutates messages itself. User input is handed to the session controller,
// and the controller pushes snapshots back through a channel that the
// program drains one message at a time.
package tui

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/session"
)

// Theme holds the color scheme for the chat display.
type Theme struct {
	User      lipgloss.Color
	Assistant lipgloss.Color
	Agent     lipgloss.Color
	Error     lipgloss.Color
	Hint      lipgloss.Color
	Border    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	User:      lipgloss.Color("#00D787"), // green
	Assistant: lipgloss.Color("#5FAFD7"), // light blue
	Agent:     lipgloss.Color("#AF87FF"), // purple
	Error:     lipgloss.Color("#FF005F"), // red
	Hint:      lipgloss.Color("#6C6C6C"), // dim gray
	Border:    lipgloss.Color("#3A3A3A"), // dark gray
}

// Style functions for dynamic theming
func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) assistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Assistant).Bold(true)
}

func (t Theme) agentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Agent)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) borderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Border)
}

// sessionMsg carries an updated session snapshot from the controller.
type sessionMsg session.Snapshot

// submitDoneMsg reports the outcome of a Submit call.
type submitDoneMsg struct {
	err error
}

// chatModel is the bubbletea model for the chat interface.
type chatModel struct {
	controller *session.Controller
	store      *session.Store
	updates    <-chan session.Snapshot

	input   textinput.Model
	history viewport.Model
	spin    spinner.Model
	theme   Theme

	snap      session.Snapshot
	showTrace bool
	status    string
	width     int
	height    int
	ready     bool
	quitting  bool
}

// newChatModel creates a new chat model.
func newChatModel(ctrl *session.Controller, store *session.Store, updates <-chan session.Snapshot) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask a research question..."
	input.Focus()

	return chatModel{
		controller: ctrl,
		store:      store,
		updates:    updates,
		input:      input,
		history:    viewport.New(),
		spin:       spinner.New(),
		theme:      defaultTheme,
	}
}

// Init returns the initial commands (spinner tick and snapshot drain).
func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.waitForUpdate(),
	)
}

// waitForUpdate blocks on the snapshot channel and converts the next
// snapshot into a message. Re-issued after every sessionMsg.
func (m chatModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-m.updates
		if !ok {
			return nil
		}
		return sessionMsg(snap)
	}
}

// submitCmd sends the current input to the controller. Submit blocks for
// the whole stream, so it runs as a command.
func (m chatModel) submitCmd(conversationID, text string) tea.Cmd {
	return func() tea.Msg {
		return submitDoneMsg{err: m.controller.Submit(context.Background(), conversationID, text)}
	}
}

// busy reports whether the selected conversation has a response in flight.
func (m chatModel) busy() bool {
	snap, ok := m.controller.Session(m.store.Selected())
	return ok && snap.Phase != session.PhaseDone && snap.Phase != session.PhaseFailed
}

// Update handles messages and returns the updated model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.history.SetWidth(msg.Width)
		m.history.SetHeight(m.historyHeight())
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			text := m.input.Value()
			if text == "" {
				return m, nil
			}
			selected := m.store.Selected()
			if selected == "" {
				m.status = "no conversation selected"
				return m, nil
			}
			if m.busy() {
				m.status = "a response is still streaming for this conversation"
				return m, nil
			}
			m.input.Reset()
			m.status = ""
			return m, m.submitCmd(selected, text)

		case "tab":
			m.showTrace = !m.showTrace
			m.history.SetHeight(m.historyHeight())
			m.refresh()
			return m, nil

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)
			return m, cmd

		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

	case sessionMsg:
		m.snap = session.Snapshot(msg)
		m.refresh()
		return m, m.waitForUpdate()

	case submitDoneMsg:
		switch {
		case errors.Is(msg.err, session.ErrBusy):
			m.status = "a response is still streaming for this conversation"
		case msg.err != nil:
			m.status = fmt.Sprintf("send failed: %v", msg.err)
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// historyHeight computes the viewport height from the fixed chrome:
// header, status line, input line, and the optional trace panel.
func (m chatModel) historyHeight() int {
	h := m.height - 4
	if m.showTrace {
		h -= tracePanelHeight + 1
	}
	if h < 3 {
		h = 3
	}
	return h
}

// refresh rebuilds the viewport content from the store and the current
// streaming snapshot, then pins the view to the bottom.
func (m *chatModel) refresh() {
	if !m.ready {
		return
	}
	m.history.SetContent(m.renderMessages())
	m.history.GotoBottom()
}

// Run starts the interactive chat UI. The updates channel must be the
// one wired into the controller's notify callback.
func Run(ctrl *session.Controller, store *session.Store, updates <-chan session.Snapshot) error {
	p := tea.NewProgram(newChatModel(ctrl, store, updates))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}
