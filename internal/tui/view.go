package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/models"
	"github.com/venkatkonjeti/multi-agent-deep-research/internal/session"
)

// tracePanelHeight is the number of trace lines shown when the panel is open.
const tracePanelHeight = 8

// View renders the full chat screen.
func (m chatModel) View() tea.View {
	if !m.ready {
		return tea.NewView("loading...")
	}
	if m.quitting {
		return tea.NewView("")
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.history.View())
	b.WriteString("\n")
	if m.showTrace {
		b.WriteString(m.renderTracePanel())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.input.View())

	return tea.NewView(b.String())
}

// renderHeader shows the selected conversation title and stream state.
func (m chatModel) renderHeader() string {
	title := "research chat"
	if conv, ok := m.store.Get(m.store.Selected()); ok && conv.Title != "" {
		title = conv.Title
	}

	header := m.theme.assistantStyle().Render(title)
	if snap, ok := m.controller.Session(m.store.Selected()); ok {
		switch snap.Phase {
		case session.PhaseSending:
			header += "  " + m.spin.View() + m.theme.hintStyle().Render(" sending")
		case session.PhaseStreaming:
			header += "  " + m.spin.View() + m.theme.hintStyle().Render(" streaming")
		case session.PhaseReconciling:
			header += "  " + m.spin.View() + m.theme.hintStyle().Render(" syncing")
		}
	}
	return header
}

// renderStatus shows transient errors and the key hints.
func (m chatModel) renderStatus() string {
	if m.status != "" {
		return m.theme.errorStyle().Render(m.status)
	}
	return m.theme.hintStyle().Render("enter: send • tab: agent activity • esc: quit")
}

// renderMessages builds the scrollback: persisted messages from the store
// followed by the in-flight partial answer, if any.
func (m chatModel) renderMessages() string {
	selected := m.store.Selected()
	msgs := m.store.Messages(selected)

	var b strings.Builder
	for _, msg := range msgs {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	if snap, ok := m.controller.Session(selected); ok && snap.Phase == session.PhaseStreaming && snap.Tokens != "" {
		b.WriteString(m.theme.assistantStyle().Render("assistant"))
		b.WriteString("\n")
		b.WriteString(m.wrap(snap.Tokens))
		b.WriteString("\n")
	}

	return b.String()
}

// renderMessage renders a single persisted message with role label and sources.
func (m chatModel) renderMessage(msg models.Message) string {
	var label string
	switch msg.Role {
	case models.RoleUser:
		label = m.theme.userStyle().Render("you")
	case models.RoleAssistant:
		label = m.theme.assistantStyle().Render("assistant")
	default:
		label = m.theme.hintStyle().Render(msg.Role)
	}

	var b strings.Builder
	b.WriteString(label)
	b.WriteString("\n")
	b.WriteString(m.wrap(msg.Content))
	b.WriteString("\n")
	for _, src := range msg.Sources {
		b.WriteString(m.theme.hintStyle().Render("  source: " + src))
		b.WriteString("\n")
	}
	return b.String()
}

// renderTracePanel shows the most recent agent activity for the in-flight
// session. Token transport events are noise here and are filtered out.
func (m chatModel) renderTracePanel() string {
	events := visibleTrace(m.snapTraceForSelected())

	lines := make([]string, 0, tracePanelHeight)
	start := 0
	if len(events) > tracePanelHeight {
		start = len(events) - tracePanelHeight
	}
	for _, ev := range events[start:] {
		lines = append(lines, m.renderTraceLine(ev))
	}
	for len(lines) < tracePanelHeight {
		lines = append(lines, "")
	}

	panel := strings.Join(lines, "\n")
	width := m.width - 2
	if width < 10 {
		width = 10
	}
	return m.theme.borderStyle().Render(strings.Repeat("─", width)) + "\n" + panel
}

func (m chatModel) renderTraceLine(ev models.TraceEvent) string {
	agent := ev.AgentName
	if agent == "" {
		agent = "system"
	}
	line := fmt.Sprintf("%s %s", m.theme.agentStyle().Render("["+agent+"]"), ev.Message)
	if ev.EventType == models.EventAgentError {
		line = fmt.Sprintf("%s %s", m.theme.agentStyle().Render("["+agent+"]"), m.theme.errorStyle().Render(ev.Message))
	}
	return truncate(line, m.width)
}

// snapTraceForSelected returns the live trace when the last snapshot
// belongs to the selected conversation, else the last persisted trace.
func (m chatModel) snapTraceForSelected() []models.TraceEvent {
	selected := m.store.Selected()
	if m.snap.ConversationID == selected && len(m.snap.Trace) > 0 {
		return m.snap.Trace
	}
	msgs := m.store.Messages(selected)
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == models.RoleAssistant && len(msgs[i].AgentTrace) > 0 {
			return msgs[i].AgentTrace
		}
	}
	return nil
}

// visibleTrace drops transport-internal events from a trace.
func visibleTrace(events []models.TraceEvent) []models.TraceEvent {
	out := make([]models.TraceEvent, 0, len(events))
	for _, ev := range events {
		if ev.Internal() {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// wrap renders content constrained to the window width.
func (m chatModel) wrap(content string) string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}

// truncate cuts a rendered line to at most width cells.
func truncate(line string, width int) string {
	if width <= 0 || lipgloss.Width(line) <= width {
		return line
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}
