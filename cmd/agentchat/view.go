package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"agentchat/internal/probe"
	"agentchat/internal/transcript"
)

func (m model) View() string {
	header := m.renderHeader()
	content := m.renderContent()
	input := m.renderInput()
	footer := m.renderFooter()
	out := lipgloss.JoinVertical(lipgloss.Left, header, content, input, footer)
	return m.theme.root.Render(out)
}

func (m *model) renderHeader() string {
	segments := []string{
		m.theme.title.Render(appTitle),
		" ",
		m.renderConnection(),
	}
	if m.sessionID != "" {
		segments = append(segments, "  ", m.theme.helpText.Render("session "+shortID(m.sessionID)))
	}
	joined := lipgloss.JoinHorizontal(lipgloss.Left, segments...)
	return m.theme.header.Width(maxInt(20, m.width-4)).Render(joined)
}

// renderConnection draws the check button and, once a check has run, the
// status indicator next to it.
func (m *model) renderConnection() string {
	status := m.prober.Status().Get()
	button := m.theme.button.Render("Check Connection")
	if status == probe.StatusChecking {
		button = m.theme.buttonBusy.Render("Checking...")
	}
	label := connectionLabel(status)
	if label == "" {
		return button
	}
	return button + " " + m.theme.indicator[status].Render(label)
}

func connectionLabel(status probe.Status) string {
	switch status {
	case probe.StatusConnected:
		return "✓ Connected"
	case probe.StatusError:
		return "✕ Not Connected"
	case probe.StatusChecking:
		return "⋯ Checking"
	default:
		return ""
	}
}

func (m *model) renderContent() string {
	contentWidth := maxInt(40, m.width-4)
	contentHeight := maxInt(5, m.height-12)
	panel := m.theme.panel.Width(contentWidth).Height(contentHeight)
	return panel.Render(m.theme.panelTitle.Render("Conversation") + "\n" + m.timeline.View())
}

func (m *model) renderTimeline() {
	m.timeline.SetContent(m.transcriptText(m.timeline.Width))
	m.timeline.GotoBottom()
}

func (m *model) transcriptText(width int) string {
	messages := m.ctrl.Transcript().Messages()
	bodyWidth := maxInt(10, width-2)
	var b strings.Builder
	if len(messages) == 0 && !m.ctrl.Pending().Get() {
		b.WriteString(m.theme.helpText.Render("No messages yet. Type below and press Enter."))
	}
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.theme.roleLabel[msg.Role].Render(roleLabel(msg.Role)))
		b.WriteString("\n")
		b.WriteString(m.theme.roleBody[msg.Role].Render(wrapText(msg.Content, bodyWidth)))
	}
	if m.ctrl.Pending().Get() {
		if len(messages) > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.theme.roleLabel[transcript.RoleAgent].Render(roleLabel(transcript.RoleAgent)))
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + m.theme.helpText.Render(thinkingText))
	}
	return b.String()
}

func roleLabel(role transcript.Role) string {
	switch role {
	case transcript.RoleUser:
		return "you"
	case transcript.RoleAgent:
		return "agent"
	case transcript.RoleError:
		return "error"
	default:
		return string(role)
	}
}

func (m *model) renderInput() string {
	contentWidth := maxInt(40, m.width-4)
	inputView := m.input.View()
	if m.ctrl.Pending().Get() {
		inputView = m.spinner.View() + " waiting for agent... " + inputView
	}
	return m.theme.inputPanel.Width(contentWidth).Render(inputView)
}

func (m *model) renderFooter() string {
	contentWidth := maxInt(40, m.width-4)
	statusStyle := m.theme.status
	lower := strings.ToLower(m.statusLine)
	if strings.Contains(lower, "failed") || strings.Contains(lower, "error") {
		statusStyle = m.theme.errorStatus
	}
	line := statusStyle.Render(compactSingleLine(m.statusLine, statusLineChars))
	hints := make([]string, 0, len(m.keys.hints()))
	for _, binding := range m.keys.hints() {
		help := binding.Help()
		hints = append(hints, fmt.Sprintf("%s %s", help.Key, help.Desc))
	}
	return m.theme.footer.Width(contentWidth).Render(line + "\n" + m.theme.helpText.Render("Keys: "+strings.Join(hints, " · ")))
}

func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return ansi.Wrap(text, width, "")
}

func compactSingleLine(text string, limit int) string {
	line := strings.Join(strings.Fields(text), " ")
	if limit <= 0 {
		return line
	}
	return ansi.Truncate(line, limit, "...")
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
