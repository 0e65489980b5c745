package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"agentchat/internal/chat"
	"agentchat/internal/config"
	"agentchat/internal/probe"
)

const (
	appTitle        = "AI Agent Chat"
	thinkingText    = "Thinking..."
	logRingSize     = 50
	statusLineChars = 180
)

type model struct {
	cfg       config.Config
	sessionID string
	ctrl      *chat.Controller
	prober    *probe.Prober

	statusLine string
	logs       []string

	width  int
	height int

	input    textinput.Model
	timeline viewport.Model
	spinner  spinner.Model
	keys     keyMap
	theme    uiTheme
}

type promptDoneMsg struct {
	outcome chat.Outcome
}

type healthDoneMsg struct {
	err error
}

func newModel(cfg config.Config, sessionID string, ctrl *chat.Controller, prober *probe.Prober) model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 4000
	input.Placeholder = "Type your message..."
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#05ffa1"))

	timeline := viewport.New(0, 0)
	timeline.MouseWheelEnabled = true
	timeline.MouseWheelDelta = 4

	return model{
		cfg:        cfg,
		sessionID:  sessionID,
		ctrl:       ctrl,
		prober:     prober,
		statusLine: "ready · " + cfg.BaseURL,
		logs:       []string{},
		input:      input,
		timeline:   timeline,
		spinner:    sp,
		keys:       newKeyMap(),
		theme:      newTheme(),
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.cfg.ProbeOnStart {
		cmds = append(cmds, m.checkConnectionCmd())
	}
	return tea.Batch(cmds...)
}

func (m model) promptCmd(ex *chat.Exchange) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return promptDoneMsg{outcome: ctrl.Send(context.Background(), ex)}
	}
}

// checkConnectionCmd starts a probe, or returns nil while one is running.
func (m model) checkConnectionCmd() tea.Cmd {
	if !m.prober.Begin() {
		return nil
	}
	prober := m.prober
	return func() tea.Msg {
		return healthDoneMsg{err: prober.Probe(context.Background())}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderTimeline()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Check):
			cmd := m.checkConnectionCmd()
			if cmd == nil {
				break
			}
			m.statusLine = "checking " + m.cfg.BaseURL + "/health ..."
			cmds = append(cmds, cmd)
		case key.Matches(msg, m.keys.Send):
			ex, ok := m.ctrl.Begin(m.input.Value())
			if !ok {
				break
			}
			m.input.SetValue(m.ctrl.Draft().Get())
			m.statusLine = "waiting for agent..."
			m.renderTimeline()
			cmds = append(cmds, m.promptCmd(ex))
		case key.Matches(msg, m.keys.ScrollUp):
			m.timeline.LineUp(8)
		case key.Matches(msg, m.keys.ScrollDown):
			m.timeline.LineDown(8)
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			m.ctrl.SetDraft(m.input.Value())
			cmds = append(cmds, cmd)
		}
	case promptDoneMsg:
		if m.ctrl.Settle(msg.outcome) {
			if msg.outcome.Err != nil {
				m.logError(msg.outcome.Err)
			} else {
				m.statusLine = "reply received"
				m.appendLog(fmt.Sprintf("reply #%d received", msg.outcome.Exchange.ID))
			}
		}
		m.renderTimeline()
	case healthDoneMsg:
		if m.prober.Settle(msg.err) {
			if msg.err != nil {
				m.logError(msg.err)
			} else {
				m.statusLine = "backend reachable"
				m.appendLog("health check ok")
			}
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.ctrl.Pending().Get() {
			m.renderTimeline()
		}
		cmds = append(cmds, cmd)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.timeline, cmd = m.timeline.Update(msg)
		cmds = append(cmds, cmd)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) resize() {
	contentWidth := maxInt(40, m.width-4)
	m.timeline.Width = maxInt(10, contentWidth-4)
	m.timeline.Height = maxInt(3, m.height-14)
	m.input.Width = maxInt(10, contentWidth-8)
}

func (m *model) appendLog(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	m.logs = append(m.logs, fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), compactSingleLine(trimmed, 220)))
	if len(m.logs) > logRingSize {
		m.logs = m.logs[len(m.logs)-logRingSize:]
	}
}

func (m *model) logError(err error) {
	if err == nil {
		return
	}
	m.appendLog("error: " + err.Error())
	m.statusLine = "error: " + compactSingleLine(err.Error(), 160)
}
