// Package tui is the terminal dashboard served over SSH. It renders the
// same controller state the web frontend reads: asset list, chart,
// portfolio, recommendations and the advisor chat.
package tui

import (
	"context"
	"time"

	"crypto-nexus/internal/dashboard"
	"crypto-nexus/internal/domain"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller is the dashboard surface the TUI drives.
type Controller interface {
	RefreshMarket(ctx context.Context) dashboard.State
	SelectAsset(ctx context.Context, assetID string) dashboard.State
	SetWindow(ctx context.Context, days int) dashboard.State
	Regenerate(ctx context.Context) dashboard.State
	Chat(ctx context.Context, sessionID, message string) string
	Valuation() ([]domain.Asset, []domain.Holding)
	Snapshot() dashboard.State
}

type chatLine struct {
	fromUser bool
	text     string
}

type (
	stateMsg dashboard.State
	replyMsg string
	tickMsg  time.Time
)

type Model struct {
	dash      Controller
	sessionID string

	state    dashboard.State
	cursor   int
	chatOpen bool
	chatLog  []chatLine
	waiting  bool

	input   textinput.Model
	spinner spinner.Model

	width  int
	height int
}

func NewModel(dash Controller, sessionID string) Model {
	input := textinput.New()
	input.Placeholder = "Ask the advisor..."
	input.CharLimit = 280

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		dash:      dash,
		sessionID: sessionID,
		state:     dash.Snapshot(),
		input:     input,
		spinner:   sp,
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), tickCmd())

	case stateMsg:
		m.state = dashboard.State(msg)
		m.clampCursor()
		return m, nil

	case replyMsg:
		m.waiting = false
		m.chatLog = append(m.chatLog, chatLine{fromUser: false, text: string(msg)})
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.waiting {
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.chatOpen {
			return m.updateChat(msg)
		}
		return m.updateDashboard(msg)
	}
	return m, nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			return m, m.selectCmd()
		}

	case "down", "j":
		if m.cursor < len(m.state.Assets)-1 {
			m.cursor++
			return m, m.selectCmd()
		}

	case "1":
		return m, m.windowCmd(1)
	case "7":
		return m, m.windowCmd(7)
	case "3":
		return m, m.windowCmd(30)

	case "r":
		return m, m.regenerateCmd()

	case "c":
		m.chatOpen = true
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.chatOpen = false
		m.input.Blur()
		return m, nil

	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		question := m.input.Value()
		if question == "" || m.waiting {
			return m, nil
		}
		m.chatLog = append(m.chatLog, chatLine{fromUser: true, text: question})
		m.input.SetValue("")
		m.waiting = true
		return m, tea.Batch(m.chatCmd(question), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Assets) {
		m.cursor = 0
	}
	// keep the cursor on the selected asset after a refresh
	for i, a := range m.state.Assets {
		if a.ID == m.state.SelectedID {
			m.cursor = i
			return
		}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(m.dash.RefreshMarket(context.Background()))
	}
}

func (m Model) selectCmd() tea.Cmd {
	assetID := m.state.Assets[m.cursor].ID
	return func() tea.Msg {
		return stateMsg(m.dash.SelectAsset(context.Background(), assetID))
	}
}

func (m Model) windowCmd(days int) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(m.dash.SetWindow(context.Background(), days))
	}
}

func (m Model) regenerateCmd() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(m.dash.Regenerate(context.Background()))
	}
}

func (m Model) chatCmd(question string) tea.Cmd {
	return func() tea.Msg {
		return replyMsg(m.dash.Chat(context.Background(), m.sessionID, question))
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
