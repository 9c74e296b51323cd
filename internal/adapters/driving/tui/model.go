// Package tui implements the interactive chat interface.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aidbot-ai/aidbot/internal/core/ports/driving"
)

// ChatPort is the TUI-facing subset of the chat service.
type ChatPort interface {
	Respond(ctx context.Context, req driving.ChatRequest) (*driving.ChatResponse, error)
}

// replyMsg carries one completed chat exchange back into the update loop.
type replyMsg struct {
	text      string
	sessionID string
	err       error
}

// line is one rendered transcript entry.
type line struct {
	speaker string
	text    string
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	chat      ChatPort
	ctx       context.Context
	input     textinput.Model
	viewport  viewport.Model
	lines     []line
	sessionID string
	userID    string
	status    string
	waiting   bool
	ready     bool
}

// New creates a new chat model. An empty sessionID starts a fresh
// conversation on the first message.
func New(chat ChatPort, userID, sessionID string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your documents"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		chat:      chat,
		ctx:       context.Background(),
		input:     ti,
		viewport:  vp,
		sessionID: sessionID,
		userID:    userID,
		status:    "Type a message and press Enter. Esc to quit.",
	}
}

// WithContext sets the context used for chat requests.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and reply events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + 1 // header, input frame, status
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = maxInt(3, vh-th)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && !m.waiting {
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.lines = append(m.lines, line{speaker: "You", text: text})
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, m.send(text)
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.sessionID = msg.sessionID
		m.lines = append(m.lines, line{speaker: "Aidbot", text: msg.text})
		m.status = "Type a message and press Enter. Esc to quit."
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Aidbot")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

// SessionID returns the session in use, once the first exchange created it.
func (m Model) SessionID() string { return m.sessionID }

// send issues the chat request off the update loop.
func (m Model) send(text string) tea.Cmd {
	ctx := m.ctx
	chat := m.chat
	req := driving.ChatRequest{Message: text, SessionID: m.sessionID, UserID: m.userID}
	return func() tea.Msg {
		resp, err := chat.Respond(ctx, req)
		if err != nil {
			return replyMsg{err: err}
		}
		return replyMsg{text: resp.Response, sessionID: resp.SessionID}
	}
}

func (m Model) renderTranscript() string {
	if len(m.lines) == 0 {
		return "No messages yet."
	}
	var sb strings.Builder
	for i, l := range m.lines {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		name := youStyle
		if l.speaker == "Aidbot" {
			name = botStyle
		}
		sb.WriteString(name.Render(l.speaker+":") + " " + l.text)
	}
	return sb.String()
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	youStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
