package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidbot-ai/aidbot/internal/core/ports/driving"
)

type stubChat struct {
	response string
	err      error
	lastReq  driving.ChatRequest
}

func (s *stubChat) Respond(_ context.Context, req driving.ChatRequest) (*driving.ChatResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "session-1"
	}
	return &driving.ChatResponse{Response: s.response, SessionID: sessionID}, nil
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestView_BeforeFirstWindowSize(t *testing.T) {
	m := New(&stubChat{}, "u1", "")

	assert.Equal(t, "Loading...", m.View())
}

func TestUpdate_EnterSendsMessage(t *testing.T) {
	chat := &stubChat{response: "the answer"}
	m := sized(New(chat, "u1", ""))
	m.input.SetValue("what is in my docs?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	require.NotNil(t, cmd)
	assert.True(t, m.waiting)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "what is in my docs?")

	msg := cmd()
	reply, ok := msg.(replyMsg)
	require.True(t, ok)
	assert.Equal(t, "the answer", reply.text)
	assert.Equal(t, "session-1", reply.sessionID)
	assert.Equal(t, "what is in my docs?", chat.lastReq.Message)
	assert.Equal(t, "u1", chat.lastReq.UserID)
}

func TestUpdate_ReplyAppendsToTranscript(t *testing.T) {
	m := sized(New(&stubChat{}, "u1", ""))

	updated, _ := m.Update(replyMsg{text: "hello back", sessionID: "session-1"})
	m = updated.(Model)

	assert.False(t, m.waiting)
	assert.Equal(t, "session-1", m.SessionID())
	assert.Contains(t, m.View(), "hello back")
}

func TestUpdate_SessionCarriesToNextRequest(t *testing.T) {
	chat := &stubChat{response: "ok"}
	m := sized(New(chat, "u1", ""))

	updated, _ := m.Update(replyMsg{text: "first", sessionID: "session-1"})
	m = updated.(Model)

	m.input.SetValue("second message")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, "session-1", chat.lastReq.SessionID)
}

func TestUpdate_ErrorShowsInStatus(t *testing.T) {
	m := sized(New(&stubChat{}, "u1", ""))
	m.waiting = true

	updated, _ := m.Update(replyMsg{err: errors.New("engine down")})
	m = updated.(Model)

	assert.False(t, m.waiting)
	assert.Contains(t, m.View(), "engine down")
}

func TestUpdate_EmptyInputDoesNothing(t *testing.T) {
	m := sized(New(&stubChat{}, "u1", ""))
	m.input.SetValue("   ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.waiting)
}

func TestUpdate_IgnoresEnterWhileWaiting(t *testing.T) {
	m := sized(New(&stubChat{}, "u1", ""))
	m.waiting = true
	m.input.SetValue("queued message")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// No new request is issued until the pending reply lands.
	assert.Nil(t, cmd)
}

func TestUpdate_EscQuits(t *testing.T) {
	m := sized(New(&stubChat{}, "u1", ""))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
