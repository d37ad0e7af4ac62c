package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/intake/internal/cli/formatter"
	"github.com/alexanderramin/intake/internal/session"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type chatKeyMap struct {
	Send key.Binding
	Quit key.Binding
}

var chatKeys = chatKeyMap{
	Send: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "gönder")),
	Quit: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "kaydet ve çık")),
}

// chatView is the full-screen conversation. Turns run synchronously inside
// Update; the reconciler answers as soon as the interpreter does.
type chatView struct {
	ctx      context.Context
	sessions chatter
	id       string

	input    textinput.Model
	messages []string
	ended    bool
	err      error
}

func newChatView(ctx context.Context, sessions chatter, snap session.Snapshot) *chatView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "cevabınızı yazın"
	ti.CharLimit = 1000
	ti.Focus()

	return &chatView{
		ctx:      ctx,
		sessions: sessions,
		id:       snap.SessionID,
		input:    ti,
		messages: []string{formatter.Banner(), formatter.FormatQuestion(snap.NextQuestion)},
	}
}

func (v *chatView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *chatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.input.Width = max(msg.Width-lenRunes(formatter.UserPrefix)-1, 10)
		return v, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, chatKeys.Quit):
			return v.finish(formatter.MsgSaved)
		case key.Matches(msg, chatKeys.Send):
			line := strings.TrimSpace(v.input.Value())
			v.input.Reset()
			if line == "" {
				return v, nil
			}
			return v.submit(line)
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *chatView) View() string {
	var b strings.Builder
	for _, m := range v.messages {
		b.WriteString(m)
		b.WriteString("\n\n")
	}
	if v.ended {
		return b.String()
	}
	b.WriteString(formatter.Dim(formatter.UserPrefix))
	b.WriteString(v.input.View())
	b.WriteString("\n\n")
	b.WriteString(formatter.Dim(helpLine(chatKeys.Send, chatKeys.Quit)))
	return b.String()
}

func (v *chatView) submit(line string) (tea.Model, tea.Cmd) {
	v.messages = append(v.messages, formatter.FormatUser(line))
	if isExitWord(line) {
		return v.finish(formatter.MsgSaved)
	}

	reply, err := v.sessions.Chat(v.ctx, v.id, line)
	if err != nil {
		v.err = err
		return v.finish(formatter.StyleError.Render("Hata: " + err.Error()))
	}
	v.messages = append(v.messages, formatter.FormatReply(reply))
	if reply.Ended() {
		v.ended = true
		return v, tea.Quit
	}
	return v, nil
}

func (v *chatView) finish(msg string) (tea.Model, tea.Cmd) {
	v.messages = append(v.messages, msg)
	v.ended = true
	v.input.Blur()
	return v, tea.Quit
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func lenRunes(s string) int { return len([]rune(s)) }
