package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alexanderramin/intake/internal/cli/formatter"
	"github.com/alexanderramin/intake/internal/intake"
	"github.com/alexanderramin/intake/internal/session"
	"github.com/alexanderramin/intake/internal/teatest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatDriver(t *testing.T) (*teatest.Driver, *testEnv) {
	t.Helper()
	env := newTestEnv(t, "")
	snap, err := env.mgr.Open(context.Background(), "tui")
	require.NoError(t, err)
	d := teatest.New(t, newChatView(context.Background(), env.mgr, snap))
	d.Send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return d, env
}

func TestChatView_TurnUpdatesTranscript(t *testing.T) {
	d, env := newChatDriver(t)
	assert.Contains(t, d.View(), "Projenin adı ne olsun?")

	d.Submit("Nilüfer Kütüphane")

	view := d.View()
	assert.Contains(t, view, formatter.UserPrefix+"Nilüfer Kütüphane")
	assert.Contains(t, view, "Proje hakkında kısa bir açıklama girer misiniz?")
	assert.False(t, d.Quit)

	snap, err := env.mgr.Get(context.Background(), "tui")
	require.NoError(t, err)
	assert.Equal(t, "Nilüfer Kütüphane İnşaatı", snap.Project.Str("projectName"))
}

func TestChatView_BlankLineIgnored(t *testing.T) {
	d, _ := newChatDriver(t)
	d.Submit("   ")
	assert.Equal(t, 1, strings.Count(d.View(), formatter.UserPrefix), "only the input prompt")
}

func TestChatView_ExitWordQuits(t *testing.T) {
	d, _ := newChatDriver(t)
	d.Submit("çıkış")
	assert.True(t, d.Quit)
	assert.Contains(t, d.View(), formatter.MsgSaved)
}

func TestChatView_EscQuits(t *testing.T) {
	d, _ := newChatDriver(t)
	d.Key(tea.KeyEsc)
	assert.True(t, d.Quit)
}

func TestChatView_CompletionQuits(t *testing.T) {
	d, _ := newChatDriver(t)
	d.Submit("evet")
	assert.True(t, d.Quit)
	assert.Contains(t, d.View(), formatter.MsgCompleted)
	assert.NotContains(t, d.View(), "gönder", "input is hidden once the conversation ends")
}

type failingChatter struct{}

func (failingChatter) Chat(context.Context, string, string) (intake.Reply, error) {
	return intake.Reply{}, errors.New("session gone")
}

func TestChatView_ErrorQuits(t *testing.T) {
	d := teatest.New(t, newChatView(context.Background(), failingChatter{}, session.Snapshot{SessionID: "x", NextQuestion: "?"}))
	d.Submit("merhaba")

	require.True(t, d.Quit)
	v := d.Model().(*chatView)
	assert.EqualError(t, v.err, "session gone")
	assert.Contains(t, d.View(), "session gone")
}
