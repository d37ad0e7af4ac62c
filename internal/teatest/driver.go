// Package teatest drives bubbletea models in tests without a tea.Program.
//
// Update is called directly and every returned Cmd is run to completion
// on the test goroutine's behalf. Cmds that block longer than cmdTimeout
// (cursor blink timers) are dropped.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	maxDepth   = 100
	cmdTimeout = 10 * time.Millisecond
)

// Driver feeds messages to a model and records whether it asked to quit.
type Driver struct {
	t     *testing.T
	model tea.Model

	// Quit is set once tea.Quit has been returned by the model.
	Quit bool
}

// New wraps model and runs its Init command.
func New(t *testing.T, model tea.Model) *Driver {
	t.Helper()
	d := &Driver{t: t, model: model}
	d.run(model.Init(), 0)
	return d
}

// Model returns the current model value.
func (d *Driver) Model() tea.Model { return d.model }

// View renders the current model.
func (d *Driver) View() string { return d.model.View() }

// Send delivers msg and drains the resulting commands. Messages sent after
// the model quit are ignored.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	if d.Quit {
		return
	}
	next, cmd := d.model.Update(msg)
	d.model = next
	d.run(cmd, 0)
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.t.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Submit types line and presses Enter.
func (d *Driver) Submit(line string) {
	d.t.Helper()
	d.Type(line)
	d.Key(tea.KeyEnter)
}

// Key sends a special key such as tea.KeyEnter or tea.KeyCtrlC.
func (d *Driver) Key(k tea.KeyType) {
	d.t.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

func (d *Driver) run(cmd tea.Cmd, depth int) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.t.Logf("teatest: command chain deeper than %d, stopping", maxDepth)
		return
	}

	msg := await(cmd)
	switch m := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range m {
			d.run(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quit = true
	default:
		if isBlink(msg) {
			return
		}
		next, nextCmd := d.model.Update(msg)
		d.model = next
		d.run(nextCmd, depth+1)
	}
}

func await(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// The cursor package keeps its blink message types unexported.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
