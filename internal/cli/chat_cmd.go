package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alexanderramin/intake/internal/cli/formatter"
	"github.com/alexanderramin/intake/internal/intake"
	"github.com/alexanderramin/intake/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCLISession is the session id the terminal chat uses when none is
// given.
const DefaultCLISession = "cli"

// chatter runs turns against an open session.
type chatter interface {
	Chat(ctx context.Context, id, message string) (intake.Reply, error)
}

var exitWords = map[string]bool{
	"exit":  true,
	"kapat": true,
	"çıkış": true,
	"q":     true,
}

// isExitWord matches case-insensitively under both default and Turkish
// casing, so "EXIT" and "ÇIKIŞ" both end the chat.
func isExitWord(s string) bool {
	s = strings.TrimSpace(s)
	return exitWords[strings.ToLower(s)] || exitWords[cases.Lower(language.Turkish).String(s)]
}

func newChatCmd(app *App) *cobra.Command {
	var (
		sessionID string
		reset     bool
		plain     bool
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Fill in a project record through conversation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			rt, err := app.runtime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()
			sessions, err := rt.sessions()
			if err != nil {
				return err
			}

			if reset {
				if err := rt.Store.Delete(ctx, sessionID); err != nil {
					return fmt.Errorf("resetting session %s: %w", sessionID, err)
				}
			}
			snap, err := sessions.Open(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("opening session %s: %w", sessionID, err)
			}

			out := cmd.OutOrStdout()
			if plain || !app.interactive() {
				return runPlainChat(ctx, app.input(), out, sessions, snap, app.interactive())
			}
			opts := []tea.ProgramOption{tea.WithOutput(out), tea.WithContext(ctx)}
			if app.In != nil {
				opts = append(opts, tea.WithInput(app.In))
			}
			p := tea.NewProgram(newChatView(ctx, sessions, snap), opts...)
			final, err := p.Run()
			if err != nil && ctx.Err() != nil {
				fmt.Fprintln(out, "\n"+formatter.MsgInterrupt)
				return nil
			}
			if err != nil {
				return err
			}
			if v, ok := final.(*chatView); ok && v.err != nil {
				return v.err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", DefaultCLISession, "session id to open or resume")
	cmd.Flags().BoolVar(&reset, "reset", false, "discard the stored record and start over")
	cmd.Flags().BoolVar(&plain, "plain", false, "line-based prompt instead of the full-screen view")
	return cmd
}

// runPlainChat is the line-oriented REPL used when stdin is not a
// terminal or --plain is given.
func runPlainChat(ctx context.Context, in io.Reader, out io.Writer, sessions chatter, snap session.Snapshot, spin bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(out, formatter.Banner())
	fmt.Fprintln(out, formatter.FormatQuestion(snap.NextQuestion))

	lines, scanErr := scanLines(ctx, in)
	for {
		fmt.Fprint(out, "\n"+formatter.UserPrefix)

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\n"+formatter.MsgInterrupt)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(out, "\n"+formatter.MsgSaved)
			return <-scanErr
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isExitWord(line) {
			fmt.Fprintln(out, "\n"+formatter.MsgSaved)
			return nil
		}

		stopSpinner := func() {}
		if spin {
			stopSpinner = formatter.StartSpinner(out, "Düşünüyorum...")
		}
		reply, err := sessions.Chat(ctx, snap.SessionID, line)
		stopSpinner()
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "\n"+formatter.FormatReply(reply))
		if reply.Ended() {
			return nil
		}
	}
}

// scanLines reads in on its own goroutine so that a pending read does not
// block cancellation. The error channel yields once the line channel closes.
func scanLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc
}
