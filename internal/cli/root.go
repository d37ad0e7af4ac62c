package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/alexanderramin/intake/internal/config"
	"github.com/alexanderramin/intake/internal/metrics"
	"github.com/alexanderramin/intake/internal/session"
	"github.com/alexanderramin/intake/internal/store"
	"github.com/spf13/cobra"
)

// Runtime is everything a command needs once configuration is loaded.
type Runtime struct {
	Config *config.Config
	Logger *slog.Logger
	Store  store.Store
	// Sessions is nil when the interpreter could not be built; SessionsErr
	// says why. Commands that only touch the store still work.
	Sessions    *session.Manager
	SessionsErr error
	Metrics     *metrics.Metrics
	// Close releases the store and log file.
	Close func() error
}

func (rt *Runtime) sessions() (*session.Manager, error) {
	if rt.Sessions == nil {
		if rt.SessionsErr != nil {
			return nil, rt.SessionsErr
		}
		return nil, errors.New("cli: sessions are not configured")
	}
	return rt.Sessions, nil
}

// App carries process-level wiring into the commands. Build is deferred
// until a command runs so that --config is honoured.
type App struct {
	Build func(ctx context.Context, configPath string) (*Runtime, error)

	In  io.Reader
	Out io.Writer

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// Confirm asks a yes/no question. It defaults to a huh form.
	Confirm func(title string) (bool, error)

	configPath string
}

func (a *App) runtime(ctx context.Context) (*Runtime, error) {
	if a.Build == nil {
		return nil, errors.New("cli: no runtime builder configured")
	}
	return a.Build(ctx, a.configPath)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) input() io.Reader {
	if a.In != nil {
		return a.In
	}
	return os.Stdin
}

// NewRootCmd creates the top-level "intake" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "intake",
		Short:         "Conversational intake assistant for municipal infrastructure projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "path to YAML config (default intake.yaml or $INTAKE_CONFIG_PATH)")
	if app.Out != nil {
		root.SetOut(app.Out)
		root.SetErr(app.Out)
	}
	if app.In != nil {
		root.SetIn(app.In)
	}

	root.AddCommand(
		newChatCmd(app),
		newServeCmd(app),
		newShowCmd(app),
		newResetCmd(app),
	)
	return root
}
