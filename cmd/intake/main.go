package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/intake/internal/cli"
	"github.com/alexanderramin/intake/internal/config"
	"github.com/alexanderramin/intake/internal/geo"
	"github.com/alexanderramin/intake/internal/intake"
	"github.com/alexanderramin/intake/internal/intelligence"
	"github.com/alexanderramin/intake/internal/llm"
	"github.com/alexanderramin/intake/internal/metrics"
	"github.com/alexanderramin/intake/internal/session"
	"github.com/alexanderramin/intake/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{Build: build}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	return cli.NewRootCmd(app).Execute()
}

// build wires every collaborator from the loaded configuration. Partially
// built resources are released when a later step fails.
func build(ctx context.Context, configPath string) (rt *cli.Runtime, err error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := config.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = closeLog()
		}
	}()

	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}
	defer func() {
		if err != nil {
			_ = st.Close()
		}
	}()

	m := metrics.New()

	rt = &cli.Runtime{
		Config:  cfg,
		Logger:  logger,
		Store:   st,
		Metrics: m,
		Close: func() error {
			return errors.Join(st.Close(), closeLog())
		},
	}

	llmCfg := llm.LoadConfig()
	var llmObserver llm.Observer = m
	if llmCfg.LogCalls {
		llmObserver = llm.MultiObserver{llm.NewLogObserver(logger), m}
	}
	client, err := llm.NewClient(ctx, llmCfg, llmObserver)
	if errors.Is(err, llm.ErrMissingAPIKey) {
		rt.SessionsErr = errors.New("GEMINI_API_KEY is not set; export it or choose INTAKE_LLM_PROVIDER=ollama")
		return rt, nil
	}
	if err != nil {
		return nil, err
	}

	var locator intake.Locator
	if !cfg.Geo.Disabled {
		nominatim := geo.NewNominatimClient(geo.NominatimConfig{
			Endpoint:  cfg.Geo.Endpoint,
			UserAgent: cfg.Geo.UserAgent,
			Timeout:   time.Duration(cfg.Geo.TimeoutMs) * time.Millisecond,
		})
		locator = geo.NewResolver(nominatim, geo.ResolverConfig{
			City:      cfg.Geo.City,
			Country:   cfg.Geo.Country,
			CacheSize: cfg.Geo.CacheSize,
		}, logger, m)
	}

	rt.Sessions, err = session.NewManager(session.Config{
		Store:         st,
		Interpreter:   intelligence.NewPatchInterpreter(client, time.Now),
		Locator:       locator,
		Logger:        logger,
		Observer:      intake.Observers{intake.NewLogObserver(logger), m},
		PaymentLinks:  cfg.Links(),
		OnCountChange: m.SetSessions,
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}
