// Package server exposes intake sessions over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/intake/internal/intake"
	"github.com/alexanderramin/intake/internal/session"
)

// Sessions is the session registry the handlers drive.
type Sessions interface {
	Create(ctx context.Context) (session.Snapshot, error)
	Chat(ctx context.Context, id, message string) (intake.Reply, error)
	Get(ctx context.Context, id string) (session.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// Options configures the HTTP server.
type Options struct {
	Sessions Sessions
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
	Addr    string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts Options) (*gin.Engine, error) {
	if opts.Sessions == nil {
		return nil, errors.New("server: sessions are required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(opts.Logger))
	registerRoutes(router, opts)
	return router, nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	router, err := NewRouter(opts)
	if err != nil {
		return err
	}
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:8000"
	}
	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			opts.Logger.Error("shutdown error", "error", err)
		}
	}()

	opts.Logger.Info("server listening", "addr", opts.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http_request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
