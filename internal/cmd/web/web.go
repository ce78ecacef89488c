// Package web parses web server flags and runs the planner.
package web

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"posterplanner/internal/handlers"
	"posterplanner/internal/platform/config"
	"posterplanner/internal/wizard"
)

const shutdownTimeout = 10 * time.Second

// Config holds web command configuration.
type Config struct {
	Addr         string        `env:"POSTERPLANNER_ADDR" envDefault:":8080"`
	BaseURL      string        `env:"POSTERPLANNER_BASE_URL"`
	CanvasWidth  float64       `env:"POSTERPLANNER_CANVAS_WIDTH" envDefault:"800"`
	CanvasHeight float64       `env:"POSTERPLANNER_CANVAS_HEIGHT" envDefault:"600"`
	DragTimeout  time.Duration `env:"POSTERPLANNER_DRAG_TIMEOUT" envDefault:"10s"`
	SessionTTL   time.Duration `env:"POSTERPLANNER_SESSION_TTL" envDefault:"2h"`
	LogLevel     string        `env:"POSTERPLANNER_LOG_LEVEL" envDefault:"info"`
	LogFormat    string        `env:"POSTERPLANNER_LOG_FORMAT" envDefault:"json"`
}

// ParseConfig parses environment and flags into Config. Flags win.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Public URL prefix for share links")
	fs.Float64Var(&cfg.CanvasWidth, "canvas-width", cfg.CanvasWidth, "Flat board width in pixels")
	fs.Float64Var(&cfg.CanvasHeight, "canvas-height", cfg.CanvasHeight, "Flat board height in pixels")
	fs.DurationVar(&cfg.DragTimeout, "drag-timeout", cfg.DragTimeout, "Release a drag after this long without pointer events")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Discard sessions idle for this long")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (json or console)")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}
	return cfg, nil
}

// SetupLogging configures the global zerolog logger.
func SetupLogging(level, format string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	case "console":
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	default:
		return fmt.Errorf("log format %q: want json or console", format)
	}
	return nil
}

// NewRouter wires middleware, static assets and every handler.
func NewRouter(store *wizard.Store, cfg Config, static fs.FS) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.AccessLog)
	r.Use(middleware.Recoverer)

	canvasHandler := handlers.NewCanvasHandler(store, cfg.BaseURL)
	canvasHandler.RegisterStream(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		if static != nil {
			r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(static))))
		}
		handlers.NewHomeHandler(store).RegisterRoutes(r)
		handlers.NewWizardHandler(store).RegisterRoutes(r)
		canvasHandler.RegisterRoutes(r)
	})
	return r
}

// Run serves the planner until ctx is canceled, then shuts down gracefully.
func Run(ctx context.Context, cfg Config, static fs.FS) error {
	if err := SetupLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	logger := log.With().Str("module", "web").Logger()

	store := wizard.NewStore(wizard.Options{
		CanvasWidth:  cfg.CanvasWidth,
		CanvasHeight: cfg.CanvasHeight,
		DragTimeout:  cfg.DragTimeout,
		SessionTTL:   cfg.SessionTTL,
	})
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(store, cfg, static),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// No WriteTimeout: it would cut the event stream.
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
