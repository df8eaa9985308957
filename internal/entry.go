// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/halvdan/mimir/internal/api"
	"github.com/halvdan/mimir/internal/docs"
	"github.com/halvdan/mimir/internal/docservice"
	"github.com/halvdan/mimir/internal/mcpserver"
	"github.com/halvdan/mimir/internal/search"
	"github.com/halvdan/mimir/internal/snippet"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Structured JSON logger on stderr; stdout is reserved for the
	// stdio MCP transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("docs_root", cfg.Docs.Root),
		slog.String("mcp_transport", cfg.MCP.Transport),
		slog.String("log_level", cfg.App.LogLevel.String()))

	resolver, err := docs.NewResolver(cfg.Docs.Root)
	if err != nil {
		return fmt.Errorf("init document root: %w", err)
	}

	snippets := snippet.NewResolver(cfg.Docs.SnippetsDir())
	index := search.NewIndex()
	engine := search.NewEngine(index)
	svc := docservice.New(resolver, snippets, engine, cfg.Search.SnippetDepth, cfg.Search.Limit, logger)
	mcpSrv := mcpserver.New(svc)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(runCtx)

	if cfg.Docs.Watch {
		g.Go(func() error {
			return docs.Watch(gCtx, resolver.Root(), logger, func() {
				index.Invalidate(resolver.Root())
				snippets.Reset()
			})
		})
	}

	if cfg.MCP.Transport == TransportStdio {
		g.Go(func() error {
			// ServeStdio returns when stdin closes; stop the
			// watcher along with it.
			defer cancel()
			logger.Info("Serving MCP on stdio")
			return mcpSrv.ServeStdio()
		})
		g.Go(func() error {
			waitForShutdown(gCtx, logger)
			cancel()
			return nil
		})
		return g.Wait()
	}

	// HTTP mode: REST API plus streamable MCP on one server.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token))
	r.Handle("/mcp", mcpSrv.HTTPHandler("/mcp"))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		waitForShutdown(gCtx, logger)

		logger.Info("Shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// waitForShutdown blocks until a termination signal arrives or ctx ends.
func waitForShutdown(ctx context.Context, logger *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Context cancelled, initiating shutdown")
	}
}
