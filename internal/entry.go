// Package internal wires configuration, storage, the date index and the
// HTTP and MCP front ends together.
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

	"github.com/starford/almanac/internal/api"
	"github.com/starford/almanac/internal/catalog"
	"github.com/starford/almanac/internal/index"
	"github.com/starford/almanac/internal/mcpserver"
	"github.com/starford/almanac/internal/sse"
	"github.com/starford/almanac/internal/storage"
)

// core holds the components shared by the HTTP and MCP front ends.
type core struct {
	store storage.Provider
	db    *index.DB
	svc   *catalog.Service
}

// open prepares the catalog directory, the index and the service, and runs
// the initial sync.
func open(cfg *Config, logger *slog.Logger) (*core, error) {
	if err := os.MkdirAll(cfg.Catalog.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	ix := index.NewIndexer(db, cfg.Parser.NewParser(), cfg.Catalog.DateFields)
	if err := index.Sync(ix, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}
	return &core{store: store, db: db, svc: catalog.NewService(store, ix, cfg.Parser.Workers)}, nil
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Run starts the HTTP server and the catalog watcher.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := app.logger()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("parser_fallback", cfg.Parser.Fallback),
		slog.Bool("day_first", cfg.Parser.DayFirst),
		slog.String("log_level", cfg.App.LogLevel.String()))

	c, err := open(cfg, logger)
	if err != nil {
		return err
	}
	defer c.db.Close()

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", health)
	r.Get("/health/ready", health)
	r.Mount("/api", api.NewRouter(c.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return index.Watch(gCtx, c.svc.Indexer(), c.store, cfg.Catalog.Path, logger, broker.PublishRecordEvent)
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group once the server has been asked to stop so
// the watcher exits too.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdio. Logs go to the configured output,
// which must not be stdout.
func RunMCP(_ context.Context, opts ...Option) error {
	app := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	logger := app.logger()
	slog.SetDefault(logger)

	c, err := open(app.config, logger)
	if err != nil {
		return err
	}
	defer c.db.Close()

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(c.store, c.svc).ServeStdio()
}
