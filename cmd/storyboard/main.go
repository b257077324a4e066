package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/storyboard/api"
	"github.com/use-agent/storyboard/blueprint"
	"github.com/use-agent/storyboard/browser"
	"github.com/use-agent/storyboard/cache"
	"github.com/use-agent/storyboard/classify"
	"github.com/use-agent/storyboard/config"
	"github.com/use-agent/storyboard/fetch"
	"github.com/use-agent/storyboard/pipeline"
	"github.com/use-agent/storyboard/scrape"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("storyboard starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
	)

	// ── 3. Assemble the scrape tiers ────────────────────────────────
	// The browser session launches lazily on first escalation, so a
	// deployment that never needs the browser never pays for Chrome.
	fetcher := fetch.NewFetcher(cfg.Fetcher)
	session := browser.NewSession(cfg.Browser)
	defer session.Close()

	controller := scrape.NewController(fetcher, session, cfg.Scraper)

	// ── 4. Classifier chain and blueprint factory ───────────────────
	chain := classify.FromConfig(cfg.Classifier, nil)
	factory := blueprint.NewFactory(slog.Default())

	// ── 5. Pipeline with cache in front ─────────────────────────────
	cc := cache.New(cfg.Cache.MaxEntries)
	p := pipeline.New(controller, chain, factory, cc, slog.Default())

	// ── 6. Setup router and start HTTP server ───────────────────────
	startTime := time.Now()
	router := api.NewRouter(p, cfg, startTime)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// session.Close() runs via defer — kills Chrome if it was launched.
	slog.Info("storyboard stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
