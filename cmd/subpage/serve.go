package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pthm/subpage"
)

func runServe(args []string) error {
	var (
		cfg     subpage.Config
		addr    string
		envFile string
		watch   bool
		verbose bool
	)
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	siteFlags(fs, &cfg)
	fs.StringVar(&addr, "addr", "", "listen address")
	fs.StringVar(&envFile, "env", ".env", "environment file")
	fs.BoolVar(&watch, "watch", false, "reset caches on file changes")
	fs.DurationVar(&cfg.Preload, "preload", 0, "preload delay")
	fs.Float64Var(&cfg.PreloadRate, "preload-rate", 0, "preloads per second")
	fs.BoolVar(&verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	if addr == "" {
		addr = envDefault("SUBPAGE_ADDR", ":8080")
	}
	if cfg.StateKey == "" {
		cfg.StateKey = os.Getenv("SUBPAGE_STATE_KEY")
	}
	cfg.Dir = siteDir(fs, 0)

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	site, err := subpage.Open(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = subpage.LoggingContext(ctx, logger)

	if watch {
		go func() {
			if err := site.Watch(ctx, cfg.Dir); err != nil {
				logger.Error("watcher stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           withLogger(site.Handler(), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving site", "dir", cfg.Dir, "addr", addr, "routes", len(site.Sitemap()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// withLogger hands logger to the site through every request context.
func withLogger(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(subpage.LoggingContext(r.Context(), logger)))
	})
}
