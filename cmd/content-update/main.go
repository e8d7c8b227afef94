package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/five82/statusbox/internal/cmsschema"
	"github.com/five82/statusbox/internal/config"
	"github.com/five82/statusbox/internal/contentpush"
	"github.com/five82/statusbox/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	listen := flag.String("listen", "", "listen address (optional, defaults to config content.listen)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := serve(ctx, *configPath, *listen); err != nil {
		fmt.Fprintf(os.Stderr, "content-update: %v\n", err)
		return 1
	}
	return 0
}

func serve(ctx context.Context, configPath, listen string) error {
	if err := config.LoadEnvFile(""); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, Path: "stderr"})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	schema, err := cmsschema.Load(cfg.Content.SchemaPath)
	if err != nil {
		return fmt.Errorf("load cms schema: %w", err)
	}

	client, err := contentpush.NewClient(cfg.Content.APIURL, cfg.Content.Token)
	if err != nil {
		return fmt.Errorf("init github client: %w", err)
	}
	if cfg.Content.Token == "" {
		log.Warn("GITHUB_TOKEN is not set; updates will fail until it is")
	}

	updater := contentpush.NewUpdater(client, schema, contentpush.Target{
		Repo:    cfg.Content.Repo,
		Path:    cfg.Content.Path,
		Branch:  cfg.Content.Branch,
		Message: cfg.Content.Message,
	}, nil, log)

	addr := cfg.Content.Listen
	if listen != "" {
		addr = listen
	}
	server := &http.Server{
		Addr:         addr,
		Handler:      contentpush.NewRouter(updater, schema, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server",
			zap.String("addr", addr),
			zap.String("repo", cfg.Content.Repo),
			zap.String("path", cfg.Content.Path),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	log.Info("HTTP server shutdown complete")
	return nil
}
