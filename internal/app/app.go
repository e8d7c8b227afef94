package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/statusbox/internal/cms"
	"github.com/five82/statusbox/internal/config"
	"github.com/five82/statusbox/internal/logging"
	"github.com/five82/statusbox/internal/prefs"
	"github.com/five82/statusbox/internal/ui"
	"github.com/five82/statusbox/internal/widget"
)

// Options configure the statusbox application.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/statusbox/prefs.toml
	EnvFile     string // empty uses .env in the working directory
	PollEvery   int    // seconds; zero uses the config value
	DisplayMode string // empty uses the saved preference
}

// Run boots the statusbox TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Path: cfg.LogPath})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	mode, err := resolveDisplayMode(opts.DisplayMode, userPrefs.DisplayMode, logger)
	if err != nil {
		return err
	}

	client, err := cms.NewClient(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("init cms client: %w", err)
	}

	interval := resolvePollInterval(opts.PollEvery, cfg)
	w := widget.New(client, widget.Options{Interval: interval, Logger: logger})

	logger.Info("starting statusbox",
		zap.String("api_url", client.BaseURL()),
		zap.Duration("interval", interval),
		zap.String("mode", mode.String()),
	)

	stop := StartPoller(ctx, w)
	defer stop()

	return ui.Run(ui.Options{
		Context:      ctx,
		Widget:       w,
		RefreshEvery: w.Interval(),
		ThemeName:    userPrefs.Theme,
		DisplayMode:  mode,
		PrefsPath:    prefsPath,
	})
}

// resolveDisplayMode prefers the flag over the saved preference. A bad flag is
// a usage error; a bad saved value falls back to the default mode.
func resolveDisplayMode(flagValue, saved string, logger *zap.Logger) (ui.DisplayMode, error) {
	if flagValue != "" {
		mode, err := ui.ParseDisplayMode(flagValue)
		if err != nil {
			return ui.ModeBox, fmt.Errorf("display mode: %w", err)
		}
		return mode, nil
	}
	mode, err := ui.ParseDisplayMode(saved)
	if err != nil {
		logger.Warn("ignoring saved display mode", zap.Error(err))
		return ui.ModeBox, nil
	}
	return mode, nil
}
