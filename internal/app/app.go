package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/datanaut/fichas/internal/api"
	"github.com/datanaut/fichas/internal/config"
	"github.com/datanaut/fichas/internal/intake"
	"github.com/datanaut/fichas/internal/prefs"
	"github.com/datanaut/fichas/internal/state"
	"github.com/datanaut/fichas/internal/ui"
	"github.com/datanaut/fichas/internal/workflow"
)

// Options configure the fichas application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/fichas/prefs.toml
	BaseURL    string // overrides config and environment when set
	OutputDir  string // overrides config and prefs when set
	PollEvery  int    // seconds; zero uses default
	Verbose    bool
}

// loadConfig resolves the output directory as --out, then the last directory
// saved in prefs, then the config file.
func loadConfig(opts Options) (config.Config, prefs.Prefs, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, prefs.Prefs{}, fmt.Errorf("load config: %w", err)
	}
	userPrefs, _ := prefs.Load(opts.PrefsPath)
	cfg = cfg.WithBaseURL(opts.BaseURL).
		WithOutputDir(userPrefs.OutputDir).
		WithOutputDir(opts.OutputDir)
	return cfg, userPrefs, nil
}

// Run boots the interactive TUI until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	cfg, userPrefs, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closer, err := openLogFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	client, err := api.NewClient(cfg, logger.With("component", "api"))
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := &state.Store{}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}
	StartPoller(ctx, store, client, interval, logger.With("component", "poller"))

	logger.Info("starting tui", "api", client.BaseURL(), "output_dir", cfg.OutputDir)

	return ui.Run(ui.Options{
		Context:   ctx,
		Processor: client,
		Prober:    intake.NewProber(),
		Saver:     workflow.FileSaver{Dir: cfg.OutputDir},
		Store:     store,
		Config:    &cfg,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Logger:    logger.With("component", "ui"),
	})
}

func newHeadlessClient(opts Options) (config.Config, *api.Client, *slog.Logger, error) {
	cfg, _, err := loadConfig(opts)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger := stderrLogger(opts.Verbose)
	client, err := api.NewClient(cfg, logger.With("component", "api"))
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("init api client: %w", err)
	}
	return cfg, client, logger, nil
}
