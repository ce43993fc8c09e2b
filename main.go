package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sadopc/brainrot/internal/config"
	"github.com/sadopc/brainrot/internal/probe"
	"github.com/sadopc/brainrot/internal/store"
	"github.com/sadopc/brainrot/internal/tracker"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	dbPath     string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "brainrot",
		Short:         "Track how much of your day goes to focus, neutral and rot apps",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), &flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default <config dir>/brainrot/config.toml)")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "database path (overrides config)")

	root.AddCommand(newTUICmd(&flags))
	root.AddCommand(newRunCmd(&flags))
	root.AddCommand(newStatsCmd(&flags))
	root.AddCommand(newTimelineCmd(&flags))
	root.AddCommand(newCategoryCmd(&flags))
	root.AddCommand(newExportCmd(&flags))
	root.AddCommand(newClearCmd(&flags))
	return root
}

// env holds everything a command needs. close releases it.
type env struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	store      *store.Store
	tracker    *tracker.Tracker
	logFile    io.Closer
}

type envOptions struct {
	// logToStderr sends logs to stderr instead of the log file.
	logToStderr bool
	// sample wires the platform probe; query commands use a silent one.
	sample bool
}

func openEnv(flags *globalFlags, opts envOptions) (*env, error) {
	configPath := flags.configPath
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}
	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		return nil, err
	}
	if flags.dbPath != "" {
		cfg.DBPath = flags.dbPath
	}

	e := &env{cfg: cfg, configPath: configPath}
	level, _ := config.ParseLevel(cfg.LogLevel)
	var out io.Writer = os.Stderr
	if !opts.logToStderr {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		e.logFile = f
	}
	e.logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(e.logger)

	e.store, err = store.New(cfg.DBPath)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	var p tracker.Prober = probe.Static()
	if opts.sample {
		p = probe.New()
	}
	e.tracker, err = tracker.New(e.store, p,
		tracker.WithLogger(e.logger),
		tracker.WithSelf(probe.Self()),
		tracker.WithSeeds(cfg.Seeds()),
	)
	if err != nil {
		e.close()
		return nil, err
	}
	return e, nil
}

func (e *env) close() {
	if e.store != nil {
		e.store.Close()
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
}

// watchConfig pushes ignored-list edits to the running tracker until ctx ends.
func (e *env) watchConfig(ctx context.Context) {
	if _, err := os.Stat(filepath.Dir(e.configPath)); err != nil {
		e.logger.Debug("config watch disabled", "path", e.configPath, "err", err)
		return
	}
	go func() {
		err := config.Watch(ctx, e.configPath, e.logger, func(c *config.Config) {
			e.tracker.SetIgnored(c.Categories.Ignored)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			e.logger.Warn("config watch stopped", "err", err)
		}
	}()
}
