package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"super8/internal/config"
	"super8/internal/history"
	"super8/internal/logging"
	"super8/internal/player"
	"super8/internal/workbench"
)

// sessionCloseTimeout bounds how long a command waits for history writes after its run.
const sessionCloseTimeout = 10 * time.Second

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// session is one workbench wired to the player and, when enabled, the history store.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	bench  *workbench.Workbench
	store  *history.Store
}

func (c *commandContext) openSession() (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	runner, err := player.New(cfg.Player.Binary,
		player.WithLogger(logger),
		player.WithExtraArgs(cfg.Player.ExtraArgs),
		player.WithStopGrace(cfg.StopGrace()),
	)
	if err != nil {
		return nil, err
	}

	opts := []workbench.Option{
		workbench.WithLogger(logger),
		workbench.WithOutputExtension(cfg.Conversion.OutputExtension),
		workbench.WithOutputDir(cfg.Conversion.OutputDir),
	}
	s := &session{cfg: cfg, logger: logger}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		s.store = store
		opts = append(opts, workbench.WithRecorder(store))
	}
	bench, err := workbench.New(runner, opts...)
	if err != nil {
		_ = s.store.Close()
		return nil, err
	}
	s.bench = bench
	return s, nil
}

// close stops outstanding runs and waits for their history rows.
func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), sessionCloseTimeout)
	defer cancel()
	if err := s.bench.Close(ctx); err != nil {
		s.logger.Warn("session close timed out", logging.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close history", logging.Error(err))
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
