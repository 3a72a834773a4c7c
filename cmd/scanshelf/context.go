package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"scanshelf/internal/catalog"
	"scanshelf/internal/config"
	"scanshelf/internal/logging"
)

type commandContext struct {
	configFlag   *string
	catalogFlag  *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, catalogFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		catalogFlag:  catalogFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if override := flagValue(c.catalogFlag); override != "" {
			expanded, err := config.ExpandPath(override)
			if err != nil {
				c.configErr = err
				return
			}
			cfg.Paths.Catalog = expanded
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
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
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, flagValue(c.logLevelFlag))
	})
	return c.logger, c.loggerErr
}

// withCatalog opens the configured catalog for the duration of fn.
func (c *commandContext) withCatalog(ctx context.Context, readOnly bool, fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(ctx, cfg.Paths.Catalog, catalog.Options{ReadOnly: readOnly})
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
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

// sourceDir returns the positional image path or the configured default.
func sourceDir(cfg *config.Config, args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0]
	}
	return cfg.Paths.SourceDir
}
