package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSite(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSite() error {
	if c.Site.ThumbnailSize < 16 || c.Site.ThumbnailSize > 2048 {
		return fmt.Errorf("site.thumbnail_size must be between 16 and 2048, got %d", c.Site.ThumbnailSize)
	}
	return nil
}

func (c *Config) validateTools() error {
	switch c.Tools.Thumbnailer {
	case ToolExternal, ToolBuiltin:
	default:
		return fmt.Errorf("tools.thumbnailer must be %q or %q, got %q", ToolExternal, ToolBuiltin, c.Tools.Thumbnailer)
	}
	switch c.Tools.Archiver {
	case ToolExternal, ToolBuiltin:
	default:
		return fmt.Errorf("tools.archiver must be %q or %q, got %q", ToolExternal, ToolBuiltin, c.Tools.Archiver)
	}
	if c.UsesExternalThumbnailer() && c.MogrifyBinary() == "" {
		return errors.New("tools.mogrify_binary must be set when tools.thumbnailer is external")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
